package favorites

import (
	"context"
	"encoding/json"
	"log"
	"strconv"

	"github.com/jmhodges/clock"

	"github.com/niltonmoco5-source/The-super-bible/internal/store"
)

// Passage is a saved bible-search result.
type Passage struct {
	ID        string `json:"id"`
	Query     string `json:"query"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// Board keeps a chat's favorite passages in one JSON slot, newest first.
type Board struct {
	kv  store.KV
	clk clock.Clock
}

func NewBoard(kv store.KV, clk clock.Clock) *Board {
	return &Board{kv: kv, clk: clk}
}

// List returns the chat's favorites. A missing or corrupt slot yields an
// empty board.
func (b *Board) List(ctx context.Context, chatID int64) []Passage {
	raw, ok, err := b.kv.Get(ctx, store.FavoritesKey(chatID))
	if err != nil {
		log.Printf("chat %d: failed to load favorites: %v", chatID, err)
		return nil
	}
	if !ok {
		return nil
	}

	var passages []Passage
	if err := json.Unmarshal([]byte(raw), &passages); err != nil {
		log.Printf("chat %d: corrupt favorites slot, starting empty: %v", chatID, err)
		return nil
	}
	return passages
}

// Toggle removes the favorite matching the query if present, otherwise
// prepends a new one. It reports whether the passage is a favorite after the
// call.
func (b *Board) Toggle(ctx context.Context, chatID int64, query, content string) (bool, error) {
	passages := b.List(ctx, chatID)

	kept := passages[:0]
	removed := false
	for _, p := range passages {
		if p.Query == query {
			removed = true
			continue
		}
		kept = append(kept, p)
	}

	if !removed {
		now := b.clk.Now()
		kept = append([]Passage{{
			ID:        strconv.FormatInt(now.UnixMilli(), 10),
			Query:     query,
			Content:   content,
			Timestamp: now.UnixMilli(),
		}}, kept...)
	}

	if err := b.save(ctx, chatID, kept); err != nil {
		return !removed, err
	}
	return !removed, nil
}

func (b *Board) save(ctx context.Context, chatID int64, passages []Passage) error {
	data, err := json.Marshal(passages)
	if err != nil {
		return err
	}
	return b.kv.Set(ctx, store.FavoritesKey(chatID), string(data))
}
