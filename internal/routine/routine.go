package routine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/niltonmoco5-source/The-super-bible/internal/store"
)

type Category string

const (
	CategoryReading Category = "reading"
	CategoryPrayer  Category = "prayer"
)

type Sound string

const (
	SoundHarp   Sound = "harp"
	SoundBell   Sound = "bell"
	SoundNature Sound = "nature"
	SoundNone   Sound = "none"
)

type Recurrence string

const (
	RecurDaily    Recurrence = "daily"
	RecurWeekdays Recurrence = "weekdays"
	RecurWeekends Recurrence = "weekends"
)

// EligibleOn reports whether the rule allows firing on the given weekday.
func (r Recurrence) EligibleOn(day time.Weekday) bool {
	switch r {
	case RecurWeekdays:
		return day >= time.Monday && day <= time.Friday
	case RecurWeekends:
		return day == time.Saturday || day == time.Sunday
	default:
		return true
	}
}

// Item is a single routine entry. Time is a wall-clock "HH:MM" 24-hour
// string; the whole collection is persisted as one JSON slot per chat.
type Item struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Category       Category   `json:"category"`
	Time           string     `json:"time"`
	Completed      bool       `json:"completed"`
	ReminderActive bool       `json:"reminderActive"`
	Sound          Sound      `json:"sound"`
	Recurrence     Recurrence `json:"recurrence"`
}

// defaultItems seeds a brand-new chat, same starter routine the app ships
// with.
func defaultItems() []Item {
	return []Item{
		{ID: "1", Title: "Oração Matinal", Category: CategoryPrayer, Time: "07:00", ReminderActive: true, Sound: SoundHarp, Recurrence: RecurDaily},
		{ID: "2", Title: "Leitura Bíblica", Category: CategoryReading, Time: "08:30", ReminderActive: true, Sound: SoundNature, Recurrence: RecurDaily},
	}
}

// Book owns a chat's routine collection: loads it from its KV slot, keeps it
// sorted by time ascending, and persists it whole on every mutation.
type Book struct {
	kv store.KV
}

func NewBook(kv store.KV) *Book {
	return &Book{kv: kv}
}

// Load returns the chat's routine. A missing or corrupt slot falls back to
// the default routine.
func (b *Book) Load(ctx context.Context, chatID int64) []Item {
	raw, ok, err := b.kv.Get(ctx, store.RoutineKey(chatID))
	if err != nil {
		log.Printf("chat %d: failed to load routine: %v", chatID, err)
		return defaultItems()
	}
	if !ok {
		return defaultItems()
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Printf("chat %d: corrupt routine slot, using defaults: %v", chatID, err)
		return defaultItems()
	}
	return items
}

func (b *Book) save(ctx context.Context, chatID int64, items []Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return b.kv.Set(ctx, store.RoutineKey(chatID), string(data))
}

// Add inserts a new item keeping the collection sorted by time and persists
// it. The generated id is returned on the item.
func (b *Book) Add(ctx context.Context, chatID int64, item Item) (Item, error) {
	if err := ValidateTime(item.Time); err != nil {
		return Item{}, err
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	items := append(b.Load(ctx, chatID), item)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Time < items[j].Time })

	if err := b.save(ctx, chatID, items); err != nil {
		return Item{}, err
	}
	return item, nil
}

// ToggleCompleted flips the done flag of one item. There is no automatic
// midnight reset; un-toggling is manual.
func (b *Book) ToggleCompleted(ctx context.Context, chatID int64, id string) ([]Item, error) {
	return b.mutate(ctx, chatID, id, func(it *Item) { it.Completed = !it.Completed })
}

func (b *Book) ToggleReminder(ctx context.Context, chatID int64, id string) ([]Item, error) {
	return b.mutate(ctx, chatID, id, func(it *Item) { it.ReminderActive = !it.ReminderActive })
}

func (b *Book) Delete(ctx context.Context, chatID int64, id string) ([]Item, error) {
	items := b.Load(ctx, chatID)
	kept := items[:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	if err := b.save(ctx, chatID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

func (b *Book) mutate(ctx context.Context, chatID int64, id string, fn func(*Item)) ([]Item, error) {
	items := b.Load(ctx, chatID)
	found := false
	for i := range items {
		if items[i].ID == id {
			fn(&items[i])
			found = true
			break
		}
	}
	if !found {
		return items, fmt.Errorf("routine item %s not found", id)
	}
	if err := b.save(ctx, chatID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// ValidateTime checks an "HH:MM" 24-hour string.
func ValidateTime(value string) error {
	if _, err := time.Parse("15:04", value); err != nil {
		return fmt.Errorf("invalid time %q, expected HH:MM: %w", value, err)
	}
	return nil
}
