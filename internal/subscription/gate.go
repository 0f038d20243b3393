package subscription

import (
	"context"
	"encoding/json"
	"log"

	"github.com/jmhodges/clock"

	"github.com/niltonmoco5-source/The-super-bible/internal/router"
	"github.com/niltonmoco5-source/The-super-bible/internal/store"
)

// Navigator is the slice of the view router the gate needs: force a section
// and read the current one to avoid redundant paywall navigation.
type Navigator interface {
	Navigate(chatID int64, section router.Section)
	Current(chatID int64) router.Section
}

// Gate decides whether a chat holds full access and forces navigation to the
// pricing section when the trial has run out.
type Gate struct {
	kv  store.KV
	nav Navigator
	clk clock.Clock
}

func NewGate(kv store.KV, nav Navigator, clk clock.Clock) *Gate {
	return &Gate{kv: kv, nav: nav, clk: clk}
}

// Initialize loads the chat's subscription record, creating and persisting a
// fresh trial when the slot is empty or unreadable.
func (g *Gate) Initialize(ctx context.Context, chatID int64) Info {
	info, ok := g.load(ctx, chatID)
	if ok {
		return info
	}

	info = NewTrial(g.clk.Now())
	if err := g.save(ctx, chatID, info); err != nil {
		log.Printf("chat %d: failed to persist new trial: %v", chatID, err)
	}
	return info
}

// Evaluate runs one gate cycle for the chat: recompute expiry, persist the
// record unconditionally, and navigate to pricing when the trial just ran out
// and the chat is not already there.
func (g *Gate) Evaluate(ctx context.Context, chatID int64) Info {
	info := g.Initialize(ctx, chatID)

	info, wantPaywall := Decide(info, g.clk.Now())
	if err := g.save(ctx, chatID, info); err != nil {
		log.Printf("chat %d: failed to persist subscription: %v", chatID, err)
	}

	if wantPaywall && g.nav.Current(chatID) != router.SectionPricing {
		log.Printf("chat %d: trial expired, forcing pricing view", chatID)
		g.nav.Navigate(chatID, router.SectionPricing)
	}

	return info
}

// Upgrade switches the chat to a paid tier and returns it to the chat view.
// It is the only way the tier changes.
func (g *Gate) Upgrade(ctx context.Context, chatID int64, tier Tier) Info {
	info := g.Initialize(ctx, chatID)
	info.Tier = tier
	info.IsExpired = false

	if err := g.save(ctx, chatID, info); err != nil {
		log.Printf("chat %d: failed to persist upgrade: %v", chatID, err)
	}

	g.nav.Navigate(chatID, router.SectionChat)
	return info
}

// PaywallActive reports whether the blocking paywall must be shown: an
// expired trial looking at anything but the pricing section.
func PaywallActive(info Info, section router.Section) bool {
	return info.Tier == TierTrial && info.IsExpired && section != router.SectionPricing
}

func (g *Gate) load(ctx context.Context, chatID int64) (Info, bool) {
	raw, ok, err := g.kv.Get(ctx, store.SubscriptionKey(chatID))
	if err != nil {
		log.Printf("chat %d: failed to load subscription: %v", chatID, err)
		return Info{}, false
	}
	if !ok {
		return Info{}, false
	}

	var info Info
	if err := json.Unmarshal([]byte(raw), &info); err != nil || !info.Valid() {
		log.Printf("chat %d: corrupt subscription record, starting a fresh trial: %v", chatID, err)
		return Info{}, false
	}
	return info, true
}

func (g *Gate) save(ctx context.Context, chatID int64, info Info) error {
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return g.kv.Set(ctx, store.SubscriptionKey(chatID), string(data))
}
