package routine

import (
	"context"
	"log"
	"sync"

	"github.com/jmhodges/clock"
)

// Notifier delivers a reminder to a chat. Notify failures degrade to the
// audio cue alone; neither call is retried.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, item Item) error
	Cue(ctx context.Context, chatID int64, sound Sound)
}

// Scheduler scans routine collections once per tick and fires each matching
// item at most once per wall-clock minute. The debounce key is the minute
// string, one per chat, not per item: once a pass fires anything, later ticks
// in the same minute skip the whole pass.
type Scheduler struct {
	book     *Book
	notifier Notifier
	clk      clock.Clock

	mu        sync.Mutex
	lastFired map[int64]string
}

func NewScheduler(book *Book, notifier Notifier, clk clock.Clock) *Scheduler {
	return &Scheduler{
		book:      book,
		notifier:  notifier,
		clk:       clk,
		lastFired: make(map[int64]string),
	}
}

// Scan runs one reminder pass for the chat. The tick interval (30s) is finer
// than the schedule granularity (one minute), so a pass that fired already
// suppresses the rest of that minute.
func (s *Scheduler) Scan(ctx context.Context, chatID int64) {
	now := s.clk.Now()
	currentTime := now.Format("15:04")
	day := now.Weekday()

	s.mu.Lock()
	last := s.lastFired[chatID]
	s.mu.Unlock()
	if last == currentTime {
		return
	}

	for _, item := range s.book.Load(ctx, chatID) {
		if !item.ReminderActive || item.Completed {
			continue
		}
		if !item.Recurrence.EligibleOn(day) {
			continue
		}
		if item.Time != currentTime {
			continue
		}

		s.fire(ctx, chatID, item)

		s.mu.Lock()
		s.lastFired[chatID] = currentTime
		s.mu.Unlock()
	}
}

func (s *Scheduler) fire(ctx context.Context, chatID int64, item Item) {
	if err := s.notifier.Notify(ctx, chatID, item); err != nil {
		log.Printf("chat %d: reminder notification failed for %q: %v", chatID, item.Title, err)
	}
	if item.Sound != SoundNone {
		s.notifier.Cue(ctx, chatID, item.Sound)
	}
}
