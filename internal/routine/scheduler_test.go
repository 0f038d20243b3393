package routine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niltonmoco5-source/The-super-bible/internal/store"
)

type recordingNotifier struct {
	mu      sync.Mutex
	fired   []string
	cues    []Sound
	failAll bool
}

func (n *recordingNotifier) Notify(_ context.Context, _ int64, item Item) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failAll {
		return fmt.Errorf("delivery refused")
	}
	n.fired = append(n.fired, item.Title)
	return nil
}

func (n *recordingNotifier) Cue(_ context.Context, _ int64, sound Sound) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cues = append(n.cues, sound)
}

// newTestScheduler seeds one chat with the given items only.
func newTestScheduler(t *testing.T, items []Item) (*Scheduler, *recordingNotifier, clock.FakeClock) {
	t.Helper()
	kv := store.NewMemory()
	book := NewBook(kv)

	data := "[]"
	if items != nil {
		data = mustJSON(t, items)
	}
	require.NoError(t, kv.Set(context.Background(), store.RoutineKey(1), data))

	notifier := &recordingNotifier{}
	clk := clock.NewFake()
	return NewScheduler(book, notifier, clk), notifier, clk
}

// Tests write the slot directly to control item ordering.
func mustJSON(t *testing.T, items []Item) string {
	t.Helper()
	data, err := json.Marshal(items)
	require.NoError(t, err)
	return string(data)
}

func TestScanFiresOncePerMinute(t *testing.T) {
	item := Item{ID: "a", Title: "Oração Matinal", Category: CategoryPrayer, Time: "07:00", ReminderActive: true, Sound: SoundHarp, Recurrence: RecurDaily}
	sched, notifier, clk := newTestScheduler(t, []Item{item})
	ctx := context.Background()

	// Monday 07:00:10
	clk.Set(time.Date(2025, 3, 3, 7, 0, 10, 0, time.UTC))
	sched.Scan(ctx, 1)
	assert.Equal(t, []string{"Oração Matinal"}, notifier.fired)
	assert.Equal(t, []Sound{SoundHarp}, notifier.cues)

	// Second tick inside the same minute: whole pass is skipped
	clk.Add(30 * time.Second)
	sched.Scan(ctx, 1)
	assert.Len(t, notifier.fired, 1)

	// Next day at 07:00 fires again
	clk.Add(24 * time.Hour)
	sched.Scan(ctx, 1)
	assert.Len(t, notifier.fired, 2)
}

func TestScanSameMinuteItemsAllFire(t *testing.T) {
	items := []Item{
		{ID: "a", Title: "Primeiro", Time: "07:00", ReminderActive: true, Sound: SoundBell, Recurrence: RecurDaily},
		{ID: "b", Title: "Segundo", Time: "07:00", ReminderActive: true, Sound: SoundNature, Recurrence: RecurDaily},
	}
	sched, notifier, clk := newTestScheduler(t, items)
	ctx := context.Background()

	clk.Set(time.Date(2025, 3, 3, 7, 0, 0, 0, time.UTC))
	sched.Scan(ctx, 1)

	// The debounce is set by the first match but the pass still visits every
	// item; only the next tick in the same minute is suppressed.
	assert.Equal(t, []string{"Primeiro", "Segundo"}, notifier.fired)

	clk.Add(30 * time.Second)
	sched.Scan(ctx, 1)
	assert.Len(t, notifier.fired, 2)
}

func TestScanRecurrenceRules(t *testing.T) {
	items := []Item{
		{ID: "wd", Title: "Dias úteis", Time: "08:00", ReminderActive: true, Sound: SoundNone, Recurrence: RecurWeekdays},
		{ID: "we", Title: "Fim de semana", Time: "08:00", ReminderActive: true, Sound: SoundNone, Recurrence: RecurWeekends},
	}
	sched, notifier, clk := newTestScheduler(t, items)
	ctx := context.Background()

	// Saturday: only the weekend item fires
	clk.Set(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	sched.Scan(ctx, 1)
	assert.Equal(t, []string{"Fim de semana"}, notifier.fired)

	// Wednesday: only the weekday item fires
	clk.Set(time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC))
	sched.Scan(ctx, 1)
	assert.Equal(t, []string{"Fim de semana", "Dias úteis"}, notifier.fired)
}

func TestScanSkipsCompletedAndInactive(t *testing.T) {
	items := []Item{
		{ID: "done", Title: "Concluído", Time: "09:00", ReminderActive: true, Completed: true, Sound: SoundHarp, Recurrence: RecurDaily},
		{ID: "off", Title: "Silenciado", Time: "09:00", ReminderActive: false, Sound: SoundHarp, Recurrence: RecurDaily},
	}
	sched, notifier, clk := newTestScheduler(t, items)

	clk.Set(time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC))
	sched.Scan(context.Background(), 1)
	assert.Empty(t, notifier.fired)
	assert.Empty(t, notifier.cues)
}

func TestScanNoCueForSilentSound(t *testing.T) {
	item := Item{ID: "s", Title: "Silencioso", Time: "10:00", ReminderActive: true, Sound: SoundNone, Recurrence: RecurDaily}
	sched, notifier, clk := newTestScheduler(t, []Item{item})

	clk.Set(time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC))
	sched.Scan(context.Background(), 1)
	assert.Equal(t, []string{"Silencioso"}, notifier.fired)
	assert.Empty(t, notifier.cues)
}

func TestScanNotifyFailureStillCues(t *testing.T) {
	item := Item{ID: "a", Title: "Oração", Time: "11:00", ReminderActive: true, Sound: SoundBell, Recurrence: RecurDaily}
	sched, notifier, clk := newTestScheduler(t, []Item{item})
	notifier.failAll = true

	clk.Set(time.Date(2025, 3, 3, 11, 0, 0, 0, time.UTC))
	sched.Scan(context.Background(), 1)

	// Notification delivery failed silently; the audio cue still played.
	assert.Empty(t, notifier.fired)
	assert.Equal(t, []Sound{SoundBell}, notifier.cues)
}

func TestScanDebounceIsPerChat(t *testing.T) {
	item := Item{ID: "a", Title: "Oração", Time: "12:00", ReminderActive: true, Sound: SoundHarp, Recurrence: RecurDaily}
	kv := store.NewMemory()
	book := NewBook(kv)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, store.RoutineKey(1), mustJSON(t, []Item{item})))
	require.NoError(t, kv.Set(ctx, store.RoutineKey(2), mustJSON(t, []Item{item})))

	notifier := &recordingNotifier{}
	clk := clock.NewFake()
	clk.Set(time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC))
	sched := NewScheduler(book, notifier, clk)

	sched.Scan(ctx, 1)
	sched.Scan(ctx, 2)
	assert.Len(t, notifier.fired, 2, "one chat's debounce must not mute another")
}
