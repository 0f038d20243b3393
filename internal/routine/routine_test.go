package routine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niltonmoco5-source/The-super-bible/internal/store"
)

func timeWeekday(t *testing.T, date string) time.Weekday {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	return parsed.Weekday()
}

func TestLoadDefaults(t *testing.T) {
	book := NewBook(store.NewMemory())

	items := book.Load(context.Background(), 1)
	require.Len(t, items, 2)
	assert.Equal(t, "Oração Matinal", items[0].Title)
	assert.Equal(t, "07:00", items[0].Time)
}

func TestLoadCorruptSlotFallsBack(t *testing.T) {
	kv := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, store.RoutineKey(1), "][ nope"))

	items := NewBook(kv).Load(ctx, 1)
	assert.Len(t, items, 2, "corrupt slot yields the default routine")
}

func TestAddKeepsSortedByTime(t *testing.T) {
	book := NewBook(store.NewMemory())
	ctx := context.Background()

	_, err := book.Add(ctx, 1, Item{Title: "Culto Noturno", Category: CategoryPrayer, Time: "21:30", Recurrence: RecurDaily, Sound: SoundBell})
	require.NoError(t, err)
	_, err = book.Add(ctx, 1, Item{Title: "Devocional", Category: CategoryReading, Time: "06:15", Recurrence: RecurDaily, Sound: SoundNone})
	require.NoError(t, err)

	items := book.Load(ctx, 1)
	require.Len(t, items, 4)
	for i := 1; i < len(items); i++ {
		assert.LessOrEqual(t, items[i-1].Time, items[i].Time)
	}
	assert.Equal(t, "06:15", items[0].Time)
	assert.Equal(t, "21:30", items[3].Time)
}

func TestAddAssignsIDAndValidatesTime(t *testing.T) {
	book := NewBook(store.NewMemory())
	ctx := context.Background()

	item, err := book.Add(ctx, 1, Item{Title: "Vigília", Time: "23:00"})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)

	_, err = book.Add(ctx, 1, Item{Title: "Quebrado", Time: "25:99"})
	assert.Error(t, err)
}

func TestRoundTripPreservesOrder(t *testing.T) {
	kv := store.NewMemory()
	ctx := context.Background()
	book := NewBook(kv)

	times := []string{"05:00", "09:45", "12:00", "18:30", "22:15"}
	for _, at := range times {
		_, err := book.Add(ctx, 7, Item{Title: "Momento " + at, Time: at})
		require.NoError(t, err)
	}

	reloaded := NewBook(kv).Load(ctx, 7)
	require.Len(t, reloaded, 7) // 2 defaults + 5 added
	for i := 1; i < len(reloaded); i++ {
		assert.LessOrEqual(t, reloaded[i-1].Time, reloaded[i].Time)
	}
}

func TestToggles(t *testing.T) {
	book := NewBook(store.NewMemory())
	ctx := context.Background()

	items := book.Load(ctx, 1)
	id := items[0].ID

	updated, err := book.ToggleCompleted(ctx, 1, id)
	require.NoError(t, err)
	assert.True(t, updated[0].Completed)

	updated, err = book.ToggleCompleted(ctx, 1, id)
	require.NoError(t, err)
	assert.False(t, updated[0].Completed, "manual un-toggle is the only reset")

	updated, err = book.ToggleReminder(ctx, 1, id)
	require.NoError(t, err)
	assert.False(t, updated[0].ReminderActive)

	_, err = book.ToggleCompleted(ctx, 1, "missing")
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	book := NewBook(store.NewMemory())
	ctx := context.Background()

	items := book.Load(ctx, 1)
	kept, err := book.Delete(ctx, 1, items[0].ID)
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, items[1].ID, kept[0].ID)
}

func TestRecurrenceEligibility(t *testing.T) {
	assert.True(t, RecurDaily.EligibleOn(timeWeekday(t, "2025-03-01"))) // Saturday
	assert.True(t, RecurDaily.EligibleOn(timeWeekday(t, "2025-03-03"))) // Monday

	assert.True(t, RecurWeekdays.EligibleOn(timeWeekday(t, "2025-03-03")))
	assert.False(t, RecurWeekdays.EligibleOn(timeWeekday(t, "2025-03-01")))
	assert.False(t, RecurWeekdays.EligibleOn(timeWeekday(t, "2025-03-02"))) // Sunday

	assert.True(t, RecurWeekends.EligibleOn(timeWeekday(t, "2025-03-01")))
	assert.True(t, RecurWeekends.EligibleOn(timeWeekday(t, "2025-03-02")))
	assert.False(t, RecurWeekends.EligibleOn(timeWeekday(t, "2025-03-05"))) // Wednesday
}
