package shift

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dangvu008/wattendo/internal/clock"
	"github.com/dangvu008/wattendo/internal/events"
	"github.com/dangvu008/wattendo/internal/storage"
	"github.com/dangvu008/wattendo/internal/validate"
)

// tuesday 2026-01-06, weekday 2.
var tuesday = time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC)

func dayShift(name string, days ...int) Shift {
	if len(days) == 0 {
		days = []int{1, 2, 3, 4, 5}
	}
	return Shift{
		Name:          name,
		DepartureTime: "07:00",
		StartTime:     "08:00",
		EndTime:       "17:00",
		DaysApplied:   days,
	}
}

func newTestRegistry(t *testing.T) (*Registry, *storage.Memory, *clock.Fake) {
	t.Helper()

	store := storage.NewMemory()
	fake := clock.NewFake(tuesday)
	// Pre-populate an empty list so tests start without the seeded defaults.
	require.NoError(t, store.Set(context.Background(), storage.WorkShiftsKey, "[]"))

	reg := NewRegistry(store, fake, events.NewBus(), zerolog.Nop())
	require.NoError(t, reg.Load(context.Background()))
	return reg, store, fake
}

func TestLoadSeedsDefaults(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	reg := NewRegistry(store, clock.NewFake(tuesday), events.NewBus(), zerolog.Nop())

	require.NoError(t, reg.Load(ctx))

	shifts := reg.Shifts()
	require.NotEmpty(t, shifts)
	assert.Equal(t, "Ca ngày", shifts[0].Name)

	active := reg.Active()
	require.NotNil(t, active)
	assert.Equal(t, shifts[0].ID, active.ID)

	// The seed is persisted, not just in memory.
	reloaded := NewRegistry(store, clock.NewFake(tuesday), events.NewBus(), zerolog.Nop())
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, shifts, reloaded.Shifts())
}

func TestAddAssignsID(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := newTestRegistry(t)

	added, err := reg.Add(ctx, dayShift("Morning"))
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.Len(t, reg.Shifts(), 1)
}

func TestAddRejectsDuplicateName(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := newTestRegistry(t)

	_, err := reg.Add(ctx, dayShift("Morning"))
	require.NoError(t, err)

	_, err = reg.Add(ctx, dayShift("  morning "))
	require.Error(t, err)
	fe, ok := validate.IsFieldError(err)
	require.True(t, ok)
	assert.Equal(t, "name", fe.Field)
	assert.Len(t, reg.Shifts(), 1)
}

func TestAddValidation(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := newTestRegistry(t)

	tests := []struct {
		name  string
		shift Shift
		field string
	}{
		{"blank name", dayShift("   "), "name"},
		{"bad departure", Shift{Name: "x", DepartureTime: "7am", StartTime: "08:00", EndTime: "17:00", DaysApplied: []int{1}}, "departureTime"},
		{"no days", Shift{Name: "x", DepartureTime: "07:00", StartTime: "08:00", EndTime: "17:00"}, "daysApplied"},
		{"day out of range", Shift{Name: "x", DepartureTime: "07:00", StartTime: "08:00", EndTime: "17:00", DaysApplied: []int{8}}, "daysApplied[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Add(ctx, tt.shift)
			require.Error(t, err)
			fe, ok := validate.IsFieldError(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
	assert.Empty(t, reg.Shifts())
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := newTestRegistry(t)

	added, err := reg.Add(ctx, dayShift("Morning"))
	require.NoError(t, err)

	added.EndTime = "18:00"
	require.NoError(t, reg.Update(ctx, added))
	assert.Equal(t, "18:00", reg.Shifts()[0].EndTime)

	// Renaming to its own name is not a duplicate.
	require.NoError(t, reg.Update(ctx, added))

	missing := dayShift("Ghost")
	missing.ID = "nope"
	assert.ErrorIs(t, reg.Update(ctx, missing), ErrNotFound)
}

func TestDeletePromotesFirstRemaining(t *testing.T) {
	ctx := context.Background()
	reg, store, _ := newTestRegistry(t)

	a, err := reg.Add(ctx, dayShift("A"))
	require.NoError(t, err)
	b, err := reg.Add(ctx, dayShift("B"))
	require.NoError(t, err)
	c, err := reg.Add(ctx, dayShift("C"))
	require.NoError(t, err)

	require.NoError(t, reg.SetActive(ctx, a.ID))
	require.NoError(t, reg.Delete(ctx, a.ID))

	active := reg.Active()
	require.NotNil(t, active)
	assert.Equal(t, b.ID, active.ID)
	assert.Len(t, reg.Shifts(), 2)

	// Deleting a non-active shift leaves the pointer alone.
	require.NoError(t, reg.Delete(ctx, c.ID))
	assert.Equal(t, b.ID, reg.Active().ID)

	// Deleting the last shift clears the pointer entirely.
	require.NoError(t, reg.Delete(ctx, b.ID))
	assert.Nil(t, reg.Active())
	_, err = store.Get(ctx, storage.ActiveShiftKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteNotFound(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := newTestRegistry(t)
	assert.ErrorIs(t, reg.Delete(ctx, "nope"), ErrNotFound)
}

func TestSetActiveNotFound(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := newTestRegistry(t)
	assert.ErrorIs(t, reg.SetActive(ctx, "nope"), ErrNotFound)
}

func TestActiveForToday(t *testing.T) {
	ctx := context.Background()
	reg, _, fake := newTestRegistry(t)

	weekdaysOnly, err := reg.Add(ctx, dayShift("Weekdays", 1, 2, 3, 4, 5))
	require.NoError(t, err)
	require.NoError(t, reg.SetActive(ctx, weekdaysOnly.ID))

	// Tuesday: applies.
	require.NotNil(t, reg.ActiveForToday())

	// Sunday (weekday 7): does not apply.
	fake.Set(time.Date(2026, 1, 11, 9, 0, 0, 0, time.UTC))
	assert.Nil(t, reg.ActiveForToday())

	// No active shift at all.
	require.NoError(t, reg.Delete(ctx, weekdaysOnly.ID))
	assert.Nil(t, reg.ActiveForToday())
}

func TestLoadDropsStaleActivePointer(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()

	shifts := []Shift{dayShift("Morning")}
	shifts[0].ID = "s1"
	data, err := json.Marshal(shifts)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, storage.WorkShiftsKey, string(data)))
	require.NoError(t, store.Set(ctx, storage.ActiveShiftKey, "deleted-shift"))

	reg := NewRegistry(store, clock.NewFake(tuesday), events.NewBus(), zerolog.Nop())
	require.NoError(t, reg.Load(ctx))
	assert.Nil(t, reg.Active())
}

func TestShiftRoundTrip(t *testing.T) {
	original := dayShift("Night", 1, 2, 3)
	original.ID = "s1"
	original.EndTime = "06:00"
	original.StartTime = "22:00"
	original.ShowSignButton = true
	original.ReminderBefore = 30
	original.ReminderAfter = 15

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Shift
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestOvernightShift(t *testing.T) {
	night := dayShift("Night")
	night.StartTime = "22:00"
	night.EndTime = "06:00"

	assert.True(t, night.IsOvernight())

	day := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)
	end, err := night.EndOn(day)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 7, 6, 0, 0, 0, time.UTC), end)

	regular := dayShift("Day")
	assert.False(t, regular.IsOvernight())
	end, err = regular.EndOn(day)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 6, 17, 0, 0, 0, time.UTC), end)
}
