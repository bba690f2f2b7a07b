package notes

import (
	"context"
	"encoding/json"
	"strings"
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

// wednesday 2026-01-07, weekday 3.
var wednesday = time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)

func note(title, content string, days ...int) Note {
	if len(days) == 0 {
		days = []int{1, 2, 3, 4, 5}
	}
	return Note{
		Title:        title,
		Content:      content,
		ReminderTime: time.Date(2026, 1, 1, 8, 30, 0, 0, time.UTC),
		ReminderDays: days,
	}
}

func newTestStore(t *testing.T) (*Store, *storage.Memory, *clock.Fake) {
	t.Helper()

	store := storage.NewMemory()
	fake := clock.NewFake(wednesday)
	s := NewStore(store, fake, events.NewBus(), zerolog.Nop())
	require.NoError(t, s.Load(context.Background()))
	return s, store, fake
}

func TestAddAndReload(t *testing.T) {
	ctx := context.Background()
	s, store, fake := newTestStore(t)

	added, err := s.Add(ctx, note("Standup", "Post the weekly summary"))
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, fake.Now(), added.CreatedAt)
	assert.Nil(t, added.UpdatedAt)

	reloaded := NewStore(store, fake, events.NewBus(), zerolog.Nop())
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, s.List(), reloaded.List())
}

func TestAddTrimsFields(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	added, err := s.Add(ctx, note("  Standup  ", "  details  "))
	require.NoError(t, err)
	assert.Equal(t, "Standup", added.Title)
	assert.Equal(t, "details", added.Content)
}

func TestValidationRejectsWithoutMutating(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newTestStore(t)

	tests := []struct {
		name  string
		note  Note
		field string
	}{
		{"blank title", note("   ", "content"), "title"},
		{"blank content", note("title", "   "), "content"},
		{"title too long", note(strings.Repeat("ữ", 101), "content"), "title"},
		{"content too long", note("title", strings.Repeat("ệ", 301)), "content"},
		{"zero reminder time", Note{Title: "t", Content: "c", ReminderDays: []int{1}}, "reminderTime"},
		{"no reminder days", Note{Title: "t", Content: "c", ReminderTime: wednesday}, "reminderDays"},
		{"day out of range", note("t", "c", 0), "reminderDays[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Add(ctx, tt.note)
			require.Error(t, err)
			fe, ok := validate.IsFieldError(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, fe.Field)
		})
	}

	assert.Empty(t, s.List())
	assert.Equal(t, 0, store.Len())
}

func TestLengthLimitsCountCharactersNotBytes(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	// 60 Vietnamese characters are 180 bytes; still well under the
	// 100-character title limit.
	_, err := s.Add(ctx, note(strings.Repeat("ữ", 60), "content"))
	require.NoError(t, err)

	// Exactly at the limits.
	_, err = s.Add(ctx, note(strings.Repeat("ề", 100), strings.Repeat("ộ", 300)))
	require.NoError(t, err)
}

func TestUpdateRefreshesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	s, _, fake := newTestStore(t)

	added, err := s.Add(ctx, note("Standup", "content"))
	require.NoError(t, err)

	fake.Advance(time.Hour)
	added.Content = "new content"
	updated, err := s.Update(ctx, added)
	require.NoError(t, err)

	assert.Equal(t, added.CreatedAt, updated.CreatedAt)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, fake.Now(), *updated.UpdatedAt)

	missing := note("Ghost", "content")
	missing.ID = "nope"
	_, err = s.Update(ctx, missing)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	added, err := s.Add(ctx, note("Standup", "content"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, added.ID))
	assert.Empty(t, s.List())
	assert.ErrorIs(t, s.Delete(ctx, added.ID), ErrNotFound)
}

func TestRecent(t *testing.T) {
	ctx := context.Background()
	s, _, fake := newTestStore(t)

	first, err := s.Add(ctx, note("first", "content"))
	require.NoError(t, err)
	fake.Advance(time.Minute)
	_, err = s.Add(ctx, note("second", "content"))
	require.NoError(t, err)
	fake.Advance(time.Minute)
	_, err = s.Add(ctx, note("third", "content"))
	require.NoError(t, err)

	// Touching the oldest note promotes it to the front.
	fake.Advance(time.Minute)
	first.Content = "updated"
	_, err = s.Update(ctx, first)
	require.NoError(t, err)

	recent := s.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "first", recent[0].Title)
	assert.Equal(t, "third", recent[1].Title)
}

func TestForToday(t *testing.T) {
	ctx := context.Background()
	s, _, fake := newTestStore(t)

	_, err := s.Add(ctx, note("weekdays", "content", 1, 2, 3, 4, 5))
	require.NoError(t, err)
	_, err = s.Add(ctx, note("weekend", "content", 6, 7))
	require.NoError(t, err)

	// Wednesday.
	today := s.ForToday()
	require.Len(t, today, 1)
	assert.Equal(t, "weekdays", today[0].Title)

	// Sunday maps to weekday 7.
	fake.Set(time.Date(2026, 1, 11, 9, 0, 0, 0, time.UTC))
	today = s.ForToday()
	require.Len(t, today, 1)
	assert.Equal(t, "weekend", today[0].Title)
}

func TestForThisWeek(t *testing.T) {
	ctx := context.Background()
	s, _, fake := newTestStore(t)

	// Added last week.
	fake.Set(time.Date(2025, 12, 30, 9, 0, 0, 0, time.UTC))
	old, err := s.Add(ctx, note("old", "content"))
	require.NoError(t, err)

	// Added this week.
	fake.Set(wednesday)
	_, err = s.Add(ctx, note("fresh", "content"))
	require.NoError(t, err)

	week := s.ForThisWeek()
	require.Len(t, week, 1)
	assert.Equal(t, "fresh", week[0].Title)

	// Updating the old note this week pulls it into the window.
	old.Content = "touched"
	_, err = s.Update(ctx, old)
	require.NoError(t, err)
	assert.Len(t, s.ForThisWeek(), 2)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	_, err := s.Add(ctx, note("Gửi báo cáo", "weekly report for ABC team"))
	require.NoError(t, err)
	_, err = s.Add(ctx, note("Standup", "daily sync"))
	require.NoError(t, err)

	assert.Empty(t, s.Search(""))
	assert.Empty(t, s.Search("   "))

	found := s.Search("abc")
	require.Len(t, found, 1)
	assert.Equal(t, "Gửi báo cáo", found[0].Title)

	assert.Len(t, s.Search("STANDUP"), 1)
	assert.Empty(t, s.Search("missing"))
}

func TestNoteRoundTrip(t *testing.T) {
	updated := time.Date(2026, 1, 7, 10, 0, 0, 0, time.UTC)
	original := Note{
		ID:           "n1",
		Title:        "Standup",
		Content:      "daily sync",
		ReminderTime: time.Date(2026, 1, 1, 8, 30, 0, 0, time.UTC),
		ReminderDays: []int{1, 3, 5},
		CreatedAt:    wednesday,
		UpdatedAt:    &updated,
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Note
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}
