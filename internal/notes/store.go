package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dangvu008/wattendo/internal/clock"
	"github.com/dangvu008/wattendo/internal/events"
	"github.com/dangvu008/wattendo/internal/metrics"
	"github.com/dangvu008/wattendo/internal/storage"
	"github.com/dangvu008/wattendo/internal/validate"
)

// ErrNotFound is returned for operations referencing a missing note id.
var ErrNotFound = errors.New("notes: not found")

// Store owns the note list. Writes validate first and mutate neither
// storage nor memory on rejection.
type Store struct {
	store  storage.Store
	clock  clock.Clock
	bus    *events.Bus
	logger zerolog.Logger

	mu    sync.Mutex
	notes []Note
}

// NewStore creates the notes store. Call Load before use.
func NewStore(store storage.Store, clk clock.Clock, bus *events.Bus, logger zerolog.Logger) *Store {
	return &Store{
		store:  store,
		clock:  clk,
		bus:    bus,
		logger: logger.With().Str("component", "notes").Logger(),
	}
}

// Load reads the note list from storage; a missing key is an empty list.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.Get(ctx, storage.WorkNotesKey)
	if errors.Is(err, storage.ErrNotFound) {
		s.notes = nil
		return nil
	}
	if err != nil {
		metrics.IncStorageError()
		return fmt.Errorf("load notes: %w", err)
	}

	var notes []Note
	if err := json.Unmarshal([]byte(data), &notes); err != nil {
		return fmt.Errorf("decode notes: %w", err)
	}
	s.notes = notes

	s.logger.Debug().Int("count", len(s.notes)).Msg("notes loaded")
	return nil
}

func validateNote(n Note) error {
	if strings.TrimSpace(n.Title) == "" {
		return validate.NewFieldError("title", "must not be empty")
	}
	if strings.TrimSpace(n.Content) == "" {
		return validate.NewFieldError("content", "must not be empty")
	}
	if utf8.RuneCountInString(strings.TrimSpace(n.Title)) > 100 {
		return validate.NewFieldError("title", "must be at most 100")
	}
	if utf8.RuneCountInString(strings.TrimSpace(n.Content)) > 300 {
		return validate.NewFieldError("content", "must be at most 300")
	}
	if n.ReminderTime.IsZero() {
		return validate.NewFieldError("reminderTime", "must be a valid time")
	}
	return validate.Struct(n)
}

func (s *Store) persist(ctx context.Context, notes []Note) error {
	data, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("encode notes: %w", err)
	}
	if err := s.store.Set(ctx, storage.WorkNotesKey, string(data)); err != nil {
		metrics.IncStorageError()
		return fmt.Errorf("persist notes: %w", err)
	}
	return nil
}

func (s *Store) publish() {
	if s.bus != nil {
		s.bus.PublishJSON(events.TopicNotesChanged, struct {
			Count int `json:"count"`
		}{Count: len(s.notes)})
	}
}

// Add validates and stores a new note.
func (s *Store) Add(ctx context.Context, n Note) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n.Title = strings.TrimSpace(n.Title)
	n.Content = strings.TrimSpace(n.Content)
	if err := validateNote(n); err != nil {
		return Note{}, err
	}

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = s.clock.Now()
	n.UpdatedAt = nil

	updated := append(append([]Note(nil), s.notes...), n)
	if err := s.persist(ctx, updated); err != nil {
		return Note{}, err
	}

	s.notes = updated
	s.publish()
	s.logger.Info().Str("id", n.ID).Msg("note added")
	return n, nil
}

// Update validates and replaces an existing note, refreshing updatedAt.
func (s *Store) Update(ctx context.Context, n Note) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.notes {
		if s.notes[i].ID == n.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Note{}, ErrNotFound
	}

	n.Title = strings.TrimSpace(n.Title)
	n.Content = strings.TrimSpace(n.Content)
	if err := validateNote(n); err != nil {
		return Note{}, err
	}

	n.CreatedAt = s.notes[idx].CreatedAt
	now := s.clock.Now()
	n.UpdatedAt = &now

	updated := append([]Note(nil), s.notes...)
	updated[idx] = n
	if err := s.persist(ctx, updated); err != nil {
		return Note{}, err
	}

	s.notes = updated
	s.publish()
	s.logger.Info().Str("id", n.ID).Msg("note updated")
	return n, nil
}

// Delete removes a note permanently.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.notes {
		if s.notes[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}

	updated := append([]Note(nil), s.notes[:idx]...)
	updated = append(updated, s.notes[idx+1:]...)
	if err := s.persist(ctx, updated); err != nil {
		return err
	}

	s.notes = updated
	s.publish()
	s.logger.Info().Str("id", id).Msg("note deleted")
	return nil
}

// List returns a copy of all notes in storage order.
func (s *Store) List() []Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Note(nil), s.notes...)
}

// Recent returns up to limit notes, most recently touched first.
func (s *Store) Recent(limit int) []Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := append([]Note(nil), s.notes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastTouched().After(sorted[j].LastTouched())
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// ForToday returns notes whose reminder fires on today's weekday.
func (s *Store) ForToday() []Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	weekday := clock.Weekday(s.clock.Now())
	var result []Note
	for _, n := range s.notes {
		if n.RemindsOn(weekday) {
			result = append(result, n)
		}
	}
	return result
}

// ForThisWeek returns notes created or updated during the current
// Monday-start calendar week.
func (s *Store) ForThisWeek() []Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := clock.WeekStart(s.clock.Now())
	end := start.AddDate(0, 0, 7)

	var result []Note
	for _, n := range s.notes {
		touched := n.LastTouched()
		if !touched.Before(start) && touched.Before(end) {
			result = append(result, n)
		}
	}
	return result
}

// Search returns notes whose title or content contains query,
// case-insensitively. A blank query deliberately matches nothing.
func (s *Store) Search(query string) []Note {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var result []Note
	for _, n := range s.notes {
		if strings.Contains(strings.ToLower(n.Title), term) ||
			strings.Contains(strings.ToLower(n.Content), term) {
			result = append(result, n)
		}
	}
	return result
}
