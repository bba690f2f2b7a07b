package shift

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dangvu008/wattendo/internal/clock"
	"github.com/dangvu008/wattendo/internal/events"
	"github.com/dangvu008/wattendo/internal/metrics"
	"github.com/dangvu008/wattendo/internal/storage"
	"github.com/dangvu008/wattendo/internal/validate"
)

// ErrNotFound is returned for operations referencing a missing shift id.
var ErrNotFound = errors.New("shift: not found")

// Registry owns the shift list and the active-shift pointer. The
// pointer, when set, always references an existing shift.
type Registry struct {
	store  storage.Store
	clock  clock.Clock
	bus    *events.Bus
	logger zerolog.Logger

	mu       sync.Mutex
	shifts   []Shift
	activeID string
}

// NewRegistry creates the shift registry. Call Load before use.
func NewRegistry(store storage.Store, clk clock.Clock, bus *events.Bus, logger zerolog.Logger) *Registry {
	return &Registry{
		store:  store,
		clock:  clk,
		bus:    bus,
		logger: logger.With().Str("component", "shifts").Logger(),
	}
}

// Load reads the shift list and active pointer from storage. A first
// run seeds the default shift set and activates its first entry.
func (r *Registry) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.store.Get(ctx, storage.WorkShiftsKey)
	if errors.Is(err, storage.ErrNotFound) {
		return r.seedLocked(ctx)
	}
	if err != nil {
		metrics.IncStorageError()
		return fmt.Errorf("load shifts: %w", err)
	}

	var shifts []Shift
	if err := json.Unmarshal([]byte(data), &shifts); err != nil {
		return fmt.Errorf("decode shifts: %w", err)
	}
	r.shifts = shifts

	activeID, err := r.store.Get(ctx, storage.ActiveShiftKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		r.activeID = ""
	case err != nil:
		metrics.IncStorageError()
		return fmt.Errorf("load active shift: %w", err)
	default:
		if r.findLocked(activeID) >= 0 {
			r.activeID = activeID
		} else {
			// Stale pointer; drop it rather than reference a ghost.
			r.activeID = ""
		}
	}

	r.logger.Debug().Int("count", len(r.shifts)).Str("active", r.activeID).Msg("shifts loaded")
	return nil
}

func (r *Registry) seedLocked(ctx context.Context) error {
	seeded := defaultShifts()
	for i := range seeded {
		seeded[i].ID = uuid.NewString()
	}

	if err := r.persistShifts(ctx, seeded); err != nil {
		return err
	}
	if err := r.store.Set(ctx, storage.ActiveShiftKey, seeded[0].ID); err != nil {
		metrics.IncStorageError()
		return fmt.Errorf("seed active shift: %w", err)
	}

	r.shifts = seeded
	r.activeID = seeded[0].ID
	r.logger.Info().Int("count", len(seeded)).Msg("default shifts seeded")
	return nil
}

func (r *Registry) findLocked(id string) int {
	for i := range r.shifts {
		if r.shifts[i].ID == id {
			return i
		}
	}
	return -1
}

// validateLocked runs tag validation plus the checks tags cannot
// express: trimmed name and case-insensitive name uniqueness.
func (r *Registry) validateLocked(s Shift) error {
	if strings.TrimSpace(s.Name) == "" {
		return validate.NewFieldError("name", "must not be empty")
	}
	if err := validate.Struct(s); err != nil {
		return err
	}
	lower := strings.ToLower(strings.TrimSpace(s.Name))
	for i := range r.shifts {
		if r.shifts[i].ID != s.ID && strings.ToLower(strings.TrimSpace(r.shifts[i].Name)) == lower {
			return validate.NewFieldError("name", "is already used by another shift")
		}
	}
	return nil
}

func (r *Registry) persistShifts(ctx context.Context, shifts []Shift) error {
	data, err := json.Marshal(shifts)
	if err != nil {
		return fmt.Errorf("encode shifts: %w", err)
	}
	if err := r.store.Set(ctx, storage.WorkShiftsKey, string(data)); err != nil {
		metrics.IncStorageError()
		return fmt.Errorf("persist shifts: %w", err)
	}
	return nil
}

func (r *Registry) publish() {
	if r.bus != nil {
		r.bus.PublishJSON(events.TopicShiftsChanged, struct {
			Count  int    `json:"count"`
			Active string `json:"active"`
		}{Count: len(r.shifts), Active: r.activeID})
	}
}

// Add validates and stores a new shift, assigning an id when absent.
func (r *Registry) Add(ctx context.Context, s Shift) (Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.validateLocked(s); err != nil {
		return Shift{}, err
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.Name = strings.TrimSpace(s.Name)

	updated := append(append([]Shift(nil), r.shifts...), s)
	if err := r.persistShifts(ctx, updated); err != nil {
		return Shift{}, err
	}

	r.shifts = updated
	r.publish()
	r.logger.Info().Str("id", s.ID).Str("name", s.Name).Msg("shift added")
	return s, nil
}

// Update validates and replaces an existing shift.
func (r *Registry) Update(ctx context.Context, s Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.findLocked(s.ID)
	if idx < 0 {
		return ErrNotFound
	}
	if err := r.validateLocked(s); err != nil {
		return err
	}
	s.Name = strings.TrimSpace(s.Name)

	updated := append([]Shift(nil), r.shifts...)
	updated[idx] = s
	if err := r.persistShifts(ctx, updated); err != nil {
		return err
	}

	r.shifts = updated
	r.publish()
	r.logger.Info().Str("id", s.ID).Msg("shift updated")
	return nil
}

// Delete removes a shift. Deleting the active shift promotes the first
// remaining shift by storage order, or clears the pointer when the
// list is empty.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.findLocked(id)
	if idx < 0 {
		return ErrNotFound
	}

	updated := append([]Shift(nil), r.shifts[:idx]...)
	updated = append(updated, r.shifts[idx+1:]...)

	newActive := r.activeID
	if r.activeID == id {
		if len(updated) > 0 {
			newActive = updated[0].ID
		} else {
			newActive = ""
		}
	}

	if err := r.persistShifts(ctx, updated); err != nil {
		return err
	}
	if newActive != r.activeID {
		var err error
		if newActive == "" {
			err = r.store.Remove(ctx, storage.ActiveShiftKey)
		} else {
			err = r.store.Set(ctx, storage.ActiveShiftKey, newActive)
		}
		if err != nil {
			metrics.IncStorageError()
			return fmt.Errorf("persist active shift: %w", err)
		}
	}

	r.shifts = updated
	r.activeID = newActive
	r.publish()
	r.logger.Info().Str("id", id).Str("active", newActive).Msg("shift deleted")
	return nil
}

// SetActive points the active-shift pointer at an existing shift.
func (r *Registry) SetActive(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findLocked(id) < 0 {
		return ErrNotFound
	}
	if err := r.store.Set(ctx, storage.ActiveShiftKey, id); err != nil {
		metrics.IncStorageError()
		return fmt.Errorf("persist active shift: %w", err)
	}

	r.activeID = id
	r.publish()
	r.logger.Info().Str("id", id).Msg("active shift changed")
	return nil
}

// Active returns a copy of the active shift, or nil when none is set.
func (r *Registry) Active() *Shift {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeLocked()
}

func (r *Registry) activeLocked() *Shift {
	if r.activeID == "" {
		return nil
	}
	idx := r.findLocked(r.activeID)
	if idx < 0 {
		return nil
	}
	s := r.shifts[idx]
	return &s
}

// ActiveForToday returns the active shift only when today's weekday is
// among its applied days; otherwise nil. Used to decide whether shift
// reminders apply today.
func (r *Registry) ActiveForToday() *Shift {
	r.mu.Lock()
	defer r.mu.Unlock()

	active := r.activeLocked()
	if active == nil {
		return nil
	}
	if !active.AppliesOn(clock.Weekday(r.clock.Now())) {
		return nil
	}
	return active
}

// Shifts returns a copy of the shift list in storage order.
func (r *Registry) Shifts() []Shift {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Shift(nil), r.shifts...)
}
