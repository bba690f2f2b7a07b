package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dangvu008/wattendo/internal/clock"
	"github.com/dangvu008/wattendo/internal/events"
	"github.com/dangvu008/wattendo/internal/metrics"
	"github.com/dangvu008/wattendo/internal/storage"
)

// ErrFutureDate is returned when an admin override targets a date after
// today.
var ErrFutureDate = errors.New("attendance: cannot set status for a future date")

// Default guard holds before a guarded transition asks for confirmation.
const (
	DefaultCheckInHold  = 5 * time.Minute
	DefaultCheckOutHold = 2 * time.Hour
)

// Refusal reasons reported in Result and metrics.
const (
	ReasonCheckInHold  = "check_in_hold"
	ReasonCheckOutHold = "check_out_hold"
	ReasonNoTransition = "no_transition"
)

// SignButtonPolicy decides the ShowSignButton flag at check-in time.
// Wired from the active shift's flag; nil means the button stays off.
type SignButtonPolicy func() bool

// Config tunes the state machine guards.
type Config struct {
	// CheckInHold is the minimum time between going to work and
	// checking in before the transition needs confirmation.
	CheckInHold time.Duration
	// CheckOutHold is the minimum time between check-in and check-out
	// before the transition needs confirmation.
	CheckOutHold time.Duration
	// SignButton decides ShowSignButton at check-in.
	SignButton SignButtonPolicy
}

// Result reports the outcome of a requested transition. A refused guard
// is not an error: the caller may confirm and re-invoke ForceAdvance.
type Result struct {
	OK                bool
	NeedsConfirmation bool
	From              Status
	To                Status
	Reason            string
}

// Service owns today's record and the historical record map. All
// mutations are read-modify-persist: in-memory state changes only after
// both the per-day key and the full map have been written.
type Service struct {
	store  storage.Store
	clock  clock.Clock
	bus    *events.Bus
	logger zerolog.Logger

	checkInHold  time.Duration
	checkOutHold time.Duration
	signButton   SignButtonPolicy

	mu       sync.Mutex
	records  map[string]Record
	today    Record
	todayKey string
}

// NewService creates the attendance service. Call Load before use.
func NewService(store storage.Store, clk clock.Clock, bus *events.Bus, logger zerolog.Logger, cfg Config) *Service {
	if cfg.CheckInHold <= 0 {
		cfg.CheckInHold = DefaultCheckInHold
	}
	if cfg.CheckOutHold <= 0 {
		cfg.CheckOutHold = DefaultCheckOutHold
	}
	return &Service{
		store:        store,
		clock:        clk,
		bus:          bus,
		logger:       logger.With().Str("component", "attendance").Logger(),
		checkInHold:  cfg.CheckInHold,
		checkOutHold: cfg.CheckOutHold,
		signButton:   cfg.SignButton,
		records:      make(map[string]Record),
		today:        NewRecord(),
	}
}

// Load reads the record map and today's cached record from storage.
// Missing keys mean a first run and load empty state.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.todayKey = clock.DateKey(now)

	data, err := s.store.Get(ctx, storage.AttendanceRecordsKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.records = make(map[string]Record)
	case err != nil:
		metrics.IncStorageError()
		return fmt.Errorf("load attendance records: %w", err)
	default:
		records := make(map[string]Record)
		if err := json.Unmarshal([]byte(data), &records); err != nil {
			return fmt.Errorf("decode attendance records: %w", err)
		}
		s.records = records
	}

	todayData, err := s.store.Get(ctx, storage.AttendanceDayPrefix+s.todayKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.today = NewRecord()
	case err != nil:
		metrics.IncStorageError()
		return fmt.Errorf("load today's record: %w", err)
	default:
		var today Record
		if err := json.Unmarshal([]byte(todayData), &today); err != nil {
			return fmt.Errorf("decode today's record: %w", err)
		}
		s.today = today
	}

	s.logger.Debug().Int("days", len(s.records)).Str("today", s.todayKey).Msg("attendance records loaded")
	return nil
}

// ensureToday refreshes the cached today record after a day rollover.
// Callers must hold s.mu.
func (s *Service) ensureToday(now time.Time) {
	key := clock.DateKey(now)
	if key == s.todayKey {
		return
	}
	s.todayKey = key
	if rec, ok := s.records[key]; ok {
		s.today = rec
	} else {
		s.today = NewRecord()
	}
}

// persist writes the record for key together with the full map. On any
// failure the caller's in-memory state must stay untouched, so persist
// works on the updated copies only.
func (s *Service) persist(ctx context.Context, key string, rec Record) error {
	updated := make(map[string]Record, len(s.records)+1)
	for k, v := range s.records {
		updated[k] = v
	}
	updated[key] = rec

	mapData, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("encode attendance records: %w", err)
	}
	recData, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode day record: %w", err)
	}

	if key == s.todayKey {
		if err := s.store.Set(ctx, storage.AttendanceDayPrefix+key, string(recData)); err != nil {
			metrics.IncStorageError()
			return err
		}
	}
	if err := s.store.Set(ctx, storage.AttendanceRecordsKey, string(mapData)); err != nil {
		metrics.IncStorageError()
		return err
	}
	return nil
}

// commit installs the persisted record in memory and notifies observers.
func (s *Service) commit(key string, rec Record) {
	s.records[key] = rec
	if key == s.todayKey {
		s.today = rec
	}
	if s.bus != nil {
		s.bus.PublishJSON(events.TopicAttendanceUpdated, struct {
			Date   string `json:"date"`
			Status Status `json:"status"`
		}{Date: key, Status: rec.Status})
	}
}

// Advance performs the multi-purpose action: it inspects today's status
// and moves one step along the advancing path, stamping the matching
// timestamp. Guarded transitions attempted too early refuse with
// NeedsConfirmation set instead of mutating state.
func (s *Service) Advance(ctx context.Context) (Result, error) {
	return s.advance(ctx, false)
}

// ForceAdvance is Advance with the time guards bypassed, invoked after
// the user confirmed an early transition.
func (s *Service) ForceAdvance(ctx context.Context) (Result, error) {
	return s.advance(ctx, true)
}

func (s *Service) advance(ctx context.Context, force bool) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.ensureToday(now)

	from := s.today.Status
	to := next(from)
	if to == "" {
		metrics.IncTransitionRefused(ReasonNoTransition)
		return Result{From: from, Reason: ReasonNoTransition}, nil
	}

	rec := s.today
	switch to {
	case StatusGoWork:
		t := now
		rec.GoWorkTime = &t
	case StatusCheckIn:
		if !force && rec.GoWorkTime != nil && now.Sub(*rec.GoWorkTime) < s.checkInHold {
			metrics.IncTransitionRefused(ReasonCheckInHold)
			return Result{From: from, To: to, NeedsConfirmation: true, Reason: ReasonCheckInHold}, nil
		}
		t := now
		rec.CheckInTime = &t
		if s.signButton != nil {
			rec.ShowSignButton = s.signButton()
		}
	case StatusCheckOut:
		if !force && rec.CheckInTime != nil && now.Sub(*rec.CheckInTime) < s.checkOutHold {
			metrics.IncTransitionRefused(ReasonCheckOutHold)
			return Result{From: from, To: to, NeedsConfirmation: true, Reason: ReasonCheckOutHold}, nil
		}
		t := now
		rec.CheckOutTime = &t
	case StatusComplete:
		t := now
		rec.CompleteTime = &t
		rec.ShowSignButton = false
	}
	rec.Status = to

	if err := s.persist(ctx, s.todayKey, rec); err != nil {
		return Result{From: from, To: to}, err
	}
	s.commit(s.todayKey, rec)

	metrics.IncTransition(string(to))
	s.logger.Info().Str("from", string(from)).Str("to", string(to)).Time("at", now).Msg("attendance advanced")
	return Result{OK: true, From: from, To: to}, nil
}

// SetStatus applies an admin override to any non-future day. The status
// replaces the day's status while previously recorded timestamps are
// retained, so marking a partially worked day absent keeps its trace.
func (s *Service) SetStatus(ctx context.Context, day time.Time, status Status) error {
	if !status.IsValid() {
		return fmt.Errorf("attendance: unknown status %q", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.ensureToday(now)

	key := clock.DateKey(day)
	if key > s.todayKey {
		return ErrFutureDate
	}

	rec, ok := s.records[key]
	if !ok {
		rec = NewRecord()
	}
	if key == s.todayKey {
		rec = s.today
	}
	from := rec.Status
	rec.Status = status

	if err := s.persist(ctx, key, rec); err != nil {
		return err
	}
	s.commit(key, rec)

	metrics.IncTransition(string(status))
	s.logger.Info().Str("date", key).Str("from", string(from)).Str("to", string(status)).Msg("status overridden")
	return nil
}

// Reset forces the day back to not_started, clearing all timestamps and
// the sign button flag.
func (s *Service) Reset(ctx context.Context, day time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureToday(s.clock.Now())

	key := clock.DateKey(day)
	rec := NewRecord()

	if err := s.persist(ctx, key, rec); err != nil {
		return err
	}
	s.commit(key, rec)

	s.logger.Info().Str("date", key).Msg("day reset")
	return nil
}

// ResetToday resets the current day.
func (s *Service) ResetToday(ctx context.Context) error {
	return s.Reset(ctx, s.clock.Now())
}

// Day is one entry of the weekly view.
type Day struct {
	Date   time.Time
	Key    string
	Record Record
}

// WeeklyView returns the 7 records of the Monday-start week containing
// ref, in Monday to Sunday order. Days with no stored record yield a
// default not-started record; future days are not filtered here.
func (s *Service) WeeklyView(ref time.Time) []Day {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := clock.WeekStart(ref)
	week := make([]Day, 0, 7)
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i)
		key := clock.DateKey(date)
		rec, ok := s.records[key]
		if !ok {
			rec = NewRecord()
		}
		if key == s.todayKey {
			rec = s.today
		}
		week = append(week, Day{Date: date, Key: key, Record: rec})
	}
	return week
}

// History returns the ordered (status, time) steps recorded for day.
func (s *Service) History(day time.Time) []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := clock.DateKey(day)
	if key == s.todayKey {
		return s.today.History()
	}
	rec, ok := s.records[key]
	if !ok {
		return nil
	}
	return rec.History()
}

// Today returns a snapshot of today's record.
func (s *Service) Today() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureToday(s.clock.Now())
	return s.today
}

// Records returns a snapshot of the full record map.
func (s *Service) Records() map[string]Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[string]Record, len(s.records))
	for k, v := range s.records {
		snapshot[k] = v
	}
	return snapshot
}
