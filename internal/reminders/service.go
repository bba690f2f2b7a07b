package reminders

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dangvu008/wattendo/internal/clock"
	"github.com/dangvu008/wattendo/internal/metrics"
	"github.com/dangvu008/wattendo/internal/notes"
	"github.com/dangvu008/wattendo/internal/shift"
)

// ShiftSource supplies today's applicable shift, if any.
type ShiftSource interface {
	ActiveForToday() *shift.Shift
}

// NoteSource supplies the notes whose reminders fire today.
type NoteSource interface {
	ForToday() []notes.Note
}

// Notifier delivers a due reminder to the user.
type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// Config holds configuration for the reminder dispatch loop.
type Config struct {
	// CheckInterval is how often due reminders are looked for.
	// Default: 1 minute.
	CheckInterval time.Duration
	// SendRate limits notifications per second. Default: 1.
	SendRate float64
	// SendBurst is the burst allowance. Default: 5.
	SendBurst int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		CheckInterval: time.Minute,
		SendRate:      1,
		SendBurst:     5,
	}
}

// Service checks the day's plan on an interval and dispatches reminders
// that have come due, at most once per reminder per day.
type Service struct {
	config   Config
	shifts   ShiftSource
	notes    NoteSource
	notifier Notifier
	clock    clock.Clock
	limiter  *rate.Limiter

	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
	sent    map[string]bool
	sentDay string
}

// NewService creates a reminder dispatcher.
func NewService(config Config, shifts ShiftSource, noteSrc NoteSource, notifier Notifier, clk clock.Clock) *Service {
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Minute
	}
	if config.SendRate <= 0 {
		config.SendRate = 1
	}
	if config.SendBurst <= 0 {
		config.SendBurst = 5
	}

	return &Service{
		config:   config,
		shifts:   shifts,
		notes:    noteSrc,
		notifier: notifier,
		clock:    clk,
		limiter:  rate.NewLimiter(rate.Limit(config.SendRate), config.SendBurst),
		sent:     make(map[string]bool),
	}
}

// Start begins the dispatch loop. A stopped service may be started
// again.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop(ctx, stopCh)
}

// Stop gracefully stops the dispatch loop.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
}

func (s *Service) loop(ctx context.Context, stopCh <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	s.CheckNow(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			s.CheckNow(ctx)
		}
	}
}

// CheckNow dispatches all reminders due at this moment. It is invoked
// by the loop and directly by tests.
func (s *Service) CheckNow(ctx context.Context) {
	now := s.clock.Now()
	s.rollover(now)

	plan := PlanForDay(now, s.shifts.ActiveForToday(), s.notes.ForToday())
	for _, r := range plan {
		if r.At.After(now) {
			continue
		}
		if s.alreadySent(r.Key) {
			continue
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return
		}
		if err := s.notifier.Notify(ctx, r); err != nil {
			// Leave unsent so the next tick retries.
			continue
		}
		s.markSent(r.Key)
		metrics.IncReminderSent(r.Kind)
	}
}

// rollover clears the sent set when the calendar day changes, so
// recurring reminders fire again the next day.
func (s *Service) rollover(now time.Time) {
	day := clock.DateKey(now)

	s.mu.Lock()
	defer s.mu.Unlock()
	if day != s.sentDay {
		s.sentDay = day
		s.sent = make(map[string]bool)
	}
}

func (s *Service) alreadySent(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[key]
}

func (s *Service) markSent(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent[key] = true
}
