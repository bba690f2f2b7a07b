// Package settings persists the small user preferences that survive
// restarts: UI locale and dark mode.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dangvu008/wattendo/internal/metrics"
	"github.com/dangvu008/wattendo/internal/storage"
)

// DefaultLocale is used until the user picks a language.
const DefaultLocale = "vi"

// SupportedLocales lists the bundled translations.
var SupportedLocales = []string{"vi", "en"}

// ErrUnsupportedLocale rejects locales with no bundled translation.
var ErrUnsupportedLocale = errors.New("settings: unsupported locale")

// Service owns the persisted user preferences.
type Service struct {
	store  storage.Store
	logger zerolog.Logger

	mu       sync.Mutex
	locale   string
	darkMode bool
}

// NewService creates the settings service. Call Load before use.
func NewService(store storage.Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("component", "settings").Logger(),
		locale: DefaultLocale,
	}
}

// Load reads the stored preferences. Missing or corrupt values fall
// back to defaults rather than failing startup.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	locale, err := s.store.Get(ctx, storage.LocaleKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.locale = DefaultLocale
	case err != nil:
		metrics.IncStorageError()
		return fmt.Errorf("load locale: %w", err)
	case isSupported(locale):
		s.locale = locale
	default:
		s.logger.Warn().Str("locale", locale).Msg("stored locale unsupported, falling back")
		s.locale = DefaultLocale
	}

	darkMode, err := s.store.Get(ctx, storage.DarkModeKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.darkMode = false
	case err != nil:
		metrics.IncStorageError()
		return fmt.Errorf("load dark mode: %w", err)
	default:
		// Stored as the JSON booleans the original values round-trip to.
		s.darkMode = darkMode == "true"
	}

	return nil
}

func isSupported(locale string) bool {
	for _, l := range SupportedLocales {
		if l == locale {
			return true
		}
	}
	return false
}

// Locale returns the current UI locale.
func (s *Service) Locale() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locale
}

// SetLocale persists and applies a supported locale.
func (s *Service) SetLocale(ctx context.Context, locale string) error {
	if !isSupported(locale) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLocale, locale)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(ctx, storage.LocaleKey, locale); err != nil {
		metrics.IncStorageError()
		return fmt.Errorf("persist locale: %w", err)
	}
	s.locale = locale
	return nil
}

// DarkMode returns the current dark mode preference.
func (s *Service) DarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.darkMode
}

// SetDarkMode persists and applies the dark mode preference.
func (s *Service) SetDarkMode(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	value := "false"
	if enabled {
		value = "true"
	}
	if err := s.store.Set(ctx, storage.DarkModeKey, value); err != nil {
		metrics.IncStorageError()
		return fmt.Errorf("persist dark mode: %w", err)
	}
	s.darkMode = enabled
	return nil
}
