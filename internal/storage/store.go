// Package storage provides the durable key-value store the app persists
// its state through, with SQLite, Redis and in-memory backends.
package storage

import (
	"context"
	"errors"
)

// Well-known keys. Values are JSON documents except ActiveShiftKey and
// LocaleKey, which hold plain strings.
const (
	AttendanceRecordsKey = "attendanceRecords"
	AttendanceDayPrefix  = "attendance_" // followed by yyyy-MM-dd
	WorkShiftsKey        = "workShifts"
	ActiveShiftKey       = "activeShift"
	WorkNotesKey         = "workNotes"
	LocaleKey            = "locale"
	DarkModeKey          = "isDarkMode"
)

// ErrNotFound is returned by Get when the key has no stored value.
var ErrNotFound = errors.New("storage: key not found")

// Store is the durable key-value contract. Implementations must treat a
// missing key as ErrNotFound, not as an empty value.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
