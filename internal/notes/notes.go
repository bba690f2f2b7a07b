// Package notes manages short reminder-bearing work notes.
package notes

import (
	"time"
)

// Note is a short text note with a recurring time-of-day reminder.
// ReminderTime is stored as a full timestamp but only its hour and
// minute are meaningful.
type Note struct {
	ID           string     `json:"id"`
	Title        string     `json:"title" validate:"required,max=100"`
	Content      string     `json:"content" validate:"required,max=300"`
	ReminderTime time.Time  `json:"reminderTime"`
	ReminderDays []int      `json:"reminderDays" validate:"required,min=1,dive,min=1,max=7"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt"`
}

// LastTouched is the note's sort key for recency queries: updatedAt
// when present, createdAt otherwise.
func (n Note) LastTouched() time.Time {
	if n.UpdatedAt != nil {
		return *n.UpdatedAt
	}
	return n.CreatedAt
}

// RemindsOn reports whether the note's reminder fires on the given
// weekday (Monday=1 .. Sunday=7).
func (n Note) RemindsOn(weekday int) bool {
	for _, d := range n.ReminderDays {
		if d == weekday {
			return true
		}
	}
	return false
}
