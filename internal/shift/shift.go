// Package shift manages the reusable work shift definitions and the
// single active-shift pointer.
package shift

import (
	"time"

	"github.com/dangvu008/wattendo/internal/clock"
)

// Shift is a named work schedule template. Times are wall-clock HH:mm;
// an EndTime numerically before StartTime denotes an overnight shift.
type Shift struct {
	ID             string `json:"id"`
	Name           string `json:"name" validate:"required,max=200"`
	DepartureTime  string `json:"departureTime" validate:"required,hhmm"`
	StartTime      string `json:"startTime" validate:"required,hhmm"`
	EndTime        string `json:"endTime" validate:"required,hhmm"`
	ReminderBefore int    `json:"reminderBefore" validate:"min=0"` // minutes
	ReminderAfter  int    `json:"reminderAfter" validate:"min=0"`  // minutes
	ShowSignButton bool   `json:"showSignButton"`
	DaysApplied    []int  `json:"daysApplied" validate:"required,min=1,dive,min=1,max=7"`
}

// AppliesOn reports whether the shift covers the given weekday
// (Monday=1 .. Sunday=7).
func (s Shift) AppliesOn(weekday int) bool {
	for _, d := range s.DaysApplied {
		if d == weekday {
			return true
		}
	}
	return false
}

// IsOvernight reports whether the shift ends on the following day.
func (s Shift) IsOvernight() bool {
	return s.EndTime < s.StartTime
}

// DepartureOn returns the departure moment for a shift worked on day.
func (s Shift) DepartureOn(day time.Time) (time.Time, error) {
	h, m, err := clock.ParseHHMM(s.DepartureTime)
	if err != nil {
		return time.Time{}, err
	}
	return clock.At(day, h, m), nil
}

// StartOn returns the start moment for a shift worked on day.
func (s Shift) StartOn(day time.Time) (time.Time, error) {
	h, m, err := clock.ParseHHMM(s.StartTime)
	if err != nil {
		return time.Time{}, err
	}
	return clock.At(day, h, m), nil
}

// EndOn returns the end moment for a shift worked on day, rolling an
// overnight shift into the next day.
func (s Shift) EndOn(day time.Time) (time.Time, error) {
	h, m, err := clock.ParseHHMM(s.EndTime)
	if err != nil {
		return time.Time{}, err
	}
	end := clock.At(day, h, m)
	if s.IsOvernight() {
		end = end.AddDate(0, 0, 1)
	}
	return end, nil
}

// defaultShifts seeds the registry on first run.
func defaultShifts() []Shift {
	weekdays := []int{1, 2, 3, 4, 5}
	sixDays := []int{1, 2, 3, 4, 5, 6}

	return []Shift{
		{Name: "Ca ngày", DepartureTime: "07:00", StartTime: "08:00", EndTime: "17:00",
			ReminderBefore: 30, ReminderAfter: 15, ShowSignButton: true, DaysApplied: weekdays},
		{Name: "Ca đêm", DepartureTime: "21:00", StartTime: "22:00", EndTime: "06:00",
			ReminderBefore: 30, ReminderAfter: 15, ShowSignButton: true, DaysApplied: weekdays},
		{Name: "Ca hành chính", DepartureTime: "07:30", StartTime: "08:00", EndTime: "17:30",
			ReminderBefore: 30, ReminderAfter: 15, ShowSignButton: true, DaysApplied: weekdays},
		{Name: "Ca 1", DepartureTime: "05:30", StartTime: "06:00", EndTime: "14:00",
			ReminderBefore: 30, ReminderAfter: 15, ShowSignButton: true, DaysApplied: sixDays},
		{Name: "Ca 2", DepartureTime: "13:30", StartTime: "14:00", EndTime: "22:00",
			ReminderBefore: 30, ReminderAfter: 15, ShowSignButton: true, DaysApplied: sixDays},
		{Name: "Ca 3", DepartureTime: "21:30", StartTime: "22:00", EndTime: "06:00",
			ReminderBefore: 30, ReminderAfter: 15, ShowSignButton: true, DaysApplied: sixDays},
	}
}
