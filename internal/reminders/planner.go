// Package reminders derives the day's reminder schedule from the
// active shift and today's notes, and dispatches due reminders through
// a pluggable notifier.
package reminders

import (
	"fmt"
	"sort"
	"time"

	"github.com/dangvu008/wattendo/internal/clock"
	"github.com/dangvu008/wattendo/internal/notes"
	"github.com/dangvu008/wattendo/internal/shift"
)

// Reminder kinds.
const (
	KindShiftDeparture = "shift_departure"
	KindShiftEnd       = "shift_end"
	KindNote           = "note"
)

// Reminder is one scheduled notification. Key is unique per reminder
// per day and is what the dispatcher dedupes on.
type Reminder struct {
	Key     string
	Kind    string
	Message string
	At      time.Time
}

// PlanForDay computes the reminders that apply on day, sorted by firing
// time. active may be nil (no shift today) and todayNotes empty.
func PlanForDay(day time.Time, active *shift.Shift, todayNotes []notes.Note) []Reminder {
	key := clock.DateKey(day)
	var plan []Reminder

	if active != nil {
		if departure, err := active.DepartureOn(day); err == nil {
			plan = append(plan, Reminder{
				Key:     KindShiftDeparture + "|" + key,
				Kind:    KindShiftDeparture,
				Message: fmt.Sprintf("leave for work at %s (%s)", active.DepartureTime, active.Name),
				At:      departure.Add(-time.Duration(active.ReminderBefore) * time.Minute),
			})
		}
		if end, err := active.EndOn(day); err == nil {
			plan = append(plan, Reminder{
				Key:     KindShiftEnd + "|" + key,
				Kind:    KindShiftEnd,
				Message: fmt.Sprintf("shift ended at %s, remember to check out (%s)", active.EndTime, active.Name),
				At:      end.Add(time.Duration(active.ReminderAfter) * time.Minute),
			})
		}
	}

	for _, n := range todayNotes {
		plan = append(plan, Reminder{
			Key:     KindNote + "|" + n.ID + "|" + key,
			Kind:    KindNote,
			Message: n.Title,
			At:      clock.At(day, n.ReminderTime.Hour(), n.ReminderTime.Minute()),
		})
	}

	sort.SliceStable(plan, func(i, j int) bool {
		return plan[i].At.Before(plan[j].At)
	})
	return plan
}
