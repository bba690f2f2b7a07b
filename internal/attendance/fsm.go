// Package attendance owns the daily work-cycle state machine: today's
// record, the historical record map, transition guards and the derived
// weekly/history views.
package attendance

// Status represents the attendance state of a single day.
type Status string

const (
	StatusNotStarted  Status = "not_started"
	StatusGoWork      Status = "go_work"
	StatusCheckIn     Status = "check_in"
	StatusCheckOut    Status = "check_out"
	StatusComplete    Status = "complete"
	StatusAbsent      Status = "absent"
	StatusLeave       Status = "leave"
	StatusSick        Status = "sick"
	StatusHoliday     Status = "holiday"
	StatusLateOrEarly Status = "late_or_early"
)

// transitions defines the allowed advancing-path transitions. Admin
// statuses are terminal for the day; only an explicit reset leaves them.
var transitions = map[Status][]Status{
	StatusNotStarted: {StatusGoWork, StatusAbsent, StatusLeave, StatusSick, StatusHoliday},
	StatusGoWork:     {StatusCheckIn},
	StatusCheckIn:    {StatusCheckOut},
	StatusCheckOut:   {StatusComplete},
}

// CanTransition checks if the transition is allowed.
func CanTransition(from, to Status) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// next returns the advancing-path successor of from, or "" when the
// multi-purpose action has nothing to do from this status.
func next(from Status) Status {
	switch from {
	case StatusNotStarted:
		return StatusGoWork
	case StatusGoWork:
		return StatusCheckIn
	case StatusCheckIn:
		return StatusCheckOut
	case StatusCheckOut:
		return StatusComplete
	}
	return ""
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusGoWork, StatusCheckIn, StatusCheckOut,
		StatusComplete, StatusAbsent, StatusLeave, StatusSick,
		StatusHoliday, StatusLateOrEarly:
		return true
	}
	return false
}

// IsAdmin reports whether s is an admin override status, set directly
// rather than reached through the advancing path.
func (s Status) IsAdmin() bool {
	switch s {
	case StatusAbsent, StatusLeave, StatusSick, StatusHoliday, StatusLateOrEarly:
		return true
	}
	return false
}
