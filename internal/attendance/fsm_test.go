package attendance

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name        string
		from        Status
		to          Status
		shouldAllow bool
	}{
		{"not started to go work", StatusNotStarted, StatusGoWork, true},
		{"not started to absent", StatusNotStarted, StatusAbsent, true},
		{"not started to leave", StatusNotStarted, StatusLeave, true},
		{"not started to sick", StatusNotStarted, StatusSick, true},
		{"not started to holiday", StatusNotStarted, StatusHoliday, true},
		{"go work to check in", StatusGoWork, StatusCheckIn, true},
		{"check in to check out", StatusCheckIn, StatusCheckOut, true},
		{"check out to complete", StatusCheckOut, StatusComplete, true},
		// Invalid transitions
		{"not started to check in", StatusNotStarted, StatusCheckIn, false},
		{"not started to complete", StatusNotStarted, StatusComplete, false},
		{"go work to check out", StatusGoWork, StatusCheckOut, false},
		{"go work to absent", StatusGoWork, StatusAbsent, false},
		{"check in to complete", StatusCheckIn, StatusComplete, false},
		{"complete is terminal", StatusComplete, StatusGoWork, false},
		{"absent is terminal", StatusAbsent, StatusGoWork, false},
		{"no backwards step", StatusCheckOut, StatusCheckIn, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed := CanTransition(tt.from, tt.to)
			if allowed != tt.shouldAllow {
				t.Errorf("transition %s -> %s: expected allowed=%v, got %v",
					tt.from, tt.to, tt.shouldAllow, allowed)
			}
		})
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		from Status
		want Status
	}{
		{StatusNotStarted, StatusGoWork},
		{StatusGoWork, StatusCheckIn},
		{StatusCheckIn, StatusCheckOut},
		{StatusCheckOut, StatusComplete},
		{StatusComplete, ""},
		{StatusAbsent, ""},
		{StatusHoliday, ""},
	}

	for _, tt := range tests {
		if got := next(tt.from); got != tt.want {
			t.Errorf("next(%s): expected %q, got %q", tt.from, tt.want, got)
		}
	}
}

func TestStatusIsValid(t *testing.T) {
	valid := []Status{
		StatusNotStarted, StatusGoWork, StatusCheckIn, StatusCheckOut,
		StatusComplete, StatusAbsent, StatusLeave, StatusSick,
		StatusHoliday, StatusLateOrEarly,
	}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("status %s should be valid", s)
		}
	}

	if Status("vacation").IsValid() {
		t.Error("unknown status should not be valid")
	}
}

func TestStatusIsAdmin(t *testing.T) {
	admin := []Status{StatusAbsent, StatusLeave, StatusSick, StatusHoliday, StatusLateOrEarly}
	for _, s := range admin {
		if !s.IsAdmin() {
			t.Errorf("status %s should be admin", s)
		}
	}

	path := []Status{StatusNotStarted, StatusGoWork, StatusCheckIn, StatusCheckOut, StatusComplete}
	for _, s := range path {
		if s.IsAdmin() {
			t.Errorf("status %s should not be admin", s)
		}
	}
}
