package attendance

import (
	"sort"
	"time"
)

// Record holds one day's attendance state. Timestamp fields are stamped
// exactly once when the corresponding transition fires and cleared only
// by a reset.
type Record struct {
	Status         Status     `json:"status"`
	GoWorkTime     *time.Time `json:"goWorkTime"`
	CheckInTime    *time.Time `json:"checkInTime"`
	CheckOutTime   *time.Time `json:"checkOutTime"`
	CompleteTime   *time.Time `json:"completeTime"`
	ShowSignButton bool       `json:"showSignButton"`
}

// NewRecord returns a fresh not-started record.
func NewRecord() Record {
	return Record{Status: StatusNotStarted}
}

// HistoryEntry is one (status, time) step of a day's recorded progress.
type HistoryEntry struct {
	Status Status    `json:"status"`
	Time   time.Time `json:"time"`
}

// History derives the ordered status changes from the record's non-nil
// timestamps. Field order is naturally chronological on the advancing
// path, but the result is sorted explicitly rather than assumed.
func (r Record) History() []HistoryEntry {
	var history []HistoryEntry

	if r.GoWorkTime != nil {
		history = append(history, HistoryEntry{Status: StatusGoWork, Time: *r.GoWorkTime})
	}
	if r.CheckInTime != nil {
		history = append(history, HistoryEntry{Status: StatusCheckIn, Time: *r.CheckInTime})
	}
	if r.CheckOutTime != nil {
		history = append(history, HistoryEntry{Status: StatusCheckOut, Time: *r.CheckOutTime})
	}
	if r.CompleteTime != nil {
		history = append(history, HistoryEntry{Status: StatusComplete, Time: *r.CompleteTime})
	}

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Time.Before(history[j].Time)
	})
	return history
}
