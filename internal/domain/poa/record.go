package poa

import (
	"database/sql"
	"math"
	"time"
)

// Record represents a tracked power of attorney with a hard expiry date.
type Record struct {
	ID               int64
	FullName         string
	POAType          string
	StartDate        time.Time
	EndDate          time.Time
	NotifyTarget     sql.NullString // Telegram chat ID; empty means the default channel
	NotificationSent bool
	CreatedAt        time.Time
}

// Midnight truncates a timestamp to the start of its calendar day,
// preserving the location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysRemaining returns the whole number of days between the record's end
// date and the given day. A record expiring today yields 0, an already
// expired one a negative number. Both sides are normalized to midnight first,
// so DST-shortened days cannot skew the count.
func (r *Record) DaysRemaining(today time.Time) int {
	diff := Midnight(r.EndDate).Sub(Midnight(today))
	return int(math.Round(diff.Hours() / 24))
}

// Thresholds is the ordered set of days-before-expiry at which a reminder
// fires, e.g. {7, 3, 1}.
type Thresholds []int

// Match reports whether daysLeft is an exact member of the threshold set.
// A reminder fires only on the exact day, never on every day below a
// threshold.
func (t Thresholds) Match(daysLeft int) bool {
	for _, d := range t {
		if d == daysLeft {
			return true
		}
	}
	return false
}
