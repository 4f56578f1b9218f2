package countdown

import (
	"fmt"
	"math"
	"time"
)

// Number of seconds in every time division.
const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour

	millisPerSecond = 1000

	// maxSecondsLeft keeps absurd but finite deadlines inside exact float64 range.
	maxSecondsLeft = 1 << 53
)

// Remaining is the whole-unit time left until a deadline.
// Hours, Minutes and Seconds are always in [0,59].
type Remaining struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

// Decompose splits the time between nowMs and deadlineMs (epoch milliseconds)
// into days, hours, minutes and seconds. Past or non-finite deadlines yield zero.
func Decompose(deadlineMs, nowMs float64) Remaining {
	left := secondsLeft(deadlineMs, nowMs)

	var r Remaining
	r.Days = left / secondsPerDay
	left -= r.Days * secondsPerDay

	r.Hours = left / secondsPerHour
	left -= r.Hours * secondsPerHour

	r.Minutes = left / secondsPerMinute
	left -= r.Minutes * secondsPerMinute

	r.Seconds = left
	return r
}

// DecomposeTime is Decompose for callers holding time.Time values.
func DecomposeTime(deadline, now time.Time) Remaining {
	return Decompose(TimestampOf(deadline), TimestampOf(now))
}

// TimestampOf converts t to epoch milliseconds, keeping sub-millisecond precision.
func TimestampOf(t time.Time) float64 {
	frac := float64(t.Nanosecond()%int(time.Millisecond)) / float64(time.Millisecond)
	return float64(t.UnixMilli()) + frac
}

func secondsLeft(deadlineMs, nowMs float64) int64 {
	diff := deadlineMs - nowMs
	if math.IsNaN(diff) || math.IsInf(diff, 0) || diff <= 0 {
		return 0
	}
	left := math.Floor(diff / millisPerSecond)
	if left > maxSecondsLeft {
		return maxSecondsLeft
	}
	return int64(left)
}

// TotalSeconds folds the units back into a single count of seconds.
func (r Remaining) TotalSeconds() int64 {
	return r.Days*secondsPerDay + r.Hours*secondsPerHour + r.Minutes*secondsPerMinute + r.Seconds
}

// IsZero reports whether the deadline has been reached.
func (r Remaining) IsZero() bool {
	return r == Remaining{}
}

// Of returns the value of a single unit.
func (r Remaining) Of(u Unit) int64 {
	switch u {
	case Days:
		return r.Days
	case Hours:
		return r.Hours
	case Minutes:
		return r.Minutes
	case Seconds:
		return r.Seconds
	default:
		return 0
	}
}

func (r Remaining) String() string {
	return fmt.Sprintf("%dd %02d:%02d:%02d", r.Days, r.Hours, r.Minutes, r.Seconds)
}
