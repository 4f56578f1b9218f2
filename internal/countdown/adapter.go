package countdown

// Unit is one time division shown by a countdown.
type Unit int

// Units in reading order.
const (
	Days Unit = iota
	Hours
	Minutes
	Seconds
)

// Units lists every unit in reading order.
//
//nolint:gochecknoglobals // immutable lookup table.
var Units = [...]Unit{Days, Hours, Minutes, Seconds}

func (u Unit) String() string {
	switch u {
	case Days:
		return "Days"
	case Hours:
		return "Hours"
	case Minutes:
		return "Minutes"
	case Seconds:
		return "Seconds"
	default:
		return "Unknown"
	}
}

// Widths is the number of digit slots per unit.
type Widths struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Of returns the width of unit u.
func (w Widths) Of(u Unit) int {
	switch u {
	case Days:
		return w.Days
	case Hours:
		return w.Hours
	case Minutes:
		return w.Minutes
	case Seconds:
		return w.Seconds
	default:
		return 0
	}
}

// Total is the number of slots across all units.
func (w Widths) Total() int {
	return w.Days + w.Hours + w.Minutes + w.Seconds
}

// Slot addresses one digit position. Index 0 is the most significant digit.
type Slot struct {
	Unit  Unit
	Index int
}

// SlotsFor lists the slots for w in reading order.
func SlotsFor(w Widths) []Slot {
	slots := make([]Slot, 0, w.Total())
	for _, u := range Units {
		for i := range w.Of(u) {
			slots = append(slots, Slot{Unit: u, Index: i})
		}
	}
	return slots
}

// Adapter is the presentational sink a Countdown drives.
type Adapter interface {
	// InitGroups builds one slot per digit and returns them in reading order.
	InitGroups(widths Widths) ([]Slot, error)
	// TransitionDigit swaps the digit shown in slot and calls done exactly once
	// when the swap has finished. from is Unset on the first paint.
	TransitionDigit(slot Slot, from, to byte, done func())
}

// Canceler is implemented by adapters that can abandon in-flight transitions.
// A stopped Countdown calls it once so no stale animation keeps running.
type Canceler interface {
	CancelTransitions()
}
