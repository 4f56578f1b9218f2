package countdown

// minGroupWidth is the width of the hour, minute and second groups, and the
// smallest width the day group can have.
const minGroupWidth = 2

// Format renders value as exactly width ASCII digits, left padded with '0'.
// Negative values render as zero. A value wider than width keeps only its
// low-order digits, so a slot never receives more than one digit.
func Format(value int64, width int) []byte {
	if width <= 0 {
		return []byte{}
	}
	if value < 0 {
		value = 0
	}
	out := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		out[i] = '0' + byte(value%10)
		value /= 10
	}
	return out
}

// DayWidth is the number of day slots needed for days, never less than two.
func DayWidth(days int64) int {
	if n := digitCount(days); n > minGroupWidth {
		return n
	}
	return minGroupWidth
}

// fits reports whether value can be shown in width digits without truncation.
func fits(value int64, width int) bool {
	return digitCount(value) <= width
}

func digitCount(v int64) int {
	if v <= 0 {
		return 1
	}
	n := 0
	for v > 0 {
		n++
		v /= 10
	}
	return n
}
