package tui

import "math"

// glyphs are 3x5 block digits.
//
//nolint:gochecknoglobals // immutable lookup table.
var glyphs = map[byte][glyphHeight]string{
	'0': {"███", "█ █", "█ █", "█ █", "███"},
	'1': {"  █", "  █", "  █", "  █", "  █"},
	'2': {"███", "  █", "███", "█  ", "███"},
	'3': {"███", "  █", "███", "  █", "███"},
	'4': {"█ █", "█ █", "███", "  █", "  █"},
	'5': {"███", "█  ", "███", "  █", "███"},
	'6': {"███", "█  ", "███", "█ █", "███"},
	'7': {"███", "  █", "  █", "  █", "  █"},
	'8': {"███", "█ █", "███", "█ █", "███"},
	'9': {"███", "█ █", "███", "  █", "███"},
}

//nolint:gochecknoglobals // immutable lookup table.
var colonGlyph = [glyphHeight]string{" ", "▪", " ", "▪", " "}

const blankGlyphRow = "   "

func glyphRow(d byte, row int) string {
	g, ok := glyphs[d]
	if !ok || row < 0 || row >= glyphHeight {
		return blankGlyphRow
	}
	return g[row]
}

// slideRows renders a digit mid-transition. progress 0 shows from, 1 shows to;
// in between, to enters from the top while from leaves through the bottom.
func slideRows(from, to byte, progress float64) [glyphHeight]string {
	offset := int(math.Round(math.Max(0, math.Min(1, progress)) * glyphHeight))
	var rows [glyphHeight]string
	for r := range glyphHeight {
		if r < offset {
			rows[r] = glyphRow(to, glyphHeight-offset+r)
		} else {
			rows[r] = glyphRow(from, r-offset)
		}
	}
	return rows
}
