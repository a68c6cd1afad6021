package lyrics

// Line is one timestamped lyric line. An empty Text at a timestamp is a
// deliberate blank beat (instrumental break): it still occupies its slot in
// the sequence but is never rendered as an active line.
type Line struct {
	TimeMs int    `json:"time_ms"`
	Text   string `json:"text"`
}

// NoActiveLine is returned when no line has started yet at the given
// position, or when the line list is empty.
const NoActiveLine = -1

// ActiveLineIndex returns the greatest index i such that
// lines[i].TimeMs <= positionMs, scanning from the end of the sorted list.
// The "greatest index" rule keeps the result monotonic under a
// monotonically increasing position even when lines share timestamps.
func ActiveLineIndex(lines []Line, positionMs int) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i].TimeMs <= positionMs {
			return i
		}
	}
	return NoActiveLine
}

// HighlightText returns the text to render as the active line, or "" when
// the index is NoActiveLine or the active line is a blank beat.
func HighlightText(lines []Line, index int) string {
	if index < 0 || index >= len(lines) {
		return ""
	}
	return lines[index].Text
}
