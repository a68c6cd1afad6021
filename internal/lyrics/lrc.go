package lyrics

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var lrcLineRe = regexp.MustCompile(`^\[(\d{1,2}):(\d{2})(?:\.(\d{1,3}))?\]\s*(.*)$`)

// ParseLRC parses LRC-formatted synced lyrics into timed lines sorted by
// timestamp. Lines without a timestamp tag (metadata headers, garbage) are
// skipped. Empty text lines are kept: they mark instrumental breaks.
func ParseLRC(lrc string) []Line {
	var lines []Line
	for _, raw := range strings.Split(lrc, "\n") {
		m := lrcLineRe.FindStringSubmatch(strings.TrimSpace(raw))
		if m == nil {
			continue
		}
		minutes, _ := strconv.Atoi(m[1])
		seconds, _ := strconv.Atoi(m[2])

		// Fractional part may be centiseconds or milliseconds.
		frac := m[3]
		if frac == "" {
			frac = "0"
		}
		ms, _ := strconv.Atoi(frac)
		if len(frac) == 2 {
			ms *= 10
		}

		lines = append(lines, Line{
			TimeMs: minutes*60_000 + seconds*1000 + ms,
			Text:   strings.TrimSpace(m[4]),
		})
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].TimeMs < lines[j].TimeMs
	})
	return lines
}
