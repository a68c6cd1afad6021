package lyrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActiveLineIndex(t *testing.T) {
	lines := []Line{
		{TimeMs: 0, Text: "first"},
		{TimeMs: 1000, Text: ""},
		{TimeMs: 2000, Text: "third"},
	}

	testCases := []struct {
		name       string
		positionMs int
		expected   int
	}{
		{"before everything", -10, NoActiveLine},
		{"at first line", 0, 0},
		{"inside first line", 999, 0},
		{"inside blank beat", 1500, 1},
		{"exactly at a boundary", 2000, 2},
		{"past the end", 60_000, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ActiveLineIndex(lines, tc.positionMs))
		})
	}

	t.Run("empty list", func(t *testing.T) {
		assert.Equal(t, NoActiveLine, ActiveLineIndex(nil, 1000))
	})

	t.Run("shared timestamps pick the greatest index", func(t *testing.T) {
		shared := []Line{
			{TimeMs: 500, Text: "a"},
			{TimeMs: 500, Text: "b"},
		}
		assert.Equal(t, 1, ActiveLineIndex(shared, 500))
	})
}

func TestActiveLineIndexMonotonic(t *testing.T) {
	lines := []Line{
		{TimeMs: 0, Text: "a"},
		{TimeMs: 800, Text: ""},
		{TimeMs: 800, Text: "b"},
		{TimeMs: 2400, Text: "c"},
	}

	last := NoActiveLine
	for pos := 0; pos <= 3000; pos += 37 {
		idx := ActiveLineIndex(lines, pos)
		assert.GreaterOrEqual(t, idx, last, "index regressed at position %d", pos)
		last = idx
	}
}

func TestHighlightText(t *testing.T) {
	lines := []Line{
		{TimeMs: 0, Text: "first"},
		{TimeMs: 1000, Text: ""},
	}

	assert.Equal(t, "first", HighlightText(lines, 0))
	assert.Empty(t, HighlightText(lines, 1), "blank beat renders nothing")
	assert.Empty(t, HighlightText(lines, NoActiveLine))
	assert.Empty(t, HighlightText(lines, 99))
}
