package lyrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLRC(t *testing.T) {
	lrc := "[ar:Some Artist]\n" +
		"[00:12.00]Line one\n" +
		"[00:17.205]Line two\n" +
		"[00:21]\n" +
		"[01:02.5]Line four\n" +
		"random garbage\n"

	lines := ParseLRC(lrc)
	require.Len(t, lines, 4)

	assert.Equal(t, Line{TimeMs: 12_000, Text: "Line one"}, lines[0])
	assert.Equal(t, Line{TimeMs: 17_205, Text: "Line two"}, lines[1])
	assert.Equal(t, Line{TimeMs: 21_000, Text: ""}, lines[2], "blank beat is kept")
	assert.Equal(t, Line{TimeMs: 62_005, Text: "Line four"}, lines[3])
}

func TestParseLRCCentisecondsScaleToMillis(t *testing.T) {
	lines := ParseLRC("[00:05.25]text")
	require.Len(t, lines, 1)
	assert.Equal(t, 5250, lines[0].TimeMs)
}

func TestParseLRCSortsOutOfOrderTimestamps(t *testing.T) {
	lines := ParseLRC("[00:30]late\n[00:10]early\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "early", lines[0].Text)
	assert.Equal(t, "late", lines[1].Text)
}

func TestParseLRCEmptyInput(t *testing.T) {
	assert.Empty(t, ParseLRC(""))
	assert.Empty(t, ParseLRC("[ti:Title]\n[ar:Artist]\n"))
}
