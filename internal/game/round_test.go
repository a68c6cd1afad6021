package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizbeat/quizbeat/internal/lyrics"
)

func TestMaxPlaySeconds(t *testing.T) {
	fastIntro := &Round{
		QuestionType: QuestionFastIntro,
		ExtraData:    ExtraData{AudioDuration: 5},
	}
	assert.Equal(t, 5.0, fastIntro.MaxPlaySeconds())

	fullLength := &Round{
		QuestionType: QuestionGuessTitle,
		ExtraData:    ExtraData{AudioDuration: 5},
	}
	assert.Zero(t, fullLength.MaxPlaySeconds(), "only fast intro truncates playback")

	noWindow := &Round{QuestionType: QuestionFastIntro}
	assert.Zero(t, noWindow.MaxPlaySeconds())
}

func TestPlaysDuringReveal(t *testing.T) {
	testCases := []struct {
		questionType QuestionType
		expected     bool
	}{
		{QuestionGuessTitle, false},
		{QuestionGuessArtist, false},
		{QuestionFastIntro, false},
		{QuestionKaraoke, false},
		{QuestionLyricsFill, true},
		{QuestionGuessYear, true},
	}

	for _, tc := range testCases {
		t.Run(string(tc.questionType), func(t *testing.T) {
			r := &Round{QuestionType: tc.questionType}
			assert.Equal(t, tc.expected, r.PlaysDuringReveal())
		})
	}
}

func TestHasPreview(t *testing.T) {
	assert.True(t, (&Round{PreviewURL: "https://cdn.example.com/p.mp3"}).HasPreview())
	assert.False(t, (&Round{}).HasPreview())

	var nilRound *Round
	assert.False(t, nilRound.HasPreview())
}

func TestSyncedLines(t *testing.T) {
	preParsed := &Round{ExtraData: ExtraData{SyncedLyrics: []lyrics.Line{{TimeMs: 0, Text: "a"}}}}
	assert.Equal(t, []lyrics.Line{{TimeMs: 0, Text: "a"}}, preParsed.SyncedLines())
	assert.True(t, preParsed.HasSyncedLyrics())

	rawLRC := &Round{ExtraData: ExtraData{LyricsLRC: "[00:12.00]Line one\n[00:15.00]Line two"}}
	lines := rawLRC.SyncedLines()
	assert.Equal(t, []lyrics.Line{
		{TimeMs: 12_000, Text: "Line one"},
		{TimeMs: 15_000, Text: "Line two"},
	}, lines)
	assert.True(t, rawLRC.HasSyncedLyrics())

	assert.Nil(t, (&Round{}).SyncedLines())
	assert.False(t, (&Round{}).HasSyncedLyrics())
}

func TestIsMultipleChoice(t *testing.T) {
	assert.True(t, (&Round{Options: []string{"a", "b"}}).IsMultipleChoice())
	assert.False(t, (&Round{}).IsMultipleChoice())
}

func TestIsRoundAuthority(t *testing.T) {
	g := &Game{Host: 7}

	assert.True(t, IsRoundAuthority(7, g))
	assert.False(t, IsRoundAuthority(8, g))
	assert.False(t, IsRoundAuthority(0, g))
	assert.False(t, IsRoundAuthority(7, nil))
}

// The backend serializes ids as integer primary keys; these payloads
// mirror its serializer output.
func TestRoundDecodesBackendPayload(t *testing.T) {
	payload := `{
		"id": 412,
		"round_number": 3,
		"track_id": "12345",
		"track_name": "One More Time",
		"artist_name": "Daft Punk",
		"preview_url": "https://cdn.example.com/p.mp3",
		"question_type": "guess_title",
		"question_text": "Quel est le titre ?",
		"options": ["One More Time", "Aerodynamic"],
		"extra_data": {"audio_duration": 5},
		"duration": 30,
		"started_at": "2026-03-14T15:09:26.535897Z"
	}`

	var r Round
	require.NoError(t, json.Unmarshal([]byte(payload), &r))
	assert.Equal(t, 412, r.ID)
	assert.Equal(t, 3, r.RoundNumber)
	assert.Equal(t, QuestionGuessTitle, r.QuestionType)
	assert.Equal(t, 5.0, r.MaxPlaySeconds())
}

func TestGameDecodesBackendPayload(t *testing.T) {
	payload := `{
		"id": 31,
		"room_code": "ABCD",
		"host": 7,
		"mode": "classique",
		"status": "in_progress",
		"round_duration": 30,
		"timer_start_round": 5,
		"score_display_duration": 10
	}`

	var g Game
	require.NoError(t, json.Unmarshal([]byte(payload), &g))
	assert.Equal(t, 31, g.ID)
	assert.Equal(t, 7, g.Host)
	assert.True(t, IsRoundAuthority(7, &g))
}

func TestRoundResultsDecodeBackendPayload(t *testing.T) {
	payload := `{
		"correct_answer": "Daft Punk",
		"player_scores": {"alice": {"points_earned": 1200, "is_correct": true, "response_time": 3.5}},
		"updated_players": [{"id": 3, "user": 7, "username": "alice", "score": 4200, "is_connected": true}]
	}`

	var res RoundResults
	require.NoError(t, json.Unmarshal([]byte(payload), &res))
	require.Len(t, res.UpdatedPlayers, 1)
	assert.Equal(t, 7, res.UpdatedPlayers[0].UserID)
	assert.Equal(t, 4200, res.UpdatedPlayers[0].Score)
}
