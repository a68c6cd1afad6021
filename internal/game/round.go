package game

import (
	"github.com/quizbeat/quizbeat/internal/lyrics"
)

// QuestionType selects the rendering variant and the media/lyric behavior
// for a round.
type QuestionType string

const (
	QuestionGuessTitle  QuestionType = "guess_title"
	QuestionGuessArtist QuestionType = "guess_artist"
	QuestionFastIntro   QuestionType = "fast_intro"
	QuestionGuessYear   QuestionType = "guess_year"
	QuestionLyricsFill  QuestionType = "lyrics_fill"
	QuestionKaraoke     QuestionType = "karaoke"
)

// ExtraData is the mode-specific bag attached to a round. Fields are only
// populated for the question types that use them.
type ExtraData struct {
	// AudioDuration truncates playback after this many seconds (fast intro).
	AudioDuration float64 `json:"audio_duration,omitempty"`
	// LyricsSnippet is the fill-in-the-blank text with "_____" markers.
	LyricsSnippet string `json:"lyrics_snippet,omitempty"`
	// SyncedLyrics are timestamped lines for highlight-timing.
	SyncedLyrics []lyrics.Line `json:"synced_lyrics,omitempty"`
	// LyricsLRC is the raw LRC document karaoke rounds ship instead of a
	// pre-parsed line list.
	LyricsLRC string `json:"lyrics_lrc,omitempty"`
	// PlainLyrics is the unsynced fallback when no timestamps exist.
	PlainLyrics []string `json:"plain_lyrics,omitempty"`
	// YoutubeVideoID names the karaoke video.
	YoutubeVideoID string `json:"youtube_video_id,omitempty"`
	// Year is the release year for guess_year rounds.
	Year int `json:"year,omitempty"`
}

// Round is one timed question instance within a game. The server owns it;
// the client only derives display state and never mutates it.
type Round struct {
	ID           int          `json:"id"`
	RoundNumber  int          `json:"round_number"`
	TrackID      string       `json:"track_id"`
	TrackName    string       `json:"track_name"`
	ArtistName   string       `json:"artist_name"`
	PreviewURL   string       `json:"preview_url"`
	QuestionType QuestionType `json:"question_type"`
	QuestionText string       `json:"question_text"`
	Options      []string     `json:"options"`
	ExtraData    ExtraData    `json:"extra_data"`
	// Duration is the total answer window in seconds.
	Duration int `json:"duration"`
	// StartedAt is the server-declared ISO timestamp for the round's
	// authoritative clock. Kept as a raw string: an absent or malformed
	// value is a valid state the timing code has to absorb.
	StartedAt string `json:"started_at"`
	EndedAt   string `json:"ended_at,omitempty"`
}

// HasPreview reports whether a streamable source exists for this round.
// A missing preview is a valid terminal display state, not an error.
func (r *Round) HasPreview() bool {
	return r != nil && r.PreviewURL != ""
}

// MaxPlaySeconds returns the playback truncation for this round, or 0 when
// the full preview plays. Only the fast-intro variant truncates.
func (r *Round) MaxPlaySeconds() float64 {
	if r.QuestionType == QuestionFastIntro && r.ExtraData.AudioDuration > 0 {
		return r.ExtraData.AudioDuration
	}
	return 0
}

// PlaysDuringReveal reports whether the track is only played back in the
// results phase. Text-driven variants keep the question phase silent so
// the audio does not give the answer away.
func (r *Round) PlaysDuringReveal() bool {
	switch r.QuestionType {
	case QuestionLyricsFill, QuestionGuessYear:
		return true
	default:
		return false
	}
}

// SyncedLines returns the timestamped lyric lines for this round, parsing
// the raw LRC document when no pre-parsed list was sent.
func (r *Round) SyncedLines() []lyrics.Line {
	if len(r.ExtraData.SyncedLyrics) > 0 {
		return r.ExtraData.SyncedLyrics
	}
	if r.ExtraData.LyricsLRC != "" {
		return lyrics.ParseLRC(r.ExtraData.LyricsLRC)
	}
	return nil
}

// HasSyncedLyrics reports whether timestamped lines are available.
func (r *Round) HasSyncedLyrics() bool {
	return len(r.SyncedLines()) > 0
}

// IsMultipleChoice reports whether the round offers fixed options; without
// them the answer is free text.
func (r *Round) IsMultipleChoice() bool {
	return len(r.Options) > 0
}
