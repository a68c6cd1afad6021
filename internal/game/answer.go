package game

// AnswerSubmission is the one player-originated mutation in a round,
// created at most once when the local player answers.
type AnswerSubmission struct {
	Answer string `json:"answer"`
	// ResponseTime is seconds elapsed between media start and the answer.
	ResponseTime float64 `json:"response_time"`
}

// AnswerResult is the server's scoring of a submission.
type AnswerResult struct {
	Answer       string  `json:"answer"`
	IsCorrect    bool    `json:"is_correct"`
	PointsEarned int     `json:"points_earned"`
	ResponseTime float64 `json:"response_time"`
}

// PlayerRoundScore is one player's outcome for a single round.
type PlayerRoundScore struct {
	PointsEarned int     `json:"points_earned"`
	IsCorrect    bool    `json:"is_correct"`
	ResponseTime float64 `json:"response_time"`
}

// RoundResults is the reveal payload broadcast when a round ends.
type RoundResults struct {
	CorrectAnswer string `json:"correct_answer"`
	Round         *Round `json:"round_data,omitempty"`
	// PlayerScores maps username to that player's round outcome.
	PlayerScores map[string]PlayerRoundScore `json:"player_scores"`
	// UpdatedPlayers carries running totals sorted by score.
	UpdatedPlayers []Player `json:"updated_players"`
}
