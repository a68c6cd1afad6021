package game

// GameMode is the overall flavor of a game session.
type GameMode string

const (
	ModeClassic    GameMode = "classique"
	ModeFast       GameMode = "rapide"
	ModeGeneration GameMode = "generation"
	ModeLyrics     GameMode = "paroles"
	ModeKaraoke    GameMode = "karaoke"
)

// GameStatus is the server-side lifecycle of a game.
type GameStatus string

const (
	StatusWaiting    GameStatus = "waiting"
	StatusInProgress GameStatus = "in_progress"
	StatusFinished   GameStatus = "finished"
	StatusCancelled  GameStatus = "cancelled"
)

// Game describes one game session as served by the backend. Ids are the
// backend's integer primary keys.
type Game struct {
	ID       int        `json:"id"`
	Name     string     `json:"name,omitempty"`
	RoomCode string     `json:"room_code"`
	Host     int        `json:"host"`
	Mode     GameMode   `json:"mode"`
	Status   GameStatus `json:"status"`
	// RoundDuration is the answer window per round in seconds.
	RoundDuration int `json:"round_duration"`
	// TimerStartRound is the lead-in countdown shown before a round's
	// media starts, in seconds.
	TimerStartRound int `json:"timer_start_round"`
	// ScoreDisplayDuration is how long results stay on screen in seconds.
	ScoreDisplayDuration int `json:"score_display_duration"`
	NumRounds            int `json:"num_rounds"`
	MaxPlayers           int `json:"max_players"`
}

// Player is one participant in a game, with their running total.
type Player struct {
	ID          int    `json:"id"`
	UserID      int    `json:"user"`
	Username    string `json:"username"`
	Score       int    `json:"score"`
	Rank        int    `json:"rank,omitempty"`
	IsConnected bool   `json:"is_connected"`
}

// IsRoundAuthority reports whether the given user is the single client in
// the room allowed to trigger server-side round-end and round-advance
// calls. Exactly one participant holds this role; everyone else waits for
// push events.
func IsRoundAuthority(userID int, g *Game) bool {
	return g != nil && userID != 0 && userID == g.Host
}
