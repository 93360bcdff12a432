package domain

// Snapshot is the tagged, role-specific projection of session state.
// It is the only payload that crosses into rendering; the core never
// produces markup.
type Snapshot struct {
	Kind string `json:"kind"`
	Data any    `json:"data"`
}

// Host snapshot kinds.
const (
	KindPreparation        = "preparation"
	KindLobby              = "lobby"
	KindQuestionHost       = "question_host"
	KindQuestionResultHost = "question_result_host"
	KindLeaderboardHost    = "leaderboard_host"
	KindDoneHost           = "done_host"
)

// Player snapshot kinds.
const (
	KindJoinScreen           = "join_screen"
	KindQuestionPlayer       = "question_player"
	KindQuestionResultPlayer = "question_result_player"
	KindLeaderboardPlayer    = "leaderboard_player"
	KindDonePlayer           = "done_player"
	KindNotReady             = "not_ready"
)

// LobbyData lists who has joined so far, in join order.
type LobbyData struct {
	Players []string `json:"players"`
}

// QuestionView is the shared question payload. Correct flags and the
// histogram are only populated for result views.
type QuestionView struct {
	ID        string   `json:"id"`
	Ordinal   int      `json:"ordinal"`
	Text      string   `json:"text"`
	Options   []string `json:"options"`
	Duration  int      `json:"duration"`
	Correct   *int     `json:"correct,omitempty"`
	Histogram []int    `json:"histogram,omitempty"`
}

// QuestionHostData is the gamemaster's view of the current question,
// with the running count of submissions.
type QuestionHostData struct {
	Question    QuestionView `json:"question"`
	Submissions int          `json:"submissions"`
}

// QuestionPlayerData adds the viewer's own submission state.
type QuestionPlayerData struct {
	Question QuestionView `json:"question"`
	Answered bool         `json:"answered"`
	Chosen   *int         `json:"chosen,omitempty"`
}

// QuestionResultPlayerData adds the points the viewer earned on this question.
type QuestionResultPlayerData struct {
	Question QuestionView `json:"question"`
	Answered bool         `json:"answered"`
	Chosen   *int         `json:"chosen,omitempty"`
	Awarded  int          `json:"awarded"`
}

// LeaderboardEntry is one ranked row. Color comes from a fixed palette,
// assigned cyclically by rank.
type LeaderboardEntry struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Color    string `json:"color"`
}

// LeaderboardData is the host leaderboard payload.
type LeaderboardData struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardPlayerData adds the viewer's own running total.
type LeaderboardPlayerData struct {
	Entries []LeaderboardEntry `json:"entries"`
	Total   int                `json:"total"`
}

// JoinScreenData prefills the join form.
type JoinScreenData struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// DonePlayerData carries the viewer's final aggregated score.
type DonePlayerData struct {
	Total int `json:"total"`
}
