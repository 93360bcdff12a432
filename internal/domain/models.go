package domain

import "time"

// GameState is the top-level phase of a quiz session.
type GameState string

const (
	StatePreparation GameState = "PREPARATION"
	StateLobby       GameState = "LOBBY"
	StateInProgress  GameState = "INPROGRESS"
	StateDone        GameState = "DONE"
)

// QuestionState is the sub-phase of the current question while the
// session is in progress.
type QuestionState string

const (
	QStateAsking      QuestionState = "ASKING"
	QStateResults     QuestionState = "RESULTS"
	QStateLeaderboard QuestionState = "LEADERBOARD"
)

// Question models an MCQ question with exactly one correct option.
// Options are addressed by index. StartedAt is zero until the question
// becomes current and is stamped exactly once.
type Question struct {
	ID        string    `json:"id"`
	Ordinal   int       `json:"ordinal"`
	Text      string    `json:"text"`
	Options   []string  `json:"options"`
	Correct   int       `json:"correct"`
	Points    int       `json:"points"`   // defaults to 100 if zero
	Duration  int       `json:"duration"` // seconds; 0 disables the time penalty
	StartedAt time.Time `json:"-"`
}

// QuestionSet is the ordered catalog for one session.
type QuestionSet struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// Identity describes whoever is knocking: an authenticated user or an
// anonymous browser session, plus the host key when the caller claims
// the gamemaster role.
type Identity struct {
	UserID  string
	AnonID  string
	HostKey string
	// Name is a display-name hint used to prefill the join screen.
	Name string
}

// Player is a joined participant. Exactly one of UserID/AnonID is set;
// a player is resolved by whichever identity dimension is present.
type Player struct {
	ID       string
	Name     string
	UserID   string
	AnonID   string
	JoinedAt time.Time
}

// Answer is the immutable ledger entry for one (player, question) pair.
type Answer struct {
	PlayerID    string
	QuestionID  string
	Option      int
	Points      int
	SubmittedAt time.Time
}

// TransitionResult reports whether the projection after a transition is
// identical for every player (one broadcast) or differs per player.
type TransitionResult struct {
	Uniform bool
}

// RejectReason is a typed precondition violation. Rejections are
// outcomes, not errors: the session state never changes.
type RejectReason string

const (
	RejectNotInProgress   RejectReason = "not_in_progress"
	RejectNotAsking       RejectReason = "not_asking"
	RejectWrongQuestion   RejectReason = "wrong_question"
	RejectAlreadyAnswered RejectReason = "already_answered"
	RejectNotJoined       RejectReason = "not_joined"
	RejectNotJoinable     RejectReason = "not_joinable"
	RejectAlreadyJoined   RejectReason = "already_joined"
	RejectNotAllowed      RejectReason = "not_allowed"
)

// SubmitResult is the outcome of an answer submission.
type SubmitResult struct {
	Accepted bool
	Reason   RejectReason
	Correct  bool
	Awarded  int
	Total    int
}

// JoinResult is the outcome of a join attempt.
type JoinResult struct {
	Accepted bool
	Reason   RejectReason
	PlayerID string
}
