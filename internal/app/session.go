package app

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"livequiz-service/internal/domain"
)

const defaultQuestionPoints = 100

// answerKey identifies one ledger slot.
type answerKey struct {
	playerID   string
	questionID string
}

// Session is the in-memory aggregate for one running game. All mutating
// operations (advance, reset, join, submitAnswer) take the write lock,
// so the at-most-one-answer invariant and the single question pointer
// never race; projections take the read lock and observe a consistent
// snapshot.
//
// The question pointer and sub-phase live behind `current`: it is -1 and
// qstate is empty whenever the session is not in progress, or when an
// in-progress session has run out of questions (the zero-question case).
type Session struct {
	id  string
	now func() time.Time

	mu        sync.RWMutex
	state     domain.GameState
	current   int
	qstate    domain.QuestionState
	questions []domain.Question
	players   []*domain.Player
	answers   map[answerKey]domain.Answer
}

// NewSession creates a session in Preparation with an empty catalog.
func NewSession(id string) *Session {
	return NewSessionWithClock(id, time.Now)
}

// NewSessionWithClock allows deterministic timestamps in tests.
func NewSessionWithClock(id string, now func() time.Time) *Session {
	return &Session{
		id:      id,
		now:     now,
		state:   domain.StatePreparation,
		current: -1,
		answers: make(map[answerKey]domain.Answer),
	}
}

// ID returns the game id this session belongs to.
func (s *Session) ID() string { return s.id }

// seedCatalog installs the question set on a freshly created session.
// It is a no-op once a catalog is present or the game has moved past
// Preparation; Reset is the only way to swap questions after that.
func (s *Session) seedCatalog(questions []domain.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StatePreparation || len(s.questions) > 0 {
		return
	}
	s.questions = normalizeQuestions(questions)
}

func (s *Session) needsCatalog() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == domain.StatePreparation && len(s.questions) == 0
}

// normalizeQuestions copies the incoming set so the session owns its
// catalog, fixes ordinals to slice order and fills default point values.
func normalizeQuestions(in []domain.Question) []domain.Question {
	out := make([]domain.Question, len(in))
	copy(out, in)
	for i := range out {
		out[i].Ordinal = i
		out[i].StartedAt = time.Time{}
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
		if out[i].Points == 0 {
			out[i].Points = defaultQuestionPoints
		}
	}
	return out
}

// Advance is the sole phase-transition entry point. Callers are assumed
// to hold the host capability; the state machine itself performs no
// authorization. Unknown state combinations are a no-op.
func (s *Session) Advance() domain.TransitionResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.state == domain.StatePreparation:
		s.state = domain.StateLobby
		return domain.TransitionResult{Uniform: true}

	case s.state == domain.StateLobby:
		s.state = domain.StateInProgress
		if len(s.questions) > 0 {
			s.startQuestionLocked(0)
		}
		return domain.TransitionResult{Uniform: true}

	case s.state == domain.StateInProgress && s.current < 0:
		// A game started with zero questions has nothing to ask:
		// the next advance finishes it.
		s.state = domain.StateDone
		return domain.TransitionResult{Uniform: false}

	case s.state == domain.StateInProgress && s.qstate == domain.QStateAsking:
		s.qstate = domain.QStateResults
		return domain.TransitionResult{Uniform: true}

	case s.state == domain.StateInProgress && s.qstate == domain.QStateResults:
		s.qstate = domain.QStateLeaderboard
		return domain.TransitionResult{Uniform: true}

	case s.state == domain.StateInProgress && s.qstate == domain.QStateLeaderboard:
		if s.current+1 < len(s.questions) {
			s.startQuestionLocked(s.current + 1)
			return domain.TransitionResult{Uniform: true}
		}
		s.state = domain.StateDone
		s.current = -1
		s.qstate = ""
		return domain.TransitionResult{Uniform: false}

	default:
		return domain.TransitionResult{Uniform: false}
	}
}

func (s *Session) startQuestionLocked(idx int) {
	s.current = idx
	s.qstate = domain.QStateAsking
	s.questions[idx].StartedAt = s.now()
}

// Reset returns the session to Preparation, discards all players and
// answers and replaces the catalog with the supplied ordered set.
func (s *Session) Reset(questions []domain.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.StatePreparation
	s.current = -1
	s.qstate = ""
	s.questions = normalizeQuestions(questions)
	s.players = nil
	s.answers = make(map[answerKey]domain.Answer)
}

// Join registers a new player. Joining is allowed while the game is in
// the lobby or in progress and the identity has not joined yet.
func (s *Session) Join(id domain.Identity, name string) domain.JoinResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.StateLobby && s.state != domain.StateInProgress {
		return domain.JoinResult{Reason: domain.RejectNotJoinable}
	}
	if p := s.findPlayerLocked(id); p != nil {
		return domain.JoinResult{Reason: domain.RejectAlreadyJoined}
	}

	name = strings.TrimSpace(name)
	player := &domain.Player{
		ID:       uuid.NewString(),
		Name:     name,
		JoinedAt: s.now(),
	}
	// A player carries exactly one identity dimension.
	if id.UserID != "" {
		player.UserID = id.UserID
	} else {
		player.AnonID = id.AnonID
	}
	s.players = append(s.players, player)
	return domain.JoinResult{Accepted: true, PlayerID: player.ID}
}

// SubmitAnswer appends an answer to the ledger if the submission passes
// every precondition: game in progress, current question in Asking,
// matching question id, known player, no prior answer for the pair.
// Rejections leave the ledger untouched.
func (s *Session) SubmitAnswer(playerID, questionID string, option int) domain.SubmitResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.StateInProgress {
		return domain.SubmitResult{Reason: domain.RejectNotInProgress}
	}
	if s.current < 0 || s.qstate != domain.QStateAsking {
		return domain.SubmitResult{Reason: domain.RejectNotAsking}
	}
	question := s.questions[s.current]
	if question.ID != questionID {
		return domain.SubmitResult{Reason: domain.RejectWrongQuestion}
	}
	if s.playerByIDLocked(playerID) == nil {
		return domain.SubmitResult{Reason: domain.RejectNotJoined}
	}
	key := answerKey{playerID: playerID, questionID: questionID}
	if _, dup := s.answers[key]; dup {
		return domain.SubmitResult{Reason: domain.RejectAlreadyAnswered}
	}

	now := s.now()
	correct, points := scoreAnswer(question, option, now)
	s.answers[key] = domain.Answer{
		PlayerID:    playerID,
		QuestionID:  questionID,
		Option:      option,
		Points:      points,
		SubmittedAt: now,
	}
	return domain.SubmitResult{
		Accepted: true,
		Correct:  correct,
		Awarded:  points,
		Total:    s.totalLocked(playerID),
	}
}

// totalLocked derives the running score by summing awarded points in
// question sequence order, which keeps the result deterministic no
// matter how answers arrived.
func (s *Session) totalLocked(playerID string) int {
	total := 0
	for _, q := range s.questions {
		if a, ok := s.answers[answerKey{playerID: playerID, questionID: q.ID}]; ok {
			total += a.Points
		}
	}
	return total
}

func (s *Session) findPlayerLocked(id domain.Identity) *domain.Player {
	for _, p := range s.players {
		if id.UserID != "" && p.UserID == id.UserID {
			return p
		}
		if id.UserID == "" && id.AnonID != "" && p.AnonID == id.AnonID {
			return p
		}
	}
	return nil
}

func (s *Session) playerByIDLocked(playerID string) *domain.Player {
	for _, p := range s.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// ResolvePlayer maps an identity to the id of an already joined player.
func (s *Session) ResolvePlayer(id domain.Identity) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p := s.findPlayerLocked(id); p != nil {
		return p.ID, true
	}
	return "", false
}

// Players returns the joined players in join order.
func (s *Session) Players() []domain.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, *p)
	}
	return out
}

// Joinable reports whether a not-yet-joined viewer could join right now.
func (s *Session) Joinable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == domain.StateLobby || s.state == domain.StateInProgress
}

// IsInPreparation reports whether the game has not opened its lobby yet.
func (s *Session) IsInPreparation() bool { return s.stateIs(domain.StatePreparation) }

// IsInLobby reports whether the game is waiting for players.
func (s *Session) IsInLobby() bool { return s.stateIs(domain.StateLobby) }

// IsInProgress reports whether the game is running.
func (s *Session) IsInProgress() bool { return s.stateIs(domain.StateInProgress) }

// IsDone reports whether the game has finished.
func (s *Session) IsDone() bool { return s.stateIs(domain.StateDone) }

func (s *Session) stateIs(st domain.GameState) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == st
}

// CurrentQuestionID returns the current question id, or false when the
// game is not in progress or has no current question.
func (s *Session) CurrentQuestionID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != domain.StateInProgress || s.current < 0 {
		return "", false
	}
	return s.questions[s.current].ID, true
}

// IsAsking reports whether the current question accepts answers.
func (s *Session) IsAsking() bool { return s.qstateIs(domain.QStateAsking) }

// IsShowingResults reports whether per-question results are on display.
func (s *Session) IsShowingResults() bool { return s.qstateIs(domain.QStateResults) }

// IsShowingLeaderboard reports whether the leaderboard is on display.
func (s *Session) IsShowingLeaderboard() bool { return s.qstateIs(domain.QStateLeaderboard) }

func (s *Session) qstateIs(qs domain.QuestionState) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == domain.StateInProgress && s.current >= 0 && s.qstate == qs
}
