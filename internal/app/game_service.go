package app

import (
	"context"
	"fmt"

	"livequiz-service/internal/domain"
)

// SessionRepository abstracts how game sessions are stored (in-memory,
// Redis-backed, etc).
type SessionRepository interface {
	GetOrCreate(gameID string) *Session
	Get(gameID string) (*Session, bool)
}

// CatalogRepository loads question sets (from cache/backing store).
type CatalogRepository interface {
	GetQuestionSet(ctx context.Context, gameID string) (domain.QuestionSet, error)
}

// GameService contains the quiz game use cases: the state queries and
// the four mutating operations, each followed by the notification
// fan-out prescribed for it.
type GameService struct {
	sessions SessionRepository
	catalogs CatalogRepository
	caps     Capabilities
	notifier Notifier
	baseURL  string
}

// Option configures a GameService.
type Option func(*GameService)

// WithNotifier wires the push transport; without it pushes are dropped.
func WithNotifier(n Notifier) Option {
	return func(s *GameService) { s.notifier = n }
}

// WithBaseURL sets the public URL prefix echoed on join screens.
func WithBaseURL(url string) Option {
	return func(s *GameService) { s.baseURL = url }
}

func NewGameService(sessions SessionRepository, catalogs CatalogRepository, caps Capabilities, opts ...Option) *GameService {
	s := &GameService{
		sessions: sessions,
		catalogs: catalogs,
		caps:     caps,
		notifier: nopNotifier{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// session returns the game's session, seeding a fresh one with its
// question set on first touch.
func (s *GameService) session(ctx context.Context, gameID string) (*Session, error) {
	sess := s.sessions.GetOrCreate(gameID)
	if sess.needsCatalog() {
		set, err := s.catalogs.GetQuestionSet(ctx, gameID)
		if err != nil {
			return nil, fmt.Errorf("load question set: %w", err)
		}
		sess.seedCatalog(set.Questions)
	}
	return sess, nil
}

// GetState is the pure read path: it projects the viewer's current
// snapshot without mutating anything. Hosts win role resolution; then
// joined players; then eligible joiners get the join screen.
func (s *GameService) GetState(ctx context.Context, gameID string, viewer domain.Identity) (domain.Snapshot, error) {
	sess, err := s.session(ctx, gameID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if s.caps.CanHost(viewer) {
		return sess.ProjectHost(), nil
	}
	if playerID, ok := sess.ResolvePlayer(viewer); ok {
		return sess.ProjectPlayer(playerID), nil
	}
	if sess.Joinable() && s.caps.CanPlay(viewer) {
		return domain.Snapshot{Kind: domain.KindJoinScreen, Data: domain.JoinScreenData{
			Name: viewer.Name,
			URL:  s.gameURL(gameID),
		}}, nil
	}
	return sess.ProjectPlayer(""), nil
}

// Join registers the viewer as a player and refreshes the host screen,
// whose lobby lists everyone who joined.
func (s *GameService) Join(ctx context.Context, gameID string, viewer domain.Identity, name string) (domain.JoinResult, error) {
	if !s.caps.CanPlay(viewer) {
		return domain.JoinResult{Reason: domain.RejectNotAllowed}, nil
	}
	sess, err := s.session(ctx, gameID)
	if err != nil {
		return domain.JoinResult{}, err
	}
	res := sess.Join(viewer, name)
	if res.Accepted {
		s.notifier.Send(gameID, Recipient{Scope: ScopeHost}, sess.ProjectHost())
	}
	return res, nil
}

// SubmitAnswer records an answer for the current question. An accepted
// submission refreshes the host (aggregate counts changed) and the
// submitting player only; other players' views are untouched until the
// next phase change.
func (s *GameService) SubmitAnswer(ctx context.Context, gameID, playerID, questionID string, option int) (domain.SubmitResult, error) {
	sess, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.SubmitResult{}, domain.ErrSessionNotFound
	}
	res := sess.SubmitAnswer(playerID, questionID, option)
	if res.Accepted {
		s.notifier.Send(gameID, Recipient{Scope: ScopeHost}, sess.ProjectHost())
		s.notifier.Send(gameID, Recipient{Scope: ScopePlayer, PlayerID: playerID}, sess.ProjectPlayer(playerID))
	}
	return res, nil
}

// Advance drives the phase machine one step and fans the new state out:
// the host always, then either one shared broadcast (uniform) or one
// personalized snapshot per joined player.
func (s *GameService) Advance(ctx context.Context, gameID string, viewer domain.Identity) (domain.TransitionResult, error) {
	if !s.caps.CanHost(viewer) {
		return domain.TransitionResult{}, domain.ErrNotAllowed
	}
	sess, err := s.session(ctx, gameID)
	if err != nil {
		return domain.TransitionResult{}, err
	}
	res := sess.Advance()
	s.fanout(sess, res)
	return res, nil
}

// Reset returns the game to Preparation with a fresh catalog. A nil
// question set reloads the configured one from the catalog repository.
func (s *GameService) Reset(ctx context.Context, gameID string, viewer domain.Identity, questions []domain.Question) error {
	if !s.caps.CanHost(viewer) {
		return domain.ErrNotAllowed
	}
	sess := s.sessions.GetOrCreate(gameID)
	if questions == nil {
		set, err := s.catalogs.GetQuestionSet(ctx, gameID)
		if err != nil {
			return fmt.Errorf("load question set: %w", err)
		}
		questions = set.Questions
	}
	sess.Reset(questions)
	s.notifier.Send(gameID, Recipient{Scope: ScopeHost}, sess.ProjectHost())
	s.notifier.Send(gameID, Recipient{Scope: ScopePlayers}, sess.ProjectPlayer(""))
	return nil
}

func (s *GameService) fanout(sess *Session, res domain.TransitionResult) {
	gameID := sess.ID()
	s.notifier.Send(gameID, Recipient{Scope: ScopeHost}, sess.ProjectHost())
	if res.Uniform {
		s.notifier.Send(gameID, Recipient{Scope: ScopePlayers}, sess.ProjectPlayer(""))
		return
	}
	for _, p := range sess.Players() {
		s.notifier.Send(gameID, Recipient{Scope: ScopePlayer, PlayerID: p.ID}, sess.ProjectPlayer(p.ID))
	}
}

// IsHost reports whether the viewer holds the host capability. Exposed
// for transports that route host screens differently from player screens.
func (s *GameService) IsHost(viewer domain.Identity) bool {
	return s.caps.CanHost(viewer)
}

// ResolvePlayer maps a viewer identity to its joined player id, if any.
func (s *GameService) ResolvePlayer(ctx context.Context, gameID string, viewer domain.Identity) (string, bool) {
	sess, err := s.session(ctx, gameID)
	if err != nil {
		return "", false
	}
	return sess.ResolvePlayer(viewer)
}

func (s *GameService) gameURL(gameID string) string {
	if s.baseURL == "" {
		return "/games/" + gameID
	}
	return s.baseURL + "/games/" + gameID
}
