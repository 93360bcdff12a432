package app

import "livequiz-service/internal/domain"

// RecipientScope selects who a pushed snapshot is addressed to.
type RecipientScope string

const (
	// ScopeHost addresses the gamemaster screen.
	ScopeHost RecipientScope = "host"
	// ScopePlayers addresses every player with one shared snapshot.
	ScopePlayers RecipientScope = "players"
	// ScopePlayer addresses a single player by id.
	ScopePlayer RecipientScope = "player"
)

// Recipient is the abstract address a snapshot is pushed to. PlayerID is
// only meaningful for ScopePlayer.
type Recipient struct {
	Scope    RecipientScope
	PlayerID string
}

// Notifier is the abstract push primitive. Send is fire-and-forget: it
// must not block the mutating call, and delivery failures never roll
// back session state.
type Notifier interface {
	Send(gameID string, to Recipient, snap domain.Snapshot)
}

// nopNotifier backs services constructed without a transport.
type nopNotifier struct{}

func (nopNotifier) Send(string, Recipient, domain.Snapshot) {}
