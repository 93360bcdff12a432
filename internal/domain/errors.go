package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a game session has not been initialized.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrQuestionSetNotFound indicates the question set could not be loaded.
	ErrQuestionSetNotFound = errors.New("question set not found")
	// ErrPlayerNotFound is returned when a player id does not resolve in the session.
	ErrPlayerNotFound = errors.New("player not found in session")
	// ErrNotAllowed flags a call that reached the core without the required
	// capability; authorization belongs to the caller, this is a backstop.
	ErrNotAllowed = errors.New("identity lacks required capability")
)
