package app

import "livequiz-service/internal/domain"

// Capabilities is the external authorization oracle. The session core
// assumes callers were checked before mutating operations reach it and
// only re-checks defensively.
type Capabilities interface {
	CanHost(id domain.Identity) bool
	CanPlay(id domain.Identity) bool
}

// KeyCapabilities grants the host capability to callers presenting the
// configured shared key, and the play capability to anyone with an
// identity. Stands in for a real authorization backend.
type KeyCapabilities struct {
	HostKey string
}

func (c KeyCapabilities) CanHost(id domain.Identity) bool {
	return c.HostKey != "" && id.HostKey == c.HostKey
}

func (c KeyCapabilities) CanPlay(id domain.Identity) bool {
	return id.UserID != "" || id.AnonID != ""
}
