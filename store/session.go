package store

import (
	"context"

	"github.com/webchat-dev/webchat/core"
)

// Fixed keys under which the credential and identity are persisted, so a
// restarted process can attempt a silent session validation before forcing
// a login.
const (
	KeyToken    = "session.token"
	KeyUserID   = "session.user_id"
	KeyUsername = "session.username"
)

// SessionStore persists at most one session across process restarts.
type SessionStore interface {
	// Save replaces whatever session is persisted with the given one.
	Save(ctx context.Context, session core.Session) error

	// Load returns the persisted session, or nil when none is stored. A
	// partial record (missing or unusable fields) reports absence, not an
	// error.
	Load(ctx context.Context) (*core.Session, error)

	// Clear removes the persisted session. Clearing an empty store is a
	// no-op.
	Clear(ctx context.Context) error

	Close() error
}
