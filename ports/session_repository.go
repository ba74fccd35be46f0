package ports

import (
	"context"

	"glycorisk/domain/core"
	"glycorisk/domain/session"
)

// SessionRepository stores per-browser session state
type SessionRepository interface {
	// Load returns the stored state, or a NOT_FOUND error
	Load(ctx context.Context, id core.ID) (*session.State, error)

	// Save creates or replaces the state and refreshes its expiry
	Save(ctx context.Context, state *session.State) error

	// Delete removes the state; deleting a missing session is not an error
	Delete(ctx context.Context, id core.ID) error
}
