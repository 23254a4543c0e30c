// Package gateway implements the client of the SkyTrack auth gateway: the
// remote collaborator exposing login, logout, and profile endpoints. The
// gateway's dynamic JSON payloads are decoded into typed records here, at
// the single boundary, so nothing downstream handles loose shapes.
package gateway

import (
	"context"

	"github.com/skytrack-dev/skytrack/internal/client/models"
)

// Client defines the gateway operations the session layer consumes.
//
// Contract:
//   - Login: exchange credentials for a bearer token.
//   - Logout: invalidate the server-side session, best effort.
//   - Profile: fetch the identity behind the current bearer token.
//   - Close: release underlying resources.
//
// All methods must honor context cancellation/timeouts.
type Client interface {
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.User, error)
	Close() error
}

// TokenSource supplies the bearer token attached to authenticated requests.
// An empty token means "send the request unauthenticated".
type TokenSource func(ctx context.Context) (string, error)
