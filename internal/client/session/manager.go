// Package session owns the client's authenticated-or-not state. The Manager
// is the only component allowed to mutate the session: it reconciles the
// in-memory state against the persistent store on every navigation, enforces
// role-gated route access, and drives the login/logout transitions.
package session

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/skytrack-dev/skytrack/internal/client/gateway"
	"github.com/skytrack-dev/skytrack/internal/client/models"
	"github.com/skytrack-dev/skytrack/internal/client/store"
	"github.com/skytrack-dev/skytrack/internal/client/token"
	"github.com/skytrack-dev/skytrack/internal/common"
	"github.com/skytrack-dev/skytrack/internal/logging"
)

// Navigator is the routing collaborator. The Manager never decides routing
// beyond allow/redirect; it delegates the actual movement.
type Navigator interface {
	// Navigate moves to path. replace=true substitutes the current history
	// entry instead of pushing a new one.
	Navigate(path string, replace bool)

	// CurrentPath returns the path currently displayed.
	CurrentPath() string
}

// Snapshot is the observable state triple exposed to consumers.
type Snapshot struct {
	User         *models.User
	Token        string
	CheckingAuth bool
}

// Manager holds the session for the lifetime of the process. Construct one
// at application start and pass it by reference to consumers.
type Manager struct {
	store *store.Store
	gw    gateway.Client
	nav   Navigator
	log   logging.Logger

	mu       sync.Mutex
	user     *models.User
	token    string
	checking bool
	gen      uint64
	subs     []chan struct{}

	// mutationMu is the single in-flight permit for login/logout, so two
	// mutations can never interleave their writes to the store.
	mutationMu sync.Mutex

	// verify collapses concurrent profile verifications into one call.
	verify singleflight.Group
}

// NewManager builds a Manager in the initial "unknown" state: checking is
// true until the first reconciliation resolves it. A nil logger is replaced
// with a no-op one.
func NewManager(st *store.Store, gw gateway.Client, nav Navigator, log logging.Logger) *Manager {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Manager{
		store:    st,
		gw:       gw,
		nav:      nav,
		log:      log,
		checking: true,
	}
}

// Snapshot returns the current observable state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{User: m.user, Token: m.token, CheckingAuth: m.checking}
}

// Subscribe returns a channel receiving a coalesced signal after every
// state transition. Consumers call Snapshot to re-read.
func (m *Manager) Subscribe() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan struct{}, 1)
	m.subs = append(m.subs, ch)
	return ch
}

func (m *Manager) notifySubs() {
	m.mu.Lock()
	subs := m.subs
	m.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Reconcile derives a trustworthy session state for a navigation to path.
// It runs on mount and on every route change. All failures are terminal and
// self-healing (clear state, redirect when the route demands it); nothing
// escapes to the caller.
//
// Overlapping runs are resolved by a generation counter: a run that has been
// superseded by a newer navigation never applies its outcome, so a stale
// redirect cannot overwrite a fresh valid session.
func (m *Manager) Reconcile(ctx context.Context, path string) {
	gen := m.begin()

	// Restore persisted state. A stored user is adopted before the token is
	// confirmed; the next profile verification corrects a stale adoption.
	storedUser, err := m.store.GetUser(ctx)
	if err != nil {
		m.log.Error(ctx, "failed to read stored user", "error", err)
	}
	storedToken, err := m.store.GetToken(ctx)
	if err != nil {
		m.log.Error(ctx, "failed to read stored token", "error", err)
	}

	m.mu.Lock()
	if m.token == "" && storedToken != "" {
		m.token = storedToken
	}
	if m.user == nil && storedUser != nil && storedToken != "" {
		m.user = storedUser
	}
	user := m.user
	m.mu.Unlock()

	// Public destinations resolve without a server call and without a
	// redirect, session or not.
	if models.IsPublic(path) {
		m.finish(gen)
		return
	}

	// Cached-trust: once a user is in memory there is no re-verification per
	// navigation, only route policy enforcement.
	if user != nil {
		if models.RequiresAdmin(path) && !user.IsAdmin() {
			if m.finish(gen) {
				m.nav.Navigate(models.LoginRoute, true)
			}
			return
		}
		m.finish(gen)
		return
	}

	// No user anywhere: ask the gateway who the bearer token belongs to.
	// Rapid navigations share a single in-flight call.
	v, verr, _ := m.verify.Do("profile", func() (any, error) {
		return m.gw.Profile(ctx)
	})

	if !m.isCurrent(gen) {
		return
	}

	if verr != nil {
		m.log.Warn(ctx, "profile verification failed, clearing session", "error", verr)
		m.clearLocal(ctx)
		if m.finish(gen) && models.RequiresAdmin(path) {
			m.nav.Navigate(models.LoginRoute, true)
		}
		return
	}

	u := v.(*models.User)
	if u.Role == "" {
		u.Role = models.RoleUser
	}

	m.mu.Lock()
	m.user = u
	m.mu.Unlock()

	// The token is left as-is: verification confirms identity, it does not
	// re-issue credentials.
	if err := m.store.SetUser(ctx, u); err != nil {
		m.log.Error(ctx, "failed to persist verified user", "error", err)
	}

	if models.RequiresAdmin(path) && !u.IsAdmin() {
		if m.finish(gen) {
			m.nav.Navigate(models.LoginRoute, true)
		}
		return
	}
	m.finish(gen)
}

// Login exchanges credentials for a session and navigates to the default
// authenticated route. It is the only session operation whose failure
// escapes to the caller, so the UI can show an inline message.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	if !m.mutationMu.TryLock() {
		return common.ErrMutationInFlight
	}
	defer m.mutationMu.Unlock()

	tok, err := m.gw.Login(ctx, email, password)
	if err != nil {
		return err
	}

	u := m.identityFromToken(ctx, tok, email)

	m.mu.Lock()
	m.user = u
	m.token = tok
	// A login supersedes any reconciliation still in flight.
	m.gen++
	m.checking = false
	m.mu.Unlock()

	if err := m.store.SetSession(ctx, u, tok); err != nil {
		m.log.Error(ctx, "failed to persist session", "error", err)
	}

	m.notifySubs()
	m.nav.Navigate(models.DefaultAuthedRoute, true)
	return nil
}

// Logout ends the session. The gateway call is best effort: whatever it
// does, the local session is cleared and navigation lands on the login
// route. Safe to call repeatedly.
func (m *Manager) Logout(ctx context.Context) {
	m.mutationMu.Lock()
	defer m.mutationMu.Unlock()

	if err := m.gw.Logout(ctx); err != nil {
		m.log.Warn(ctx, "gateway logout failed", "error", err)
	}

	m.clearLocal(ctx)

	m.mu.Lock()
	// A logout supersedes any reconciliation still in flight.
	m.gen++
	m.checking = false
	m.mu.Unlock()

	m.notifySubs()
	m.nav.Navigate(models.LoginRoute, true)
}

// identityFromToken builds the identity record from the token's claims,
// defaulting missing fields from the login email. An undecodable token is
// fine: the gateway accepted the credentials, so identity falls back to
// what the caller knows.
func (m *Manager) identityFromToken(ctx context.Context, tok, email string) *models.User {
	claims, err := token.DecodeClaims(tok)
	if err != nil {
		m.log.Warn(ctx, "token claims not decodable, using defaults", "error", err)
		claims = &token.Claims{}
	}

	u := &models.User{
		ID:       claims.UserID,
		Email:    claims.Email,
		Username: claims.Username,
		Role:     models.Role(claims.Role),
	}
	if u.Email == "" {
		u.Email = email
	}
	if u.Username == "" {
		u.Username = email
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	return u
}

// clearLocal wipes both the in-memory and the persisted session.
func (m *Manager) clearLocal(ctx context.Context) {
	m.mu.Lock()
	m.user = nil
	m.token = ""
	m.mu.Unlock()

	if err := m.store.ClearSession(ctx); err != nil {
		m.log.Error(ctx, "failed to clear persisted session", "error", err)
	}
}

// begin starts a reconciliation generation and raises the checking flag.
func (m *Manager) begin() uint64 {
	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.checking = true
	m.mu.Unlock()

	m.notifySubs()
	return gen
}

// finish lowers the checking flag if gen is still the newest reconciliation
// and reports whether it was. A superseded run leaves the flag to its
// successor and must not apply redirects.
func (m *Manager) finish(gen uint64) bool {
	m.mu.Lock()
	current := gen == m.gen
	if current {
		m.checking = false
	}
	m.mu.Unlock()

	if current {
		m.notifySubs()
	}
	return current
}

func (m *Manager) isCurrent(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return gen == m.gen
}
