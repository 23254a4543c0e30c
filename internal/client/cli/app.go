// Package cli is the terminal shell of the SkyTrack client. It plays the
// router's role for the session layer: every "open" command is a navigation
// event, and the shell carries out the redirects the session manager asks
// for.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/skytrack-dev/skytrack/internal/client/config"
	"github.com/skytrack-dev/skytrack/internal/client/gateway"
	"github.com/skytrack-dev/skytrack/internal/client/models"
	"github.com/skytrack-dev/skytrack/internal/client/session"
	"github.com/skytrack-dev/skytrack/internal/client/store"
	"github.com/skytrack-dev/skytrack/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	db      *sql.DB
	store   *store.Store
	gw      gateway.Client
	session *session.Manager
	log     logging.Logger
	reader  *bufio.Reader

	mu      sync.Mutex
	history []string
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Default()
	}

	db, err := store.InitDatabase(ctx, cfg.StoreDSN)
	if err != nil {
		log.Error(ctx, "error initializing local storage", "error", err)
		return nil, err
	}

	st := store.New(db, log)
	if err := st.WatchFile(ctx, cfg.StoreDSN); err != nil {
		// Not fatal: only cross-process change notifications are lost.
		log.Warn(ctx, "storage watcher unavailable", "error", err)
	}

	tokens := func(ctx context.Context) (string, error) {
		return st.GetToken(ctx)
	}
	gw := gateway.NewHTTPClient(cfg.GatewayBaseURL, cfg.HTTPTimeout, tokens,
		cfg.LoginAttemptsPerMinute, log)

	app := &App{
		config:  cfg,
		db:      db,
		store:   st,
		gw:      gw,
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
		history: []string{models.LoginRoute},
	}
	app.session = session.NewManager(st, gw, app, log)

	return app, nil
}

// Navigate implements session.Navigator. replace=true substitutes the
// current history entry, so "back" cannot return to a denied or stale page.
func (a *App) Navigate(path string, replace bool) {
	a.mu.Lock()
	if replace && len(a.history) > 0 {
		a.history[len(a.history)-1] = path
	} else {
		a.history = append(a.history, path)
	}
	a.mu.Unlock()

	a.renderView(path)
}

// CurrentPath implements session.Navigator.
func (a *App) CurrentPath() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.history[len(a.history)-1]
}

func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.Close(ctx) }()

	// Surface writes made by other SkyTrack processes sharing the store.
	go a.watchStorageChanges(ctx)

	// Initial reconciliation, the way the web client checks on mount.
	a.session.Reconcile(ctx, a.CurrentPath())

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) watchStorageChanges(ctx context.Context) {
	ch := a.store.Subscribe()
	for {
		select {
		case <-ch:
			a.log.Debug(ctx, "local storage changed", "version", a.store.Version())
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) getStatus() string {
	s := ""
	if snap := a.session.Snapshot(); snap.User != nil {
		s = snap.User.Username + " "
	}
	return s + a.CurrentPath()
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().User != nil
}

func (a *App) Close(ctx context.Context) error {
	if err := a.gw.Close(); err != nil {
		a.log.Warn(ctx, "error closing gateway client", "error", err)
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn(ctx, "error closing storage", "error", err)
	}
	return a.db.Close()
}

var printlnFn = fmt.Println
