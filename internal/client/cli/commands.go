package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/skytrack-dev/skytrack/internal/client/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates. A failure is shown
// inline and the shell keeps running; this is the only session operation
// whose error ever reaches the user.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, email, password); err != nil {
		printlnFn("Login failed:", err.Error())
		return err
	}

	printlnFn("Welcome,", a.session.Snapshot().User.Username)
	return nil
}

// Logout ends the session. It never fails from the user's point of view.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	printlnFn("Logged out.")
	return nil
}

// Open navigates to a route path, letting the session layer decide whether
// the destination is allowed.
func (a *App) Open(ctx context.Context, path string) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	a.Navigate(path, false)
	a.session.Reconcile(ctx, path)
	return nil
}

// Back pops the navigation history and re-runs reconciliation on the
// previous route.
func (a *App) Back(ctx context.Context) error {
	a.mu.Lock()
	if len(a.history) > 1 {
		a.history = a.history[:len(a.history)-1]
	}
	path := a.history[len(a.history)-1]
	a.mu.Unlock()

	a.renderView(path)
	a.session.Reconcile(ctx, path)
	return nil
}

// WhoAmI prints the observable session state.
func (a *App) WhoAmI(ctx context.Context) error {
	snap := a.session.Snapshot()
	if snap.User == nil {
		printlnFn("Not signed in.")
		return nil
	}
	printlnFn(fmt.Sprintf("%s <%s> role=%s", snap.User.Username, snap.User.Email, snap.User.Role))
	return nil
}

// Prefs shows the stored preferences, or sets one when key and value are
// given.
func (a *App) Prefs(ctx context.Context, args []string) error {
	prefs, err := a.store.GetPreferences(ctx)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if len(prefs) == 0 {
			printlnFn("No preferences saved.")
			return nil
		}
		for k, v := range prefs {
			printlnFn(fmt.Sprintf("%s = %v", k, v))
		}
		return nil
	}

	if len(args) != 2 {
		printlnFn("Usage: prefs [<key> <value>]")
		return nil
	}

	prefs[args[0]] = args[1]
	if err := a.store.SetPreferences(ctx, prefs); err != nil {
		return err
	}
	printlnFn("Saved.")
	return nil
}

// Reset wipes every slot of the local storage and drops the session.
func (a *App) Reset(ctx context.Context) error {
	if err := a.store.ClearAll(ctx); err != nil {
		return err
	}
	a.session.Logout(ctx)
	printlnFn("Local data cleared.")
	return nil
}

// Routes lists the navigable route paths.
func (a *App) Routes(ctx context.Context) error {
	for _, r := range models.KnownRoutes() {
		marker := ""
		switch {
		case models.RequiresAdmin(r):
			marker = " (admin)"
		case models.IsPublic(r):
			marker = " (public)"
		}
		printlnFn("  " + r + marker)
	}
	return nil
}
