package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/skytrack-dev/skytrack/internal/client/models"
)

func setupStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	dsn := filepath.Join(t.TempDir(), "skytrack.db")
	db, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := New(db, nil)
	t.Cleanup(func() { _ = s.Close() })
	return s, db
}

func TestStore_UserRoundTrip(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	got, err := s.GetUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "empty store must yield no user")

	u := &models.User{
		ID:        "u1",
		Email:     "a@b.com",
		Username:  "a",
		Role:      models.RoleAdmin,
		FirstName: "Ana",
	}
	require.NoError(t, s.SetUser(ctx, u))

	got, err = s.GetUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	require.NoError(t, s.RemoveUser(ctx))
	got, err = s.GetUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_TokenIsStoredRaw(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()

	const tok = "aaa.bbb.ccc"
	require.NoError(t, s.SetToken(ctx, tok))

	var raw []byte
	require.NoError(t, db.QueryRow(
		`SELECT value FROM storage WHERE key = ?`, KeyToken).Scan(&raw))
	assert.Equal(t, tok, string(raw), "token slot must not be JSON-wrapped")

	got, err := s.GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, tok, got)

	require.NoError(t, s.RemoveToken(ctx))
	got, err = s.GetToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_PreferencesAndCacheRoundTrip(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	prefs, err := s.GetPreferences(ctx)
	require.NoError(t, err)
	assert.Empty(t, prefs)

	want := map[string]any{"theme": "dark", "pageSize": float64(25)}
	require.NoError(t, s.SetPreferences(ctx, want))

	prefs, err = s.GetPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, prefs)

	cache := map[string]any{"stations": []any{"est-1", "est-2"}}
	require.NoError(t, s.SetCache(ctx, cache))

	got, err := s.GetCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, cache, got)
}

func TestStore_CorruptEntryIsTreatedAsAbsent(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO storage(key, value) VALUES (?, ?)`,
		KeyUser, []byte(`{not json`))
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO storage(key, value) VALUES (?, ?)`,
		KeyPreferences, []byte(`42`))
	require.NoError(t, err)

	u, err := s.GetUser(ctx)
	require.NoError(t, err, "decode failures must not propagate")
	assert.Nil(t, u)

	prefs, err := s.GetPreferences(ctx)
	require.NoError(t, err)
	assert.Empty(t, prefs)
}

func TestStore_ClearAllRemovesEverySlot(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetUser(ctx, &models.User{ID: "u1", Role: models.RoleUser}))
	require.NoError(t, s.SetToken(ctx, "a.b.c"))
	require.NoError(t, s.SetPreferences(ctx, map[string]any{"k": "v"}))
	require.NoError(t, s.SetCache(ctx, map[string]any{"c": "d"}))

	require.NoError(t, s.ClearAll(ctx))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM storage`).Scan(&n))
	assert.Zero(t, n)

	// Clearing an already-empty store is fine.
	require.NoError(t, s.ClearAll(ctx))
}

func TestStore_MutationsNotifySubscribers(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	ch := s.Subscribe()
	before := s.Version()

	require.NoError(t, s.SetToken(ctx, "a.b.c"))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected change notification after SetToken")
	}
	assert.Greater(t, s.Version(), before)
}

func TestStore_ExternalWriteTriggersNotification(t *testing.T) {
	ctx := context.Background()

	dsn := filepath.Join(t.TempDir(), "skytrack.db")
	db, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	watching := New(db, nil)
	t.Cleanup(func() { _ = watching.Close() })
	require.NoError(t, watching.WatchFile(ctx, dsn))
	ch := watching.Subscribe()

	// A second handle plays the other process mutating the shared file.
	other, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = other.Close() })
	writer := New(other, nil)
	require.NoError(t, writer.SetToken(ctx, "x.y.z"))

	select {
	case <-ch:
	case <-time.After(3 * time.Second):
		t.Fatal("expected notification for external write")
	}

	got, err := watching.GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "x.y.z", got, "watcher consumers re-read, not receive, values")
}
