// Package store is the single point of access to the client's durable
// key-value storage. It owns the fixed set of namespaced slots (user, token,
// preferences, cache), serializes values as JSON, and notifies subscribers
// on every change so reactive consumers re-read instead of holding copies.
//
// The backing SQLite file plays the role browser localStorage plays for the
// web client: it is shared by every SkyTrack process of the same profile
// directory, and a file watcher surfaces writes made by other processes.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"

	"github.com/skytrack-dev/skytrack/internal/client/models"
	"github.com/skytrack-dev/skytrack/internal/dbx"
	"github.com/skytrack-dev/skytrack/internal/logging"
)

// Fixed slot keys. Values never live under any other key.
const (
	KeyUser        = "skytrack_user"
	KeyToken       = "skytrack_token"
	KeyPreferences = "skytrack_preferences"
	KeyCache       = "skytrack_cache"
)

var allKeys = []string{KeyUser, KeyToken, KeyPreferences, KeyCache}

// Store wraps the storage database with typed accessors for the fixed slots.
//
// Readers must tolerate stale reads: another process may have written
// between this process's last read and its next render. A corrupt or
// unparseable entry is treated as absent, logged, and never propagated.
type Store struct {
	db  *sql.DB
	log logging.Logger

	mu      sync.Mutex
	version uint64
	subs    []chan struct{}
	closed  bool

	watch *watcher
}

// New wraps an initialized storage database. A nil logger is replaced with
// a no-op one.
func New(db *sql.DB, log logging.Logger) *Store {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Store{db: db, log: log}
}

func (s *Store) repo() *kvRepo {
	return newKVRepo(s.db)
}

// GetUser reads the user slot. Absent or undecodable entries yield (nil, nil).
func (s *Store) GetUser(ctx context.Context) (*models.User, error) {
	raw, err := s.repo().get(ctx, KeyUser)
	if err != nil || raw == nil {
		return nil, err
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		s.log.Warn(ctx, "discarding unreadable user entry", "error", err)
		return nil, nil
	}
	return &u, nil
}

// SetUser writes the user slot.
func (s *Store) SetUser(ctx context.Context, u *models.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := s.repo().set(ctx, KeyUser, raw); err != nil {
		return err
	}
	s.notify()
	return nil
}

// RemoveUser deletes the user slot. Deleting an absent slot is a no-op.
func (s *Store) RemoveUser(ctx context.Context) error {
	if err := s.repo().delete(ctx, KeyUser); err != nil {
		return err
	}
	s.notify()
	return nil
}

// GetToken reads the token slot as a raw string; "" means absent.
func (s *Store) GetToken(ctx context.Context) (string, error) {
	raw, err := s.repo().get(ctx, KeyToken)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// SetToken writes the token slot. The token is stored as-is, not JSON-wrapped.
func (s *Store) SetToken(ctx context.Context, tok string) error {
	if err := s.repo().set(ctx, KeyToken, []byte(tok)); err != nil {
		return err
	}
	s.notify()
	return nil
}

// RemoveToken deletes the token slot.
func (s *Store) RemoveToken(ctx context.Context) error {
	if err := s.repo().delete(ctx, KeyToken); err != nil {
		return err
	}
	s.notify()
	return nil
}

// GetPreferences reads the preferences slot. Absent or undecodable entries
// yield an empty map.
func (s *Store) GetPreferences(ctx context.Context) (map[string]any, error) {
	return s.getMap(ctx, KeyPreferences)
}

// SetPreferences writes the preferences slot.
func (s *Store) SetPreferences(ctx context.Context, prefs map[string]any) error {
	return s.setMap(ctx, KeyPreferences, prefs)
}

// GetCache reads the cache slot. Absent or undecodable entries yield an
// empty map.
func (s *Store) GetCache(ctx context.Context) (map[string]any, error) {
	return s.getMap(ctx, KeyCache)
}

// SetCache writes the cache slot.
func (s *Store) SetCache(ctx context.Context, cache map[string]any) error {
	return s.setMap(ctx, KeyCache, cache)
}

func (s *Store) getMap(ctx context.Context, key string) (map[string]any, error) {
	raw, err := s.repo().get(ctx, key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return map[string]any{}, nil
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		s.log.Warn(ctx, "discarding unreadable storage entry", "key", key, "error", err)
		return map[string]any{}, nil
	}
	return m, nil
}

func (s *Store) setMap(ctx context.Context, key string, m map[string]any) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if err := s.repo().set(ctx, key, raw); err != nil {
		return err
	}
	s.notify()
	return nil
}

// SetSession writes the user and token slots in one transaction, so the
// store never holds one without the other.
func (s *Store) SetSession(ctx context.Context, u *models.User, tok string) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := newKVRepo(tx)
		if err := repo.set(ctx, KeyUser, raw); err != nil {
			return err
		}
		return repo.set(ctx, KeyToken, []byte(tok))
	})
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// ClearSession removes the user and token slots together, leaving
// preferences and cache untouched. Idempotent.
func (s *Store) ClearSession(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := newKVRepo(tx)
		if err := repo.delete(ctx, KeyUser); err != nil {
			return err
		}
		return repo.delete(ctx, KeyToken)
	})
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// ClearAll removes all four slots in one transaction. Each deletion is
// idempotent, so repeating ClearAll is always safe.
func (s *Store) ClearAll(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := newKVRepo(tx)
		for _, key := range allKeys {
			if err := repo.delete(ctx, key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// Version returns the change counter. It advances on every local mutation
// and on every observed external write, so consumers can cheaply detect
// that a re-read is due.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Subscribe returns a channel that receives a signal after every change.
// Signals are coalesced; subscribers re-read the slots they care about.
func (s *Store) Subscribe() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan struct{}, 1)
	s.subs = append(s.subs, ch)
	return ch
}

func (s *Store) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.version++
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Close stops the external-write watcher, if any, and detaches subscribers.
// The database handle is owned by the caller and stays open.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	watch := s.watch
	s.watch = nil
	s.mu.Unlock()

	if watch != nil {
		return watch.stop()
	}
	return nil
}
