package store

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// watcher surfaces writes made by other SkyTrack processes sharing the same
// storage file, the way the browser's storage event surfaces writes made by
// other tabs. It watches the directory containing the database file because
// SQLite also touches sidecar files (-wal, -journal) on commit.
type watcher struct {
	fw   *fsnotify.Watcher
	done chan struct{}
}

// WatchFile starts observing external writes to the storage file at path.
// Observed writes advance the change counter and fan out to subscribers
// exactly like local mutations do.
func (s *Store) WatchFile(ctx context.Context, path string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return err
	}

	w := &watcher{fw: fw, done: make(chan struct{})}

	s.mu.Lock()
	s.watch = w
	s.mu.Unlock()

	go w.run(ctx, s, filepath.Base(path))

	return nil
}

func (w *watcher) run(ctx context.Context, s *Store, base string) {
	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !relatedToDB(filepath.Base(event.Name), base) {
				continue
			}
			s.notify()

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			s.log.Warn(ctx, "storage watcher error", "error", err)

		case <-w.done:
			return

		case <-ctx.Done():
			return
		}
	}
}

// relatedToDB matches the database file itself and its SQLite sidecars.
func relatedToDB(name, base string) bool {
	return name == base || strings.HasPrefix(name, base+"-")
}

func (w *watcher) stop() error {
	close(w.done)
	return w.fw.Close()
}
