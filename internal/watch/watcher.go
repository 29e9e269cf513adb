// Package watch re-reads a phonebook whenever its backing file changes on
// disk, so another process's inserts and removals show up live.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Iron-Ham/phonebook/internal/logging"
	"github.com/Iron-Ham/phonebook/internal/phonebook"
	"github.com/Iron-Ham/phonebook/internal/record"
	"github.com/Iron-Ham/phonebook/internal/rwlock"
)

// DefaultDebounce is used when no WithDebounce option is given.
const DefaultDebounce = 100 * time.Millisecond

// Snapshot is the state of the phonebook after a change settled.
type Snapshot struct {
	Records []record.Record
	Lock    rwlock.Stats
	Err     error
	At      time.Time
}

// Watcher listens on the directory holding the record file. Saves replace
// the file by rename, so watching the file itself would lose track of it
// after the first write.
type Watcher struct {
	watcher  *fsnotify.Watcher
	store    *phonebook.Store
	path     string
	debounce time.Duration
	onChange func(Snapshot)
	logger   *logging.Logger

	closeOnce sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the watcher waits for a burst of events to
// settle before re-reading the store.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLogger sets the logger for watch errors.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// New starts watching path. onChange is called from the Run goroutine only.
func New(store *phonebook.Store, path string, onChange func(Snapshot), opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		store:    store,
		path:     filepath.Clean(abs),
		debounce: DefaultDebounce,
		onChange: onChange,
		logger:   logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run delivers an initial snapshot, then one per settled burst of changes,
// until ctx is done. The underlying watcher is closed when Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	w.refresh(ctx)

	// Stopped until the first relevant event arrives.
	debounceTimer := time.NewTimer(time.Hour)
	debounceTimer.Stop()
	defer debounceTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file event", "op", event.Op.String(), "path", event.Name)
			debounceTimer.Reset(w.debounce)

		case <-debounceTimer.C:
			w.refresh(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// Close releases the underlying watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

func (w *Watcher) refresh(ctx context.Context) {
	records, err := w.store.List(ctx)
	if err != nil && ctx.Err() != nil {
		return
	}
	if err != nil {
		w.logger.Warn("reload failed", "path", w.path, "error", err)
	}
	w.onChange(Snapshot{
		Records: records,
		Lock:    w.store.LockStats(),
		Err:     err,
		At:      time.Now(),
	})
}
