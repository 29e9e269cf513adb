package rwlock

import (
	"context"
	"sync"

	"github.com/Iron-Ham/phonebook/internal/errors"
)

// Lock modes reported in cancellation errors.
const (
	ModeRead  = "read"
	ModeWrite = "write"
)

// FairRWLock is a writer-preferring reader-writer lock.
// Pending writers block new readers; see the package documentation.
type FairRWLock struct {
	mu sync.Mutex

	activeReaders  int
	activeWriters  int // 0 or 1
	pendingWriters int

	// changed is closed and dropped on every state change that may let a
	// waiter proceed. Waiters grab the current channel while holding mu.
	changed chan struct{}
}

// New returns an unlocked FairRWLock.
func New() *FairRWLock {
	return &FairRWLock{}
}

// RLock acquires the lock for reading. It blocks while a writer holds the
// lock or while any writer is waiting for it.
func (l *FairRWLock) RLock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.NewCancelError(ModeRead, err)
	}

	l.mu.Lock()
	for l.activeWriters > 0 || l.pendingWriters > 0 {
		if err := l.waitLocked(ctx); err != nil {
			l.mu.Unlock()
			return errors.NewCancelError(ModeRead, err)
		}
	}
	l.activeReaders++
	l.mu.Unlock()
	return nil
}

// RUnlock releases one read hold. Waiters of both kinds are woken when the
// last reader leaves. It panics if the lock is not held for reading.
func (l *FairRWLock) RUnlock() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.activeReaders == 0 {
		panic("rwlock: RUnlock of FairRWLock not held for reading")
	}
	l.activeReaders--
	if l.activeReaders == 0 {
		l.broadcastLocked()
	}
}

// Lock acquires the lock for writing. The caller is registered as a pending
// writer immediately, which stops new readers from being admitted, and then
// blocks until no reader or writer holds the lock.
func (l *FairRWLock) Lock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.NewCancelError(ModeWrite, err)
	}

	l.mu.Lock()
	l.pendingWriters++
	for l.activeReaders > 0 || l.activeWriters > 0 {
		if err := l.waitLocked(ctx); err != nil {
			// Withdraw the registration; readers held back by it must re-check.
			l.pendingWriters--
			l.broadcastLocked()
			l.mu.Unlock()
			return errors.NewCancelError(ModeWrite, err)
		}
	}
	l.pendingWriters--
	l.activeWriters = 1
	l.mu.Unlock()
	return nil
}

// Unlock releases the write hold and wakes all waiters.
// It panics if the lock is not held for writing.
func (l *FairRWLock) Unlock() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.activeWriters == 0 {
		panic("rwlock: Unlock of FairRWLock not held for writing")
	}
	l.activeWriters = 0
	l.broadcastLocked()
}

// WithRead runs fn while holding the lock for reading.
// The lock is released when fn returns or panics.
func (l *FairRWLock) WithRead(ctx context.Context, fn func() error) error {
	if err := l.RLock(ctx); err != nil {
		return err
	}
	defer l.RUnlock()
	return fn()
}

// WithWrite runs fn while holding the lock for writing.
// The lock is released when fn returns or panics.
func (l *FairRWLock) WithWrite(ctx context.Context, fn func() error) error {
	if err := l.Lock(ctx); err != nil {
		return err
	}
	defer l.Unlock()
	return fn()
}

// Stats returns a snapshot of the lock's counters.
func (l *FairRWLock) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Stats{
		ActiveReaders:  l.activeReaders,
		ActiveWriters:  l.activeWriters,
		PendingWriters: l.pendingWriters,
	}
}

// waitLocked parks the caller until the next broadcast or until ctx is done.
// mu must be held on entry and is held again on return.
func (l *FairRWLock) waitLocked(ctx context.Context) error {
	if l.changed == nil {
		l.changed = make(chan struct{})
	}
	ch := l.changed
	l.mu.Unlock()

	select {
	case <-ch:
		l.mu.Lock()
		return nil
	case <-ctx.Done():
		l.mu.Lock()
		return ctx.Err()
	}
}

// broadcastLocked wakes every goroutine parked in waitLocked.
func (l *FairRWLock) broadcastLocked() {
	if l.changed != nil {
		close(l.changed)
		l.changed = nil
	}
}
