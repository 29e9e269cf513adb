package rwlock

import "fmt"

// State is the externally visible hold state of a FairRWLock.
type State int

const (
	// StateIdle means nobody holds the lock.
	StateIdle State = iota
	// StateShared means one or more readers hold the lock.
	StateShared
	// StateExclusive means a single writer holds the lock.
	StateExclusive
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateShared:
		return "shared"
	case StateExclusive:
		return "exclusive"
	default:
		return "unknown"
	}
}

// Stats is a point-in-time snapshot of a FairRWLock's counters.
type Stats struct {
	ActiveReaders  int
	ActiveWriters  int
	PendingWriters int
}

// State derives the hold state from the counters.
func (s Stats) State() State {
	switch {
	case s.ActiveWriters > 0:
		return StateExclusive
	case s.ActiveReaders > 0:
		return StateShared
	default:
		return StateIdle
	}
}

// Valid reports whether the counters satisfy the lock invariants:
// at most one writer, and never readers and a writer at the same time.
func (s Stats) Valid() bool {
	if s.ActiveReaders < 0 || s.PendingWriters < 0 {
		return false
	}
	if s.ActiveWriters < 0 || s.ActiveWriters > 1 {
		return false
	}
	return !(s.ActiveWriters == 1 && s.ActiveReaders > 0)
}

// String formats the snapshot for logs.
func (s Stats) String() string {
	return fmt.Sprintf("%s(readers=%d, writers=%d, pending=%d)",
		s.State(), s.ActiveReaders, s.ActiveWriters, s.PendingWriters)
}
