// Package phonebook provides a name/phone record store whose every operation
// is serialised by a writer-preferring reader-writer lock.
//
// Records are never cached. Each lookup reloads the full sequence from
// storage under a read hold; each mutation reloads, modifies and saves the
// full sequence under a single write hold. Storage is the single source of
// truth and the lock is the only consistency mechanism.
//
// Lookups return the first matching record; Remove deletes every record with
// the given name. Duplicate names and phones are allowed.
package phonebook

import (
	"context"

	"github.com/Iron-Ham/phonebook/internal/errors"
	"github.com/Iron-Ham/phonebook/internal/record"
	"github.com/Iron-Ham/phonebook/internal/rwlock"
	"github.com/Iron-Ham/phonebook/internal/storage"
)

// Store mediates all access to a storage.Storage through a FairRWLock.
// A Store is safe for concurrent use and is meant to be shared by pointer.
type Store struct {
	lock    *rwlock.FairRWLock
	storage storage.Storage
}

// Option configures a Store.
type Option func(*Store)

// WithLock makes the Store use an existing lock, for callers that guard
// other state with the same lock.
func WithLock(l *rwlock.FairRWLock) Option {
	return func(s *Store) {
		s.lock = l
	}
}

// New creates a Store over st.
func New(st storage.Storage, opts ...Option) *Store {
	s := &Store{storage: st}
	for _, opt := range opts {
		opt(s)
	}
	if s.lock == nil {
		s.lock = rwlock.New()
	}
	return s
}

// LookupByName returns the phone of the first record named name.
// A miss is a NotFoundError.
func (s *Store) LookupByName(ctx context.Context, name string) (string, error) {
	var phone string
	err := s.lock.WithRead(ctx, func() error {
		records, err := s.storage.Load()
		if err != nil {
			return err
		}
		i := record.IndexByName(records, name)
		if i < 0 {
			return errors.NewNotFoundError("name", name)
		}
		phone = records[i].Phone
		return nil
	})
	return phone, err
}

// LookupByPhone returns the name of the first record with the given phone.
// A miss is a NotFoundError.
func (s *Store) LookupByPhone(ctx context.Context, phone string) (string, error) {
	var name string
	err := s.lock.WithRead(ctx, func() error {
		records, err := s.storage.Load()
		if err != nil {
			return err
		}
		i := record.IndexByPhone(records, phone)
		if i < 0 {
			return errors.NewNotFoundError("phone", phone)
		}
		name = records[i].Name
		return nil
	})
	return name, err
}

// Insert appends a record. Existing records with the same name are kept and
// continue to shadow the new one in LookupByName.
func (s *Store) Insert(ctx context.Context, name, phone string) error {
	rec := record.Record{Name: name, Phone: phone}
	if err := rec.Validate(); err != nil {
		return err
	}

	return s.lock.WithWrite(ctx, func() error {
		records, err := s.storage.Load()
		if err != nil {
			return err
		}
		return s.storage.Save(append(records, rec))
	})
}

// Remove deletes every record named name and reports how many were deleted.
// Removing an absent name is not an error; the sequence is rewritten as is.
func (s *Store) Remove(ctx context.Context, name string) (int, error) {
	var removed int
	err := s.lock.WithWrite(ctx, func() error {
		records, err := s.storage.Load()
		if err != nil {
			return err
		}
		var kept []record.Record
		kept, removed = record.RemoveName(records, name)
		return s.storage.Save(kept)
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// Clear replaces the stored sequence with an empty one.
func (s *Store) Clear(ctx context.Context) error {
	return s.lock.WithWrite(ctx, func() error {
		return s.storage.Save(nil)
	})
}

// List returns a copy of every record in stored order.
func (s *Store) List(ctx context.Context) ([]record.Record, error) {
	var out []record.Record
	err := s.lock.WithRead(ctx, func() error {
		records, err := s.storage.Load()
		if err != nil {
			return err
		}
		out = make([]record.Record, len(records))
		copy(out, records)
		return nil
	})
	return out, err
}

// LockStats exposes the lock counters for status output.
func (s *Store) LockStats() rwlock.Stats {
	return s.lock.Stats()
}
