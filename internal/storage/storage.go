// Package storage persists record sequences as delimited text files.
//
// Storage does no locking of its own. Callers serialise access (the phonebook
// store holds a FairRWLock around every Load and Save), which is what keeps
// readers from ever observing a half-written file.
package storage

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/phonebook/internal/errors"
	"github.com/Iron-Ham/phonebook/internal/record"
)

const filePerm os.FileMode = 0o644

// Storage loads and saves the complete record sequence.
type Storage interface {
	// Load returns every stored record in file order.
	Load() ([]record.Record, error)
	// Save replaces the stored sequence with records.
	Save(records []record.Record) error
}

// FileStorage keeps records in a single text file on an afero filesystem.
// A missing file loads as an empty sequence.
type FileStorage struct {
	fs   afero.Fs
	path string
}

var _ Storage = (*FileStorage)(nil)

// NewFileStorage returns a FileStorage for path on fsys.
func NewFileStorage(fsys afero.Fs, path string) *FileStorage {
	return &FileStorage{fs: fsys, path: filepath.Clean(path)}
}

// NewOSStorage returns a FileStorage on the host filesystem.
func NewOSStorage(path string) *FileStorage {
	return NewFileStorage(afero.NewOsFs(), path)
}

// Path returns the backing file path.
func (s *FileStorage) Path() string {
	return s.path
}

// Load reads and decodes the backing file.
func (s *FileStorage) Load() ([]record.Record, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, storageError("load", s.path, err)
	}

	records, err := record.Decode(bytes.NewReader(data))
	if err != nil {
		var malformed *errors.MalformedRecordError
		if errors.As(err, &malformed) {
			return nil, malformed.WithPath(s.path)
		}
		return nil, storageError("load", s.path, err)
	}
	return records, nil
}

// Save writes records to a temporary file next to the backing file and
// renames it into place, so the backing file is always either the old or the
// new content.
func (s *FileStorage) Save(records []record.Record) error {
	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return storageError("save", s.path, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return storageError("save", s.path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = s.fs.Remove(tmpName) }

	if err := record.Encode(tmp, records); err != nil {
		_ = tmp.Close()
		cleanup()
		return storageError("save", s.path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return storageError("save", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return storageError("save", s.path, err)
	}
	if err := s.fs.Chmod(tmpName, filePerm); err != nil {
		cleanup()
		return storageError("save", s.path, err)
	}
	if err := s.fs.Rename(tmpName, s.path); err != nil {
		cleanup()
		return storageError("save", s.path, err)
	}
	return nil
}

// storageError wraps err for op. Permission failures will not clear up on
// their own, so they are not retryable.
func storageError(op, path string, err error) *errors.StorageError {
	return errors.NewStorageError(op, path, err).WithRetryable(!errors.Is(err, fs.ErrPermission))
}
