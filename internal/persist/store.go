package persist

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lednode/lednode/internal/logging"
)

// Store loads and commits device records. Commit must be atomic: after a
// crash the store holds either the previous record or the new one, never a
// torn write.
type Store interface {
	Load() (Record, error)
	Commit(Record) error
}

// FileStore keeps the record in a single binary file.
type FileStore struct {
	path string
}

// NewFile creates a file-backed store at the given path.
func NewFile(path string) *FileStore {
	if path == "" {
		path = "palette.bin"
	}
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and verifies the record. A missing file is reported as
// fs.ErrNotExist; a short, long or checksum-failing file as ErrCorrupt.
func (s *FileStore) Load() (Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Record{}, err
	}
	return Decode(data)
}

// Commit writes the record through a temp file and renames it into place.
func (s *FileStore) Commit(r Record) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(Encode(r)); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, s.path)
}

// LoadOrReset loads the record, healing missing or corrupt data by
// committing a zeroed record in its place. The device then boots as if
// fresh: empty palette, mode off.
func LoadOrReset(s Store, logger logging.Logger) Record {
	rec, err := s.Load()
	if err == nil {
		return rec
	}

	if errors.Is(err, fs.ErrNotExist) {
		if logger != nil {
			logger.Info("No device record found, initializing")
		}
	} else if logger != nil {
		logger.Warn("Device record unreadable, resetting", "error", err)
	}

	rec = Record{}
	if commitErr := s.Commit(rec); commitErr != nil && logger != nil {
		logger.Error("Failed to commit reset record", "error", commitErr)
	}
	return rec
}
