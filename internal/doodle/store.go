package doodle

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Naimul0307/DigitalPlaget-Wall/internal/domain"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/platform/fsutil"
)

const (
	filePrefix = "doodle_"
	fileExt    = ".png"
	// microsecond resolution; the dot is stripped so the stamp is all digits
	stampLayout = "20060102150405.000000"
)

// Store writes doodle PNGs into dir and maps them to URLs under publicBase.
type Store struct {
	dir        string
	publicBase string
	clock      clockwork.Clock
	lock       *fsutil.Lock
}

// NewStore creates a Store. lock is shared with every other file-backed writer.
func NewStore(dir, publicBase string, clock clockwork.Clock, lock *fsutil.Lock) *Store {
	return &Store{
		dir:        dir,
		publicBase: strings.TrimRight(publicBase, "/"),
		clock:      clock,
		lock:       lock,
	}
}

// FileName returns the canonical file name for a doodle created at the given instant.
func FileName(stamp string) string {
	return filePrefix + stamp + fileExt
}

// Save writes data under a timestamp-derived name. Two saves in the same microsecond
// never overwrite each other: the second receives a random suffix.
func (s *Store) Save(data []byte) (domain.DoodleRecord, error) {
	now := s.clock.Now()
	stamp := strings.Replace(now.Format(stampLayout), ".", "", 1)

	var name string
	err := s.lock.Do(func() error {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return fmt.Errorf("failed to create doodle directory: %w", err)
		}

		name = FileName(stamp)
		err := fsutil.CreateExclusive(filepath.Join(s.dir, name), data, 0o644)
		if !errors.Is(err, os.ErrExist) {
			return err
		}

		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		name = FileName(stamp + "_" + suffix)
		slog.Warn("Doodle filename collision, using suffixed name", "file", name)
		return fsutil.CreateExclusive(filepath.Join(s.dir, name), data, 0o644)
	})
	if err != nil {
		return domain.DoodleRecord{}, fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}

	return domain.DoodleRecord{
		Path:      path.Join(s.publicBase, name),
		CreatedAt: now,
	}, nil
}
