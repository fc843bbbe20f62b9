package artifact

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// ErrEmptyInput is returned when a recording produced no audio bytes.
var ErrEmptyInput = errors.New("empty audio buffer")

// Store manages the on-disk intermediate audio files of one in-flight or
// pending-retry attempt. Every path it hands out must be passed to
// Dispose exactly once; ownership is transferred explicitly, never
// inferred.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. An empty dir means the OS temp
// directory.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Store{dir: dir}
}

// WriteRaw persists the captured PCM bytes and returns the file path.
func (s *Store) WriteRaw(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyInput
	}

	path := filepath.Join(s.dir, fmt.Sprintf("voicerec-%d-raw.pcm", time.Now().UnixNano()))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write raw capture: %w", err)
	}
	return path, nil
}

// ConvertedPath returns the output path for the converted artifact
// belonging to the given raw capture.
func (s *Store) ConvertedPath() string {
	return filepath.Join(s.dir, fmt.Sprintf("voicerec-%d.ogg", time.Now().UnixNano()))
}

// Dispose removes an artifact file. Best effort: delete races and
// already-removed files are expected and never surfaced to the caller.
func (s *Store) Dispose(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("Artifacts: failed to remove %s: %v", path, err)
	}
}
