package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/natefinch/atomic"
)

// Keys used by weni-cli inside its cache file. The file format belongs to
// weni-cli; this package only reads and updates the keys it knows about.
const (
	TokenKey       = "token"
	ProjectUUIDKey = "project_uuid"

	cacheFileName = ".weni_cli"
	lockRetry     = 50 * time.Millisecond
	lockMaxRetry  = 20
)

// Store is an opaque key-value reader over the weni-cli cache file.
type Store struct {
	path string
}

// New returns a store over $HOME/.weni_cli.
func New() *Store {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Debug("Cannot resolve home directory for weni-cli cache", "error", err)
		home = "."
	}
	return &Store{path: filepath.Join(home, cacheFileName)}
}

// NewWithPath returns a store over an explicit cache file path.
func NewWithPath(path string) *Store {
	return &Store{path: path}
}

// Path returns the cache file location.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value for key, or def when the file is missing, empty,
// unparseable, or the key is absent. Read failures never propagate: a broken
// cache behaves like an empty one.
func (s *Store) Get(key, def string) string {
	data := s.read()
	value, ok := data[key]
	if !ok || value == "" {
		return def
	}
	slog.Debug("Retrieved value from weni-cli cache", "key", key, "value", maskSecret(key, value))
	return value
}

// Token returns the persisted bearer token, or "" when absent.
func (s *Store) Token() string {
	return s.Get(TokenKey, "")
}

// ProjectUUID returns the persisted project UUID, or "" when absent.
func (s *Store) ProjectUUID() string {
	return s.Get(ProjectUUIDKey, "")
}

// Set updates a single key in the cache file, preserving unknown keys so a
// concurrent weni-cli keeps working. The write is guarded by a file lock and
// performed atomically.
func (s *Store) Set(key, value string) error {
	lock := flock.New(s.path + ".lock")
	locked := false
	for i := 0; i < lockMaxRetry; i++ {
		ok, err := lock.TryLock()
		if err != nil {
			return err
		}
		if ok {
			locked = true
			break
		}
		time.Sleep(lockRetry)
	}
	if !locked {
		return fmt.Errorf("weni-cli cache at %s is locked by another process", s.path)
	}
	defer lock.Unlock()

	data := s.read()
	data[key] = value

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return atomic.WriteFile(s.path, bytes.NewReader(b))
}

func (s *Store) read() map[string]string {
	data := map[string]string{}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		slog.Debug("Store file does not exist", "path", s.path)
		return data
	}

	content, err := os.ReadFile(s.path)
	if err != nil {
		slog.Debug("Failed to read store file", "path", s.path, "error", err)
		return data
	}
	if len(bytes.TrimSpace(content)) == 0 {
		slog.Debug("Store file is empty", "path", s.path)
		return data
	}

	if err := json.Unmarshal(content, &data); err != nil {
		slog.Debug("Store file holds invalid JSON", "path", s.path, "error", err)
		return map[string]string{}
	}
	return data
}

func maskSecret(key, value string) string {
	if strings.Contains(key, "token") {
		return "***"
	}
	return value
}
