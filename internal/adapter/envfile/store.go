// Package envfile reads and rewrites the project's dotenv file.
package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"launchpad/internal/domain"
)

// Store is a dotenv file on disk. It does no locking: the file is read and
// rewritten whole on every Write.
type Store struct {
	path string
}

// NewStore creates a store for path. The file need not exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file location.
func (s *Store) Path() string { return s.path }

// Read parses the file. A missing file reads as empty.
func (s *Store) Read() (map[string]string, error) {
	vars, err := godotenv.Read(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read env file: %w", err)
	}
	return vars, nil
}

// Load copies the file into the process environment. Variables already set
// in the environment win. A missing file is not an error.
func (s *Store) Load() error {
	if err := godotenv.Load(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Write merges vars over the existing contents and rewrites the file sorted by
// key. Keys are never removed.
func (s *Store) Write(vars map[string]string) error {
	if len(vars) == 0 {
		return domain.NewDomainError("envfile.Write", domain.ErrInvalidInput, "envVars object is required")
	}
	merged, err := s.Read()
	if err != nil {
		return err
	}
	for k, v := range vars {
		merged[k] = v
	}
	if err := godotenv.Write(merged, s.path); err != nil {
		return fmt.Errorf("write env file: %w", err)
	}
	if err := os.Chmod(s.path, 0o600); err != nil {
		return fmt.Errorf("chmod env file: %w", err)
	}
	return nil
}
