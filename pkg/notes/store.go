package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// Store keeps proposal justification texts as flat files, one
// {id}.txt per proposal. It is an opaque key-value text store; nothing
// here knows what a proposal is beyond its id.
type Store struct {
	dir string
}

// Basic validation to allow only alphanumeric, dashes, underscores, and dots.
var validFilename = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)

// ValidFilename reports whether name is safe to resolve inside the
// store directory.
func ValidFilename(name string) bool {
	return validFilename.MatchString(name)
}

func NewStore(dir string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{dir: dir}
}

// Read returns the raw contents of a stored file. Callers get
// os.IsNotExist-able errors for missing ids.
func (s *Store) Read(name string) ([]byte, error) {
	if !ValidFilename(name) {
		return nil, fmt.Errorf("invalid filename %q", name)
	}
	return os.ReadFile(filepath.Join(s.dir, name))
}

// Save persists justification text keyed by proposal id.
func (s *Store) Save(id uint64, text string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, fmt.Sprintf("%d.txt", id)), []byte(text), 0644)
}
