package machine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultStateDir is where records live unless --state-dir says otherwise.
const DefaultStateDir = "/var/lib/crucible/machines"

const recordExt = ".yaml"

// ErrNotFound means no record exists for the machine.
var ErrNotFound = errors.New("machine record not found")

// Store reads and writes records in a directory.
type Store struct {
	fs  afero.Fs
	dir string
}

// NewStore creates a store rooted at dir on fs.
// Pass afero.NewOsFs() in production and afero.NewMemMapFs() in tests.
func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// Dir returns the state directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+recordExt)
}

// Save writes the record. The file is replaced atomically.
func (s *Store) Save(rec *Record) error {
	if rec.Name == "" {
		return fmt.Errorf("record name is required")
	}

	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record to YAML: %w", err)
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory %s: %w", s.dir, err)
	}

	tmp, err := afero.TempFile(s.fs, s.dir, "."+rec.Name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to close record: %w", err)
	}

	if err := s.fs.Rename(tmpName, s.path(rec.Name)); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to save record %s: %w", rec.Name, err)
	}

	return nil
}

// Load reads the record for name. Returns ErrNotFound if there is none.
func (s *Store) Load(name string) (*Record, error) {
	data, err := afero.ReadFile(s.fs, s.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read record %s: %w", name, err)
	}

	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record %s: %w", name, err)
	}

	return &rec, nil
}

// Exists checks if a record exists for name.
func (s *Store) Exists(name string) bool {
	ok, err := afero.Exists(s.fs, s.path(name))
	return err == nil && ok
}

// List returns all records sorted by name. A missing state directory is not
// an error.
func (s *Store) List() ([]*Record, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*Record{}, nil
		}
		return nil, fmt.Errorf("failed to read state directory %s: %w", s.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || filepath.Ext(e.Name()) != recordExt {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), recordExt))
	}
	sort.Strings(names)

	records := make([]*Record, 0, len(names))
	for _, name := range names {
		rec, err := s.Load(name)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

// Delete removes the record for name. Removing a missing record is not an
// error.
func (s *Store) Delete(name string) error {
	if err := s.fs.Remove(s.path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete record %s: %w", name, err)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
