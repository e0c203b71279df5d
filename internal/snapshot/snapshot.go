package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"sptr/internal/audit"
	"sptr/internal/observ"
)

// Current schema version - increment when Payload format changes.
const schemaVersion uint16 = 1

// Payload stores the outcome of one workload run for later comparison.
type Payload struct {
	// Schema version for safe invalidation when the format changes.
	Schema uint16

	Scenario   string
	Iterations uint32
	Parallel   uint32
	SavedAt    time.Time

	Stats  audit.Stats
	Timing observ.Report

	Leaks      []string
	Violations []string
}

// Store keeps run payloads on disk under the user cache directory.
type Store struct {
	dir string
}

// Open initializes a store at the standard cache location for app.
func Open(app string) (*Store, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app, "runs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

func (s *Store) pathFor(name string) string {
	return filepath.Join(s.dir, name+".mp")
}

// Put serializes and writes a payload under name, atomically.
func (s *Store) Put(name string, payload *Payload) error {
	if s == nil {
		return nil
	}
	payload.Schema = schemaVersion
	return s.putRaw(name, payload)
}

func (s *Store) putRaw(name string, payload *Payload) error {
	f, err := os.CreateTemp(s.dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Atomic replacement.
	return os.Rename(f.Name(), s.pathFor(name))
}

// Get reads the payload stored under name. Returns false with no error
// when the payload is missing or carries a stale schema.
func (s *Store) Get(name string, out *Payload) (bool, error) {
	if s == nil {
		return false, nil
	}
	f, err := os.Open(s.pathFor(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		_ = f.Close()
	}()

	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, fmt.Errorf("failed to decode snapshot %q: %w", name, err)
	}
	if out.Schema != schemaVersion {
		return false, nil
	}
	return true, nil
}

// Latest returns the name of the most recently saved payload.
func (s *Store) Latest() (string, bool, error) {
	if s == nil {
		return "", false, nil
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", false, err
	}

	type candidate struct {
		name string
		mod  time.Time
	}
	var best *candidate
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".mp" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		c := candidate{name: e.Name()[:len(e.Name())-len(".mp")], mod: info.ModTime()}
		if best == nil || c.mod.After(best.mod) {
			best = &c
		}
	}
	if best == nil {
		return "", false, nil
	}
	return best.name, true, nil
}

// List returns the names of all saved payloads, sorted.
func (s *Store) List() ([]string, error) {
	if s == nil {
		return nil, nil
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".mp" {
			continue
		}
		names = append(names, e.Name()[:len(e.Name())-len(".mp")])
	}
	sort.Strings(names)
	return names, nil
}

// DropAll invalidates the store, useful after format changes.
func (s *Store) DropAll() error {
	if s == nil {
		return nil
	}
	old := s.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(s.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
