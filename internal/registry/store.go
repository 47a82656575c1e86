package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/firefly-engineering/venvctl/internal/errors"
	"github.com/firefly-engineering/venvctl/internal/system"
)

// Store persists a Registry to a JSON file.
type Store struct {
	path string
	opts *options
}

// WithFS sets the filesystem the store reads and writes through.
func WithFS(fsys system.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// NewStore creates a store backed by the file at path.
func NewStore(path string, opts ...Option) *Store {
	return &Store{path: path, opts: buildOptions(opts)}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) logger() *slog.Logger {
	return s.opts.logger
}

// Load reads the registry file. A missing file is created holding an empty
// registry. Legacy entries lacking an id or venv path are backfilled and the
// result is written back so backfilled ids stay stable.
func (s *Store) Load() (*Registry, error) {
	data, err := s.opts.fs.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.RegistryIO("read", err)
		}
		s.logger().Debug("registry file missing, creating", "path", s.path)
		r := newRegistry(s.opts, nil)
		if err := s.Save(r); err != nil {
			return nil, err
		}
		return r, nil
	}

	entries, err := decode(data)
	if err != nil {
		return nil, errors.InvalidRegistryFormat(s.path, err)
	}

	r := newRegistry(s.opts, entries)
	if r.backfill() {
		if err := s.Save(r); err != nil {
			s.logger().Warn("failed to persist backfilled entries", "path", s.path, "error", err)
		}
	}

	s.logger().Debug("loaded registry", "path", s.path, "entries", r.Len())
	return r, nil
}

// decode parses registry JSON, tolerating comments and trailing commas.
// An empty document and a null or absent "environments" field are empty registries.
func decode(data []byte) ([]*Entry, error) {
	data = bytes.TrimSpace(jsonc.ToJSON(data))
	if len(data) == 0 {
		return nil, nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("top level must be an object: %w", err)
	}

	raw := bytes.TrimSpace(top["environments"])
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if raw[0] != '[' {
		return nil, fmt.Errorf(`"environments" must be an array`)
	}

	var entries []*Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("malformed environment entry: %w", err)
	}

	for i, e := range entries {
		if e == nil {
			return nil, fmt.Errorf("environment %d is null", i)
		}
		if e.Name == "" {
			return nil, fmt.Errorf("environment %d has no name", i)
		}
	}
	return entries, nil
}

// Save writes the registry to a temporary file next to the backing file and
// renames it into place.
func (s *Store) Save(r *Registry) error {
	data, err := json.MarshalIndent(file{Environments: r.entries}, "", "  ")
	if err != nil {
		return errors.RegistryIO("encode", err)
	}
	data = append(data, '\n')

	if err := s.opts.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.RegistryIO("save", err)
	}

	tmp := s.path + ".tmp"
	if err := s.opts.fs.WriteFile(tmp, data, 0o644); err != nil {
		return errors.RegistryIO("save", err)
	}
	if err := s.opts.fs.Rename(tmp, s.path); err != nil {
		_ = s.opts.fs.Remove(tmp)
		return errors.RegistryIO("save", err)
	}

	s.logger().Debug("saved registry", "path", s.path, "entries", r.Len())
	return nil
}
