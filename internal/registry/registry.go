package registry

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/firefly-engineering/venvctl/internal/config"
	"github.com/firefly-engineering/venvctl/internal/errors"
	"github.com/firefly-engineering/venvctl/internal/identity"
	"github.com/firefly-engineering/venvctl/internal/logging"
	"github.com/firefly-engineering/venvctl/internal/system"
	"github.com/firefly-engineering/venvctl/internal/target"
)

// DefaultBaseDir is the project-relative directory that holds environments
// when no base directory is given. Legacy entries without a venv_path live here.
const DefaultBaseDir = ".venvs"

// Registry is the ordered, in-memory set of environment entries.
// Lookups are linear scans.
type Registry struct {
	entries []*Entry
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Registry or Store.
type Option func(*options)

type options struct {
	logger *slog.Logger
	now    func() time.Time
	fs     system.FileSystem
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithClock sets the clock used when generating ids.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) *options {
	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = logging.OrDiscard(o.logger)
	if o.fs == nil {
		o.fs = system.DefaultFS()
	}
	return o
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	return newRegistry(buildOptions(opts), nil)
}

func newRegistry(o *options, entries []*Entry) *Registry {
	if entries == nil {
		entries = []*Entry{}
	}
	return &Registry{entries: entries, now: o.now, logger: o.logger}
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Entries returns the entries in registry order.
// The slice is a copy; the entries are shared.
func (r *Registry) Entries() []*Entry {
	return slices.Clone(r.entries)
}

// Register creates or updates the environment called name.
// An existing entry keeps its id; every other field is overwritten.
// The returned bool is true when a new entry was created.
func (r *Registry) Register(name, projectDir, baseDir, description string, targets []string) (*Entry, bool, error) {
	if err := config.ValidateEnvName(name); err != nil {
		return nil, false, errors.ValidationError(err.Error())
	}
	if !filepath.IsAbs(projectDir) {
		return nil, false, errors.ValidationError(fmt.Sprintf("project directory must be absolute (got %q)", projectDir))
	}
	if err := target.Validate(targets); err != nil {
		return nil, false, err
	}
	projectDir = filepath.Clean(projectDir)

	targetsStr := target.Format(targets)
	venvPath := VenvPath(projectDir, baseDir, name)

	if e := r.byName(name); e != nil {
		e.ProjectDir = projectDir
		e.Description = description
		e.TargetMachines = targetsStr
		e.VenvPath = venvPath
		r.logger.Debug("updated registry entry", "name", name, "id", e.ID)
		return e, false, nil
	}

	e := &Entry{
		ID:             identity.GenerateID(name, projectDir, targetsStr, r.now()),
		Name:           name,
		ProjectDir:     projectDir,
		TargetMachines: targetsStr,
		VenvPath:       venvPath,
		Description:    description,
	}
	r.entries = append(r.entries, e)
	r.logger.Debug("added registry entry", "name", name, "id", e.ID)
	return e, true, nil
}

// Deregister removes the entry identified by identifier, using the same
// matching rules as Lookup. It returns the removed entry, if any.
func (r *Registry) Deregister(identifier string) (*Entry, bool) {
	e, ok := r.Lookup(identifier)
	if !ok {
		return nil, false
	}

	r.entries = slices.DeleteFunc(r.entries, func(x *Entry) bool { return x == e })
	r.logger.Debug("removed registry entry", "name", e.Name, "id", e.ID)
	return e, true
}

// Lookup returns the entry whose name or id equals identifier. Failing that,
// an identifier of at least identity.MinPrefixLength characters matches the
// single entry whose id starts with it. Several prefix matches yield no match.
func (r *Registry) Lookup(identifier string) (*Entry, bool) {
	if identifier == "" {
		return nil, false
	}

	for _, e := range r.entries {
		if e.Name == identifier || e.ID == identifier {
			return e, true
		}
	}

	if len(identifier) < identity.MinPrefixLength {
		return nil, false
	}

	var found *Entry
	for _, e := range r.entries {
		if strings.HasPrefix(e.ID, identifier) {
			if found != nil {
				return nil, false
			}
			found = e
		}
	}
	return found, found != nil
}

func (r *Registry) byName(name string) *Entry {
	for _, e := range r.entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// VenvPath computes where an environment lives: baseDir/name when baseDir is
// absolute, projectDir/baseDir/name otherwise. An empty baseDir means DefaultBaseDir.
func VenvPath(projectDir, baseDir, name string) string {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if filepath.IsAbs(baseDir) {
		return filepath.Join(baseDir, name)
	}
	return filepath.Join(projectDir, baseDir, name)
}

// backfill fills ids and venv paths missing from legacy entries.
// It reports whether anything changed.
func (r *Registry) backfill() bool {
	changed := false
	for _, e := range r.entries {
		filled := false
		if e.ID == "" {
			e.ID = identity.GenerateID(e.Name, e.ProjectDir, e.TargetMachines, r.now())
			filled = true
		}
		if e.VenvPath == "" {
			e.VenvPath = filepath.Join(e.ProjectDir, DefaultBaseDir, e.Name)
			filled = true
		}
		if filled {
			r.logger.Debug("backfilled legacy entry", "name", e.Name, "id", e.ID)
			changed = true
		}
	}
	return changed
}
