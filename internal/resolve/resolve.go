// Package resolve turns a user-supplied identifier into exactly one registry entry.
//
// An identifier is "." (the environment registered for the working
// directory), a name, a full id, or an id prefix. Ambiguous matches are
// reported with the names of every candidate.
package resolve

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/firefly-engineering/venvctl/internal/errors"
	"github.com/firefly-engineering/venvctl/internal/identity"
	"github.com/firefly-engineering/venvctl/internal/registry"
)

// CurrentDir is the identifier for the working directory's environment.
const CurrentDir = "."

// MinAmbiguousPrefix is the shortest id prefix for which ambiguity is reported.
// Shorter identifiers that match nothing by name are simply not found.
const MinAmbiguousPrefix = 4

// Catalog is the read side of a registry.
type Catalog interface {
	Entries() []*registry.Entry
	Lookup(identifier string) (*registry.Entry, bool)
}

// Resolve returns the single entry identified by identifier. cwd must already
// be canonical (see CanonicalDir); it is only consulted for ".".
// Failures carry EnvironmentNotFound, EnvironmentNotRegistered or
// AmbiguousIdentifier exit codes.
func Resolve(cat Catalog, identifier, cwd string) (*registry.Entry, error) {
	if identifier == CurrentDir {
		return resolveDir(cat, cwd)
	}

	if e, ok := cat.Lookup(identifier); ok {
		return e, nil
	}

	if !isIDPrefix(identifier) {
		return nil, errors.EnvironmentNotFound(identifier)
	}

	matches := ByIDPrefix(cat, identifier)
	switch {
	case len(matches) == 0:
		return nil, errors.EnvironmentNotFound(identifier)
	case len(matches) > 1:
		return nil, errors.AmbiguousIdentifier(identifier, Names(matches))
	case len(identifier) < identity.MinPrefixLength:
		return nil, errors.New(errors.ExitEnvironmentNotFound, fmt.Sprintf(
			"environment not found: %s (id prefixes need at least %d characters; did you mean %s?)",
			identifier, identity.MinPrefixLength, matches[0].Name))
	default:
		return matches[0], nil
	}
}

func resolveDir(cat Catalog, cwd string) (*registry.Entry, error) {
	matches := ByProjectDir(cat, cwd)
	switch len(matches) {
	case 0:
		return nil, errors.EnvironmentNotRegistered(cwd)
	case 1:
		return matches[0], nil
	default:
		return nil, errors.AmbiguousIdentifier(CurrentDir, Names(matches))
	}
}

// isIDPrefix reports whether identifier could be a partial id.
func isIDPrefix(identifier string) bool {
	return len(identifier) >= MinAmbiguousPrefix &&
		len(identifier) < identity.IDLength &&
		identity.IsHex(identifier)
}

// ByIDPrefix returns every entry whose id starts with prefix, in registry order.
func ByIDPrefix(cat Catalog, prefix string) []*registry.Entry {
	var out []*registry.Entry
	for _, e := range cat.Entries() {
		if strings.HasPrefix(e.ID, prefix) {
			out = append(out, e)
		}
	}
	return out
}

// ByProjectDir returns every entry registered for dir, in registry order.
func ByProjectDir(cat Catalog, dir string) []*registry.Entry {
	dir = filepath.Clean(dir)
	var out []*registry.Entry
	for _, e := range cat.Entries() {
		if filepath.Clean(e.ProjectDir) == dir {
			out = append(out, e)
		}
	}
	return out
}

// ByNames returns the entries with the given names, in the order of names.
// Unknown names are skipped.
func ByNames(cat Catalog, names []string) []*registry.Entry {
	out := make([]*registry.Entry, 0, len(names))
	for _, name := range names {
		for _, e := range cat.Entries() {
			if e.Name == name {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Names returns the names of entries.
func Names(entries []*registry.Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// CanonicalDir returns the absolute, symlink-free form of dir.
// When symlinks cannot be evaluated the absolute path is returned.
func CanonicalDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}
