// Package envspec reads the environment spec file a project ships.
//
// The spec names the environment and lists what goes into it: the
// interpreter, environment modules to load, pip packages, and the machines
// it may be used on. Schema validation beyond the name is left to the tools
// that consume each field.
package envspec

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/firefly-engineering/venvctl/internal/errors"
	"github.com/firefly-engineering/venvctl/internal/system"
)

// Spec describes one environment.
type Spec struct {
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	BaseDir        string   `json:"base_dir,omitempty"`
	TargetMachines []string `json:"target_machines,omitempty"`
	Python         string   `json:"python,omitempty"`
	Modules        []string `json:"modules,omitempty"`
	Packages       []string `json:"packages,omitempty"`
}

// Source loads the spec for a project directory.
type Source interface {
	Load(projectDir string) (*Spec, error)
}

// FileSource reads <projectDir>/<FileName>.
type FileSource struct {
	FileName string
	FS       system.FileSystem
}

// NewFileSource creates a FileSource reading fileName through the default filesystem.
func NewFileSource(fileName string) *FileSource {
	return &FileSource{FileName: fileName, FS: system.DefaultFS()}
}

// Path returns the spec file location for projectDir.
func (s *FileSource) Path(projectDir string) string {
	return filepath.Join(projectDir, s.FileName)
}

// Load reads and parses the spec file in projectDir.
func (s *FileSource) Load(projectDir string) (*Spec, error) {
	path := s.Path(projectDir)

	data, err := s.FS.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to read environment spec %s", path), err)
	}

	spec, err := Parse(data)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("invalid environment spec %s", path), err)
	}
	return spec, nil
}

// Parse decodes a spec, accepting comments and trailing commas.
func Parse(data []byte) (*Spec, error) {
	var spec Spec
	if err := json.Unmarshal(jsonc.ToJSON(data), &spec); err != nil {
		return nil, fmt.Errorf("parsing spec: %w", err)
	}
	if spec.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	return &spec, nil
}
