package registry

import (
	"github.com/firefly-engineering/venvctl/internal/identity"
	"github.com/firefly-engineering/venvctl/internal/target"
)

// Entry is one provisioned environment.
type Entry struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	ProjectDir     string `json:"project_dir" yaml:"project_dir"`
	TargetMachines string `json:"target_machine" yaml:"target_machine"`
	VenvPath       string `json:"venv_path" yaml:"venv_path"`
	Description    string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Targets returns the entry's target patterns; empty means any machine.
func (e *Entry) Targets() []string {
	return target.ParseDisplay(e.TargetMachines)
}

// ShortID returns the display prefix of the entry's id.
func (e *Entry) ShortID() string {
	return identity.ShortID(e.ID)
}

// file is the on-disk layout of the registry.
type file struct {
	Environments []*Entry `json:"environments"`
}
