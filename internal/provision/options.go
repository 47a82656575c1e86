package provision

import (
	"github.com/firefly-engineering/venvctl/internal/envspec"
	"github.com/firefly-engineering/venvctl/internal/registry"
)

// request pairs an entry with its spec for one provisioning run.
type request struct {
	entry *registry.Entry
	spec  *envspec.Spec
}

// python returns the interpreter requested by the spec, or fallback.
func (r request) python(fallback string) string {
	if r.spec != nil && r.spec.Python != "" {
		return r.spec.Python
	}
	return fallback
}

func (r request) modules() []string {
	if r.spec == nil {
		return nil
	}
	return r.spec.Modules
}

func (r request) packages() []string {
	if r.spec == nil {
		return nil
	}
	return r.spec.Packages
}

// Step names used in results and ProvisionFailed errors.
const (
	StepVenv    = "venv"
	StepInstall = "install"
)

type step struct {
	name string
	argv []string
}

// Result holds the result of a successful provisioning run.
type Result struct {
	// VenvPath is the provisioned directory
	VenvPath string

	// Python is the interpreter the environment was created with
	Python string

	// Steps lists the command lines that ran, in order
	Steps []string

	// Created is false when the directory already held an environment
	Created bool
}
