package provision

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/venvctl/internal/envspec"
	"github.com/firefly-engineering/venvctl/internal/errors"
	"github.com/firefly-engineering/venvctl/internal/logging"
	"github.com/firefly-engineering/venvctl/internal/registry"
	"github.com/firefly-engineering/venvctl/internal/system"
)

// Provisioner builds the environment directory for a registered entry.
type Provisioner interface {
	Provision(ctx context.Context, entry *registry.Entry, spec *envspec.Spec) (*Result, error)
}

// CommandProvisioner provisions environments by running python and pip.
type CommandProvisioner struct {
	python   string
	executor system.CommandExecutor
	fs       system.FileSystem
	logger   *slog.Logger
}

// Option configures a CommandProvisioner.
type Option func(*CommandProvisioner)

// WithExecutor sets the command executor.
func WithExecutor(e system.CommandExecutor) Option {
	return func(p *CommandProvisioner) {
		p.executor = e
	}
}

// WithFS sets the filesystem.
func WithFS(fs system.FileSystem) Option {
	return func(p *CommandProvisioner) {
		p.fs = fs
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *CommandProvisioner) {
		p.logger = l
	}
}

// NewCommandProvisioner creates a provisioner that falls back to python when
// the spec names no interpreter.
func NewCommandProvisioner(python string, opts ...Option) *CommandProvisioner {
	p := &CommandProvisioner{
		python:   python,
		executor: system.DefaultExecutor(),
		fs:       system.DefaultFS(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.OrDiscard(p.logger)
	return p
}

// Provision creates the virtualenv and installs the spec's packages.
// When the spec lists environment modules, every command runs in a login
// shell after "module load". A directory created by a failed run is removed.
// The spec may be nil, which provisions a bare environment.
func (p *CommandProvisioner) Provision(ctx context.Context, entry *registry.Entry, spec *envspec.Spec) (*Result, error) {
	if entry == nil || entry.VenvPath == "" {
		return nil, errors.ValidationError("nothing to provision: entry has no venv path")
	}

	req := request{entry: entry, spec: spec}
	venvPath := entry.VenvPath
	python := req.python(p.python)
	existed := p.fs.Exists(venvPath)

	p.logger.Debug("starting provisioning", "name", entry.Name, "venv", venvPath, "python", python)

	result := &Result{VenvPath: venvPath, Python: python, Created: !existed}

	if err := p.fs.MkdirAll(filepath.Dir(venvPath), 0o755); err != nil {
		return nil, errors.ProvisionFailed(StepVenv, err)
	}

	steps := []step{
		{StepVenv, []string{python, "-m", "venv", venvPath}},
	}
	if pkgs := req.packages(); len(pkgs) > 0 {
		argv := append([]string{filepath.Join(venvPath, "bin", "pip"), "install"}, pkgs...)
		steps = append(steps, step{StepInstall, argv})
	}

	for _, s := range steps {
		name, args := wrapModules(req.modules(), s.argv)
		line := shellquote.Join(append([]string{name}, args...)...)
		p.logger.Debug("running provisioning step", "step", s.name, "command", line)

		out, err := p.executor.Execute(ctx, name, args...)
		if err != nil {
			if !existed {
				p.cleanup(venvPath)
			}
			return nil, errors.ProvisionFailed(s.name, withOutput(err, out))
		}
		result.Steps = append(result.Steps, line)
	}

	return result, nil
}

// wrapModules runs argv inside "bash -lc 'module load ... && argv'" when
// modules are requested.
func wrapModules(modules, argv []string) (string, []string) {
	if len(modules) == 0 {
		return argv[0], argv[1:]
	}
	script := shellquote.Join(append([]string{"module", "load"}, modules...)...) +
		" && " + shellquote.Join(argv...)
	return "bash", []string{"-lc", script}
}

// withOutput attaches the last lines of a failed command's output to err.
func withOutput(err error, out []byte) error {
	text := strings.TrimSpace(string(out))
	if text == "" {
		return err
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return fmt.Errorf("%w\n%s", err, strings.Join(lines, "\n"))
}

func (p *CommandProvisioner) cleanup(venvPath string) {
	p.logger.Debug("cleaning up failed provisioning", "venv", venvPath)
	if err := p.fs.RemoveAll(venvPath); err != nil {
		p.logger.Warn("failed to remove partial environment", "venv", venvPath, "error", err)
	}
}
