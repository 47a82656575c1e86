// Package testutil provides test utilities for command and integration tests
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/firefly-engineering/venvctl/internal/app"
	"github.com/firefly-engineering/venvctl/internal/config"
	"github.com/firefly-engineering/venvctl/internal/provision"
	"github.com/firefly-engineering/venvctl/internal/registry"
	"github.com/firefly-engineering/venvctl/internal/system"
)

// TestHostname is the hostname reported by a TestEnv.
const TestHostname = "node01.cluster.example"

// TestEnv holds the test environment
type TestEnv struct {
	T        *testing.T
	TmpDir   string
	Paths    *config.Paths
	Executor *system.MockExecutor
	Stdin    *bytes.Buffer
	App      *app.App
	Hostname string
	cleanup  func()
}

// NewTestEnv creates a new test environment backed by a temporary state
// directory and a mock command executor.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()

	paths := config.PathsForStateDir(filepath.Join(tmpDir, "state"))
	paths.ConfigDir = filepath.Join(tmpDir, "config")
	paths.SettingsPath = filepath.Join(paths.ConfigDir, config.SettingsFileName)

	for _, dir := range []string{paths.ConfigDir, paths.StateDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	mockExec := system.NewMockExecutor()
	stdin := &bytes.Buffer{}

	env := &TestEnv{
		T:        t,
		TmpDir:   tmpDir,
		Paths:    paths,
		Executor: mockExec,
		Stdin:    stdin,
		Hostname: TestHostname,
	}

	testApp := app.New(
		app.WithPaths(paths),
		app.WithSettings(config.DefaultSettings()),
		app.WithFS(system.DefaultFS()),
		app.WithExecutor(mockExec),
		app.WithGetwd(func() (string, error) { return tmpDir, nil }),
		app.WithGetenv(env.getenv),
		app.WithStdin(stdin),
	)
	env.App = testApp

	// Save original default and set test app
	originalDefault := app.Default
	app.SetDefault(testApp)
	env.cleanup = func() {
		app.SetDefault(originalDefault)
	}

	return env
}

func (e *TestEnv) getenv(name string) string {
	for _, v := range e.App.Settings.HostnameEnv {
		if v == name {
			return e.Hostname
		}
	}
	return ""
}

// Cleanup restores the original app default
func (e *TestEnv) Cleanup() {
	if e.cleanup != nil {
		e.cleanup()
	}
}

// SetCwd changes the directory "." resolves against.
func (e *TestEnv) SetCwd(dir string) {
	e.App.Getwd = func() (string, error) { return dir, nil }
}

// CreateProject creates a project directory under the temp dir.
func (e *TestEnv) CreateProject(name string) string {
	e.T.Helper()

	path := filepath.Join(e.TmpDir, "projects", name)
	if err := os.MkdirAll(path, 0755); err != nil {
		e.T.Fatalf("Failed to create project: %v", err)
	}
	return path
}

// WriteSpec writes an environment spec file into a project directory.
func (e *TestEnv) WriteSpec(projectDir, content string) {
	e.T.Helper()

	path := filepath.Join(projectDir, e.App.Settings.SpecFile)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.T.Fatalf("Failed to write spec: %v", err)
	}
}

// WriteSettings writes the settings file that commands load.
func (e *TestEnv) WriteSettings(content string) {
	e.T.Helper()

	if err := os.WriteFile(e.Paths.SettingsPath, []byte(content), 0644); err != nil {
		e.T.Fatalf("Failed to write settings: %v", err)
	}
}

// AddEnvironment registers an environment directly in the registry file.
func (e *TestEnv) AddEnvironment(name, projectDir string, targets ...string) *registry.Entry {
	e.T.Helper()

	store, reg, err := e.App.OpenRegistry()
	if err != nil {
		e.T.Fatalf("Failed to open registry: %v", err)
	}
	entry, _, err := reg.Register(name, projectDir, "", "", targets)
	if err != nil {
		e.T.Fatalf("Failed to register %s: %v", name, err)
	}
	if err := store.Save(reg); err != nil {
		e.T.Fatalf("Failed to save registry: %v", err)
	}
	return entry
}

// MaterializeVenv creates a directory that looks like a provisioned venv.
func (e *TestEnv) MaterializeVenv(entry *registry.Entry) {
	e.T.Helper()

	bin := filepath.Join(entry.VenvPath, "bin")
	if err := os.MkdirAll(bin, 0755); err != nil {
		e.T.Fatalf("Failed to create venv: %v", err)
	}
	marker := filepath.Join(entry.VenvPath, provision.MarkerFile)
	if err := os.WriteFile(marker, []byte("home = /usr/bin\n"), 0644); err != nil {
		e.T.Fatalf("Failed to write %s: %v", marker, err)
	}
	python := filepath.Join(bin, "python")
	if err := os.WriteFile(python, []byte("#!/bin/sh\n"), 0755); err != nil {
		e.T.Fatalf("Failed to write %s: %v", python, err)
	}
}

// WriteRegistry replaces the registry file with raw content.
func (e *TestEnv) WriteRegistry(data []byte) {
	e.T.Helper()

	if err := os.WriteFile(e.Paths.RegistryPath, data, 0644); err != nil {
		e.T.Fatalf("Failed to write registry: %v", err)
	}
}

// Registry loads the registry as currently persisted.
func (e *TestEnv) Registry() *registry.Registry {
	e.T.Helper()

	_, reg, err := e.App.OpenRegistry()
	if err != nil {
		e.T.Fatalf("Failed to open registry: %v", err)
	}
	return reg
}

// CommandLines returns every recorded executor call as a command line.
func (e *TestEnv) CommandLines() []string {
	lines := make([]string, 0, len(e.Executor.Commands))
	for _, c := range e.Executor.Commands {
		lines = append(lines, c.String())
	}
	return lines
}

// RanCommand reports whether a recorded call starts with prefix.
func (e *TestEnv) RanCommand(prefix string) bool {
	for _, line := range e.CommandLines() {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
