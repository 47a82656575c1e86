// Package app provides the application context for venvctl.
// It allows dependency injection for testing.
package app

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/firefly-engineering/venvctl/internal/audit"
	"github.com/firefly-engineering/venvctl/internal/config"
	"github.com/firefly-engineering/venvctl/internal/envspec"
	"github.com/firefly-engineering/venvctl/internal/hostname"
	"github.com/firefly-engineering/venvctl/internal/logging"
	"github.com/firefly-engineering/venvctl/internal/provision"
	"github.com/firefly-engineering/venvctl/internal/registry"
	"github.com/firefly-engineering/venvctl/internal/system"
)

// App holds the application dependencies
type App struct {
	// Paths holds the configured paths
	Paths *config.Paths

	// Settings is the loaded user configuration
	Settings *config.Settings

	FS       system.FileSystem
	Executor system.CommandExecutor

	// Logger receives diagnostics from the core packages
	Logger *slog.Logger

	// Getwd returns the directory "." resolves against
	Getwd func() (string, error)

	// Getenv is used for hostname detection
	Getenv func(string) string

	Stdin io.Reader
}

// Option is a function that configures the App
type Option func(*App)

// WithPaths sets custom paths
func WithPaths(paths *config.Paths) Option {
	return func(a *App) {
		a.Paths = paths
	}
}

// WithSettings sets the user settings
func WithSettings(s *config.Settings) Option {
	return func(a *App) {
		a.Settings = s
	}
}

// WithFS sets the filesystem
func WithFS(fs system.FileSystem) Option {
	return func(a *App) {
		a.FS = fs
	}
}

// WithExecutor sets the command executor
func WithExecutor(e system.CommandExecutor) Option {
	return func(a *App) {
		a.Executor = e
	}
}

// WithLogger sets the logger handed to the core packages
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithGetwd sets the working directory lookup
func WithGetwd(fn func() (string, error)) Option {
	return func(a *App) {
		a.Getwd = fn
	}
}

// WithGetenv sets the environment lookup
func WithGetenv(fn func(string) string) Option {
	return func(a *App) {
		a.Getenv = fn
	}
}

// WithStdin sets the input used for confirmation prompts
func WithStdin(r io.Reader) Option {
	return func(a *App) {
		a.Stdin = r
	}
}

// New creates a new App with the given options.
// Settings default to the built-in values; use LoadSettings to read the config file.
func New(opts ...Option) *App {
	app := &App{
		Paths:    config.DefaultPaths(),
		Settings: config.DefaultSettings(),
		FS:       system.DefaultFS(),
		Executor: system.DefaultExecutor(),
		Getwd:    os.Getwd,
		Getenv:   os.Getenv,
		Stdin:    os.Stdin,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// LoadSettings reads the settings file at Paths.SettingsPath.
func (a *App) LoadSettings() error {
	s, err := config.LoadSettings(a.Paths.SettingsPath)
	if err != nil {
		return err
	}
	for _, key := range s.UnknownKeys {
		a.logger().Warn("unknown settings key", "key", key, "file", a.Paths.SettingsPath)
	}
	a.Settings = s
	return nil
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return logging.Logger
}

// Store returns the registry store at Paths.RegistryPath.
func (a *App) Store() *registry.Store {
	return registry.NewStore(a.Paths.RegistryPath,
		registry.WithFS(a.FS),
		registry.WithLogger(a.logger()),
	)
}

// OpenRegistry loads the registry, creating the file if it does not exist.
func (a *App) OpenRegistry() (*registry.Store, *registry.Registry, error) {
	store := a.Store()
	reg, err := store.Load()
	if err != nil {
		return nil, nil, err
	}
	return store, reg, nil
}

// Hostname detects the current host as configured in Settings.
func (a *App) Hostname(ctx context.Context) (*hostname.Result, error) {
	d := &hostname.Detector{
		EnvVars:  a.Settings.HostnameEnv,
		Command:  a.Settings.HostnameCommand,
		Executor: a.Executor,
		Getenv:   a.Getenv,
	}
	return d.Detect(ctx)
}

// Audit returns an audit logger writing under Paths.EventsDir.
func (a *App) Audit() *audit.Logger {
	return audit.NewLogger(a.Paths.EventsDir)
}

// SpecSource returns the environment spec loader.
func (a *App) SpecSource() *envspec.FileSource {
	return &envspec.FileSource{FileName: a.Settings.SpecFile, FS: a.FS}
}

// Provisioner returns the command-backed provisioner.
func (a *App) Provisioner() provision.Provisioner {
	return provision.NewCommandProvisioner(a.Settings.Python,
		provision.WithExecutor(a.Executor),
		provision.WithFS(a.FS),
		provision.WithLogger(a.logger()),
	)
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}
