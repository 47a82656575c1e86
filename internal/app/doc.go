// Package app provides the application context for venvctl.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # App Context
//
// The App struct holds core dependencies:
//
//	type App struct {
//	    Paths    *config.Paths          // Registry, events and settings locations
//	    Settings *config.Settings       // User configuration
//	    FS       system.FileSystem      // File access
//	    Executor system.CommandExecutor // External commands
//	    Logger   *slog.Logger           // Diagnostics for the core packages
//	    ...
//	}
//
// # Creating an App
//
//	// Production usage
//	a := app.New()
//	if err := a.LoadSettings(); err != nil { ... }
//
//	// Testing with custom dependencies
//	a := app.New(
//	    app.WithPaths(config.PathsForStateDir(tmp)),
//	    app.WithExecutor(mockExec),
//	)
//
// # Collaborators
//
//	OpenRegistry()  // Load the registry store
//	Hostname(ctx)   // Detect the current host from settings
//	Audit()         // Per-environment event log
//	SpecSource()    // Project environment spec loader
//	Provisioner()   // Command-backed virtualenv provisioner
package app
