// Package logging provides logging utilities for venvctl.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// The CLI installs a process logger with Setup and logs through the helpers:
//
//	logging.Debug("registering environment", "name", name, "targets", targets)
//	logging.Warn("registry backfilled", "entries", n)
//
// Library packages (registry, resolve, provision, ...) do not touch the
// process logger. They take a *slog.Logger through their options and fall
// back to Discard when none is given:
//
//	store := registry.NewStore(path, registry.WithLogger(logging.New(true, false, os.Stderr)))
//
// # User Output
//
//	logging.UserInfo("Loading registry %s...", path)
//	logging.UserSuccess("Registered %s (%s)", name, shortID)
//	logging.UserWarning("venv directory %s is missing", path)
//	logging.UserError("Failed to provision: %v", err)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
package logging
