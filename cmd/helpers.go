package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/firefly-engineering/venvctl/internal/app"
	"github.com/firefly-engineering/venvctl/internal/audit"
	"github.com/firefly-engineering/venvctl/internal/config"
	"github.com/firefly-engineering/venvctl/internal/errors"
	"github.com/firefly-engineering/venvctl/internal/logging"
	"github.com/firefly-engineering/venvctl/internal/registry"
	"github.com/firefly-engineering/venvctl/internal/resolve"
	"github.com/firefly-engineering/venvctl/internal/target"
	"github.com/firefly-engineering/venvctl/internal/tui"
)

// paths returns the configured paths.
// This is a helper to reduce repetition in commands.
func paths() *config.Paths {
	return app.Default.Paths
}

// settings returns the loaded user settings.
func settings() *config.Settings {
	return app.Default.Settings
}

// openRegistry loads the registry, creating it on first use.
func openRegistry() (*registry.Store, *registry.Registry, error) {
	return app.Default.OpenRegistry()
}

// currentDir returns the canonical working directory.
func currentDir() (string, error) {
	wd, err := app.Default.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return resolve.CanonicalDir(wd)
}

// projectDir returns the canonical form of flagValue, or of the working
// directory when it is empty.
func projectDir(flagValue string) (string, error) {
	if flagValue == "" {
		return currentDir()
	}
	if !filepath.IsAbs(flagValue) {
		wd, err := app.Default.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		flagValue = filepath.Join(wd, flagValue)
	}
	return resolve.CanonicalDir(flagValue)
}

// isInteractive reports whether both stdin and stdout are terminals.
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// resolveEntry resolves identifier against reg. When the identifier is
// ambiguous and the session is interactive, the picker is opened over the
// candidates instead of failing.
func resolveEntry(ctx context.Context, reg *registry.Registry, identifier string) (*registry.Entry, error) {
	cwd := ""
	if identifier == resolve.CurrentDir {
		dir, err := currentDir()
		if err != nil {
			return nil, err
		}
		cwd = dir
	}

	entry, err := resolve.Resolve(reg, identifier, cwd)
	if err == nil {
		logging.Debug("resolved identifier", "identifier", identifier, "name", entry.Name, "id", entry.ID)
		return entry, nil
	}

	if !errors.HasCode(err, errors.ExitAmbiguousIdentifier) || noPick || !isInteractive() {
		return nil, err
	}

	candidates := resolve.ByNames(reg, errors.Candidates(err))
	opts := tui.PickerOptions{
		Title: fmt.Sprintf("%q matches %d environments", identifier, len(candidates)),
		FS:    app.Default.FS,
	}
	if host, herr := app.Default.Hostname(ctx); herr == nil {
		opts.Hostname = host.Hostname
	}

	result, perr := tui.RunPicker(candidates, opts)
	if perr != nil {
		return nil, fmt.Errorf("picker error: %w", perr)
	}
	if result.Action != tui.ActionSelect || result.Entry == nil {
		return nil, err
	}
	return result.Entry, nil
}

// loadEntry opens the registry and resolves identifier in it.
func loadEntry(ctx context.Context, identifier string) (*registry.Entry, error) {
	_, reg, err := openRegistry()
	if err != nil {
		return nil, err
	}
	return resolveEntry(ctx, reg, identifier)
}

// requireTarget checks that the current host may use entry. A mismatch is
// recorded in the environment's audit log.
func requireTarget(ctx context.Context, entry *registry.Entry) (string, error) {
	host, err := app.Default.Hostname(ctx)
	if err != nil {
		return "", err
	}

	if err := target.Check(entry.Targets(), host.Hostname); err != nil {
		recordEvent(audit.Event{
			Type:        audit.EventMismatch,
			Environment: entry.Name,
			ID:          entry.ID,
			Host:        host.Hostname,
			Details:     entry.TargetMachines,
		})
		return host.Hostname, err
	}
	return host.Hostname, nil
}

// recordEvent appends to the audit log. Failures only warn.
func recordEvent(event audit.Event) {
	if err := app.Default.Audit().Log(event); err != nil {
		logging.Warn("failed to write audit event", "type", event.Type, "environment", event.Environment, "error", err)
	}
}

// completeIdentifier completes environment names and short ids.
func completeIdentifier(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	path := paths().RegistryPath
	if registryPath != "" {
		path = registryPath
	}

	reg, err := registry.NewStore(path,
		registry.WithFS(app.Default.FS),
		registry.WithLogger(logging.Discard()),
	).Load()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var out []string
	for _, e := range reg.Entries() {
		if strings.HasPrefix(e.Name, toComplete) {
			out = append(out, e.Name+"\t"+e.ProjectDir)
		}
		if toComplete != "" && strings.HasPrefix(e.ID, toComplete) {
			id := e.ShortID()
			if len(toComplete) > len(id) {
				id = e.ID
			}
			out = append(out, id+"\t"+e.Name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
