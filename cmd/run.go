package cmd

import (
	"os"
	"path/filepath"
	"strings"

	shellquote "github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/venvctl/internal/app"
	"github.com/firefly-engineering/venvctl/internal/audit"
	"github.com/firefly-engineering/venvctl/internal/errors"
	"github.com/firefly-engineering/venvctl/internal/logging"
)

var runCmd = &cobra.Command{
	Use:               "run <identifier> -- <command> [args...]",
	Short:             "Run a command inside an environment",
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeIdentifier,
	RunE:              runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	dash := cmd.ArgsLenAtDash()
	if dash != 1 || len(args) < 2 {
		return errors.ValidationError("usage: venvctl run <identifier> -- <command> [args...]")
	}
	identifier, argv := args[0], args[1:]

	entry, err := loadEntry(ctx, identifier)
	if err != nil {
		return err
	}

	host, err := requireTarget(ctx, entry)
	if err != nil {
		return err
	}

	line := shellquote.Join(argv...)
	recordEvent(audit.Event{
		Type:        audit.EventRun,
		Environment: entry.Name,
		ID:          entry.ID,
		Host:        host,
		Details:     line,
	})
	logging.Debug("running in environment", "name", entry.Name, "command", line)

	return app.Default.Executor.ExecuteInteractive(ctx, venvEnviron(os.Environ(), entry.VenvPath), argv[0], argv[1:]...)
}

// venvEnviron returns environ with the venv's bin directory first on PATH,
// VIRTUAL_ENV set and PYTHONHOME cleared.
func venvEnviron(environ []string, venvPath string) []string {
	bin := filepath.Join(venvPath, "bin")

	out := make([]string, 0, len(environ)+2)
	path := ""
	for _, kv := range environ {
		key, value, _ := strings.Cut(kv, "=")
		switch key {
		case "PATH":
			path = value
		case "VIRTUAL_ENV", "PYTHONHOME":
		default:
			out = append(out, kv)
		}
	}

	if path == "" {
		path = bin
	} else {
		path = bin + string(os.PathListSeparator) + path
	}
	return append(out, "PATH="+path, "VIRTUAL_ENV="+venvPath)
}
