package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/venvctl/internal/app"
	"github.com/firefly-engineering/venvctl/internal/config"
	"github.com/firefly-engineering/venvctl/internal/logging"
)

var (
	verbose      bool
	logJSON      bool
	registryPath string
	configPath   string
	noPick       bool
)

var rootCmd = &cobra.Command{
	Use:   "venvctl",
	Short: "Named Python virtual environments across a fleet of hosts",
	Long: `venvctl provisions and tracks named, reusable Python virtual environments.

Each environment is bound to:
  - A project directory
  - A set of target machines allowed to use it
  - A virtualenv directory, by default <project>/.venvs/<name>

Environments are referred to by name, full id, an id prefix, or "." for the
environment registered for the current directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a := app.Default
		a.Logger = logging.Setup(verbose, logJSON, os.Stderr)

		if registryPath != "" {
			a.Paths.RegistryPath = registryPath
		}
		if configPath != "" {
			a.Paths.SettingsPath = configPath
		}

		if err := a.LoadSettings(); err != nil {
			return err
		}
		logging.Debug("settings loaded", "path", a.Paths.SettingsPath, "registry", a.Paths.RegistryPath)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVar(&registryPath, "registry", "", "Registry file (default $XDG_STATE_HOME/venvctl/"+config.RegistryFileName+")")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (default $XDG_CONFIG_HOME/venvctl/"+config.SettingsFileName+")")
	rootCmd.PersistentFlags().BoolVar(&noPick, "no-pick", false, "Never open the interactive picker for ambiguous identifiers")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
	logError   = logging.UserError
)
