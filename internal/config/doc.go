// Package config provides path layout and user settings for venvctl.
//
// # Paths
//
// Paths follows the XDG base directories:
//
//   - RegistryPath: $XDG_STATE_HOME/venvctl/registry.json
//   - EventsDir:    $XDG_STATE_HOME/venvctl/events
//   - SettingsPath: $XDG_CONFIG_HOME/venvctl/config.toml
//
// When the XDG variables are unset, ~/.local/state and ~/.config are used.
//
// # Settings
//
// Settings are read from a TOML file. Every key is optional:
//
//	default_base_dir = ".venvs"
//	python = "python3"
//	spec_file = "venvctl.json"
//	hostname_env = ["VENVCTL_HOSTNAME", "HOSTNAME"]
//	hostname_command = "hostname -f"
//	confirm_remove = true
//
// Keys the decoder does not recognize are collected in Settings.UnknownKeys
// so the CLI can warn about them.
//
// # Validation
//
// ValidateEnvName checks environment names before they reach the registry.
// Settings.Validate runs after every load.
package config
