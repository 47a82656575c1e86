package config

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"

	"github.com/firefly-engineering/venvctl/internal/errors"
)

// envNameRegex validates environment names.
// Names must start with a letter or digit, followed by letters, digits, dots, underscores, or hyphens.
var envNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateEnvName checks if an environment name is valid.
// Valid names:
//   - Start with a letter or digit
//   - Contain only letters, digits, dots, underscores, or hyphens
//   - Are between 1 and 128 characters long
//   - Are never "." or ".."
func ValidateEnvName(name string) error {
	if name == "" {
		return fmt.Errorf("environment name cannot be empty")
	}

	if name == "." || name == ".." {
		return fmt.Errorf("invalid environment name %q", name)
	}

	if !envNameRegex.MatchString(name) {
		return fmt.Errorf("invalid environment name %q: must start with a letter or digit, contain only letters, digits, dots, underscores, or hyphens, and be at most 128 characters", name)
	}

	return nil
}

const (
	AppName          = "venvctl"
	RegistryFileName = "registry.json"
	SettingsFileName = "config.toml"
	EventsDirName    = "events"
)

// Paths holds the configured paths
type Paths struct {
	ConfigDir    string
	StateDir     string
	RegistryPath string
	EventsDir    string
	SettingsPath string
}

// DefaultPaths returns the default path configuration, following the XDG base directories.
func DefaultPaths() *Paths {
	configDir := defaultConfigDir()
	stateDir := defaultStateDir()
	return &Paths{
		ConfigDir:    configDir,
		StateDir:     stateDir,
		RegistryPath: filepath.Join(stateDir, RegistryFileName),
		EventsDir:    filepath.Join(stateDir, EventsDirName),
		SettingsPath: filepath.Join(configDir, SettingsFileName),
	}
}

// PathsForStateDir returns paths rooted at an explicit state directory.
// The config directory is left at its default.
func PathsForStateDir(stateDir string) *Paths {
	p := DefaultPaths()
	p.StateDir = stateDir
	p.RegistryPath = filepath.Join(stateDir, RegistryFileName)
	p.EventsDir = filepath.Join(stateDir, EventsDirName)
	return p
}

func defaultConfigDir() string {
	if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
		return filepath.Join(x, AppName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", AppName)
}

func defaultStateDir() string {
	if x := os.Getenv("XDG_STATE_HOME"); x != "" {
		return filepath.Join(x, AppName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", AppName)
}

// Settings represents the user settings from config.toml
type Settings struct {
	DefaultBaseDir  string   `toml:"default_base_dir"`
	Python          string   `toml:"python"`
	SpecFile        string   `toml:"spec_file"`
	HostnameEnv     []string `toml:"hostname_env"`
	HostnameCommand string   `toml:"hostname_command"`
	ConfirmRemove   bool     `toml:"confirm_remove"`

	// UnknownKeys lists keys present in the file that no setting consumes.
	UnknownKeys []string `toml:"-"`
}

// DefaultSettings returns the settings used when no config file exists.
func DefaultSettings() *Settings {
	return &Settings{
		DefaultBaseDir:  ".venvs",
		Python:          "python3",
		SpecFile:        "venvctl.json",
		HostnameEnv:     []string{"VENVCTL_HOSTNAME", "HOSTNAME"},
		HostnameCommand: "hostname -f",
		ConfirmRemove:   true,
	}
}

// Validate checks that the Settings are usable.
func (s *Settings) Validate() error {
	if s.Python == "" {
		return fmt.Errorf("python is required")
	}
	if s.HostnameCommand == "" {
		return fmt.Errorf("hostname_command is required")
	}
	if s.SpecFile == "" {
		return fmt.Errorf("spec_file is required")
	}
	if filepath.Base(s.SpecFile) != s.SpecFile {
		return fmt.Errorf("spec_file must be a file name, not a path (got %q)", s.SpecFile)
	}
	if s.DefaultBaseDir == "" {
		return fmt.Errorf("default_base_dir is required")
	}
	return nil
}

// LoadSettings loads user settings from a TOML file.
// A missing file yields DefaultSettings; keys absent from the file keep their defaults.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return nil, errors.ConfigError(fmt.Sprintf("failed to read settings %s", path), err)
	}

	return decodeSettings(path, data, settings)
}

// ParseSettings decodes settings from TOML data on top of the defaults.
func ParseSettings(data []byte) (*Settings, error) {
	return decodeSettings("<input>", data, DefaultSettings())
}

func decodeSettings(source string, data []byte, settings *Settings) (*Settings, error) {
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(settings)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to parse settings %s", source), err)
	}

	for _, key := range md.Undecoded() {
		settings.UnknownKeys = append(settings.UnknownKeys, key.String())
	}

	if err := settings.Validate(); err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("invalid settings %s", source), err)
	}

	return settings, nil
}
