package provision

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/firefly-engineering/venvctl/internal/logging"
	"github.com/firefly-engineering/venvctl/internal/system"
)

// MarkerFile is present in every virtualenv directory.
const MarkerFile = "pyvenv.cfg"

// IsVenv reports whether path looks like a virtualenv.
func IsVenv(fs system.FileSystem, path string) bool {
	return fs.Exists(filepath.Join(path, MarkerFile))
}

// Purge removes an environment directory. A missing directory is not an
// error; a directory without a pyvenv.cfg is refused so a hand-edited
// registry cannot point removal at arbitrary paths.
func Purge(fs system.FileSystem, venvPath string, logger *slog.Logger) error {
	logger = logging.OrDiscard(logger)

	if !filepath.IsAbs(venvPath) {
		return fmt.Errorf("refusing to remove relative path %q", venvPath)
	}
	if !fs.Exists(venvPath) {
		logger.Debug("environment directory already gone", "venv", venvPath)
		return nil
	}
	if !IsVenv(fs, venvPath) {
		return fmt.Errorf("refusing to remove %s: no %s found", venvPath, MarkerFile)
	}

	logger.Debug("removing environment directory", "venv", venvPath)
	if err := fs.RemoveAll(venvPath); err != nil {
		return fmt.Errorf("failed to remove %s: %w", venvPath, err)
	}
	return nil
}
