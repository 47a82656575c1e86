package health

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/firefly-engineering/venvctl/internal/provision"
	"github.com/firefly-engineering/venvctl/internal/registry"
	"github.com/firefly-engineering/venvctl/internal/system"
	"github.com/firefly-engineering/venvctl/internal/target"
)

// Status represents the health status of an environment
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusMissing   Status = "missing"
	StatusBroken    Status = "broken"
	StatusWrongHost Status = "wrong-host"
)

// CheckResult contains the results of health checks
type CheckResult struct {
	VenvPresent   bool
	MarkerPresent bool
	PythonPresent bool

	// HostAllowed is true when no hostname was given.
	HostAllowed bool

	// Age is the time since the venv directory was last modified; zero if unknown.
	Age time.Duration
}

// Check inspects an environment's directory and, when hostname is not
// empty, whether that host is one of its targets.
func Check(fs system.FileSystem, entry *registry.Entry, hostname string, now time.Time) *CheckResult {
	result := &CheckResult{HostAllowed: true}

	if hostname != "" {
		result.HostAllowed = target.Matches(entry.Targets(), hostname)
	}

	info, err := fs.Stat(entry.VenvPath)
	if err != nil || !info.IsDir() {
		return result
	}
	result.VenvPresent = true
	if mt := info.ModTime(); !mt.IsZero() {
		result.Age = now.Sub(mt)
	}

	result.MarkerPresent = provision.IsVenv(fs, entry.VenvPath)
	result.PythonPresent = fs.Exists(filepath.Join(entry.VenvPath, "bin", "python"))
	return result
}

// Status summarizes the result. A host mismatch outranks directory problems.
func (r *CheckResult) Status() Status {
	switch {
	case !r.HostAllowed:
		return StatusWrongHost
	case !r.VenvPresent:
		return StatusMissing
	case !r.MarkerPresent || !r.PythonPresent:
		return StatusBroken
	default:
		return StatusHealthy
	}
}

// GetSummary returns a quick health status.
func GetSummary(fs system.FileSystem, entry *registry.Entry, hostname string) Status {
	return Check(fs, entry, hostname, time.Now()).Status()
}

// FormatStatus renders a status with its marker.
func FormatStatus(status Status) string {
	switch status {
	case StatusHealthy:
		return "✓ healthy"
	case StatusBroken:
		return "⚠ broken"
	case StatusMissing:
		return "○ missing"
	case StatusWrongHost:
		return "✗ wrong-host"
	default:
		return string(status)
	}
}

// FormatAge renders an age for display, or "unknown".
func FormatAge(d time.Duration) string {
	if d <= 0 {
		return "unknown"
	}
	return formatDuration(d)
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	} else if d < 24*time.Hour {
		hours := int(d.Hours())
		mins := int(d.Minutes()) % 60
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	return fmt.Sprintf("%dd %dh", days, hours)
}
