package target

import (
	"fmt"
	"strings"

	"github.com/firefly-engineering/venvctl/internal/errors"
)

// AnyDisplay is the display string for an unrestricted target list.
const AnyDisplay = "any"

const displaySeparator = ", "

// Matches reports whether hostname satisfies at least one of the target patterns.
// An empty target list accepts every host.
func Matches(targets []string, hostname string) bool {
	if len(targets) == 0 {
		return true
	}
	for _, pattern := range targets {
		if matchPattern(pattern, hostname) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, hostname string) bool {
	switch pattern {
	case "localhost", "any", "*":
		return true
	case "local":
		return strings.HasSuffix(hostname, ".local")
	}

	// A failed glob does not fall through to the literal rules.
	if strings.ContainsAny(pattern, "*?") {
		return GlobMatch(pattern, hostname)
	}

	if hostname == pattern {
		return true
	}

	for _, component := range strings.Split(hostname, ".") {
		if component == pattern {
			return true
		}
	}

	if strings.HasPrefix(pattern, ".") {
		return len(hostname) > len(pattern) && strings.HasSuffix(hostname, pattern)
	}

	// Implicit domain suffix: "cluster.example" matches "node1.cluster.example".
	cut := len(hostname) - len(pattern)
	return cut > 0 && hostname[cut-1] == '.' && hostname[cut:] == pattern
}

// ValidatePattern rejects patterns that would not survive Format and
// ParseDisplay unchanged: empty, padded with whitespace, or containing a comma.
func ValidatePattern(pattern string) error {
	switch {
	case pattern == "":
		return errors.ValidationError("target pattern must not be empty")
	case strings.TrimSpace(pattern) != pattern:
		return errors.ValidationError(fmt.Sprintf("target pattern %q has leading or trailing whitespace", pattern))
	case strings.Contains(pattern, ","):
		return errors.ValidationError(fmt.Sprintf("target pattern %q must not contain a comma", pattern))
	}
	return nil
}

// Validate checks every pattern in targets.
func Validate(targets []string) error {
	for _, pattern := range targets {
		if err := ValidatePattern(pattern); err != nil {
			return err
		}
	}
	return nil
}

// Check returns a TargetMachineMismatch error when hostname is not allowed by targets.
func Check(targets []string, hostname string) error {
	if Matches(targets, hostname) {
		return nil
	}
	return errors.TargetMachineMismatch(hostname, Format(targets))
}

// Format renders a target list as stored in the registry: "any" when empty,
// otherwise the patterns joined with ", ".
func Format(targets []string) string {
	if len(targets) == 0 {
		return AnyDisplay
	}
	return strings.Join(targets, displaySeparator)
}

// ParseDisplay recovers the pattern list from a display string written by Format.
// Empty items are dropped; "any" and "" yield an empty list.
func ParseDisplay(display string) []string {
	display = strings.TrimSpace(display)
	if display == "" || display == AnyDisplay {
		return nil
	}

	var targets []string
	for _, item := range strings.Split(display, ",") {
		if item = strings.TrimSpace(item); item != "" {
			targets = append(targets, item)
		}
	}
	return targets
}
