package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes for venvctl
const (
	ExitSuccess             = 0
	ExitGeneralError        = 1
	ExitEnvironmentNotFound = 2
	ExitAmbiguousIdentifier = 3
	ExitTargetMismatch      = 4
	ExitInvalidRegistry     = 5
	ExitConfigError         = 6
	ExitHostnameError       = 7
	ExitProvisionFailed     = 8
	ExitRegistryIO          = 9
)

// VenvError is the base error type for venvctl
type VenvError struct {
	Code    int
	Message string
	Cause   error

	// Candidates lists the environment names an ambiguous identifier matched.
	Candidates []string
}

func (e *VenvError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *VenvError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *VenvError) ExitCode() int {
	return e.Code
}

// New creates a new VenvError
func New(code int, message string) *VenvError {
	return &VenvError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a VenvError
func Wrap(code int, message string, cause error) *VenvError {
	return &VenvError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// EnvironmentNotFound returns an error for an identifier that matches nothing
func EnvironmentNotFound(identifier string) *VenvError {
	return New(ExitEnvironmentNotFound, fmt.Sprintf("environment not found: %s", identifier))
}

// EnvironmentNotRegistered returns an error for a directory with no registered environment
func EnvironmentNotRegistered(dir string) *VenvError {
	return New(ExitEnvironmentNotFound, fmt.Sprintf("no environment registered for %s", dir))
}

// AmbiguousIdentifier returns an error for an identifier matching several environments.
// The candidate names are kept on the error for display.
func AmbiguousIdentifier(identifier string, candidates []string) *VenvError {
	names := make([]string, len(candidates))
	copy(names, candidates)
	return &VenvError{
		Code:       ExitAmbiguousIdentifier,
		Message:    fmt.Sprintf("identifier %q is ambiguous; matches: %s", identifier, strings.Join(names, ", ")),
		Candidates: names,
	}
}

// TargetMachineMismatch returns an error when the current host is not an allowed target
func TargetMachineMismatch(hostname, targets string) *VenvError {
	return New(ExitTargetMismatch, fmt.Sprintf("host %q is not a target machine (allowed: %s)", hostname, targets))
}

// InvalidRegistryFormat returns an error for a malformed registry file
func InvalidRegistryFormat(path string, cause error) *VenvError {
	return Wrap(ExitInvalidRegistry, fmt.Sprintf("invalid registry format in %s", path), cause)
}

// RegistryIO returns an error for registry read/write failures
func RegistryIO(op string, cause error) *VenvError {
	return Wrap(ExitRegistryIO, fmt.Sprintf("registry %s failed", op), cause)
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *VenvError {
	return Wrap(ExitConfigError, message, cause)
}

// HostnameError returns an error when the current hostname cannot be determined
func HostnameError(message string, cause error) *VenvError {
	return Wrap(ExitHostnameError, message, cause)
}

// ProvisionFailed returns an error for provisioning steps
func ProvisionFailed(step string, cause error) *VenvError {
	return Wrap(ExitProvisionFailed, fmt.Sprintf("provisioning %s failed", step), cause)
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *VenvError {
	return New(ExitGeneralError, message)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var venvErr *VenvError
	if errors.As(err, &venvErr) {
		return venvErr.ExitCode()
	}
	return ExitGeneralError
}

// HasCode reports whether err carries the given exit code anywhere in its chain
func HasCode(err error, code int) bool {
	var venvErr *VenvError
	if errors.As(err, &venvErr) {
		return venvErr.Code == code
	}
	return false
}

// Candidates returns the candidate names of an ambiguity error, or nil
func Candidates(err error) []string {
	var venvErr *VenvError
	if errors.As(err, &venvErr) {
		return venvErr.Candidates
	}
	return nil
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
