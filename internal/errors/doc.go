// Package errors provides typed errors with exit codes for venvctl.
//
// # Error Types
//
// VenvError is the base error type that wraps an error with an exit code:
//
//	type VenvError struct {
//	    Code       int      // Exit code
//	    Message    string   // User-facing message
//	    Cause      error    // Wrapped error
//	    Candidates []string // Names matched by an ambiguous identifier
//	}
//
// # Exit Codes
//
//	ExitSuccess             = 0 // Success
//	ExitGeneralError        = 1 // General/unknown errors
//	ExitEnvironmentNotFound = 2 // No environment matches the identifier
//	ExitAmbiguousIdentifier = 3 // Identifier matches several environments
//	ExitTargetMismatch      = 4 // Current host is not an allowed target machine
//	ExitInvalidRegistry     = 5 // Registry file is malformed
//	ExitConfigError         = 6 // Settings or environment spec error
//	ExitHostnameError       = 7 // Hostname could not be determined
//	ExitProvisionFailed     = 8 // venv creation or package install failed
//	ExitRegistryIO          = 9 // Registry file could not be read or written
//
// # Error Constructors
//
//	errors.EnvironmentNotFound("gpu-env")
//	errors.AmbiguousIdentifier("a1b2c3", []string{"train", "eval"})
//	errors.TargetMachineMismatch("login01", "gpu*, .cluster.example")
//	errors.InvalidRegistryFormat(path, err)
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
//
// Candidates(err) recovers the candidate names from an ambiguity error anywhere
// in the chain, so callers can print them or offer a picker.
package errors
