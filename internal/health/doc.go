// Package health reports whether a registered environment is usable.
//
// # Health Status
//
//	StatusHealthy   - venv directory, pyvenv.cfg and bin/python present
//	StatusBroken    - directory present but incomplete
//	StatusMissing   - venv directory does not exist
//	StatusWrongHost - current host is not one of the environment's targets
//
// # Check Functions
//
//	result := health.Check(fs, entry, hostname, time.Now())
//	// result.VenvPresent, .MarkerPresent, .PythonPresent, .HostAllowed, .Age
//
//	status := health.GetSummary(fs, entry, hostname)
//	fmt.Println(health.FormatStatus(status))
package health
