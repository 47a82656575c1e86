// Package provision builds the virtualenv directory behind a registry entry.
//
// # CommandProvisioner
//
// CommandProvisioner runs the interpreter and pip through a
// system.CommandExecutor:
//
//	p := provision.NewCommandProvisioner("python3")
//	result, err := p.Provision(ctx, entry, spec)
//
// # Provisioning Flow
//
// Provision:
//  1. Creates the parent of the venv directory
//  2. Runs "<python> -m venv <venv_path>"
//  3. Runs "<venv_path>/bin/pip install <packages...>" when packages are listed
//
// When the spec lists environment modules each step runs as
// bash -lc "module load <modules> && <step>".
//
// On failure a directory created by the run is removed and the error carries
// the ProvisionFailed exit code.
//
// # Purge
//
// Purge deletes an environment directory for remove --purge and gc --force.
// It only deletes directories that contain pyvenv.cfg.
package provision
