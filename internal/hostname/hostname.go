// Package hostname determines the name of the machine venvctl runs on.
package hostname

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/venvctl/internal/errors"
	"github.com/firefly-engineering/venvctl/internal/system"
)

// Source describes where a hostname came from.
type Source string

const (
	SourceEnv     Source = "env"
	SourceCommand Source = "command"
)

// Result is a detected hostname and its origin.
type Result struct {
	Hostname string
	Source   Source
	// Origin is the environment variable name or the command line.
	Origin string
}

// Detector looks the hostname up in environment variables, then by running a command.
type Detector struct {
	EnvVars  []string
	Command  string
	Executor system.CommandExecutor
	Getenv   func(string) string
}

// Detect returns the hostname. The first non-empty variable in EnvVars wins;
// otherwise the first line of Command's standard output is used. There is no fallback.
func (d *Detector) Detect(ctx context.Context) (*Result, error) {
	getenv := d.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	for _, name := range d.EnvVars {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			return &Result{Hostname: v, Source: SourceEnv, Origin: name}, nil
		}
	}

	return d.fromCommand(ctx)
}

func (d *Detector) fromCommand(ctx context.Context) (*Result, error) {
	args, err := shellquote.Split(d.Command)
	if err != nil {
		return nil, errors.HostnameError(fmt.Sprintf("invalid hostname command %q", d.Command), err)
	}
	if len(args) == 0 {
		return nil, errors.HostnameError("no hostname command configured", nil)
	}

	executor := d.Executor
	if executor == nil {
		executor = system.DefaultExecutor()
	}

	out, err := executor.Output(ctx, args[0], args[1:]...)
	if err != nil {
		return nil, errors.HostnameError(fmt.Sprintf("hostname command %q failed", d.Command), err)
	}

	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, errors.HostnameError(fmt.Sprintf("hostname command %q produced no output", d.Command), nil)
	}

	return &Result{Hostname: line, Source: SourceCommand, Origin: d.Command}, nil
}
