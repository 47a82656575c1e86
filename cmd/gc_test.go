package cmd

import (
	"strings"
	"testing"

	"github.com/firefly-engineering/venvctl/internal/audit"
	"github.com/firefly-engineering/venvctl/internal/testutil"
)

func TestGCCommand_Help(t *testing.T) {
	stdout, _, err := executeCommand("gc", "--help")
	if err != nil {
		t.Fatalf("Help command failed: %v", err)
	}

	if !strings.Contains(stdout, "Stale entries") {
		t.Error("GC help should mention stale entries")
	}

	if !strings.Contains(stdout, "--force") {
		t.Error("GC help should mention --force flag")
	}
}

func TestGC_NothingToDo(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")
	env.MaterializeVenv(env.AddEnvironment("torch", project))

	stdout, _, err := executeCommand("gc")
	if err != nil {
		t.Fatalf("gc failed: %v", err)
	}
	if !strings.Contains(stdout, "Nothing to clean up") {
		t.Errorf("stdout = %q, want nothing-to-do message", stdout)
	}
}

func TestGC_DryRunAndForce(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")
	env.AddEnvironment("stale", project)
	env.MaterializeVenv(env.AddEnvironment("healthy", project))

	stdout, _, err := executeCommand("gc")
	if err != nil {
		t.Fatalf("gc failed: %v", err)
	}
	if !strings.Contains(stdout, "Dry run") || !strings.Contains(stdout, "stale") {
		t.Errorf("dry run output = %q, want the stale entry", stdout)
	}
	if strings.Contains(stdout, "healthy") {
		t.Error("healthy environment should not be listed")
	}
	if env.Registry().Len() != 2 {
		t.Error("dry run should not modify the registry")
	}

	if _, _, err := executeCommand("gc", "--force"); err != nil {
		t.Fatalf("gc --force failed: %v", err)
	}

	reg := env.Registry()
	if _, ok := reg.Lookup("stale"); ok {
		t.Error("stale entry should be deregistered")
	}
	if _, ok := reg.Lookup("healthy"); !ok {
		t.Error("healthy entry should be kept")
	}

	events, _ := env.App.Audit().Events("stale")
	if len(events) != 1 || events[0].Type != audit.EventGC {
		t.Errorf("events = %+v, want one gc event", events)
	}
}
