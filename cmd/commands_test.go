package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/firefly-engineering/venvctl/internal/audit"
	"github.com/firefly-engineering/venvctl/internal/errors"
	"github.com/firefly-engineering/venvctl/internal/registry"
	"github.com/firefly-engineering/venvctl/internal/testutil"
)

// lastLine returns the last non-empty line of out.
func lastLine(out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

func assertExitCode(t *testing.T, err error, want int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error with exit code %d, got nil", want)
	}
	if got := errors.GetExitCode(err); got != want {
		t.Errorf("exit code = %d, want %d (err: %v)", got, want, err)
	}
}

func TestRegisterCommand(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")

	stdout, _, err := executeCommand("register", "torch", "-p", project,
		"-t", "gpu*", "-t", ".cluster.example", "-d", "training")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !strings.Contains(stdout, "Registered torch") {
		t.Errorf("stdout = %q, want a registration message", stdout)
	}

	id := lastLine(stdout)
	if len(id) != 40 {
		t.Fatalf("printed id = %q, want 40 hex characters", id)
	}

	reg := env.Registry()
	entry, ok := reg.Lookup("torch")
	if !ok {
		t.Fatal("torch not registered")
	}
	if entry.ID != id {
		t.Errorf("ID = %q, want %q", entry.ID, id)
	}
	if entry.TargetMachines != "gpu*, .cluster.example" {
		t.Errorf("TargetMachines = %q, want %q", entry.TargetMachines, "gpu*, .cluster.example")
	}
	if want := filepath.Join(project, ".venvs", "torch"); entry.VenvPath != want {
		t.Errorf("VenvPath = %q, want %q", entry.VenvPath, want)
	}
	if entry.Description != "training" {
		t.Errorf("Description = %q, want %q", entry.Description, "training")
	}
}

func TestRegisterCommand_UpdateKeepsID(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	first := env.CreateProject("one")
	second := env.CreateProject("two")

	stdout, _, err := executeCommand("register", "torch", "-p", first)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	id := lastLine(stdout)

	stdout, _, err = executeCommand("register", "torch", "-p", second)
	if err != nil {
		t.Fatalf("re-register failed: %v", err)
	}
	if !strings.Contains(stdout, "Updated torch") {
		t.Errorf("stdout = %q, want an update message", stdout)
	}
	if got := lastLine(stdout); got != id {
		t.Errorf("id after update = %q, want %q", got, id)
	}

	reg := env.Registry()
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
	entry, _ := reg.Lookup("torch")
	if entry.ProjectDir != second {
		t.Errorf("ProjectDir = %q, want %q", entry.ProjectDir, second)
	}

	events, err := env.App.Audit().Events("torch")
	if err != nil {
		t.Fatalf("Events() error: %v", err)
	}
	if len(events) != 2 || events[0].Type != audit.EventRegister || events[1].Type != audit.EventUpdate {
		t.Errorf("events = %+v, want register then update", events)
	}
}

func TestRegisterCommand_RelativeProjectDir(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")
	env.SetCwd(env.TmpDir)

	if _, _, err := executeCommand("register", "torch", "-p", filepath.Join("projects", "ml")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	entry, _ := env.Registry().Lookup("torch")
	if entry.ProjectDir != project {
		t.Errorf("ProjectDir = %q, want %q", entry.ProjectDir, project)
	}
}

func TestRegisterCommand_InvalidName(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	_, _, err := executeCommand("register", "../escape")
	assertExitCode(t, err, errors.ExitGeneralError)

	if env.Registry().Len() != 0 {
		t.Error("invalid name should not be registered")
	}
}

func TestCreateCommand(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")
	env.WriteSpec(project, `{
  // training environment
  "name": "torch",
  "target_machines": ["node*"],
  "packages": ["numpy"],
}`)
	env.SetCwd(project)

	stdout, _, err := executeCommand("create")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	venv := filepath.Join(project, ".venvs", "torch")
	if !env.RanCommand("python3 -m venv " + venv) {
		t.Errorf("commands = %v, want a venv creation", env.CommandLines())
	}
	if !env.RanCommand(filepath.Join(venv, "bin", "pip") + " install numpy") {
		t.Errorf("commands = %v, want a pip install", env.CommandLines())
	}

	entry, ok := env.Registry().Lookup("torch")
	if !ok {
		t.Fatal("torch not registered")
	}
	if got := lastLine(stdout); got != entry.ID {
		t.Errorf("printed id = %q, want %q", got, entry.ID)
	}
	if entry.TargetMachines != "node*" {
		t.Errorf("TargetMachines = %q, want %q", entry.TargetMachines, "node*")
	}

	events, _ := env.App.Audit().Events("torch")
	if len(events) != 2 || events[1].Type != audit.EventCreate {
		t.Fatalf("events = %+v, want register then create", events)
	}
	if events[1].Host != testutil.TestHostname {
		t.Errorf("Host = %q, want %q", events[1].Host, testutil.TestHostname)
	}
}

func TestCreateCommand_TargetMismatch(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")
	env.WriteSpec(project, `{"name": "torch", "target_machines": ["login*"]}`)
	env.SetCwd(project)

	_, _, err := executeCommand("create")
	assertExitCode(t, err, errors.ExitTargetMismatch)

	if len(env.Executor.Commands) != 0 {
		t.Errorf("commands = %v, want none", env.CommandLines())
	}
	if env.Registry().Len() != 0 {
		t.Error("nothing should be registered on mismatch")
	}

	if _, _, err := executeCommand("create", "--force-host"); err != nil {
		t.Fatalf("create --force-host failed: %v", err)
	}
	if env.Registry().Len() != 1 {
		t.Error("--force-host should register the environment")
	}
}

func TestCreateCommand_InvalidTargetPattern(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")
	env.WriteSpec(project, `{"name": "torch", "target_machines": ["gpu01,gpu02"]}`)

	_, _, err := executeCommand("create", "-p", project, "--force-host")
	assertExitCode(t, err, errors.ExitGeneralError)

	if len(env.Executor.Commands) != 0 {
		t.Errorf("commands = %v, want none", env.CommandLines())
	}
	if env.Registry().Len() != 0 {
		t.Error("nothing should be registered for an invalid pattern")
	}
}

func TestRegisterCommand_InvalidTargetPattern(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")

	for _, pattern := range []string{"", " gpu01", "gpu01,gpu02"} {
		_, _, err := executeCommand("register", "torch", "-p", project, "-t", pattern)
		assertExitCode(t, err, errors.ExitGeneralError)
	}
	if env.Registry().Len() != 0 {
		t.Error("nothing should be registered for an invalid pattern")
	}
}

func TestCreateCommand_ProvisionFailure(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")
	env.WriteSpec(project, `{"name": "torch"}`)
	env.Executor.AddResponse("python3", []byte("No module named venv\n"), fmt.Errorf("exit status 1"))

	_, _, err := executeCommand("create", "-p", project)
	assertExitCode(t, err, errors.ExitProvisionFailed)

	if env.Registry().Len() != 0 {
		t.Error("a failed provision should not be registered")
	}
}

func TestCreateCommand_MissingSpec(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")

	_, _, err := executeCommand("create", "-p", project)
	assertExitCode(t, err, errors.ExitConfigError)
}

func TestCreateCommand_SettingsPython(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	env.WriteSettings("python = \"python3.11\"\n")
	project := env.CreateProject("ml")
	env.WriteSpec(project, `{"name": "torch"}`)

	if _, _, err := executeCommand("create", "-p", project); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !env.RanCommand("python3.11 -m venv ") {
		t.Errorf("commands = %v, want python3.11 from settings", env.CommandLines())
	}
}

func TestInvalidSettings(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	env.WriteSettings("python = [\n")

	_, _, err := executeCommand("list")
	assertExitCode(t, err, errors.ExitConfigError)
}

func TestListCommand(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	stdout, _, err := executeCommand("list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(stdout, "No environments registered") {
		t.Errorf("stdout = %q, want empty message", stdout)
	}

	project := env.CreateProject("ml")
	torch := env.AddEnvironment("torch", project, "gpu*")
	jax := env.AddEnvironment("jax", project)
	env.MaterializeVenv(jax)

	stdout, _, err = executeCommand("ls")
	if err != nil {
		t.Fatalf("ls failed: %v", err)
	}
	for _, want := range []string{"ID", "NAME", torch.ShortID(), "torch", "jax", "gpu*", "any", project, "wrong-host", "healthy"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("list output missing %q:\n%s", want, stdout)
		}
	}
}

func TestListCommand_StructuredOutput(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	stdout, _, err := executeCommand("list", "-o", "json")
	if err != nil {
		t.Fatalf("list -o json failed: %v", err)
	}
	if strings.TrimSpace(stdout) != "[]" {
		t.Errorf("empty json list = %q, want []", stdout)
	}

	project := env.CreateProject("ml")
	env.AddEnvironment("torch", project)
	env.AddEnvironment("jax", project)

	stdout, _, err = executeCommand("list", "--output", "json")
	if err != nil {
		t.Fatalf("list -o json failed: %v", err)
	}
	var fromJSON []registry.Entry
	if err := json.Unmarshal([]byte(stdout), &fromJSON); err != nil {
		t.Fatalf("invalid json output: %v\n%s", err, stdout)
	}
	if len(fromJSON) != 2 || fromJSON[0].Name != "torch" {
		t.Errorf("json entries = %+v, want torch and jax", fromJSON)
	}

	stdout, _, err = executeCommand("list", "--output", "yaml")
	if err != nil {
		t.Fatalf("list -o yaml failed: %v", err)
	}
	var fromYAML []registry.Entry
	if err := yaml.Unmarshal([]byte(stdout), &fromYAML); err != nil {
		t.Fatalf("invalid yaml output: %v\n%s", err, stdout)
	}
	if len(fromYAML) != 2 || fromYAML[1].Name != "jax" {
		t.Errorf("yaml entries = %+v, want torch and jax", fromYAML)
	}

	_, _, err = executeCommand("list", "--output", "xml")
	assertExitCode(t, err, errors.ExitGeneralError)
}

func TestShowCommand(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")
	entry := env.AddEnvironment("torch", project, "gpu*")

	stdout, _, err := executeCommand("show", "torch")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	for _, want := range []string{"torch", entry.ID, entry.VenvPath, "gpu*", "not provisioned"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("show output missing %q:\n%s", want, stdout)
		}
	}

	env.MaterializeVenv(entry)
	stdout, _, err = executeCommand("show", entry.ShortID())
	if err != nil {
		t.Fatalf("show by short id failed: %v", err)
	}
	if !strings.Contains(stdout, "(provisioned)") {
		t.Errorf("show output should report the venv as provisioned:\n%s", stdout)
	}
	if !strings.Contains(stdout, "wrong-host") || !strings.Contains(stdout, "Age:") {
		t.Errorf("show output should report status and age:\n%s", stdout)
	}

	stdout, _, err = executeCommand("show", "torch", "-o", "json")
	if err != nil {
		t.Fatalf("show -o json failed: %v", err)
	}
	var got registry.Entry
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid json output: %v", err)
	}
	if got != *entry {
		t.Errorf("json entry = %+v, want %+v", got, *entry)
	}
}

func TestResolveCommand(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	data, err := testutil.RegistryFixture()
	if err != nil {
		t.Fatal(err)
	}
	env.WriteRegistry(data)

	tests := []struct {
		identifier string
		want       string
	}{
		{"torch", "aaaaaaa1c0ffee00000000000000000000000001"},
		{"aaaaaaa1", "aaaaaaa1c0ffee00000000000000000000000001"},
		{"aaaaaab2", "aaaaaab2c0ffee00000000000000000000000002"},
		{"5d41402abc4b2a76b9719d911017c592ee11aa77", "5d41402abc4b2a76b9719d911017c592ee11aa77"},
		{"docs", "5d41402abc4b2a76b9719d911017c592ee11aa77"},
	}

	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			stdout, _, err := executeCommand("resolve", tt.identifier)
			if err != nil {
				t.Fatalf("resolve %s failed: %v", tt.identifier, err)
			}
			if got := strings.TrimSpace(stdout); got != tt.want {
				t.Errorf("resolve %s = %q, want %q", tt.identifier, got, tt.want)
			}
		})
	}
}

func TestResolveCommand_Failures(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	data, err := testutil.RegistryFixture()
	if err != nil {
		t.Fatal(err)
	}
	env.WriteRegistry(data)

	_, _, err = executeCommand("resolve", "aaaaaa")
	assertExitCode(t, err, errors.ExitAmbiguousIdentifier)
	if !strings.Contains(err.Error(), "torch") || !strings.Contains(err.Error(), "jax") {
		t.Errorf("ambiguity error %q should list both candidates", err)
	}

	_, _, err = executeCommand("resolve", "--no-pick", "aaaaaa")
	assertExitCode(t, err, errors.ExitAmbiguousIdentifier)

	_, _, err = executeCommand("resolve", "nope")
	assertExitCode(t, err, errors.ExitEnvironmentNotFound)

	env.SetCwd("/home/user/ml")
	_, _, err = executeCommand("resolve", ".")
	assertExitCode(t, err, errors.ExitAmbiguousIdentifier)

	env.SetCwd(env.TmpDir)
	_, _, err = executeCommand("resolve", ".")
	assertExitCode(t, err, errors.ExitEnvironmentNotFound)
}

func TestResolveCommand_CurrentDir(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")
	entry := env.AddEnvironment("torch", project)
	env.SetCwd(project)

	stdout, _, err := executeCommand("resolve", ".")
	if err != nil {
		t.Fatalf("resolve . failed: %v", err)
	}
	if got := strings.TrimSpace(stdout); got != entry.ID {
		t.Errorf("resolve . = %q, want %q", got, entry.ID)
	}
}

func TestResolveCommand_InvalidRegistry(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	env.WriteRegistry([]byte(`{"environments": {"name": "torch"}}`))

	_, _, err := executeCommand("resolve", "torch")
	assertExitCode(t, err, errors.ExitInvalidRegistry)
}

func TestRegistryFlag(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	other := filepath.Join(env.TmpDir, "other", "registry.json")
	project := env.CreateProject("ml")

	if _, _, err := executeCommand("--registry", other, "register", "torch", "-p", project); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	data, err := os.ReadFile(other)
	if err != nil {
		t.Fatalf("registry not written to --registry path: %v", err)
	}
	if !strings.Contains(string(data), `"torch"`) {
		t.Errorf("registry content = %s, want torch", data)
	}
}

func TestRemoveCommand(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")
	entry := env.AddEnvironment("torch", project)
	env.AddEnvironment("jax", project)
	env.MaterializeVenv(entry)

	stdout, _, err := executeCommand("rm", "torch")
	if err != nil {
		t.Fatalf("rm failed: %v", err)
	}
	if !strings.Contains(stdout, "Removed torch") {
		t.Errorf("stdout = %q, want removal message", stdout)
	}

	reg := env.Registry()
	if _, ok := reg.Lookup("torch"); ok {
		t.Error("torch should be deregistered")
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
	if _, err := os.Stat(entry.VenvPath); err != nil {
		t.Error("venv directory should be kept without --purge")
	}

	_, _, err = executeCommand("rm", "torch")
	assertExitCode(t, err, errors.ExitEnvironmentNotFound)
}

func TestRemoveCommand_Purge(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")
	entry := env.AddEnvironment("torch", project)
	env.MaterializeVenv(entry)

	if _, _, err := executeCommand("remove", entry.ShortID(), "--purge", "--yes"); err != nil {
		t.Fatalf("remove --purge failed: %v", err)
	}
	if _, err := os.Stat(entry.VenvPath); !os.IsNotExist(err) {
		t.Errorf("venv directory should be deleted, stat err = %v", err)
	}
	if env.Registry().Len() != 0 {
		t.Error("registry should be empty")
	}
}

func TestRemoveCommand_PurgeRefusesNonVenv(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")
	entry := env.AddEnvironment("torch", project)
	if err := os.MkdirAll(entry.VenvPath, 0755); err != nil {
		t.Fatal(err)
	}

	if _, _, err := executeCommand("rm", "torch", "--purge"); err == nil {
		t.Error("purging a directory without pyvenv.cfg should fail")
	}
	if _, err := os.Stat(entry.VenvPath); err != nil {
		t.Error("directory without pyvenv.cfg should be kept")
	}
}

func TestCheckCommand(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")
	env.AddEnvironment("torch", project, "gpu*")
	env.AddEnvironment("anywhere", project)
	env.AddEnvironment("cluster", project, ".cluster.example")

	_, _, err := executeCommand("check", "torch")
	assertExitCode(t, err, errors.ExitTargetMismatch)

	tests := []struct {
		args []string
	}{
		{[]string{"check", "torch", "--host", "gpu03"}},
		{[]string{"check", "anywhere"}},
		{[]string{"check", "cluster"}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			if _, _, err := executeCommand(tt.args...); err != nil {
				t.Errorf("%v failed: %v", tt.args, err)
			}
		})
	}
}

func TestActivateCommand(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")
	entry := env.AddEnvironment("torch", project, "node*")

	_, _, err := executeCommand("activate", "torch")
	assertExitCode(t, err, errors.ExitGeneralError)

	env.MaterializeVenv(entry)
	stdout, _, err := executeCommand("activate", "torch")
	if err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	if !strings.HasPrefix(stdout, "source ") || !strings.Contains(stdout, "bin/activate") {
		t.Errorf("activate output = %q, want a source command", stdout)
	}

	events, _ := env.App.Audit().Events("torch")
	if len(events) != 1 || events[0].Type != audit.EventActivate {
		t.Errorf("events = %+v, want one activate", events)
	}
}

func TestActivateCommand_Mismatch(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")
	entry := env.AddEnvironment("torch", project, "login*")
	env.MaterializeVenv(entry)

	stdout, _, err := executeCommand("activate", "torch")
	assertExitCode(t, err, errors.ExitTargetMismatch)
	if stdout != "" {
		t.Errorf("stdout = %q, want nothing on mismatch", stdout)
	}

	events, _ := env.App.Audit().Events("torch")
	if len(events) != 1 || events[0].Type != audit.EventMismatch {
		t.Fatalf("events = %+v, want one mismatch", events)
	}
	if events[0].Host != testutil.TestHostname {
		t.Errorf("Host = %q, want %q", events[0].Host, testutil.TestHostname)
	}
}

func TestActivateCommand_HostnameUnavailable(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")
	env.AddEnvironment("torch", project)
	env.Hostname = ""

	_, _, err := executeCommand("activate", "torch")
	assertExitCode(t, err, errors.ExitHostnameError)
}

func TestRunCommand(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")
	entry := env.AddEnvironment("torch", project)
	env.MaterializeVenv(entry)

	if _, _, err := executeCommand("run", "torch", "--", "python", "-c", "print(1)"); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	last, ok := env.Executor.LastCommand()
	if !ok {
		t.Fatal("no command executed")
	}
	if last.Name != "python" || strings.Join(last.Args, " ") != "-c print(1)" {
		t.Errorf("command = %s, want python -c print(1)", last)
	}

	var path, virtualEnv string
	for _, kv := range last.Env {
		if v, ok := strings.CutPrefix(kv, "PATH="); ok {
			path = v
		}
		if v, ok := strings.CutPrefix(kv, "VIRTUAL_ENV="); ok {
			virtualEnv = v
		}
	}
	if !strings.HasPrefix(path, filepath.Join(entry.VenvPath, "bin")) {
		t.Errorf("PATH = %q, want the venv bin first", path)
	}
	if virtualEnv != entry.VenvPath {
		t.Errorf("VIRTUAL_ENV = %q, want %q", virtualEnv, entry.VenvPath)
	}
}

func TestRunCommand_RequiresSeparator(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")
	env.AddEnvironment("torch", project)

	_, _, err := executeCommand("run", "torch", "python")
	assertExitCode(t, err, errors.ExitGeneralError)
	if len(env.Executor.Commands) != 0 {
		t.Errorf("commands = %v, want none", env.CommandLines())
	}
}

func TestRunCommand_SeparatorNotCarriedOver(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")
	entry := env.AddEnvironment("torch", project)
	env.MaterializeVenv(entry)

	if _, _, err := executeCommand("run", "torch", "--", "python", "-V"); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	ran := len(env.Executor.Commands)

	_, _, err := executeCommand("run", "torch", "python", "-V")
	assertExitCode(t, err, errors.ExitGeneralError)
	if len(env.Executor.Commands) != ran {
		t.Errorf("commands = %v, want no new command", env.CommandLines())
	}
}

func TestVenvEnviron(t *testing.T) {
	environ := []string{"HOME=/home/user", "PATH=/usr/bin:/bin", "PYTHONHOME=/opt/py", "VIRTUAL_ENV=/old"}
	got := venvEnviron(environ, "/p/.venvs/torch")

	want := map[string]bool{
		"HOME=/home/user":                        true,
		"PATH=/p/.venvs/torch/bin:/usr/bin:/bin": true,
		"VIRTUAL_ENV=/p/.venvs/torch":            true,
	}
	if len(got) != len(want) {
		t.Fatalf("venvEnviron() = %v, want %d entries", got, len(want))
	}
	for _, kv := range got {
		if !want[kv] {
			t.Errorf("unexpected entry %q", kv)
		}
	}

	got = venvEnviron(nil, "/v")
	if len(got) != 2 || got[0] != "PATH=/v/bin" {
		t.Errorf("venvEnviron(nil) = %v, want PATH and VIRTUAL_ENV only", got)
	}
}

func TestHostnameCommand(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	stdout, stderr, err := executeCommand("hostname")
	if err != nil {
		t.Fatalf("hostname failed: %v", err)
	}
	if strings.TrimSpace(stdout) != testutil.TestHostname {
		t.Errorf("stdout = %q, want %q", stdout, testutil.TestHostname)
	}
	if !strings.Contains(stderr, "VENVCTL_HOSTNAME") {
		t.Errorf("stderr = %q, want the variable name", stderr)
	}

	env.Hostname = ""
	env.Executor.AddResponse("hostname -f", []byte("login02.cluster.example\n"), nil)
	stdout, stderr, err = executeCommand("hostname")
	if err != nil {
		t.Fatalf("hostname failed: %v", err)
	}
	if strings.TrimSpace(stdout) != "login02.cluster.example" {
		t.Errorf("stdout = %q, want %q", stdout, "login02.cluster.example")
	}
	if !strings.Contains(stderr, "command") {
		t.Errorf("stderr = %q, want the command source", stderr)
	}
}

func TestHostnameCommand_Failure(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	env.Hostname = ""
	env.Executor.AddResponse("hostname", nil, fmt.Errorf("not found"))

	_, _, err := executeCommand("hostname")
	assertExitCode(t, err, errors.ExitHostnameError)
}

func TestPickCommand_NonInteractive(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")
	env.AddEnvironment("torch", project)
	jax := env.AddEnvironment("jax", project)

	env.Stdin.WriteString("2\n")
	stdout, stderr, err := executeCommand("pick")
	if err != nil {
		t.Fatalf("pick failed: %v", err)
	}
	if strings.TrimSpace(stdout) != jax.ID {
		t.Errorf("stdout = %q, want %q", stdout, jax.ID)
	}
	if !strings.Contains(stderr, "1. torch") {
		t.Errorf("stderr = %q, want the numbered listing", stderr)
	}

	env.Stdin.Reset()
	stdout, _, err = executeCommand("pick")
	if err != nil {
		t.Fatalf("pick failed: %v", err)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want nothing without a choice", stdout)
	}
}

func TestHistoryCommand(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	project := env.CreateProject("ml")
	if _, _, err := executeCommand("register", "torch", "-p", project); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	stdout, _, err := executeCommand("history", "torch")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(stdout, "register") || !strings.Contains(stdout, "torch") {
		t.Errorf("history output = %q, want the register event", stdout)
	}

	stdout, _, err = executeCommand("history", "torch", "--json")
	if err != nil {
		t.Fatalf("history --json failed: %v", err)
	}
	var event audit.Event
	if err := json.Unmarshal([]byte(strings.TrimSpace(stdout)), &event); err != nil {
		t.Fatalf("invalid json event: %v\n%s", err, stdout)
	}
	if event.Type != audit.EventRegister || event.Invocation == "" {
		t.Errorf("event = %+v, want a register event with an invocation id", event)
	}

	stdout, _, err = executeCommand("history", "ghost")
	if err != nil {
		t.Fatalf("history for an unknown name failed: %v", err)
	}
	if !strings.Contains(stdout, "No events") {
		t.Errorf("stdout = %q, want no events message", stdout)
	}
}

func TestCompleteIdentifier(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()
	resetFlags()

	data, err := testutil.RegistryFixture()
	if err != nil {
		t.Fatal(err)
	}
	env.WriteRegistry(data)

	got, directive := completeIdentifier(showCmd, nil, "to")
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v, want NoFileComp", directive)
	}
	if len(got) != 1 || !strings.HasPrefix(got[0], "torch\t") {
		t.Errorf("completions for %q = %v, want torch", "to", got)
	}

	got, _ = completeIdentifier(showCmd, nil, "aaaaaa")
	if len(got) != 2 || !strings.HasPrefix(got[0], "aaaaaaa1\t") || !strings.HasPrefix(got[1], "aaaaaab2\t") {
		t.Errorf("completions for %q = %v, want both short ids", "aaaaaa", got)
	}

	got, _ = completeIdentifier(showCmd, []string{"torch"}, "")
	if len(got) != 0 {
		t.Errorf("completions after the first argument = %v, want none", got)
	}
}
