package envspec

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/firefly-engineering/venvctl/internal/errors"
	"github.com/firefly-engineering/venvctl/internal/system"
)

func TestParse(t *testing.T) {
	data := []byte(`{
		// GPU training stack
		"name": "torch",
		"target_machines": ["gpu*", ".cluster.example",],
		"modules": ["cuda/12.2"],
		"packages": ["torch==2.3.0", "numpy"],
	}`)

	spec, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, "torch", spec.Name)
	require.Equal(t, []string{"gpu*", ".cluster.example"}, spec.TargetMachines)
	require.Equal(t, []string{"cuda/12.2"}, spec.Modules)
	require.Equal(t, []string{"torch==2.3.0", "numpy"}, spec.Packages)
	require.Empty(t, spec.BaseDir)
}

func TestParse_Invalid(t *testing.T) {
	for _, data := range []string{`{}`, `{"name": ""}`, `{"name": 1}`, `nope`} {
		if _, err := Parse([]byte(data)); err == nil {
			t.Errorf("Parse(%q) should fail", data)
		}
	}
}

func TestFileSource_Load(t *testing.T) {
	mockFS := system.NewMockFS()
	mockFS.AddFile("/home/u/proj/venvctl.json", []byte(`{"name": "jax", "base_dir": "/scratch/venvs"}`), 0644)

	src := &FileSource{FileName: "venvctl.json", FS: mockFS}
	spec, err := src.Load("/home/u/proj")
	require.NoError(t, err)
	require.Equal(t, "jax", spec.Name)
	require.Equal(t, "/scratch/venvs", spec.BaseDir)
}

func TestFileSource_Errors(t *testing.T) {
	mockFS := system.NewMockFS()
	mockFS.AddFile("/bad/venvctl.json", []byte(`{"description": "no name"}`), 0644)
	src := &FileSource{FileName: "venvctl.json", FS: mockFS}

	_, err := src.Load("/missing")
	require.Error(t, err)
	require.Equal(t, errors.ExitConfigError, errors.GetExitCode(err))
	require.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = src.Load("/bad")
	require.Error(t, err)
	require.Equal(t, errors.ExitConfigError, errors.GetExitCode(err))
}
