package library

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "test"+FileName))
}

func TestInsertFindRemove(t *testing.T) {
	lib := testStore(t)

	assert.True(t, lib.Insert("ModA", "/opt/mod_a"))
	assert.True(t, lib.Insert("ModB", "/opt/mod_b"))
	assert.False(t, lib.Insert("ModA", "/elsewhere"), "duplicate registration must be rejected")
	assert.Equal(t, 2, lib.Size())

	path, exists := lib.Find("ModA")
	assert.True(t, exists)
	assert.Equal(t, "/opt/mod_a", path)

	removed, err := lib.Remove("ModA")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 1, lib.Size())

	removed, err = lib.Remove("ModA")
	require.NoError(t, err)
	assert.False(t, removed, "removing an absent module is not an error")
}

func TestVisitAllIsSorted(t *testing.T) {
	lib := testStore(t)
	lib.Insert("Zeta", "/z")
	lib.Insert("Alpha", "/a")
	lib.Insert("Mid", "/m")

	var names []string
	lib.VisitAll(func(name string, path string) {
		names = append(names, name)
	})
	assert.Equal(t, []string{"Alpha", "Mid", "Zeta"}, names)
}

func TestSaveAndReload(t *testing.T) {
	libFile := filepath.Join(t.TempDir(), FileName)
	lib := NewStore(libFile)
	require.NoError(t, lib.Load()) //creates a fresh library
	lib.Insert("ModA", "/opt/mod_a")
	lib.SetCondaSource("/opt/conda/etc/profile.d/conda.sh")
	require.NoError(t, lib.Save())

	reloaded := NewStore(libFile)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, DriverVersion, reloaded.Version())
	assert.Equal(t, 1, reloaded.Size())
	path, exists := reloaded.Find("ModA")
	assert.True(t, exists)
	assert.Equal(t, "/opt/mod_a", path)
	assert.Equal(t, "/opt/conda/etc/profile.d/conda.sh", reloaded.CondaSource())
	assert.Equal(t, "", reloaded.EnvRoot())
}

func TestLoadCreatesMissingLibrary(t *testing.T) {
	libFile := filepath.Join(t.TempDir(), FileName)
	lib := NewStore(libFile)
	require.NoError(t, lib.Load())
	assert.Equal(t, 0, lib.Size())

	_, statErr := os.Stat(libFile)
	assert.NoError(t, statErr, "first load must create the library file")
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	libFile := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(libFile, []byte(`{"version":"99999999","cmec-driver":{},"modules":{}}`), 0o644))

	lib := NewStore(libFile)
	err := lib.Load()
	var mismatch *VersionMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "99999999", mismatch.Stored)
	assert.Equal(t, DriverVersion, mismatch.Driver)
}

func TestLoadAcceptsOlderVersion(t *testing.T) {
	libFile := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(libFile, []byte(`{"version":"20190101","cmec-driver":{},"modules":{"Old":"/old"}}`), 0o644))

	lib := NewStore(libFile)
	require.NoError(t, lib.Load())
	assert.Equal(t, "20190101", lib.Version())
	assert.Equal(t, 1, lib.Size())
}

func TestLoadRejectsMalformedDocument(t *testing.T) {
	for name, content := range map[string]string{
		"missing version":  `{"cmec-driver":{},"modules":{}}`,
		"missing driver":   `{"version":"20201114","modules":{}}`,
		"missing modules":  `{"version":"20201114","cmec-driver":{}}`,
		"mistyped modules": `{"version":"20201114","cmec-driver":{},"modules":[]}`,
		"mistyped version": `{"version":7,"cmec-driver":{},"modules":{}}`,
	} {
		t.Run(name, func(t *testing.T) {
			libFile := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(libFile, []byte(content), 0o644))

			err := NewStore(libFile).Load()
			var malformed *MalformedLibraryError
			assert.ErrorAs(t, err, &malformed)
		})
	}
}

func TestLoadRejectsRepeatedModuleName(t *testing.T) {
	libFile := filepath.Join(t.TempDir(), FileName)
	raw := `{"version":"20201114","cmec-driver":{},"modules":{"Twin":"/one","Twin":"/two"}}`
	require.NoError(t, os.WriteFile(libFile, []byte(raw), 0o644))

	err := NewStore(libFile).Load()
	var duplicate *DuplicateModuleError
	require.ErrorAs(t, err, &duplicate)
	assert.Equal(t, "Twin", duplicate.Name)
}

func TestLoadPreservesUnknownDriverKeys(t *testing.T) {
	libFile := filepath.Join(t.TempDir(), FileName)
	raw := `{"version":"20201114","cmec-driver":{"future_key":"kept"},"modules":{}}`
	require.NoError(t, os.WriteFile(libFile, []byte(raw), 0o644))

	lib := NewStore(libFile)
	require.NoError(t, lib.Load())
	lib.SetEnvRoot("/opt/envs")
	require.NoError(t, lib.Save())

	reloaded := NewStore(libFile)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, "/opt/envs", reloaded.EnvRoot())
	assert.Equal(t, "kept", reloaded.doc.Driver["future_key"])
}

func TestCondaSettingsLifecycle(t *testing.T) {
	lib := testStore(t)
	assert.Equal(t, "", lib.CondaSource())
	assert.Equal(t, "", lib.EnvRoot())

	lib.SetCondaSource("/conda.sh")
	lib.SetEnvRoot("/envs")
	assert.Equal(t, "/conda.sh", lib.CondaSource())
	assert.Equal(t, "/envs", lib.EnvRoot())

	lib.ClearCondaSettings()
	assert.Equal(t, "", lib.CondaSource())
	assert.Equal(t, "", lib.EnvRoot())
}

func TestLoadClearsPreviousState(t *testing.T) {
	libFile := filepath.Join(t.TempDir(), FileName)
	lib := NewStore(libFile)
	require.NoError(t, lib.Load())
	lib.Insert("Transient", "/nowhere")
	//not saved on purpose

	require.NoError(t, lib.Load())
	_, exists := lib.Find("Transient")
	assert.False(t, exists)
}

func TestHomeDirectoryHonorsEnvironment(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	resolved, err := HomeDirectory()
	require.NoError(t, err)
	assert.Equal(t, home, resolved)
}

func TestHomeDirectoryRejectsBogusEnvironment(t *testing.T) {
	t.Setenv("HOME", filepath.Join(t.TempDir(), "does-not-exist"))

	_, err := HomeDirectory()
	var envErr *EnvironmentError
	assert.True(t, errors.As(err, &envErr))
}
