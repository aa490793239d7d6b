package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmecmetrics/cmec-driver/internal/descriptor"
)

type fakeLibrary map[string]string

func (f fakeLibrary) Find(name string) (string, bool) {
	path, exists := f[name]
	return path, exists
}

func writeSettingsFile(t *testing.T, dir string, name string, driver string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := fmt.Sprintf(`{
        "settings": {"name": %q, "long_name": "Long %s", "driver": %q},
        "varlist": {},
        "obslist": {}
    }`, name, name, driver)
	require.NoError(t, os.WriteFile(filepath.Join(dir, descriptor.SettingsFileName), []byte(content), 0o644))
}

func singleConfigModule(t *testing.T, name string) string {
	t.Helper()
	dir := t.TempDir()
	writeSettingsFile(t, dir, name, "run.sh")
	return dir
}

func multiConfigModule(t *testing.T, name string, configs ...string) string {
	t.Helper()
	dir := t.TempDir()
	contents := ""
	for i, config := range configs {
		if i > 0 {
			contents += ", "
		}
		writeSettingsFile(t, filepath.Join(dir, config), config, config+".sh")
		contents += fmt.Sprintf("%q", filepath.Join(config, descriptor.SettingsFileName))
	}
	toc := fmt.Sprintf(`{
        "module": {"name": %q, "long_name": "Long %s"},
        "contents": [%s]
    }`, name, name, contents)
	require.NoError(t, os.WriteFile(filepath.Join(dir, descriptor.TOCFileName), []byte(toc), 0o644))
	return dir
}

func TestParseTarget(t *testing.T) {
	target, err := ParseTarget("Mod")
	require.NoError(t, err)
	assert.Equal(t, Target{Parent: "Mod"}, target)

	target, err = ParseTarget("Mod/config")
	require.NoError(t, err)
	assert.Equal(t, Target{Parent: "Mod", Configuration: "config"}, target)

	for _, raw := range []string{"", "Mod/", "Mod config", "Möd"} {
		_, err := ParseTarget(raw)
		var invalid *InvalidTargetError
		assert.ErrorAs(t, err, &invalid, "target %q", raw)
	}
}

func TestResolveSingleConfigurationModule(t *testing.T) {
	dir := singleConfigModule(t, "Solo")
	lib := fakeLibrary{"Solo": dir}

	runs, err := ResolveAll(lib, []string{"Solo"})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, dir, runs[0].ModulePath)
	assert.Equal(t, filepath.Join(dir, "run.sh"), runs[0].DriverScript)
	assert.Equal(t, "Solo", runs[0].WorkingDirLabel)
}

func TestResolveRejectsConfigurationOnSingleConfigurationModule(t *testing.T) {
	lib := fakeLibrary{"Solo": singleConfigModule(t, "Solo")}

	_, err := ResolveAll(lib, []string{"Solo/extra"})
	var unexpected *UnexpectedConfigurationError
	require.ErrorAs(t, err, &unexpected)
	assert.Equal(t, "Solo", unexpected.Module)
	assert.Equal(t, "extra", unexpected.Configuration)
}

func TestResolveExpandsAllConfigurations(t *testing.T) {
	dir := multiConfigModule(t, "Multi", "A", "B")
	lib := fakeLibrary{"Multi": dir}

	runs, err := ResolveAll(lib, []string{"Multi"})
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "Multi/A", runs[0].WorkingDirLabel)
	assert.Equal(t, "Multi/B", runs[1].WorkingDirLabel)
	assert.Equal(t, filepath.Join(dir, "A", "A.sh"), runs[0].DriverScript)
	assert.Equal(t, dir, runs[1].ModulePath)
}

func TestResolveSelectsSingleConfiguration(t *testing.T) {
	lib := fakeLibrary{"Multi": multiConfigModule(t, "Multi", "A", "B")}

	runs, err := ResolveAll(lib, []string{"Multi/B"})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "Multi/B", runs[0].WorkingDirLabel)
}

func TestResolveUnknownConfiguration(t *testing.T) {
	lib := fakeLibrary{"Multi": multiConfigModule(t, "Multi", "A")}

	_, err := ResolveAll(lib, []string{"Multi/Z"})
	var notFound *ConfigurationNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Z", notFound.Configuration)
}

func TestResolveUnknownModule(t *testing.T) {
	_, err := ResolveAll(fakeLibrary{}, []string{"Ghost"})
	var notFound *ModuleNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Ghost", notFound.Module)
}

func TestResolveModuleWithoutDescriptors(t *testing.T) {
	lib := fakeLibrary{"Empty": t.TempDir()}

	_, err := ResolveAll(lib, []string{"Empty"})
	var noDescriptor *NoDescriptorError
	require.ErrorAs(t, err, &noDescriptor)
	assert.Equal(t, "Empty", noDescriptor.Module)
}

func TestResolvePreservesTargetOrder(t *testing.T) {
	lib := fakeLibrary{
		"Multi": multiConfigModule(t, "Multi", "A", "B"),
		"Solo":  singleConfigModule(t, "Solo"),
	}

	runs, err := ResolveAll(lib, []string{"Solo", "Multi"})
	require.NoError(t, err)
	labels := make([]string, len(runs))
	for i, run := range runs {
		labels[i] = run.WorkingDirLabel
	}
	assert.Equal(t, []string{"Solo", "Multi/A", "Multi/B"}, labels)
}

func TestResolveNothingYieldsError(t *testing.T) {
	_, err := ResolveAll(fakeLibrary{}, nil)
	assert.ErrorIs(t, err, ErrNoDriversResolved)
}

func TestResolveEmptyTableOfContentsYieldsError(t *testing.T) {
	lib := fakeLibrary{"Hollow": multiConfigModule(t, "Hollow")}

	_, err := ResolveAll(lib, []string{"Hollow"})
	assert.ErrorIs(t, err, ErrNoDriversResolved)
}
