package descriptor

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfiguration(t *testing.T, moduleDir string, subDir string, name string) {
	t.Helper()
	dir := filepath.Join(moduleDir, subDir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := fmt.Sprintf(`{
        "settings": {"name": %q, "long_name": "Configuration %s", "driver": "run.sh"},
        "varlist": {},
        "obslist": {}
    }`, name, name)
	writeDescriptor(t, dir, SettingsFileName, content)
}

func writeContents(t *testing.T, moduleDir string, name string, entries ...string) {
	t.Helper()
	contents := "["
	for i, entry := range entries {
		if i > 0 {
			contents += ", "
		}
		contents += fmt.Sprintf("%q", entry)
	}
	contents += "]"
	writeDescriptor(t, moduleDir, TOCFileName, fmt.Sprintf(`{
        "module": {"name": %q, "long_name": "Module %s"},
        "contents": %s
    }`, name, name, contents))
}

func TestReadTOCAggregatesConfigurations(t *testing.T) {
	dir := t.TempDir()
	writeConfiguration(t, dir, "alpha", "A")
	writeConfiguration(t, dir, "beta", "B")
	writeContents(t, dir, "Multi",
		filepath.Join("alpha", SettingsFileName),
		filepath.Join("beta", SettingsFileName))

	toc, err := ReadTOC(dir)
	require.NoError(t, err)
	assert.Equal(t, "Multi", toc.Name)
	assert.Equal(t, "Module Multi", toc.LongName)
	assert.Equal(t, 2, toc.Size())
	assert.Equal(t, []string{"A", "B"}, toc.ConfigurationNames())

	settingsPath, exists := toc.Find("B")
	assert.True(t, exists)
	assert.Equal(t, filepath.Join(dir, "beta", SettingsFileName), settingsPath)
}

func TestReadTOCSkipsBrokenEntries(t *testing.T) {
	dir := t.TempDir()
	writeConfiguration(t, dir, "good", "Good")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bad"), 0o755))
	writeDescriptor(t, filepath.Join(dir, "bad"), SettingsFileName, `{"settings": {}}`)
	writeContents(t, dir, "Mixed",
		filepath.Join("good", SettingsFileName),
		filepath.Join("bad", SettingsFileName),
		filepath.Join("absent", SettingsFileName))

	toc, err := ReadTOC(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Good"}, toc.ConfigurationNames())
}

func TestReadTOCRejectsInvalidModuleName(t *testing.T) {
	dir := t.TempDir()
	writeContents(t, dir, "bad name!", "x.json")

	_, err := ReadTOC(dir)
	var invalid *InvalidNameError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "bad name!", invalid.Name)
}

func TestReadTOCRejectsNonStringContentEntry(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, TOCFileName, `{
        "module": {"name": "Mod", "long_name": "Module"},
        "contents": ["ok.json", 7]
    }`)

	_, err := ReadTOC(dir)
	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "contents", malformed.Key)
}

func TestTOCInsertRejectsDuplicates(t *testing.T) {
	toc := &TOC{configs: make(map[string]string)}
	assert.True(t, toc.Insert("A", "first.json"))
	assert.False(t, toc.Insert("A", "second.json"))
	assert.Equal(t, 1, toc.Size())

	path, _ := toc.Find("A")
	assert.Equal(t, "first.json", path)
}

func TestNameCharsetOK(t *testing.T) {
	assert.True(t, NameCharsetOK("Module_1/config"))
	assert.False(t, NameCharsetOK("module name"))
	assert.False(t, NameCharsetOK("mödule"))
	assert.False(t, NameCharsetOK("mod-ule"))
}

func TestTOCExistsIn(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, TOCExistsIn(dir))
	writeContents(t, dir, "Mod")
	assert.True(t, TOCExistsIn(dir))
}
