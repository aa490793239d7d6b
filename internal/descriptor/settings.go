package descriptor

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// SettingsFileName is the well-known settings descriptor filename
// inside a single-configuration module directory.
const SettingsFileName = "settings.json"

// Settings is the parsed form of a module settings descriptor.
// Immutable once read.
type Settings struct {
	path              string
	Name              string
	LongName          string
	Driver            string //relative to the module root directory
	VarList           map[string]interface{}
	ObsList           map[string]interface{}
	DefaultParameters map[string]interface{} //optional, may be nil
}

// SettingsExistIn probes a candidate module directory for the
// well-known settings filename.
func SettingsExistIn(moduleDir string) bool {
	_, err := os.Stat(filepath.Join(moduleDir, SettingsFileName))
	return err == nil
}

// ReadSettings parses and validates the settings descriptor at path.
// It fails with *ParseError on invalid JSON and with *MalformedError on
// missing or mistyped required keys.
func ReadSettings(path string) (*Settings, error) {
	doc, err := parseFile(path)
	if err != nil {
		return nil, err
	}

	section, err := requireObject(path, doc, "settings", "settings")
	if err != nil {
		return nil, err
	}
	name, err := requireString(path, section, "name", "settings:name")
	if err != nil {
		return nil, err
	}
	longName, err := requireString(path, section, "long_name", "settings:long_name")
	if err != nil {
		return nil, err
	}
	driver, err := requireString(path, section, "driver", "settings:driver")
	if err != nil {
		return nil, err
	}
	varList, err := requireObject(path, doc, "varlist", "varlist")
	if err != nil {
		return nil, err
	}
	obsList, err := requireObject(path, doc, "obslist", "obslist")
	if err != nil {
		return nil, err
	}

	settings := &Settings{
		path:     path,
		Name:     name,
		LongName: longName,
		Driver:   driver,
		VarList:  varList,
		ObsList:  obsList,
	}
	if params, ok := doc["default_parameters"].(map[string]interface{}); ok {
		settings.DefaultParameters = params
	}
	return settings, nil
}

// TryReadSettings is the lenient variant of ReadSettings used for
// best-effort aggregation. Failures are logged, not propagated.
func TryReadSettings(path string) (*Settings, bool) {
	settings, err := ReadSettings(path)
	if err != nil {
		log.Warn("skipping invalid settings descriptor", "file", path, "reason", err)
		return nil, false
	}
	return settings, true
}

// Path yields the location this descriptor was read from.
func (s *Settings) Path() string {
	return s.path
}

// DriverScriptPath resolves the driver field against the module root.
func (s *Settings) DriverScriptPath(moduleDir string) string {
	return filepath.Join(moduleDir, s.Driver)
}
