package descriptor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// TOCFileName is the well-known table-of-contents descriptor filename
// inside a multi-configuration module directory.
const TOCFileName = "contents.json"

// InvalidNameError reports a module name containing characters outside
// the permitted set (alphanumerics, underscore, slash).
type InvalidNameError struct {
	File string
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("malformed file %s: module name %q must only contain alphanumeric characters, '_' or '/'", e.File, e.Name)
}

// NameCharsetOK checks the permitted module/target name character set.
func NameCharsetOK(name string) bool {
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '/':
		default:
			return false
		}
	}
	return true
}

// TOC is the parsed form of a module table-of-contents descriptor.
// Configurations are keyed by the name declared in each referenced
// settings descriptor, in the order the contents array lists them.
type TOC struct {
	path        string
	Name        string
	LongName    string
	configNames []string
	configs     map[string]string //configuration name -> settings file path
}

// TOCExistsIn probes a candidate module directory for the well-known
// table-of-contents filename.
func TOCExistsIn(moduleDir string) bool {
	_, err := os.Stat(filepath.Join(moduleDir, TOCFileName))
	return err == nil
}

// ReadTOC parses and validates the table-of-contents descriptor inside
// moduleDir and aggregates its configurations. Content entries whose
// settings descriptor fails validation are skipped, not fatal.
func ReadTOC(moduleDir string) (*TOC, error) {
	path := filepath.Join(moduleDir, TOCFileName)
	doc, err := parseFile(path)
	if err != nil {
		return nil, err
	}

	section, err := requireObject(path, doc, "module", "module")
	if err != nil {
		return nil, err
	}
	name, err := requireString(path, section, "name", "module:name")
	if err != nil {
		return nil, err
	}
	if !NameCharsetOK(name) {
		return nil, &InvalidNameError{File: path, Name: name}
	}
	longName, err := requireString(path, section, "long_name", "module:long_name")
	if err != nil {
		return nil, err
	}
	contents, err := requireArray(path, doc, "contents", "contents")
	if err != nil {
		return nil, err
	}

	toc := &TOC{
		path:     path,
		Name:     name,
		LongName: longName,
		configs:  make(map[string]string),
	}
	for _, entry := range contents {
		relative, ok := entry.(string)
		if !ok {
			return nil, &MalformedError{File: path, Key: "contents", Kind: KindString}
		}
		settingsPath := filepath.Join(moduleDir, relative)
		settings, ok := TryReadSettings(settingsPath)
		if !ok {
			continue //best-effort aggregation
		}
		if !toc.Insert(settings.Name, settingsPath) {
			log.Warn("repeated configuration name", "file", path, "configuration", settings.Name)
		}
	}
	return toc, nil
}

// Insert adds a configuration, rejecting duplicate names.
func (t *TOC) Insert(configName string, settingsPath string) bool {
	if _, exists := t.configs[configName]; exists {
		return false
	}
	t.configNames = append(t.configNames, configName)
	t.configs[configName] = settingsPath
	return true
}

// Path yields the location this descriptor was read from.
func (t *TOC) Path() string {
	return t.path
}

func (t *TOC) Size() int {
	return len(t.configNames)
}

// ConfigurationNames lists configurations in descriptor order.
func (t *TOC) ConfigurationNames() []string {
	return t.configNames
}

// Find yields the settings file path of the named configuration.
func (t *TOC) Find(configName string) (settingsPath string, exists bool) {
	settingsPath, exists = t.configs[configName]
	return
}
