package runner

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cmecmetrics/cmec-driver/internal/descriptor"
)

// ErrNoDriversResolved signals that target resolution produced nothing
// to run.
var ErrNoDriversResolved = errors.New("no driver files found")

// InvalidTargetError reports a run target failing syntax validation.
type InvalidTargetError struct {
	Target string
	Reason string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid run target %q: %s", e.Target, e.Reason)
}

// ModuleNotFoundError reports a parent module missing from the library.
type ModuleNotFoundError struct {
	Module string
}

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("module %q not found in CMEC library", e.Module)
}

// UnexpectedConfigurationError reports a configuration suffix on a
// single-configuration module.
type UnexpectedConfigurationError struct {
	Module        string
	Configuration string
}

func (e *UnexpectedConfigurationError) Error() string {
	return fmt.Sprintf("module %q only contains a single configuration (got %q)", e.Module, e.Configuration)
}

// ConfigurationNotFoundError reports a configuration suffix missing
// from the module's table of contents.
type ConfigurationNotFoundError struct {
	Module        string
	Configuration string
}

func (e *ConfigurationNotFoundError) Error() string {
	return fmt.Sprintf("module %q does not contain configuration %q", e.Module, e.Configuration)
}

// NoDescriptorError reports a module directory containing neither
// descriptor file.
type NoDescriptorError struct {
	Module string
	Path   string
}

func (e *NoDescriptorError) Error() string {
	if e.Module == "" {
		return fmt.Sprintf("module path %q must contain %s or %s", e.Path, descriptor.TOCFileName, descriptor.SettingsFileName)
	}
	return fmt.Sprintf("module %q with path %q does not contain %s or %s", e.Module, e.Path, descriptor.SettingsFileName, descriptor.TOCFileName)
}

// Target is a parsed "module" or "module/configuration" run target.
type Target struct {
	Parent        string
	Configuration string //empty means all configurations
}

// ParseTarget validates a run target string: non-empty, no trailing
// slash, charset restricted to alphanumerics, '_' and '/'. The target
// splits on the first slash only.
func ParseTarget(raw string) (Target, error) {
	if raw == "" {
		return Target{}, &InvalidTargetError{Target: raw, Reason: "empty target"}
	}
	if strings.HasSuffix(raw, "/") {
		return Target{}, &InvalidTargetError{Target: raw, Reason: "trailing slash"}
	}
	if !descriptor.NameCharsetOK(raw) {
		return Target{}, &InvalidTargetError{Target: raw, Reason: "non-alphanumeric characters found in module name"}
	}
	parent, configuration, _ := strings.Cut(raw, "/")
	return Target{Parent: parent, Configuration: configuration}, nil
}

// Resolved is one concrete driver invocation produced by resolution.
type Resolved struct {
	ModulePath      string //registered module root directory
	DriverScript    string //driver script path below the module root
	WorkingDirLabel string //relative output directory label, e.g. "Module/config"
}

// ModuleFinder is the library lookup capability the resolver needs.
type ModuleFinder interface {
	Find(name string) (path string, exists bool)
}

// ResolveAll expands run target strings into concrete driver
// invocations, preserving input order and, within table-of-contents
// expansion, descriptor iteration order. Descriptors are re-read from
// disk on every resolution; the registry stores only name and path.
func ResolveAll(lib ModuleFinder, targets []string) ([]Resolved, error) {
	var runs []Resolved
	for _, raw := range targets {
		target, err := ParseTarget(raw)
		if err != nil {
			return nil, err
		}
		expanded, err := resolveOne(lib, target)
		if err != nil {
			return nil, err
		}
		runs = append(runs, expanded...)
	}
	if len(runs) == 0 {
		return nil, ErrNoDriversResolved
	}
	return runs, nil
}

func resolveOne(lib ModuleFinder, target Target) ([]Resolved, error) {
	modulePath, exists := lib.Find(target.Parent)
	if !exists {
		return nil, &ModuleNotFoundError{Module: target.Parent}
	}

	switch {
	case descriptor.SettingsExistIn(modulePath):
		if target.Configuration != "" {
			return nil, &UnexpectedConfigurationError{Module: target.Parent, Configuration: target.Configuration}
		}
		settings, err := descriptor.ReadSettings(settingsPathIn(modulePath))
		if err != nil {
			return nil, err
		}
		return []Resolved{{
			ModulePath:      modulePath,
			DriverScript:    settings.DriverScriptPath(modulePath),
			WorkingDirLabel: settings.Name,
		}}, nil

	case descriptor.TOCExistsIn(modulePath):
		toc, err := descriptor.ReadTOC(modulePath)
		if err != nil {
			return nil, err
		}
		var selected []string
		if target.Configuration == "" {
			selected = toc.ConfigurationNames()
		} else {
			if _, exists := toc.Find(target.Configuration); !exists {
				return nil, &ConfigurationNotFoundError{Module: target.Parent, Configuration: target.Configuration}
			}
			selected = []string{target.Configuration}
		}
		runs := make([]Resolved, 0, len(selected))
		for _, configuration := range selected {
			settingsPath, _ := toc.Find(configuration)
			settings, err := descriptor.ReadSettings(settingsPath)
			if err != nil {
				return nil, err
			}
			runs = append(runs, Resolved{
				ModulePath:      modulePath,
				DriverScript:    settings.DriverScriptPath(modulePath),
				WorkingDirLabel: toc.Name + "/" + settings.Name,
			})
		}
		return runs, nil

	default:
		return nil, &NoDescriptorError{Module: target.Parent, Path: modulePath}
	}
}

func settingsPathIn(moduleDir string) string {
	return filepath.Join(moduleDir, descriptor.SettingsFileName)
}
