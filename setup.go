package cmecdriver

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/cmecmetrics/cmec-driver/internal/output"
	"github.com/cmecmetrics/cmec-driver/internal/runner"
)

// SetupOptions selects the conda maintenance actions to perform.
// Clearing is applied before setting so both can be combined.
type SetupOptions struct {
	CondaSource string //path of the conda initialization script, "" leaves it untouched
	EnvRoot     string //directory containing the conda environments, "" leaves it untouched
	ClearConda  bool
	PrintConda  bool
}

func (d *driver) Setup(options SetupOptions) error {
	if err := d.lib.Load(); err != nil {
		return newCommandError("setup failed", err)
	}

	changed := false
	if options.ClearConda {
		d.lib.ClearCondaSettings()
		changed = true
	}
	if options.CondaSource != "" {
		source, err := absExistingPath(options.CondaSource)
		if err != nil {
			return newCommandError("setup failed", err)
		}
		d.lib.SetCondaSource(source)
		changed = true
	}
	if options.EnvRoot != "" {
		root, err := absExistingPath(options.EnvRoot)
		if err != nil {
			return newCommandError("setup failed", err)
		}
		d.lib.SetEnvRoot(root)
		changed = true
	}

	if changed {
		if err := d.lib.Save(); err != nil {
			return newCommandError("setup failed", err)
		}
		d.printer.Out(output.Normal, "Updated conda settings\n")
	}
	if options.PrintConda {
		d.printer.Out(output.Required, "conda source: %s\nenvironment root: %s\n",
			orUnset(d.lib.CondaSource()), orUnset(d.lib.EnvRoot()))
	}
	if !changed && !options.PrintConda {
		d.printer.Out(output.Normal, "Nothing to do\n")
	}
	return nil
}

func absExistingPath(path string) (string, error) {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if _, statErr := os.Stat(absolute); statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) {
			return "", &runner.PathNotFoundError{Path: absolute}
		}
		return "", statErr
	}
	return absolute, nil
}

func orUnset(value string) string {
	if value == "" {
		return "<not set>"
	}
	return value
}
