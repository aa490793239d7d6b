package cmecdriver

import (
	"fmt"
	"path/filepath"

	"github.com/cmecmetrics/cmec-driver/internal/descriptor"
	"github.com/cmecmetrics/cmec-driver/internal/output"
	"github.com/cmecmetrics/cmec-driver/internal/runner"
)

func (d *driver) Register(directory string) error {
	modulePath, err := filepath.Abs(directory)
	if err != nil {
		return newCommandError("registration failed", err)
	}
	d.printer.Out(output.Normal, "Registering %s ...\n", modulePath)

	var moduleName string
	switch {
	case descriptor.SettingsExistIn(modulePath):
		d.printer.Out(output.Normal, "Validating %s\n", descriptor.SettingsFileName)
		settings, err := descriptor.ReadSettings(filepath.Join(modulePath, descriptor.SettingsFileName))
		if err != nil {
			return newCommandError("registration failed", err)
		}
		if !descriptor.NameCharsetOK(settings.Name) {
			return newCommandError("registration failed", &descriptor.InvalidNameError{File: settings.Path(), Name: settings.Name})
		}
		moduleName = settings.Name
		if err := d.userCfg.SetDefaults(settings.Name, settings.DefaultParameters, d.confirm); err != nil {
			return newCommandError("registration failed", err)
		}

	case descriptor.TOCExistsIn(modulePath):
		d.printer.Out(output.Normal, "Validating %s\n", descriptor.TOCFileName)
		toc, err := descriptor.ReadTOC(modulePath)
		if err != nil {
			return newCommandError("registration failed", err)
		}
		moduleName = toc.Name
		d.printer.Out(output.Normal, "Module %s (%s) contains %d configurations\n", toc.Name, toc.LongName, toc.Size())
		for _, configName := range toc.ConfigurationNames() {
			d.printer.Out(output.Verbose, "  %s/%s\n", toc.Name, configName)
			settingsPath, _ := toc.Find(configName)
			settings, ok := descriptor.TryReadSettings(settingsPath)
			if !ok {
				continue
			}
			if err := d.userCfg.SetDefaults(toc.Name+"/"+configName, settings.DefaultParameters, d.confirm); err != nil {
				return newCommandError("registration failed", err)
			}
		}

	default:
		return newCommandError("registration failed", &runner.NoDescriptorError{Path: modulePath})
	}

	if err := d.lib.Load(); err != nil {
		return newCommandError("registration failed", err)
	}
	if !d.lib.Insert(moduleName, modulePath) {
		return newCommandError("registration failed", fmt.Errorf("module %q already registered", moduleName))
	}
	if err := d.lib.Save(); err != nil {
		return newCommandError("registration failed", err)
	}
	d.printer.Out(output.Normal, "Successfully registered module %s\n", moduleName)
	return nil
}
