package cmecdriver

import (
	"github.com/charmbracelet/log"

	"github.com/cmecmetrics/cmec-driver/internal/descriptor"
	"github.com/cmecmetrics/cmec-driver/internal/output"
	"github.com/cmecmetrics/cmec-driver/internal/runner"
)

func (d *driver) Unregister(moduleName string) error {
	d.printer.Out(output.Normal, "Unregistering %s ...\n", moduleName)

	if err := d.lib.Load(); err != nil {
		return newCommandError("unregistration failed", err)
	}
	modulePath, exists := d.lib.Find(moduleName)
	if !exists {
		return newCommandError("unregistration failed", &runner.ModuleNotFoundError{Module: moduleName})
	}

	//default parameters are dropped first, while the registration still tells us where to look
	switch {
	case descriptor.SettingsExistIn(modulePath):
		if err := d.userCfg.RemoveDefaults(moduleName); err != nil {
			return newCommandError("unregistration failed", err)
		}
	case descriptor.TOCExistsIn(modulePath):
		toc, err := descriptor.ReadTOC(modulePath)
		if err != nil {
			log.Warn("could not read module contents, skipping user configuration clean up", "module", moduleName, "reason", err)
			break
		}
		for _, configName := range toc.ConfigurationNames() {
			if err := d.userCfg.RemoveDefaults(toc.Name + "/" + configName); err != nil {
				return newCommandError("unregistration failed", err)
			}
		}
	}

	removed, err := d.lib.Remove(moduleName)
	if err != nil {
		return newCommandError("unregistration failed", err)
	}
	if !removed {
		return newCommandError("unregistration failed", &runner.ModuleNotFoundError{Module: moduleName})
	}
	if err := d.lib.Save(); err != nil {
		return newCommandError("unregistration failed", err)
	}
	d.printer.Out(output.Normal, "Successfully unregistered module %s\n", moduleName)
	return nil
}
