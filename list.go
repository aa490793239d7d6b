package cmecdriver

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/cmecmetrics/cmec-driver/internal/descriptor"
	"github.com/cmecmetrics/cmec-driver/internal/output"
)

func (d *driver) List(showAll bool) error {
	if err := d.lib.Load(); err != nil {
		return newCommandError("list failed", err)
	}
	if d.lib.Size() == 0 {
		d.printer.Out(output.Required, "CMEC library contains no modules\n")
		return nil
	}

	tree := output.NewLibraryTree("CMEC library")
	d.lib.VisitAll(func(name string, path string) {
		if !descriptor.TOCExistsIn(path) {
			tree.InsertModule(name, name+" [1 configuration]")
			return
		}
		toc, err := descriptor.ReadTOC(path)
		if err != nil {
			log.Warn("could not read module contents", "module", name, "reason", err)
			tree.InsertModule(name, name+" [unreadable]")
			return
		}
		tree.InsertModule(name, fmt.Sprintf("%s [%s]", name, configurationCount(toc.Size())))
		if showAll {
			for _, configName := range toc.ConfigurationNames() {
				tree.InsertConfiguration(name, configName)
			}
		}
	})
	d.printer.Out(output.Required, "%s", tree.Render())
	return nil
}

func configurationCount(n int) string {
	if n == 1 {
		return "1 configuration"
	}
	return fmt.Sprintf("%d configurations", n)
}
