package cmecdriver

import (
	"context"

	"github.com/cmecmetrics/cmec-driver/internal/output"
	"github.com/cmecmetrics/cmec-driver/internal/runner"
)

func (d *driver) Run(ctx context.Context, obsDir string, modelDir string, workingDir string, targets []string) error {
	if err := d.lib.Load(); err != nil {
		return newCommandError("run failed", err)
	}

	d.printer.Out(output.Normal, "Identifying drivers\n")
	runs, err := runner.ResolveAll(d.lib, targets)
	if err != nil {
		return newCommandError("run failed", err)
	}

	d.printer.Out(output.Normal, "%s\nModules:\n", output.Banner)
	for _, run := range runs {
		d.printer.Out(output.Normal, "  %s\n", run.WorkingDirLabel)
		d.printer.Out(output.Verbose, "    driver: %s\n", run.DriverScript)
	}

	env := runner.Environment{
		ConfigDir:   d.userCfg.Dir(),
		CondaSource: d.lib.CondaSource(),
		EnvRoot:     d.lib.EnvRoot(),
	}
	d.printer.Out(output.Verbose, "%s\nEnvironment:\n  CMEC_CONFIG_DIR=%s\n  CONDA_SOURCE=%s\n  CONDA_ENV_ROOT=%s\n",
		output.Banner, env.ConfigDir, env.CondaSource, env.EnvRoot)

	executor := &runner.Executor{Confirm: d.confirm, Runner: d.procRunner, Printer: d.printer, Env: env}
	if err := executor.Execute(ctx, obsDir, modelDir, workingDir, runs); err != nil {
		return newCommandError("run failed", err)
	}
	return nil
}
