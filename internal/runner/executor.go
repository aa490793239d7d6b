package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"

	"github.com/cmecmetrics/cmec-driver/internal/output"
)

// ScriptFileName is the generated per-run environment script.
const ScriptFileName = "cmec_run.bash"

// PathNotFoundError reports a run root directory that does not exist.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("%q does not exist", e.Path)
}

// NotADirectoryError reports a run root path that is not a directory.
type NotADirectoryError struct {
	Path string
}

func (e *NotADirectoryError) Error() string {
	return fmt.Sprintf("%q is not a directory", e.Path)
}

// OutputConflictError reports an existing output directory the user
// declined to overwrite.
type OutputConflictError struct {
	Path string
}

func (e *OutputConflictError) Error() string {
	return fmt.Sprintf("unable to clear output directory %q", e.Path)
}

// DirectoryCreateError reports a run output directory that could not
// be created.
type DirectoryCreateError struct {
	Path string
	Err  error
}

func (e *DirectoryCreateError) Error() string {
	return fmt.Sprintf("creating output directory %q failed: %s", e.Path, e.Err)
}

func (e *DirectoryCreateError) Unwrap() error {
	return e.Err
}

// Confirm asks the user a yes/no question; refusing must be the default.
type Confirm func(question string) bool

// ProcessRunner launches a generated environment script. The executor
// only constructs the invocation; how it is launched is a capability
// decision of the caller.
type ProcessRunner interface {
	Run(ctx context.Context, scriptPath string, workDir string) (exitCode int, err error)
}

// Environment carries the run-wide settings exported to every driver
// script beyond the three data roots.
type Environment struct {
	ConfigDir   string
	CondaSource string
	EnvRoot     string
}

// Executor performs the output-directory lifecycle and sequential
// driver invocation for a resolved run list.
type Executor struct {
	Confirm Confirm
	Runner  ProcessRunner
	Printer output.Printer
	Env     Environment
}

// Execute verifies the three run roots, prepares one output directory
// per resolved run, writes the environment scripts and launches them in
// order. A driver script exiting nonzero is reported but does not abort
// the batch.
func (e *Executor) Execute(ctx context.Context, obsDir string, modelDir string, workingRoot string, runs []Resolved) error {
	obsPath, err := normalizeRoot(obsDir)
	if err != nil {
		return err
	}
	modelPath, err := normalizeRoot(modelDir)
	if err != nil {
		return err
	}
	workPath, err := normalizeRoot(workingRoot)
	if err != nil {
		return err
	}

	e.Printer.Out(output.Normal, "Creating output directories\n")
	for _, run := range runs {
		if err := e.prepareOutputDir(filepath.Join(workPath, filepath.FromSlash(run.WorkingDirLabel))); err != nil {
			return err
		}
	}

	scripts := make([]string, len(runs))
	for i, run := range runs {
		outputDir := filepath.Join(workPath, filepath.FromSlash(run.WorkingDirLabel))
		scriptPath := filepath.Join(outputDir, ScriptFileName)
		if err := e.writeEnvScript(scriptPath, run, obsPath, modelPath, outputDir); err != nil {
			return err
		}
		e.Printer.Out(output.Verbose, "%s\n", scriptPath)
		scripts[i] = scriptPath
	}

	e.Printer.Out(output.Normal, "Executing driver scripts\n")
	for i, run := range runs {
		e.Printer.Out(output.Normal, "%s\n%s\n", output.Banner, run.WorkingDirLabel)
		outputDir := filepath.Join(workPath, filepath.FromSlash(run.WorkingDirLabel))
		exitCode, err := e.Runner.Run(ctx, scripts[i], outputDir)
		switch {
		case err != nil:
			log.Error("driver script failed to launch", "module", run.WorkingDirLabel, "reason", err)
		case exitCode != 0:
			log.Error("driver script exited nonzero", "module", run.WorkingDirLabel, "exit", exitCode)
		}
		//failure of one module does not prevent subsequent modules from running
	}
	e.Printer.Out(output.Normal, "%s\n", output.Banner)
	return nil
}

func normalizeRoot(dir string) (string, error) {
	absolute, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	stat, statErr := os.Stat(absolute)
	if errors.Is(statErr, os.ErrNotExist) {
		return "", &PathNotFoundError{Path: absolute}
	}
	if statErr != nil {
		return "", statErr
	}
	if !stat.IsDir() {
		return "", &NotADirectoryError{Path: absolute}
	}
	return absolute, nil
}

func (e *Executor) prepareOutputDir(outputDir string) error {
	if _, statErr := os.Stat(outputDir); statErr == nil {
		question := fmt.Sprintf("Path %s already exists. Overwrite?", outputDir)
		if e.Confirm == nil || !e.Confirm(question) {
			return &OutputConflictError{Path: outputDir}
		}
		if err := os.RemoveAll(outputDir); err != nil {
			return fmt.Errorf("clearing output directory %s failed: %w", outputDir, err)
		}
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return &DirectoryCreateError{Path: outputDir, Err: err}
	}
	return nil
}

// writeEnvScript generates the executable environment script that
// driver scripts are launched through.
func (e *Executor) writeEnvScript(scriptPath string, run Resolved, obsPath string, modelPath string, outputDir string) error {
	var script strings.Builder
	script.WriteString("#!/bin/bash\n")
	for _, export := range []struct {
		name  string
		value string
	}{
		{"CMEC_CODE_DIR", run.ModulePath},
		{"CMEC_OBS_DATA", obsPath},
		{"CMEC_MODEL_DATA", modelPath},
		{"CMEC_WK_DIR", outputDir},
		{"CMEC_CONFIG_DIR", e.Env.ConfigDir},
		{"CONDA_SOURCE", e.Env.CondaSource},
		{"CONDA_ENV_ROOT", e.Env.EnvRoot},
	} {
		quoted, err := syntax.Quote(export.value, syntax.LangBash)
		if err != nil {
			return fmt.Errorf("quoting %s failed: %w", export.name, err)
		}
		fmt.Fprintf(&script, "export %s=%s\n", export.name, quoted)
	}
	driver, err := syntax.Quote(run.DriverScript, syntax.LangBash)
	if err != nil {
		return fmt.Errorf("quoting driver path failed: %w", err)
	}
	script.WriteString(driver + "\n")

	if err := os.WriteFile(scriptPath, []byte(script.String()), 0o755); err != nil {
		return fmt.Errorf("writing environment script %s failed: %w", scriptPath, err)
	}
	return nil
}
