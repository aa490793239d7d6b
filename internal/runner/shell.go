package runner

import (
	"context"
	"fmt"
	"io"
	"os"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ShellRunner executes environment scripts through an embedded POSIX
// shell, so driver batches work without assuming a system bash. The
// script file stays on disk in executable form for manual re-runs.
type ShellRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func NewShellRunner() *ShellRunner {
	return &ShellRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *ShellRunner) Run(ctx context.Context, scriptPath string, workDir string) (int, error) {
	file, err := os.Open(scriptPath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	program, err := syntax.NewParser().Parse(file, scriptPath)
	if err != nil {
		return 0, fmt.Errorf("parsing %s failed: %w", scriptPath, err)
	}

	shell, err := interp.New(
		interp.Dir(workDir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(r.Stdin, r.Stdout, r.Stderr),
	)
	if err != nil {
		return 0, err
	}

	runErr := shell.Run(ctx, program)
	if status, ok := interp.IsExitStatus(runErr); ok {
		return int(status), nil
	}
	return 0, runErr
}
