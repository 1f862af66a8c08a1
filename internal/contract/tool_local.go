package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// LocalToolRunner implements ToolRunner with binaries found on PATH.
type LocalToolRunner struct{}

var _ ToolRunner = &LocalToolRunner{} // Compile-time check

// NewLocalToolRunner creates a new instance of the local tool runner.
func NewLocalToolRunner() *LocalToolRunner {
	return &LocalToolRunner{}
}

// Run implements the ToolRunner interface.
func (r *LocalToolRunner) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return out, fmt.Errorf("%s exited with status %d: %s", name, exitErr.ExitCode(), stderr)
	} else if err != nil {
		return nil, fmt.Errorf("cannot run %s: %w. Ensure it is installed and available on your PATH", name, err)
	}
	return out, nil
}
