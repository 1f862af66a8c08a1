package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git %s failed in %q: %s", strings.Join(args, " "), repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Checkout implements the GitClient interface.
func (c *LocalGitClient) Checkout(ctx context.Context, repoPath string, ref string) error {
	_, err := c.Run(ctx, repoPath, "checkout", ref)
	return err
}

// Pull implements the GitClient interface.
func (c *LocalGitClient) Pull(ctx context.Context, repoPath string) error {
	_, err := c.Run(ctx, repoPath, "pull")
	return err
}

// GetFollowRenameLog implements the GitClient interface.
func (c *LocalGitClient) GetFollowRenameLog(ctx context.Context, repoPath string, path string) ([]byte, error) {
	args := []string{
		"log",
		"--stat",
		"--follow",
		"--pretty=",
		"--name-status",
		"--",
		path,
	}
	return c.Run(ctx, repoPath, args...)
}

// GetRenameLog implements the GitClient interface.
func (c *LocalGitClient) GetRenameLog(ctx context.Context, repoPath string) ([]byte, error) {
	args := []string{
		"log",
		"--name-status",
		"--diff-filter=R",
		"--pretty=",
	}
	return c.Run(ctx, repoPath, args...)
}
