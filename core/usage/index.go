// Package usage compares how util and non-util functions are called.
package usage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/utilstudy/internal/contract"
)

// Ctags settings.
const (
	CtagsBinary = "ctags"
	TagsFile    = "tags.json"
)

// IndexArgs builds the ctags invocation over the given top-level entries.
func IndexArgs(entries []string) []string {
	args := []string{"--output-format=json", "--fields=+n", "-R", "-f", "-"}
	return append(args, entries...)
}

// topLevel lists the non-hidden entries of dir, like a shell "*" glob.
func topLevel(dir string) ([]string, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, de := range des {
		if strings.HasPrefix(de.Name(), ".") || de.Name() == TagsFile {
			continue
		}
		names = append(names, de.Name())
	}
	return names, nil
}

// IndexProject runs ctags in projectPath and saves its output as tags.json there.
func IndexProject(ctx context.Context, runner contract.ToolRunner, projectPath string) error {
	entries, err := topLevel(projectPath)
	if err != nil {
		return fmt.Errorf("list %s: %w", projectPath, err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("nothing to index in %s", projectPath)
	}
	out, err := runner.Run(ctx, projectPath, CtagsBinary, IndexArgs(entries)...)
	if err != nil {
		return fmt.Errorf("ctags: %w", err)
	}
	return os.WriteFile(filepath.Join(projectPath, TagsFile), out, 0o644)
}
