// Package rename reconstructs the alias chains of every file a repository has held.
package rename

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/src-d/enry/v2"
)

// CollectFiles lists every path touched by a commit reachable from HEAD, in the
// order first seen walking from the newest commit.
func CollectFiles(repoPath string) ([]string, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", repoPath, err)
	}
	iter, err := repo.Log(&git.LogOptions{})
	if err != nil {
		return nil, fmt.Errorf("read log of %s: %w", repoPath, err)
	}
	defer iter.Close()

	seen := make(map[string]struct{})
	var files []string
	add := func(name string) {
		if _, ok := seen[name]; ok || name == "" {
			return
		}
		seen[name] = struct{}{}
		files = append(files, name)
	}

	err = iter.ForEach(func(c *object.Commit) error {
		fileStats, err := c.Stats()
		if err != nil {
			return fmt.Errorf("stats of %s: %w", c.Hash, err)
		}
		for _, fs := range fileStats {
			if from, to, ok := strings.Cut(fs.Name, " => "); ok {
				add(from)
				add(to)
				continue
			}
			add(fs.Name)
		}
		return nil
	})
	return files, err
}

// FilterOptions tunes FilterByExtension.
type FilterOptions struct {
	// SkipThirdParty drops paths under third_party/, used for chromium.
	SkipThirdParty bool

	// SkipVendor drops paths that enry recognizes as vendored code.
	SkipVendor bool
}

// OptionsForRepo enables the third_party skip when the repository path names chromium.
func OptionsForRepo(repoPath string, skipVendor bool) FilterOptions {
	return FilterOptions{
		SkipThirdParty: strings.Contains(strings.ToLower(repoPath), "chromium"),
		SkipVendor:     skipVendor,
	}
}

// Extension returns the text after the last dot, or the whole name when there is none.
func Extension(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return path
}

// FilterByExtension keeps files whose Extension is listed in exts.
func FilterByExtension(files []string, exts map[string]struct{}, opts FilterOptions) []string {
	var out []string
	for _, f := range files {
		if opts.SkipThirdParty && strings.HasPrefix(f, "third_party") {
			continue
		}
		if opts.SkipVendor && enry.IsVendor(f) {
			continue
		}
		if _, ok := exts[Extension(f)]; ok {
			out = append(out, f)
		}
	}
	return out
}

// ReadExtensions loads one extension per line into a set.
func ReadExtensions(path string) (map[string]struct{}, error) {
	lines, err := contract.ReadLines(path)
	if err != nil {
		return nil, err
	}
	exts := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		exts[strings.TrimSpace(l)] = struct{}{}
	}
	return exts, nil
}
