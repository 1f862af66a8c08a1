package rename

import (
	"context"
	"fmt"
	"strings"

	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/schema"
)

// ProgressFunc is called after each file is handled.
type ProgressFunc func(done, total int)

// Tracker follows files backward through their renames.
type Tracker struct {
	Git      contract.GitClient
	RepoPath string
	Progress ProgressFunc
}

// Op is one name-status line of a git log.
type Op struct {
	Status string
	Old    string
	New    string
}

// IsRename reports whether the op renamed a file.
func (o Op) IsRename() bool {
	return strings.HasPrefix(o.Status, "R")
}

// ParseOps splits name-status output into ops. Lines without both an old and
// a new path are dropped.
func ParseOps(out []byte) []Op {
	var ops []Op
	for line := range strings.SplitSeq(string(out), "\n") {
		fields := strings.Split(strings.TrimRight(line, "\r"), "\t")
		if len(fields) < 3 || fields[0] == "" {
			continue
		}
		ops = append(ops, Op{Status: fields[0], Old: fields[1], New: fields[2]})
	}
	return ops
}

// Track builds one alias chain per file that was not already seen as an alias
// of an earlier chain. Chains keep the order of files.
func (t *Tracker) Track(ctx context.Context, strategy schema.RenameStrategy, files []string) ([]schema.AliasChain, error) {
	switch strategy {
	case schema.FollowStrategy:
		return t.follow(ctx, files, nil)
	case schema.FilteredStrategy:
		renamed, err := t.renamedPaths(ctx)
		if err != nil {
			return nil, err
		}
		return t.follow(ctx, files, renamed)
	case schema.MapStrategy:
		out, err := t.Git.GetRenameLog(ctx, t.RepoPath)
		if err != nil {
			return nil, fmt.Errorf("rename log: %w", err)
		}
		chains := BuildChains(ParentMap(ParseOps(out)), files)
		t.report(len(files), len(files))
		return chains, nil
	default:
		return nil, fmt.Errorf("unknown rename strategy %q", strategy)
	}
}

// follow runs git log --follow per file. When only is non-nil, files outside it
// become single-entry chains without a log call.
func (t *Tracker) follow(ctx context.Context, files []string, only map[string]struct{}) ([]schema.AliasChain, error) {
	seen := make(map[string]struct{})
	var chains []schema.AliasChain
	for i, file := range files {
		if _, ok := seen[file]; ok {
			t.report(i+1, len(files))
			continue
		}
		seen[file] = struct{}{}
		chain := schema.AliasChain{file}

		_, tracked := only[file]
		if only == nil || tracked {
			out, err := t.Git.GetFollowRenameLog(ctx, t.RepoPath, file)
			if err != nil {
				if ctx.Err() != nil {
					return chains, ctx.Err()
				}
				contract.LogWarn("follow "+file, err)
			}
			current := file
			for _, op := range ParseOps(out) {
				if op.IsRename() && op.New == current {
					seen[op.Old] = struct{}{}
					chain = append(chain, op.Old)
					current = op.Old
				}
			}
		}
		chains = append(chains, chain)
		t.report(i+1, len(files))
	}
	return chains, nil
}

// renamedPaths collects both sides of every rename in the repository.
func (t *Tracker) renamedPaths(ctx context.Context) (map[string]struct{}, error) {
	out, err := t.Git.GetRenameLog(ctx, t.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("rename log: %w", err)
	}
	renamed := make(map[string]struct{})
	for _, op := range ParseOps(out) {
		renamed[op.Old] = struct{}{}
		renamed[op.New] = struct{}{}
	}
	return renamed, nil
}

func (t *Tracker) report(done, total int) {
	if t.Progress != nil {
		t.Progress(done, total)
	}
}

// ParentMap maps each renamed-to path to the path it was renamed from.
// Ops arrive newest first, so the oldest rename into a path wins.
func ParentMap(ops []Op) map[string]string {
	parents := make(map[string]string, len(ops))
	for _, op := range ops {
		parents[op.New] = op.Old
	}
	return parents
}

// BuildChains walks parents from every file. A seen-set shared across files
// ends a walk at the first alias already visited, which also breaks cycles.
func BuildChains(parents map[string]string, files []string) []schema.AliasChain {
	seen := make(map[string]struct{})
	var chains []schema.AliasChain
	for _, file := range files {
		if _, ok := seen[file]; ok {
			continue
		}
		seen[file] = struct{}{}
		chain := schema.AliasChain{file}
		pointer := file
		for {
			parent, ok := parents[pointer]
			if !ok {
				break
			}
			chain = append(chain, parent)
			pointer = parent
			if _, ok := seen[pointer]; ok {
				break
			}
			seen[pointer] = struct{}{}
		}
		chains = append(chains, chain)
	}
	return chains
}
