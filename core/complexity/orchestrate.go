// Package complexity snapshots a repository with scc and compares util and non-util files.
package complexity

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/schema"
)

// SCCBinary is the complexity counter invoked for every snapshot.
const SCCBinary = "scc"

// Orchestrator checks out each selected commit and records three scc reports for it.
type Orchestrator struct {
	Git      contract.GitClient
	Tools    contract.ToolRunner
	RepoPath string
	OutDir   string
}

// DedupeByDay keys records by calendar day. The last sha of a day wins while
// the day keeps the position where it first appeared.
func DedupeByDay(records []schema.CommitRecord) []schema.CommitRecord {
	index := make(map[string]int, len(records))
	var out []schema.CommitRecord
	for _, r := range records {
		day := r.Day()
		if i, ok := index[day]; ok {
			out[i] = r
			continue
		}
		index[day] = len(out)
		out = append(out, r)
	}
	return out
}

// Run processes every record and returns how many snapshots were attempted.
// RepoPath may point anywhere inside the working tree; snapshots always cover
// the repository root. Failing git or scc invocations are logged and skipped.
func (o *Orchestrator) Run(ctx context.Context, records []schema.CommitRecord) (int, error) {
	if err := os.MkdirAll(o.OutDir, 0o755); err != nil {
		return 0, fmt.Errorf("create output directory: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	root, err := o.Git.GetRepoRoot(ctx, o.RepoPath)
	if err != nil {
		return 0, fmt.Errorf("%s is not inside a git repository: %w", o.RepoPath, err)
	}

	count := 0
	for _, r := range DedupeByDay(records) {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		o.snapshot(ctx, root, r)
		count++
	}
	return count, nil
}

func (o *Orchestrator) snapshot(ctx context.Context, root string, r schema.CommitRecord) {
	day := r.Day()
	if err := o.Git.Checkout(ctx, root, r.SHA); err != nil {
		contract.LogWarn("checkout "+r.SHA, err)
	}
	if err := o.Git.Pull(ctx, root); err != nil {
		contract.LogWarn("pull before "+day, err)
	}

	for _, args := range SnapshotArgs(root, o.OutDir, day) {
		if _, err := o.Tools.Run(ctx, "", SCCBinary, args...); err != nil {
			contract.LogWarn("scc for "+day, err)
		}
	}

	if err := o.Git.Checkout(ctx, root, "-"); err != nil {
		contract.LogWarn("restore branch after "+day, err)
	}
	if err := o.Git.Pull(ctx, root); err != nil {
		contract.LogWarn("pull after "+day, err)
	}
}

// SnapshotArgs returns the per-file, per-file unique-lines and per-language scc invocations.
func SnapshotArgs(repoPath, outDir, day string) [][]string {
	return [][]string{
		{repoPath, "--by-file", "--format", "csv", "-o", filepath.Join(outDir, day+".csv")},
		{repoPath, "--by-file", "--uloc", "--format", "csv", "-o", filepath.Join(outDir, day+"_unique_lines.csv")},
		{repoPath, "--format", "csv", "-o", filepath.Join(outDir, day+"_by_language.csv")},
	}
}
