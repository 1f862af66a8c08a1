package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/utilstudy/core/commits"
	"github.com/huangsam/utilstudy/core/complexity"
	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/internal/outwriter"
	"github.com/huangsam/utilstudy/schema"
	"github.com/spf13/cobra"
)

// complexityCmd groups the snapshot and analysis steps of the complexity study.
var complexityCmd = &cobra.Command{
	Use:   "complexity",
	Short: "Snapshot and compare code complexity of util and non-util files",
	Long: `Measure how complex util/helper files are compared to the rest of a project.

Subcommands:
  run     - Check out each selected commit and record scc reports
  analyze - Summarize the unique-lines reports of a snapshot directory`,
}

// complexityRunCmd records scc reports for every selected commit.
var complexityRunCmd = &cobra.Command{
	Use:   "run <commit-csv> <repo-path> <out-dir>",
	Short: "Record scc reports at every selected commit",
	Long: `Check out each commit from a "commits" CSV and record three scc reports:
<day>.csv (by file), <day>_unique_lines.csv (by file with unique lines) and
<day>_by_language.csv.

Commits sharing a day are reduced to the last one. Failed checkouts and scc runs
are logged and skipped.

WARNING: this switches the working tree of <repo-path>.

Examples:
  utilstudy complexity run linux_commits.csv ./linux complexity_data/linux`,
	Args:    cobra.ExactArgs(3),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := runComplexitySnapshots(rootCtx, args[0], args[1], args[2]); err != nil {
			contract.LogFatal("Cannot record complexity snapshots", err)
		}
	},
}

// complexityAnalyzeCmd prints mean and deviation of complexity per side.
var complexityAnalyzeCmd = &cobra.Command{
	Use:   "analyze <dir>",
	Short: "Summarize complexity of util vs non-util files over all snapshots",
	Long: `Read every *unique* report in <dir> and compare util/helper files with the
rest, once with test files (W/Test) and once without (Wo/Test).

For each side it reports the mean and sample standard deviation of the
complexity-per-line ratio, code lines and unique lines over all snapshots.

Examples:
  utilstudy complexity analyze complexity_data/linux

  # Chromium bundles third-party code that should be skipped
  utilstudy complexity analyze complexity_data/chromium --project chromium

  # Keep the summaries for later export
  utilstudy complexity analyze complexity_data/httpd --record --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := runComplexityAnalyze(cfg, cacheManager, args[0]); err != nil {
			contract.LogFatal("Cannot analyze complexity", err)
		}
	},
}

func runComplexitySnapshots(ctx context.Context, commitCSV, repoPath, outDir string) error {
	records, err := commits.ReadCommitCSV(commitCSV)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	o := &complexity.Orchestrator{
		Git:      contract.NewLocalGitClient(),
		Tools:    contract.NewLocalToolRunner(),
		RepoPath: repoPath,
		OutDir:   outDir,
	}
	n, err := o.Run(ctx, records)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Recorded %d snapshots in %s\n", n, outDir)
	return nil
}

func runComplexityAnalyze(cfg *contract.Config, mgr contract.CacheManager, dir string) error {
	started := time.Now()
	files, err := complexity.ListUniqueFiles(dir)
	if err != nil {
		return err
	}
	withTests, withoutTests, err := complexity.Analyze(dir, files, cfg.Project)
	if err != nil {
		return err
	}

	var summaries []schema.ComplexitySummary
	for _, d := range []complexity.Dataset{withTests, withoutTests} {
		s, err := complexity.Summarize(d)
		if err != nil {
			return fmt.Errorf("%s: %w", d.Name, err)
		}
		summaries = append(summaries, s)
	}

	if cfg.Record {
		if err := recordComplexity(mgr, cfg.Project, dir, started, summaries); err != nil {
			contract.LogWarn("Failed to record complexity summaries", err)
		}
	}
	return outwriter.NewOutWriter().WriteComplexity(summaries, cfg)
}

func recordComplexity(mgr contract.CacheManager, project, dir string, started time.Time, summaries []schema.ComplexitySummary) error {
	store, err := resultsStoreOf(mgr)
	if err != nil {
		return err
	}
	runID, err := store.BeginRun(schema.ComplexityRun, project, started, map[string]any{"dir": dir})
	if err != nil {
		return err
	}
	total := 0
	for _, s := range summaries {
		if err := store.RecordComplexity(runID, project, s.Dataset, contract.GetPlainLabel(true), s.Util); err != nil {
			return err
		}
		if err := store.RecordComplexity(runID, project, s.Dataset, contract.GetPlainLabel(false), s.Non); err != nil {
			return err
		}
		total += 2
	}
	return store.EndRun(runID, time.Now(), total)
}

// resultsStoreOf returns the results store or an error when none is configured.
func resultsStoreOf(mgr contract.CacheManager) (contract.ResultsStore, error) {
	if mgr == nil || mgr.GetResultsStore() == nil {
		return nil, fmt.Errorf("results store is not initialized")
	}
	return mgr.GetResultsStore(), nil
}
