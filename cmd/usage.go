package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/utilstudy/core/usage"
	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/internal/outwriter"
	"github.com/huangsam/utilstudy/schema"
	"github.com/spf13/cobra"
)

// usageCmd compares how often util and non-util functions are called.
var usageCmd = &cobra.Command{
	Use:   "usage <project-path>",
	Short: "Compare call in/out degrees of util and non-util functions",
	Long: `Index a project with universal ctags, build a call graph by matching
"name(" occurrences to declared functions, then compare the in- and out-degree
of util functions with the rest using a two-sided Mann-Whitney U test.

The report is written to --out and the summary to stdout or --output-file.

Examples:
  utilstudy usage ./httpd --out usage/httpd.txt

  # Reuse a tags.json from an earlier run and ignore vendored code
  utilstudy usage ./chromium --skip-index --skip-vendor`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := runUsage(rootCtx, cfg, cacheManager, args[0]); err != nil {
			contract.LogFatal("Cannot analyze usage", err)
		}
	},
}

func runUsage(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, projectPath string) error {
	started := time.Now()
	if !cfg.SkipIndex {
		fmt.Fprintf(os.Stderr, "🔍 Indexing %s with ctags\n", projectPath)
		if err := usage.IndexProject(ctx, contract.NewLocalToolRunner(), projectPath); err != nil {
			return err
		}
	}

	g, err := usage.LoadTags(projectPath)
	if err != nil {
		return fmt.Errorf("failed to load tags: %w", err)
	}
	if cfg.SkipVendor {
		g.DropVendored()
	}
	g.SortByLine()
	if err := g.FindCalls(projectPath); err != nil {
		return err
	}
	summary, err := usage.Summarize(g)
	if err != nil {
		return err
	}

	out := cfg.OutPath
	if out == "" {
		out = usage.DefaultReportFile
	}
	if err := writeUsageReport(out, summary); err != nil {
		return err
	}

	if cfg.Record {
		if err := recordUsage(mgr, filepath.Base(projectPath), projectPath, started, summary); err != nil {
			contract.LogWarn("Failed to record usage run", err)
		}
	}
	return outwriter.NewOutWriter().WriteUsage(summary, cfg)
}

func writeUsageReport(path string, s schema.UsageSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := usage.WriteReport(f, s); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote usage report to %s\n", path)
	return nil
}

func recordUsage(mgr contract.CacheManager, project, projectPath string, started time.Time, s schema.UsageSummary) error {
	store, err := resultsStoreOf(mgr)
	if err != nil {
		return err
	}
	runID, err := store.BeginRun(schema.UsageRun, project, started, map[string]any{
		"path":        projectPath,
		"in_p_value":  s.In.Test.PValue,
		"out_p_value": s.Out.Test.PValue,
	})
	if err != nil {
		return err
	}
	return store.EndRun(runID, time.Now(), s.UtilCount+s.NonCount)
}
