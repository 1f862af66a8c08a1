package cmd

import (
	"errors"
	"time"

	"github.com/huangsam/utilstudy/core/rename"
	"github.com/huangsam/utilstudy/core/vuln"
	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/internal/outwriter"
	"github.com/huangsam/utilstudy/schema"
	"github.com/spf13/cobra"
)

// oddsCmd computes the odds of an offender being a util file.
var oddsCmd = &cobra.Command{
	Use:   "odds <rename-csv>",
	Short: "Compute odds ratios of util files being vulnerability offenders",
	Long: `Build a 2x2 table of util/non-util files against offenders/non-offenders for a
project and report its odds ratio (a/b)/(c/d).

Scopes: all extensions with and without tests, then every language with tests,
then every language without tests. A ratio is undefined when b, c or d is zero.

Examples:
  utilstudy odds rename_records/linux.csv --offenders vhp_records/offender_files.json \
    --vhp-project "Linux Kernel" --project Linux

  # Keep the tables for later export
  utilstudy odds rename_records/httpd.csv --offenders offender_files.json \
    --vhp-project "Apache HTTP Server" --project httpd --record`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := runOdds(cfg, cacheManager, args[0]); err != nil {
			contract.LogFatal("Cannot compute odds ratios", err)
		}
	},
}

func runOdds(cfg *contract.Config, mgr contract.CacheManager, renameCSV string) error {
	if cfg.OffendersFile == "" || cfg.VHPProject == "" {
		return errors.New("--offenders and --vhp-project are required")
	}
	project := cfg.Project
	if project == "" {
		project = cfg.VHPProject
	}

	started := time.Now()
	chains, err := rename.ReadChains(renameCSV)
	if err != nil {
		return err
	}
	offenders, err := vuln.LoadOffenders(cfg.OffendersFile)
	if err != nil {
		return err
	}
	lookup, aliases := vuln.BuildAliases(chains)
	vuln.MarkOffenders(lookup, vuln.OffendersForProject(offenders, cfg.VHPProject))
	results := vuln.OddsRatios(aliases)

	if cfg.Record {
		if err := recordOdds(mgr, project, renameCSV, started, results); err != nil {
			contract.LogWarn("Failed to record odds ratios", err)
		}
	}
	return outwriter.NewOutWriter().WriteOddsRatios(project, results, cfg)
}

func recordOdds(mgr contract.CacheManager, project, renameCSV string, started time.Time, results []schema.OddsRatioResult) error {
	store, err := resultsStoreOf(mgr)
	if err != nil {
		return err
	}
	runID, err := store.BeginRun(schema.OddsRun, project, started, map[string]any{"renames": renameCSV})
	if err != nil {
		return err
	}
	for _, r := range results {
		if err := store.RecordOddsRatio(runID, project, r); err != nil {
			return err
		}
	}
	return store.EndRun(runID, time.Now(), len(results))
}
