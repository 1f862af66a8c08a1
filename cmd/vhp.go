package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/huangsam/utilstudy/core/vhp"
	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/spf13/cobra"
)

// vhpCmd groups access to the Vulnerability History Project API.
var vhpCmd = &cobra.Command{
	Use:   "vhp",
	Short: "Download records from the Vulnerability History Project",
	Long: `Fetch projects, offender files, vulnerabilities, tags and per-CVE event data
from the VHP API. Responses are cached in the configured cache backend so repeated
collections only download what is new.

Subcommands:
  collect - Download every record set`,
}

// vhpCollectCmd downloads every VHP record set.
var vhpCollectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Download every VHP record set into --out",
	Long: `Write project_details.json, offender_files.json, vulnerabilities_list.json,
tag_mapping.json and event_data/<cve>.json into --out. Bodies are written as received.

Examples:
  utilstudy vhp collect --out vhp_records

  # Skip the response cache
  utilstudy vhp collect --cache-backend none`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runVHPCollect(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot collect VHP records", err)
		}
	},
}

func runVHPCollect(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	var cache contract.CacheStore
	if mgr != nil {
		cache = mgr.GetResponseStore()
	}
	out := cfg.OutPath
	if out == "" {
		out = contract.DefaultVHPOutDir
	}

	fmt.Fprintf(os.Stderr, "🔍 Collecting VHP records from %s\n", cfg.VHPBaseURL)
	client := vhp.NewClient(cfg.VHPBaseURL, cache)
	client.Workers = cfg.VHPWorkers
	summary, err := client.Collect(ctx, out)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote %d record files and %d event files to %s\n", summary.Files, summary.Events, out)
	return nil
}
