package cmd

import (
	"errors"
	"time"

	"github.com/huangsam/utilstudy/core/vuln"
	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/internal/outwriter"
	"github.com/huangsam/utilstudy/schema"
	"github.com/spf13/cobra"
)

// cweCmd lists CWEs that only occur on one side.
var cweCmd = &cobra.Command{
	Use:   "cwe",
	Short: "Find CWEs seen only in util or only in non-util vulnerabilities",
	Long: `Join VHP vulnerabilities with their CWE tags and fixed files, mark a CVE as util
when any fixed file is util (per the rename records), then list for each project
and overall the CWEs that occur only on the util side or only on the non-util side.

Examples:
  utilstudy cwe --vulns vhp_records/vulnerabilities_list.json \
    --tags vhp_records/tag_mapping.json \
    --offenders vhp_records/offender_files.json \
    --renames rename_records`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		comps, err := loadCWEComparison(cfg)
		if err != nil {
			contract.LogFatal("Cannot compare CWEs", err)
		}
		if err := outwriter.NewOutWriter().WriteCWEComparison(comps, cfg); err != nil {
			contract.LogFatal("Cannot write CWE comparison", err)
		}
	},
}

func loadCWEComparison(cfg *contract.Config) ([]schema.CWEComparison, error) {
	records, err := loadCVERecords(cfg, false)
	if err != nil {
		return nil, err
	}
	return vuln.CompareCWEs(records), nil
}

// loadCVERecords reads the VHP inputs named in cfg. withFixDates keeps only
// CVEs with a fix event under cfg.EventsDir.
func loadCVERecords(cfg *contract.Config, withFixDates bool) ([]schema.CVERecord, error) {
	if cfg.VulnsFile == "" || cfg.TagsFile == "" || cfg.OffendersFile == "" {
		return nil, errors.New("--vulns, --tags and --offenders are required")
	}
	vulns, err := vuln.LoadVulnerabilities(cfg.VulnsFile)
	if err != nil {
		return nil, err
	}
	tags, err := vuln.LoadTagCWEs(cfg.TagsFile)
	if err != nil {
		return nil, err
	}
	offenders, err := vuln.LoadOffenders(cfg.OffendersFile)
	if err != nil {
		return nil, err
	}
	util, err := vuln.LoadUtilMap(cfg.RenamesDir, cfg.RenameProjects)
	if err != nil {
		return nil, err
	}

	var fixDates map[string]time.Time
	if withFixDates {
		if cfg.EventsDir == "" {
			return nil, errors.New("--events is required")
		}
		fixDates, err = vuln.LoadFixDates(cfg.EventsDir, vuln.IDs(vulns))
		if err != nil {
			return nil, err
		}
	}
	return vuln.BuildCVERecords(vulns, tags, offenders, util, fixDates), nil
}
