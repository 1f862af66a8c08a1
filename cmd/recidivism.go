package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/utilstudy/core/recidivism"
	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/internal/outwriter"
	"github.com/spf13/cobra"
)

// recidivismCmd groups the recidivism report and chart.
var recidivismCmd = &cobra.Command{
	Use:   "recidivism",
	Short: "Measure how often vulnerability types and modules come back",
	Long: `Slide fixed-length windows over the fix history of every project and count
fixes whose CWE (type recidivism) or file (module recidivism) was fixed before.

Subcommands:
  report - Write per-project series for util, non-util and all CVEs
  graph  - Chart the rates of a util and a non-util series`,
}

// recidivismReportCmd writes every recidivism series.
var recidivismReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write recidivism series for 30 and 90 day windows",
	Long: `For every status (True = util, False = non-util, ALL), project and window
length, write <project>_<days>_<status>.txt and its .json twin into --out.

CVEs without a fix event are left out.

Examples:
  utilstudy recidivism report --vulns vhp_records/vulnerabilities_list.json \
    --tags vhp_records/tag_mapping.json --offenders vhp_records/offender_files.json \
    --events vhp_records/event_data --renames rename_records --out recidivism_data`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runRecidivismReport(cfg, time.Now()); err != nil {
			contract.LogFatal("Cannot generate recidivism reports", err)
		}
	},
}

// recidivismGraphCmd renders a util/non-util recidivism chart.
var recidivismGraphCmd = &cobra.Command{
	Use:   "graph <util.json> <non.json>",
	Short: "Chart util and non-util recidivism rates as HTML",
	Long: `Load two series written by "recidivism report" and draw their type and module
recidivism rates per window as a line chart.

Examples:
  utilstudy recidivism graph recidivism_data/httpd_30_True.json recidivism_data/httpd_30_False.json \
    --scale 30 --out httpd_30.html`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := runRecidivismGraph(cfg, args[0], args[1]); err != nil {
			contract.LogFatal("Cannot render recidivism chart", err)
		}
	},
}

func runRecidivismReport(cfg *contract.Config, now time.Time) error {
	records, err := loadCVERecords(cfg, true)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.OutPath, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	series := recidivism.Generate(records, recidivism.DefaultWindows, now)
	for _, s := range series {
		if err := recidivism.WriteSeries(cfg.OutPath, s); err != nil {
			return err
		}
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote %d series to %s\n", len(series), cfg.OutPath)
	return outwriter.NewOutWriter().WriteRecidivism(series, cfg)
}

func runRecidivismGraph(cfg *contract.Config, utilPath, nonPath string) error {
	util, err := recidivism.LoadSeries(utilPath)
	if err != nil {
		return err
	}
	non, err := recidivism.LoadSeries(nonPath)
	if err != nil {
		return err
	}

	f, err := os.Create(cfg.OutPath)
	if err != nil {
		return err
	}
	if err := recidivism.RenderChart(f, recidivism.Rates(util), recidivism.Rates(non), util.Project, cfg.Scale); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote chart to %s\n", cfg.OutPath)
	return nil
}
