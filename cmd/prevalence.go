package cmd

import (
	"errors"

	"github.com/huangsam/utilstudy/core/prevalence"
	"github.com/huangsam/utilstudy/core/rename"
	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/internal/outwriter"
	"github.com/spf13/cobra"
)

// prevalenceCmd reports how common util files are and how they move.
var prevalenceCmd = &cobra.Command{
	Use:   "prevalence <rename-csv>",
	Short: "Measure prevalence, directory depth and promotions of util files",
	Long: `Read a rename CSV and write three reports:

- Percentage: util share per language, with and without test files
- Concentration: util files grouped by depth below their util/helper directory
- Promotions: renames that moved a file into or out of the util category

Each report goes to its own --*-out file, or to stdout when that flag is empty.

Examples:
  utilstudy prevalence rename_records/linux.csv --extensions extension_lists/linux.txt \
    --percentage-out prevalence_data/linux.txt \
    --concentration-out directory_depths/linux.txt \
    --promotions-out promotion_data/linux.txt`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := runPrevalence(cfg, args[0]); err != nil {
			contract.LogFatal("Cannot compute prevalence", err)
		}
	},
}

func runPrevalence(cfg *contract.Config, renameCSV string) error {
	if cfg.ExtensionsFile == "" {
		return errors.New("--extensions is required")
	}
	if cfg.OutputFile != "" {
		return errors.New("prevalence writes three reports; use --percentage-out, --concentration-out and --promotions-out instead of --output-file")
	}
	langs, err := prevalence.ExtensionFilter(cfg.ExtensionsFile)
	if err != nil {
		return err
	}
	chains, err := rename.ReadChains(renameCSV)
	if err != nil {
		return err
	}

	w := outwriter.NewOutWriter()
	if err := w.WritePrevalence(prevalence.Percentage(chains, langs), reportConfig(cfg, cfg.PercentageOut)); err != nil {
		return err
	}
	if err := w.WriteConcentration(prevalence.Concentration(chains), reportConfig(cfg, cfg.ConcentrationOut)); err != nil {
		return err
	}
	return w.WritePromotions(prevalence.Promotions(chains), reportConfig(cfg, cfg.PromotionsOut))
}

// reportConfig points a copy of cfg at one report file.
func reportConfig(cfg *contract.Config, out string) *contract.Config {
	c := cfg.Clone()
	c.OutputFile = out
	return c
}
