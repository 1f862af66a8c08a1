package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/utilstudy/core/prevalence"
	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/schema"
)

// PrintPrevalence outputs per-language util file counts.
func PrintPrevalence(results []schema.PrevalenceResult, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	return dispatch(cfg,
		func(w io.Writer) error { return prevalence.WritePercentage(w, results) },
		func(w io.Writer) error { return writePrevalenceTable(w, results, fmtFloat, intFmt) },
		func(w io.Writer) error { return writePrevalenceCSV(w, results, fmtFloat, intFmt) },
		results,
	)
}

func prevalenceRow(r schema.PrevalenceResult, fmtFloat func(float64) string, intFmt string) []string {
	return []string{
		r.Language,
		fmt.Sprintf(intFmt, r.TotalWithTests),
		fmt.Sprintf(intFmt, r.UtilWithTests),
		fmt.Sprintf(intFmt, r.NonWithTests),
		share(fmtFloat, r.UtilWithTests, r.TotalWithTests),
		fmt.Sprintf(intFmt, r.TotalNoTests),
		fmt.Sprintf(intFmt, r.UtilNoTests),
		fmt.Sprintf(intFmt, r.NonUtilNoTests),
		share(fmtFloat, r.UtilNoTests, r.TotalNoTests),
	}
}

func writePrevalenceTable(w io.Writer, results []schema.PrevalenceResult, fmtFloat func(float64) string, intFmt string) error {
	headers := []string{"Language", "Files W/Test", "Util W/Test", "Non-Util W/Test", "Share W/Test", "Files", "Util", "Non-Util", "Share"}
	data := make([][]string, 0, len(results))
	for _, r := range results {
		data = append(data, prevalenceRow(r, fmtFloat, intFmt))
	}
	return writeTable(w, headers, data)
}

func writePrevalenceCSV(w io.Writer, results []schema.PrevalenceResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"language", "total_with_tests", "util_with_tests", "non_with_tests", "share_with_tests", "total", "util", "non_util", "share"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range results {
			if err := cw.Write(prevalenceRow(r, fmtFloat, intFmt)); err != nil {
				return err
			}
		}
		return nil
	})
}

// PrintConcentration outputs util file depths below their util directory.
func PrintConcentration(res schema.ConcentrationResult, cfg *contract.Config) error {
	_, intFmt := createFormatters(cfg.Precision)
	return dispatch(cfg,
		func(w io.Writer) error { return prevalence.WriteConcentration(w, res) },
		func(w io.Writer) error { return writeConcentrationTable(w, res, cfg, intFmt) },
		func(w io.Writer) error { return writeConcentrationCSV(w, res) },
		res,
	)
}

type depthGroup struct {
	tests  bool
	depths map[int][]string
}

func depthGroups(res schema.ConcentrationResult) []depthGroup {
	return []depthGroup{{true, res.WithTests}, {false, res.WithoutTests}}
}

func writeConcentrationTable(w io.Writer, res schema.ConcentrationResult, cfg *contract.Config, intFmt string) error {
	headers := []string{"Tests", "Depth", "Files", "First Path"}
	maxWidth := GetMaxTablePathWidth(cfg, 35)
	var data [][]string
	for _, g := range depthGroups(res) {
		for _, depth := range slices.Sorted(maps.Keys(g.depths)) {
			paths := g.depths[depth]
			first := ""
			if len(paths) > 0 {
				first = contract.TruncatePath(paths[0], maxWidth)
			}
			data = append(data, []string{
				testsLabel(g.tests),
				strconv.Itoa(depth),
				fmt.Sprintf(intFmt, len(paths)),
				first,
			})
		}
	}
	return writeTable(w, headers, data)
}

func writeConcentrationCSV(w io.Writer, res schema.ConcentrationResult) error {
	return writeCSVWithHeader(w, []string{"tests_included", "depth", "path"}, func(cw *csv.Writer) error {
		for _, g := range depthGroups(res) {
			for _, depth := range slices.Sorted(maps.Keys(g.depths)) {
				for _, p := range g.depths[depth] {
					if err := cw.Write([]string{strconv.FormatBool(g.tests), strconv.Itoa(depth), p}); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

// PrintPromotions outputs util chains that were renamed to or from non-util names.
func PrintPromotions(res schema.PromotionResult, cfg *contract.Config) error {
	_, intFmt := createFormatters(cfg.Precision)
	return dispatch(cfg,
		func(w io.Writer) error { return prevalence.WritePromotions(w, res) },
		func(w io.Writer) error { return writePromotionsTable(w, res, cfg, intFmt) },
		func(w io.Writer) error { return writePromotionsCSV(w, res) },
		res,
	)
}

type promotionGroup struct {
	label  string
	chains []schema.AliasChain
}

func promotionGroups(res schema.PromotionResult) []promotionGroup {
	return []promotionGroup{
		{"Both", res.Both},
		{"Promotion", res.Promotions},
		{"Demotion", res.Demotions},
	}
}

func writePromotionsTable(w io.Writer, res schema.PromotionResult, cfg *contract.Config, intFmt string) error {
	headers := []string{"Category", "Path", "Aliases"}
	maxWidth := GetMaxTablePathWidth(cfg, 25)
	var data [][]string
	for _, g := range promotionGroups(res) {
		for _, c := range g.chains {
			if len(c) == 0 {
				continue
			}
			data = append(data, []string{g.label, contract.TruncatePath(c[0], maxWidth), fmt.Sprintf(intFmt, len(c)-1)})
		}
	}
	if err := writeTable(w, headers, data); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Both: %d, Promotion: %d, Demotion: %d, Total Renames: %d\n",
		len(res.Both), len(res.Promotions), len(res.Demotions), res.TotalRenames)
	return err
}

func writePromotionsCSV(w io.Writer, res schema.PromotionResult) error {
	return writeCSVWithHeader(w, []string{"category", "chain"}, func(cw *csv.Writer) error {
		for _, g := range promotionGroups(res) {
			for _, c := range g.chains {
				if err := cw.Write([]string{g.label, strings.Join(c, "|")}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
