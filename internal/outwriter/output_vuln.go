package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/utilstudy/core/vuln"
	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/schema"
)

// OddsReport is the JSON shape of an odds-ratio run.
type OddsReport struct {
	Project string                   `json:"project"`
	Results []schema.OddsRatioResult `json:"results"`
}

// PrintOddsRatios outputs every contingency table of a project.
func PrintOddsRatios(project string, results []schema.OddsRatioResult, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	return dispatch(cfg,
		func(w io.Writer) error { return vuln.WriteOddsReport(w, project, results) },
		func(w io.Writer) error { return writeOddsTable(w, project, results, fmtFloat, intFmt) },
		func(w io.Writer) error { return writeOddsCSV(w, project, results, fmtFloat, intFmt) },
		OddsReport{Project: project, Results: results},
	)
}

func testsLabel(included bool) string {
	if included {
		return "Included"
	}
	return "Excluded"
}

func writeOddsTable(w io.Writer, project string, results []schema.OddsRatioResult, fmtFloat func(float64) string, intFmt string) error {
	headers := []string{"Scope", "Tests", "Util Off", "Util Non-Off", "Non-Util Off", "Non-Util Non-Off", "Odds Ratio"}
	var data [][]string
	for _, r := range results {
		ratio := "n/a"
		if r.Defined {
			ratio = fmtFloat(r.Ratio)
		}
		data = append(data, []string{
			r.Scope,
			testsLabel(r.TestsIncluded),
			fmt.Sprintf(intFmt, r.Table.UtilOff),
			fmt.Sprintf(intFmt, r.Table.UtilNonOff),
			fmt.Sprintf(intFmt, r.Table.NonUtilOff),
			fmt.Sprintf(intFmt, r.Table.NonUtilNonOff),
			ratio,
		})
	}
	if err := writeTable(w, headers, data); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Project %s: %d scopes\n", project, len(results))
	return err
}

func writeOddsCSV(w io.Writer, project string, results []schema.OddsRatioResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"project", "scope", "tests_included", "util_off", "util_non_off", "non_util_off", "non_util_non_off", "odds_ratio"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range results {
			ratio := ""
			if r.Defined {
				ratio = fmtFloat(r.Ratio)
			}
			rec := []string{
				project,
				r.Scope,
				strconv.FormatBool(r.TestsIncluded),
				fmt.Sprintf(intFmt, r.Table.UtilOff),
				fmt.Sprintf(intFmt, r.Table.UtilNonOff),
				fmt.Sprintf(intFmt, r.Table.NonUtilOff),
				fmt.Sprintf(intFmt, r.Table.NonUtilNonOff),
				ratio,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// PrintCWEComparison outputs the CWEs seen on only one side, per project and overall.
func PrintCWEComparison(comps []schema.CWEComparison, cfg *contract.Config) error {
	_, intFmt := createFormatters(cfg.Precision)
	return dispatch(cfg,
		func(w io.Writer) error { return vuln.WriteCWEReport(w, comps) },
		func(w io.Writer) error { return writeCWETable(w, comps, cfg, intFmt) },
		func(w io.Writer) error { return writeCWECSV(w, comps) },
		comps,
	)
}

func writeCWETable(w io.Writer, comps []schema.CWEComparison, cfg *contract.Config, intFmt string) error {
	headers := []string{"Project", "Only In", "Count", "CWEs"}
	var data [][]string
	for _, c := range comps {
		data = append(data,
			[]string{c.Project, sideLabel(cfg, true), fmt.Sprintf(intFmt, len(c.UtilOnly)), strings.Join(c.UtilOnly, " ")},
			[]string{c.Project, sideLabel(cfg, false), fmt.Sprintf(intFmt, len(c.NonOnly)), strings.Join(c.NonOnly, " ")},
		)
	}
	return writeTable(w, headers, data)
}

func writeCWECSV(w io.Writer, comps []schema.CWEComparison) error {
	return writeCSVWithHeader(w, []string{"project", "only_in", "cwe"}, func(cw *csv.Writer) error {
		for _, c := range comps {
			for _, side := range []struct {
				util bool
				cwes []string
			}{{true, c.UtilOnly}, {false, c.NonOnly}} {
				for _, cwe := range side.cwes {
					if err := cw.Write([]string{c.Project, contract.GetPlainLabel(side.util), cwe}); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}
