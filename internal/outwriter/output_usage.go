package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/utilstudy/core/recidivism"
	"github.com/huangsam/utilstudy/core/usage"
	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/schema"
)

// PrintUsage outputs the util versus non-util call graph comparison.
func PrintUsage(s schema.UsageSummary, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	return dispatch(cfg,
		func(w io.Writer) error { return usage.WriteReport(w, s) },
		func(w io.Writer) error { return writeUsageTable(w, s, cfg, fmtFloat, intFmt) },
		func(w io.Writer) error { return writeUsageCSV(w, s, fmtFloat, intFmt) },
		s,
	)
}

func writeUsageTable(w io.Writer, s schema.UsageSummary, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	headers := []string{"Side", "Functions", "In Median", "In Mean", "Out Median", "Out Mean"}
	data := [][]string{
		{sideLabel(cfg, true), fmt.Sprintf(intFmt, s.UtilCount), fmtFloat(s.In.UtilMedian), fmtFloat(s.In.UtilMean), fmtFloat(s.Out.UtilMedian), fmtFloat(s.Out.UtilMean)},
		{sideLabel(cfg, false), fmt.Sprintf(intFmt, s.NonCount), fmtFloat(s.In.NonMedian), fmtFloat(s.In.NonMean), fmtFloat(s.Out.NonMedian), fmtFloat(s.Out.NonMean)},
	}
	if err := writeTable(w, headers, data); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Functions sharing a name: %s\n", fmt.Sprintf(intFmt, s.SharedNames)); err != nil {
		return err
	}
	for _, d := range []struct {
		name string
		test schema.MannWhitneyResult
	}{{"In", s.In.Test}, {"Out", s.Out.Test}} {
		if _, err := fmt.Fprintf(w, "%s degree Mann-Whitney U=%s z=%s p=%s\n",
			d.name, fmtFloat(d.test.U), fmtFloat(d.test.Z), fmtFloat(d.test.PValue)); err != nil {
			return err
		}
	}
	return nil
}

func writeUsageCSV(w io.Writer, s schema.UsageSummary, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"degree", "util_count", "non_count", "util_median", "util_mean", "non_median", "non_mean", "u", "z", "p_value"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, d := range []struct {
			name string
			sum  schema.DegreeSummary
		}{{"in", s.In}, {"out", s.Out}} {
			rec := []string{
				d.name,
				fmt.Sprintf(intFmt, s.UtilCount),
				fmt.Sprintf(intFmt, s.NonCount),
				fmtFloat(d.sum.UtilMedian),
				fmtFloat(d.sum.UtilMean),
				fmtFloat(d.sum.NonMedian),
				fmtFloat(d.sum.NonMean),
				fmtFloat(d.sum.Test.U),
				fmtFloat(d.sum.Test.Z),
				fmtFloat(d.sum.Test.PValue),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// PrintRecidivism outputs the totals of every generated series.
func PrintRecidivism(series []schema.RecidivismSeries, cfg *contract.Config) error {
	_, intFmt := createFormatters(cfg.Precision)
	return dispatch(cfg,
		func(w io.Writer) error { return writeRecidivismText(w, series) },
		func(w io.Writer) error { return writeRecidivismTable(w, series, intFmt) },
		func(w io.Writer) error { return writeRecidivismCSV(w, series, intFmt) },
		series,
	)
}

func writeRecidivismText(w io.Writer, series []schema.RecidivismSeries) error {
	for _, s := range series {
		if _, err := io.WriteString(w, recidivism.Text(s)); err != nil {
			return err
		}
	}
	return nil
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

func recidivismRow(s schema.RecidivismSeries, intFmt string) []string {
	return []string{
		s.Project,
		strconv.Itoa(s.Days),
		string(s.Status),
		fmt.Sprintf(intFmt, len(s.WindowStarts)),
		fmt.Sprintf(intFmt, sum(s.TotalFixes)),
		fmt.Sprintf(intFmt, sum(s.TypeRecidivism)),
		fmt.Sprintf(intFmt, sum(s.ModuleRecidivism)),
	}
}

func writeRecidivismTable(w io.Writer, series []schema.RecidivismSeries, intFmt string) error {
	headers := []string{"Project", "Days", "Status", "Windows", "Fixes", "Type Recidivism", "Module Recidivism"}
	data := make([][]string, 0, len(series))
	for _, s := range series {
		data = append(data, recidivismRow(s, intFmt))
	}
	return writeTable(w, headers, data)
}

func writeRecidivismCSV(w io.Writer, series []schema.RecidivismSeries, intFmt string) error {
	header := []string{"project", "days", "status", "windows", "fixes", "type_recidivism", "module_recidivism"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range series {
			if err := cw.Write(recidivismRow(s, intFmt)); err != nil {
				return err
			}
		}
		return nil
	})
}
