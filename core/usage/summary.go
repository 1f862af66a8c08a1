package usage

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/utilstudy/core/stats"
	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/schema"
)

// DefaultReportFile is where the report is written when no path is given.
const DefaultReportFile = contract.DefaultUsageReport

// Summarize compares in and out degrees of util and non-util functions.
func Summarize(g *Graph) (schema.UsageSummary, error) {
	var utilIn, utilOut, nonIn, nonOut []int
	for _, file := range g.Files {
		util := contract.IsUtilPath(file)
		for _, fn := range g.ByFile[file] {
			if util {
				utilIn = append(utilIn, len(fn.CalledBy))
				utilOut = append(utilOut, len(fn.Calls))
			} else {
				nonIn = append(nonIn, len(fn.CalledBy))
				nonOut = append(nonOut, len(fn.Calls))
			}
		}
	}

	s := schema.UsageSummary{UtilCount: len(utilIn), NonCount: len(nonIn), SharedNames: g.SharedNames()}
	var err error
	if s.In, err = degree(utilIn, nonIn); err != nil {
		return s, fmt.Errorf("in degree: %w", err)
	}
	if s.Out, err = degree(utilOut, nonOut); err != nil {
		return s, fmt.Errorf("out degree: %w", err)
	}
	return s, nil
}

func degree(util, non []int) (schema.DegreeSummary, error) {
	var d schema.DegreeSummary
	u, n := stats.Ints(util), stats.Ints(non)
	var err error
	if d.UtilMedian, err = stats.Median(u); err != nil {
		return d, fmt.Errorf("util: %w", err)
	}
	if d.UtilMean, err = stats.Mean(u); err != nil {
		return d, fmt.Errorf("util: %w", err)
	}
	if d.NonMedian, err = stats.Median(n); err != nil {
		return d, fmt.Errorf("non-util: %w", err)
	}
	if d.NonMean, err = stats.Mean(n); err != nil {
		return d, fmt.Errorf("non-util: %w", err)
	}
	if d.Test, err = stats.MannWhitneyU(u, n); err != nil {
		return d, err
	}
	return d, nil
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func mww(r schema.MannWhitneyResult) string {
	return fmt.Sprintf("MannWhitneyUResult(statistic=%s, zscore=%s, pvalue=%s)", num(r.U), num(r.Z), num(r.PValue))
}

// Report renders the summary in the layout of the usage report file.
func Report(s schema.UsageSummary) string {
	var b strings.Builder
	b.WriteString("Util Stats:\n")
	fmt.Fprintf(&b, "Util In: %s\n", num(s.In.UtilMedian))
	fmt.Fprintf(&b, "Util In (mean): %s\n", num(s.In.UtilMean))
	fmt.Fprintf(&b, "Util Out: %s\n", num(s.Out.UtilMedian))
	fmt.Fprintf(&b, "Util Out (mean): %s\n", num(s.Out.UtilMean))
	fmt.Fprintf(&b, "Util Count: %d\n", s.UtilCount)
	b.WriteString("Non-Util Stats:\n")
	fmt.Fprintf(&b, "Non-Util In: %s\n", num(s.In.NonMedian))
	fmt.Fprintf(&b, "Non-Util In (mean): %s\n", num(s.In.NonMean))
	fmt.Fprintf(&b, "Non-Util Out: %s\n", num(s.Out.NonMedian))
	fmt.Fprintf(&b, "Non-Util Out (mean): %s\n", num(s.Out.NonMean))
	fmt.Fprintf(&b, "Non-Util Count: %d\n", s.NonCount)
	b.WriteString("In MWW\n" + mww(s.In.Test) + "\n")
	b.WriteString("out MWW\n" + mww(s.Out.Test) + "\n")
	b.WriteString("--------\n\n")
	return b.String()
}

// WriteReport writes Report(s) to w.
func WriteReport(w io.Writer, s schema.UsageSummary) error {
	_, err := io.WriteString(w, Report(s))
	return err
}
