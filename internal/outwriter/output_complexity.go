package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/utilstudy/core/complexity"
	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/schema"
)

// PrintComplexity outputs the W/Test and Wo/Test summaries of a dataset.
func PrintComplexity(summaries []schema.ComplexitySummary, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	return dispatch(cfg,
		func(w io.Writer) error { return writeComplexityText(w, summaries) },
		func(w io.Writer) error { return writeComplexityTable(w, summaries, cfg, fmtFloat, intFmt) },
		func(w io.Writer) error { return writeComplexityCSV(w, summaries, fmtFloat, intFmt) },
		summaries,
	)
}

func writeComplexityText(w io.Writer, summaries []schema.ComplexitySummary) error {
	for _, s := range summaries {
		if err := complexity.WriteSummary(w, s); err != nil {
			return err
		}
	}
	return nil
}

func complexityRow(s schema.SideSummary, fmtFloat func(float64) string, intFmt string) []string {
	return []string{
		fmtFloat(s.RatioMean),
		fmtFloat(s.RatioStdDev),
		fmtFloat(s.LinesMean),
		fmtFloat(s.LinesStdDev),
		fmtFloat(s.UlocMean),
		fmtFloat(s.UlocStdDev),
		fmt.Sprintf(intFmt, s.Snapshots),
	}
}

func writeComplexityTable(w io.Writer, summaries []schema.ComplexitySummary, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	headers := []string{"Dataset", "Side", "Ratio Mean", "Ratio STD", "Line Mean", "Line STD", "Uloc Mean", "Uloc STD", "Snapshots"}
	var data [][]string
	for _, s := range summaries {
		data = append(data,
			append([]string{s.Dataset, sideLabel(cfg, true)}, complexityRow(s.Util, fmtFloat, intFmt)...),
			append([]string{s.Dataset, sideLabel(cfg, false)}, complexityRow(s.Non, fmtFloat, intFmt)...),
		)
	}
	return writeTable(w, headers, data)
}

func writeComplexityCSV(w io.Writer, summaries []schema.ComplexitySummary, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"dataset", "side", "ratio_mean", "ratio_std", "lines_mean", "lines_std", "uloc_mean", "uloc_std", "snapshots"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range summaries {
			for _, util := range []bool{true, false} {
				side := s.Non
				if util {
					side = s.Util
				}
				rec := append([]string{s.Dataset, contract.GetPlainLabel(util)}, complexityRow(side, fmtFloat, intFmt)...)
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
