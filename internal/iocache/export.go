package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/internal/parquet"
)

// ExportResults writes every results table of store to Parquet files named after outputPrefix.
func ExportResults(w io.Writer, store contract.ResultsStore, outputPrefix string) error {
	if outputPrefix == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("results store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get results status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no results found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	odds, err := store.GetAllOddsRatios()
	if err != nil {
		return fmt.Errorf("failed to retrieve odds ratios: %w", err)
	}
	complexity, err := store.GetAllComplexity()
	if err != nil {
		return fmt.Errorf("failed to retrieve complexity summaries: %w", err)
	}

	runsFile := outputPrefix + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(runs), runsFile)

	oddsFile := outputPrefix + ".odds_ratios.parquet"
	if err := parquet.WriteOddsRatiosParquet(parquet.ConvertOddsRatioRecords(odds), oddsFile); err != nil {
		return fmt.Errorf("failed to write odds ratios: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d odds ratio rows to: %s\n", len(odds), oddsFile)

	complexityFile := outputPrefix + ".complexity.parquet"
	if err := parquet.WriteComplexityParquet(parquet.ConvertComplexityRecords(complexity), complexityFile); err != nil {
		return fmt.Errorf("failed to write complexity summaries: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d complexity rows to: %s\n", len(complexity), complexityFile)

	return nil
}
