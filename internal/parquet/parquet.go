// Package parquet provides data structures and functions for exporting stored
// study results to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/utilstudy/schema"
	"github.com/parquet-go/parquet-go"
)

// Run maps to the utilstudy_runs table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// Kind labels the stage that produced the run (complexity, odds, usage)
	Kind string `parquet:"kind,snappy"`

	// Project is the project or dataset the run analyzed
	Project string `parquet:"project,snappy"`

	// StartTime is when the run began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalRecords is the number of result rows written by the run
	TotalRecords int32 `parquet:"total_records,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// OddsRatio maps to the utilstudy_odds_ratios table.
type OddsRatio struct {
	RunID         int64    `parquet:"run_id,snappy"`
	Project       string   `parquet:"project,snappy"`
	Scope         string   `parquet:"scope,snappy"`
	TestsIncluded bool     `parquet:"tests_included"`
	UtilOff       int32    `parquet:"util_off,snappy"`
	UtilNonOff    int32    `parquet:"util_non_off,snappy"`
	NonUtilOff    int32    `parquet:"non_util_off,snappy"`
	NonUtilNonOff int32    `parquet:"non_util_non_off,snappy"`
	OddsRatio     *float64 `parquet:"odds_ratio,optional,snappy"` // nil when undefined
}

// Complexity maps to the utilstudy_complexity table.
type Complexity struct {
	RunID       int64   `parquet:"run_id,snappy"`
	Project     string  `parquet:"project,snappy"`
	Dataset     string  `parquet:"dataset,snappy"`
	Side        string  `parquet:"side,snappy"`
	RatioMean   float64 `parquet:"ratio_mean,snappy"`
	RatioStdDev float64 `parquet:"ratio_std,snappy"`
	LinesMean   float64 `parquet:"lines_mean,snappy"`
	LinesStdDev float64 `parquet:"lines_std,snappy"`
	UlocMean    float64 `parquet:"uloc_mean,snappy"`
	UlocStdDev  float64 `parquet:"uloc_std,snappy"`
	Snapshots   int32   `parquet:"snapshots,snappy"`
}

// writeParquet writes rows to outputPath with a schema inferred from T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}

// WriteRunsParquet writes runs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteOddsRatiosParquet writes odds ratio rows to a Parquet file.
func WriteOddsRatiosParquet(data []OddsRatio, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteComplexityParquet writes complexity rows to a Parquet file.
func WriteComplexityParquet(data []Complexity, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			Kind:          record.Kind,
			Project:       record.Project,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalRecords:  record.TotalRecords,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertOddsRatioRecords converts schema.OddsRatioRecord to OddsRatio for Parquet export.
func ConvertOddsRatioRecords(records []schema.OddsRatioRecord) []OddsRatio {
	result := make([]OddsRatio, len(records))
	for i, record := range records {
		result[i] = OddsRatio(record)
	}
	return result
}

// ConvertComplexityRecords converts schema.ComplexityRecord to Complexity for Parquet export.
func ConvertComplexityRecords(records []schema.ComplexityRecord) []Complexity {
	result := make([]Complexity, len(records))
	for i, record := range records {
		result[i] = Complexity(record)
	}
	return result
}
