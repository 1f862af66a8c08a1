package schema

import "time"

// RunRecord represents a row from the utilstudy_runs table.
type RunRecord struct {
	RunID         int64
	Kind          string
	Project       string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalRecords  int32
	ConfigParams  *string
}

// OddsRatioRecord represents a row from the utilstudy_odds_ratios table.
type OddsRatioRecord struct {
	RunID         int64
	Project       string
	Scope         string
	TestsIncluded bool
	UtilOff       int32
	UtilNonOff    int32
	NonUtilOff    int32
	NonUtilNonOff int32
	OddsRatio     *float64
}

// ComplexityRecord represents a row from the utilstudy_complexity table.
type ComplexityRecord struct {
	RunID       int64
	Project     string
	Dataset     string
	Side        string
	RatioMean   float64
	RatioStdDev float64
	LinesMean   float64
	LinesStdDev float64
	UlocMean    float64
	UlocStdDev  float64
	Snapshots   int32
}
