package schema

// ComplexityRow is one line of an scc --by-file CSV snapshot.
type ComplexityRow struct {
	Language   string  `csv:"Language"`
	Provider   string  `csv:"Provider"`
	Code       float64 `csv:"Code"`
	Complexity float64 `csv:"Complexity"`
	ULOC       float64 `csv:"ULOC"`
}

// LanguageTotals sums the counter columns for one language within a snapshot.
type LanguageTotals struct {
	Complexity float64 `json:"complexity"`
	Code       float64 `json:"code"`
	ULOC       float64 `json:"uloc"`
}

// Add accumulates a row into the totals.
func (t *LanguageTotals) Add(r ComplexityRow) {
	t.Complexity += r.Complexity
	t.Code += r.Code
	t.ULOC += r.ULOC
}

// SideSummary holds the descriptive statistics of one side (util or non-util) of a dataset.
type SideSummary struct {
	RatioMean   float64 `json:"ratio_mean"`
	RatioStdDev float64 `json:"ratio_std"`
	LinesMean   float64 `json:"lines_mean"`
	LinesStdDev float64 `json:"lines_std"`
	UlocMean    float64 `json:"uloc_mean"`
	UlocStdDev  float64 `json:"uloc_std"`
	Snapshots   int     `json:"snapshots"`
}

// ComplexitySummary compares util and non-util files across all snapshots of a dataset.
type ComplexitySummary struct {
	Dataset string      `json:"dataset"`
	Util    SideSummary `json:"util"`
	Non     SideSummary `json:"non_util"`
}
