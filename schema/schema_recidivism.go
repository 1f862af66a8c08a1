package schema

import "time"

// RecidivismSeries is the per-window output of one recidivism run.
type RecidivismSeries struct {
	Project          string      `json:"project"`
	Days             int         `json:"days"`
	Status           UtilStatus  `json:"status"`
	WindowStarts     []time.Time `json:"window_starts"`
	TotalFixes       []int       `json:"total_fixes"`
	TypeRecidivism   []int       `json:"type_recidivism"`
	RepeatedTypes    []string    `json:"repeated_types"`
	ModuleRecidivism []int       `json:"module_recidivism"`
	RepeatedModules  []string    `json:"repeated_modules"`
}

// RecidivismRates are per-window rates derived from a series.
type RecidivismRates struct {
	Type   []float64 `json:"type"`
	Module []float64 `json:"module"`
}
