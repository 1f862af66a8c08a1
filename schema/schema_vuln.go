package schema

import "time"

// CVERecord is a vulnerability joined with the files fixed for it.
type CVERecord struct {
	ID         string    `json:"cve"`
	CWEs       []string  `json:"cwes"`
	Project    string    `json:"project"`
	FixDate    time.Time `json:"fix_date"`
	HasFixDate bool      `json:"has_fix_date"`
	Files      []string  `json:"files"`
	Util       bool      `json:"util"`
}

// ContingencyTable relates util status to offender status.
type ContingencyTable struct {
	UtilOff       int `json:"util_offenders"`
	UtilNonOff    int `json:"util_non_offenders"`
	NonUtilOff    int `json:"non_util_offenders"`
	NonUtilNonOff int `json:"non_util_non_offenders"`
}

// OddsRatio returns (a/b)/(c/d). ok is false when the ratio is undefined.
func (t ContingencyTable) OddsRatio() (float64, bool) {
	if t.UtilNonOff == 0 || t.NonUtilOff == 0 || t.NonUtilNonOff == 0 {
		return 0, false
	}
	a, b := float64(t.UtilOff), float64(t.UtilNonOff)
	c, d := float64(t.NonUtilOff), float64(t.NonUtilNonOff)
	return (a / b) / (c / d), true
}

// TotalUtil is the number of util files in the table.
func (t ContingencyTable) TotalUtil() int { return t.UtilOff + t.UtilNonOff }

// TotalNonUtil is the number of non-util files in the table.
func (t ContingencyTable) TotalNonUtil() int { return t.NonUtilOff + t.NonUtilNonOff }

// OddsRatioResult is a contingency table for one scope of a project.
type OddsRatioResult struct {
	Scope         string           `json:"scope"`
	TestsIncluded bool             `json:"tests_included"`
	Table         ContingencyTable `json:"table"`
	Ratio         float64          `json:"odds_ratio"`
	Defined       bool             `json:"defined"`
}

// CWEComparison lists CWEs seen only in util CVEs and only in non-util CVEs.
type CWEComparison struct {
	Project  string   `json:"project"`
	UtilOnly []string `json:"util_only"`
	NonOnly  []string `json:"non_only"`
}

// PrevalenceResult counts util files for one language.
type PrevalenceResult struct {
	Language       string `json:"language"`
	TotalWithTests int    `json:"total_with_tests"`
	UtilWithTests  int    `json:"util_with_tests"`
	NonWithTests   int    `json:"non_with_tests"`
	TotalNoTests   int    `json:"total"`
	UtilNoTests    int    `json:"util"`
	NonUtilNoTests int    `json:"non_util"`
}

// ConcentrationResult buckets util files by depth below their util directory.
type ConcentrationResult struct {
	WithTests    map[int][]string `json:"with_tests"`
	WithoutTests map[int][]string `json:"without_tests"`
}

// PromotionResult classifies util chains that also held non-util names.
type PromotionResult struct {
	Both         []AliasChain `json:"both"`
	Promotions   []AliasChain `json:"promotions"`
	Demotions    []AliasChain `json:"demotions"`
	TotalRenames int          `json:"total_renames"`
}
