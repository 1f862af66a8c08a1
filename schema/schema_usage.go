package schema

// FunctionNode is a declared function and its heuristic call edges.
type FunctionNode struct {
	Name     string
	File     string
	Line     int
	Calls    []*FunctionNode
	CalledBy []*FunctionNode
}

// Key returns the identity of the node.
func (f *FunctionNode) Key() FunctionKey {
	return FunctionKey{Name: f.Name, File: f.File, Line: f.Line}
}

// FunctionKey identifies a function by name, file and declaration line.
type FunctionKey struct {
	Name string
	File string
	Line int
}

// MannWhitneyResult is the outcome of a two-sided rank-sum test.
type MannWhitneyResult struct {
	U      float64 `json:"u"`
	Z      float64 `json:"z"`
	PValue float64 `json:"p_value"`
}

// DegreeSummary describes one degree (in or out) for util and non-util functions.
type DegreeSummary struct {
	UtilMedian float64           `json:"util_median"`
	UtilMean   float64           `json:"util_mean"`
	NonMedian  float64           `json:"non_median"`
	NonMean    float64           `json:"non_mean"`
	Test       MannWhitneyResult `json:"mann_whitney"`
}

// UsageSummary compares util and non-util functions in a call graph.
type UsageSummary struct {
	UtilCount   int           `json:"util_count"`
	NonCount    int           `json:"non_count"`
	SharedNames int           `json:"shared_names"`
	In          DegreeSummary `json:"in_degree"`
	Out         DegreeSummary `json:"out_degree"`
}
