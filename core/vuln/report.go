package vuln

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/utilstudy/schema"
)

// ScopeHeader renders the heading line of an odds-ratio block.
func ScopeHeader(r schema.OddsRatioResult) string {
	tests := "Tests Excluded"
	if r.TestsIncluded {
		tests = "Tests Included"
	}
	if r.Scope == ScopeAllExtensions {
		return ScopeAllExtensions + ": " + tests
	}
	return "Language: " + r.Scope + " " + tests
}

// WriteOddsReport writes one block per result. The ratio line is omitted when
// the ratio is undefined.
func WriteOddsReport(w io.Writer, project string, results []schema.OddsRatioResult) error {
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "Project: %s\n", project)
		b.WriteString(ScopeHeader(r) + "\n")
		if r.Defined {
			b.WriteString("Odds Ratio:" + strconv.FormatFloat(r.Ratio, 'g', -1, 64) + "\n")
		}
		fmt.Fprintf(&b, "Total Util Files: %d\n", r.Table.TotalUtil())
		fmt.Fprintf(&b, "total Non-Util Files: %d\n", r.Table.TotalNonUtil())
		fmt.Fprintf(&b, "Util Offenders: %d\n", r.Table.UtilOff)
		fmt.Fprintf(&b, "Non-Util Offenders: %d\n", r.Table.NonUtilOff)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteCWEReport lists the CWEs exclusive to each side, per project and overall.
func WriteCWEReport(w io.Writer, comps []schema.CWEComparison) error {
	var b strings.Builder
	lines := func(items []string) {
		for _, s := range items {
			b.WriteString(s + "\n")
		}
	}
	for _, c := range comps {
		if c.Project == OverallProject {
			b.WriteString("Overall:\nUtil Only:\n")
			lines(c.UtilOnly)
			b.WriteString("Non Only:\n")
			lines(c.NonOnly)
			continue
		}
		b.WriteString(c.Project + "\nUTIL ONLY:\n")
		lines(c.UtilOnly)
		b.WriteString("NON-Only:\n")
		lines(c.NonOnly)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
