package prevalence

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/utilstudy/schema"
)

const separator = "-------------------------"

// WritePercentage writes one block per language.
func WritePercentage(w io.Writer, results []schema.PrevalenceResult) error {
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "Language: %s\n", r.Language)
		fmt.Fprintf(&b, "Total Files W/Test: %d\n", r.TotalWithTests)
		fmt.Fprintf(&b, "Total Util W/Test: %d\n", r.UtilWithTests)
		fmt.Fprintf(&b, "Total Non-Util W/Test: %d\n", r.NonWithTests)
		if r.TotalWithTests > 0 {
			fmt.Fprintf(&b, "W/Test Percentage: %s\n", ratio(r.UtilWithTests, r.TotalWithTests))
		}
		fmt.Fprintf(&b, "Total Files: %d\n", r.TotalNoTests)
		fmt.Fprintf(&b, "Total Util: %d\n", r.UtilNoTests)
		fmt.Fprintf(&b, "Total Non-Util: %d\n", r.NonUtilNoTests)
		if r.TotalNoTests > 0 {
			fmt.Fprintf(&b, "Percentage: %s\n", ratio(r.UtilNoTests, r.TotalNoTests))
		}
		b.WriteString(separator + "\n\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func ratio(num, den int) string {
	return strconv.FormatFloat(float64(num)/float64(den), 'g', -1, 64)
}

// WriteConcentration writes depth buckets in ascending order.
func WriteConcentration(w io.Writer, res schema.ConcentrationResult) error {
	var b strings.Builder
	b.WriteString("Including Tests:\n")
	writeDepths(&b, res.WithTests)
	b.WriteString(separator + "\n")
	b.WriteString("Excluding Tests:\n")
	writeDepths(&b, res.WithoutTests)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeDepths(b *strings.Builder, depths map[int][]string) {
	for _, depth := range slices.Sorted(maps.Keys(depths)) {
		paths := depths[depth]
		fmt.Fprintf(b, "%d: %d\n", depth, len(paths))
		fmt.Fprintf(b, "[%s]\n", strings.Join(paths, ", "))
	}
}

// WritePromotions writes each category with its count followed by its rename rows.
func WritePromotions(w io.Writer, res schema.PromotionResult) error {
	var b strings.Builder
	section := func(label string, chains []schema.AliasChain) {
		fmt.Fprintf(&b, "%s: %d\n", label, len(chains))
		for _, c := range chains {
			b.WriteString(strings.Join(c, ",") + "\n")
		}
	}
	section("Both", res.Both)
	section("Promotion", res.Promotions)
	section("Demotion", res.Demotions)
	fmt.Fprintf(&b, "Total Renames:%d\n", res.TotalRenames)
	_, err := io.WriteString(w, b.String())
	return err
}
