// Package recidivism measures how often fixed weakness types and files come back.
package recidivism

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/utilstudy/schema"
)

// DefaultWindows are the window lengths in days.
var DefaultWindows = []int{30, 90}

// Generate builds one series per status, project and window, in that nesting.
// Projects keep their first-seen order.
func Generate(records []schema.CVERecord, windows []int, now time.Time) []schema.RecidivismSeries {
	var order []string
	byProject := make(map[string][]schema.CVERecord)
	for _, r := range records {
		if _, ok := byProject[r.Project]; !ok {
			order = append(order, r.Project)
		}
		byProject[r.Project] = append(byProject[r.Project], r)
	}

	var out []schema.RecidivismSeries
	for _, status := range schema.AllUtilStatuses {
		for _, p := range order {
			for _, days := range windows {
				out = append(out, Series(p, byProject[p], status, days, now))
			}
		}
	}
	return out
}

func matches(status schema.UtilStatus, r schema.CVERecord) bool {
	switch status {
	case schema.UtilOnly:
		return r.Util
	case schema.NonOnly:
		return !r.Util
	default:
		return true
	}
}

// Series slides a days-long window from the earliest fix of the project until
// now. Windows are inclusive on both ends and the next one starts a
// microsecond after the previous end. A CVE counts at most once per window
// for type and for module recidivism.
func Series(project string, records []schema.CVERecord, status schema.UtilStatus, days int, now time.Time) schema.RecidivismSeries {
	s := schema.RecidivismSeries{
		Project:          project,
		Days:             days,
		Status:           status,
		WindowStarts:     []time.Time{},
		TotalFixes:       []int{},
		TypeRecidivism:   []int{},
		RepeatedTypes:    []string{},
		ModuleRecidivism: []int{},
		RepeatedModules:  []string{},
	}
	if len(records) == 0 {
		return s
	}
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b schema.CVERecord) int { return a.FixDate.Compare(b.FixDate) })

	seenCWE := make(map[string]struct{})
	seenFile := make(map[string]struct{})
	span := time.Duration(days) * 24 * time.Hour

	for start := sorted[0].FixDate; start.Before(now); {
		end := start.Add(span)
		var total, types, modules int
		for _, r := range sorted {
			if !matches(status, r) || r.FixDate.Before(start) {
				continue
			}
			if r.FixDate.After(end) {
				break
			}
			total++
			if repeated := repeats(r.CWEs, seenCWE); len(repeated) > 0 {
				types++
				s.RepeatedTypes = append(s.RepeatedTypes, repeated...)
			}
			if repeated := repeats(r.Files, seenFile); len(repeated) > 0 {
				modules++
				s.RepeatedModules = append(s.RepeatedModules, repeated...)
			}
		}
		s.WindowStarts = append(s.WindowStarts, start)
		s.TotalFixes = append(s.TotalFixes, total)
		s.TypeRecidivism = append(s.TypeRecidivism, types)
		s.ModuleRecidivism = append(s.ModuleRecidivism, modules)
		start = end.Add(time.Microsecond)
	}
	return s
}

// repeats returns the items already in seen and adds the rest.
func repeats(items []string, seen map[string]struct{}) []string {
	var out []string
	for _, it := range items {
		if _, ok := seen[it]; ok {
			out = append(out, it)
			continue
		}
		seen[it] = struct{}{}
	}
	return out
}

// Rates divides each window's recidivism counts by its fixes. Windows without
// fixes have rate 0.
func Rates(s schema.RecidivismSeries) schema.RecidivismRates {
	rates := schema.RecidivismRates{
		Type:   make([]float64, len(s.TotalFixes)),
		Module: make([]float64, len(s.TotalFixes)),
	}
	for i, total := range s.TotalFixes {
		if total == 0 {
			continue
		}
		if i < len(s.TypeRecidivism) {
			rates.Type[i] = float64(s.TypeRecidivism[i]) / float64(total)
		}
		if i < len(s.ModuleRecidivism) {
			rates.Module[i] = float64(s.ModuleRecidivism[i]) / float64(total)
		}
	}
	return rates
}

// BaseName is the file name of a series without extension.
func BaseName(s schema.RecidivismSeries) string {
	return fmt.Sprintf("%s_%d_%s", s.Project, s.Days, s.Status)
}

func intList(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func stringList(xs []string) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = "'" + x + "'"
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Text renders the plain report of a series.
func Text(s schema.RecidivismSeries) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d-day interval\n", s.Project, s.Days)
	fmt.Fprintf(&b, "Status: %s\n", s.Status)
	fmt.Fprintf(&b, "Total Fixes: %s\n", intList(s.TotalFixes))
	fmt.Fprintf(&b, "Type Recidivism: %s\n", intList(s.TypeRecidivism))
	fmt.Fprintf(&b, "Repeated Types: %s\n", stringList(s.RepeatedTypes))
	fmt.Fprintf(&b, "Module Recidivism: %s\n", intList(s.ModuleRecidivism))
	fmt.Fprintf(&b, "Repeated Modules: %s\n", stringList(s.RepeatedModules))
	return b.String()
}

// WriteSeries writes the text report and its JSON twin into dir.
func WriteSeries(dir string, s schema.RecidivismSeries) error {
	base := filepath.Join(dir, BaseName(s))
	if err := os.WriteFile(base+".txt", []byte(Text(s)), 0o644); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", BaseName(s), err)
	}
	return os.WriteFile(base+".json", raw, 0o644)
}

// LoadSeries reads a JSON series written by WriteSeries.
func LoadSeries(path string) (schema.RecidivismSeries, error) {
	var s schema.RecidivismSeries
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("decode %s: %w", path, err)
	}
	return s, nil
}
