package complexity

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/huangsam/utilstudy/core/stats"
	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/schema"
)

// Dataset names used in reports.
const (
	WithTests    = "W/Test"
	WithoutTests = "Wo/Test"
)

// ErrZeroLines is returned when a snapshot side has rows but no code lines.
var ErrZeroLines = errors.New("snapshot has no code lines")

// Snapshot holds per-language totals of one scc report, split by util status.
type Snapshot struct {
	Day  string
	Util map[string]*schema.LanguageTotals
	Non  map[string]*schema.LanguageTotals
}

func newSnapshot(day string) *Snapshot {
	return &Snapshot{
		Day:  day,
		Util: make(map[string]*schema.LanguageTotals),
		Non:  make(map[string]*schema.LanguageTotals),
	}
}

func (s *Snapshot) add(r schema.ComplexityRow) {
	side := s.Non
	if contract.IsUtilPath(r.Provider) {
		side = s.Util
	}
	totals, ok := side[r.Language]
	if !ok {
		totals = &schema.LanguageTotals{}
		side[r.Language] = totals
	}
	totals.Add(r)
}

// Dataset is an ordered list of snapshots.
type Dataset struct {
	Name      string
	Snapshots []*Snapshot
}

// ListUniqueFiles returns the unique-lines reports in dir, sorted by name.
func ListUniqueFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.Contains(e.Name(), "unique") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// SnapshotDay returns the snapshot key of a report file name.
func SnapshotDay(name string) string {
	day, _, _ := strings.Cut(name, "_")
	return day
}

// Analyze reads the given reports and builds the dataset with tests and the one without.
// For chromium, rows whose provider mentions thirdparty are dropped.
func Analyze(dir string, files []string, project string) (Dataset, Dataset, error) {
	all := Dataset{Name: WithTests}
	noTests := Dataset{Name: WithoutTests}
	for _, name := range files {
		rows, err := readRows(filepath.Join(dir, name))
		if err != nil {
			return Dataset{}, Dataset{}, err
		}
		day := SnapshotDay(name)
		withSnap, withoutSnap := newSnapshot(day), newSnapshot(day)
		for _, r := range rows {
			if project == "chromium" && strings.Contains(r.Provider, "thirdparty") {
				continue
			}
			withSnap.add(r)
			if !contract.IsTestPath(r.Provider) {
				withoutSnap.add(r)
			}
		}
		all.Snapshots = append(all.Snapshots, withSnap)
		noTests.Snapshots = append(noTests.Snapshots, withoutSnap)
	}
	return all, noTests, nil
}

func readRows(path string) ([]schema.ComplexityRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var rows []schema.ComplexityRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}

type series struct {
	ratio []float64
	lines []float64
	uloc  []float64
}

func (s *series) add(day string, side map[string]*schema.LanguageTotals) error {
	if len(side) == 0 {
		return nil
	}
	var total schema.LanguageTotals
	for _, t := range side {
		total.Complexity += t.Complexity
		total.Code += t.Code
		total.ULOC += t.ULOC
	}
	if total.Code == 0 {
		return fmt.Errorf("%s: %w", day, ErrZeroLines)
	}
	s.ratio = append(s.ratio, total.Complexity/total.Code)
	s.lines = append(s.lines, total.Code)
	s.uloc = append(s.uloc, total.ULOC)
	return nil
}

func (s *series) summarize() (schema.SideSummary, error) {
	var out schema.SideSummary
	var err error
	if out.RatioMean, out.RatioStdDev, err = stats.MeanStdDev(s.ratio); err != nil {
		return out, err
	}
	if out.LinesMean, out.LinesStdDev, err = stats.MeanStdDev(s.lines); err != nil {
		return out, err
	}
	if out.UlocMean, out.UlocStdDev, err = stats.MeanStdDev(s.uloc); err != nil {
		return out, err
	}
	out.Snapshots = len(s.ratio)
	return out, nil
}

// Summarize computes the complexity-per-line ratio, code lines and unique lines of every
// snapshot side, then their means and sample standard deviations. Snapshots without
// rows on a side are left out of that side.
func Summarize(d Dataset) (schema.ComplexitySummary, error) {
	var util, non series
	for _, snap := range d.Snapshots {
		if err := util.add(snap.Day, snap.Util); err != nil {
			return schema.ComplexitySummary{}, fmt.Errorf("util %w", err)
		}
		if err := non.add(snap.Day, snap.Non); err != nil {
			return schema.ComplexitySummary{}, fmt.Errorf("non-util %w", err)
		}
	}

	summary := schema.ComplexitySummary{Dataset: d.Name}
	var err error
	if summary.Util, err = util.summarize(); err != nil {
		return summary, fmt.Errorf("util side of %s: %w", d.Name, err)
	}
	if summary.Non, err = non.summarize(); err != nil {
		return summary, fmt.Errorf("non-util side of %s: %w", d.Name, err)
	}
	return summary, nil
}
