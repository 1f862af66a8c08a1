// Package vuln joins Vulnerability History Project records with rename records.
package vuln

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/utilstudy/core/rename"
	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/schema"
)

// FixDateLayout is the timestamp format of VHP events. Fractional seconds are optional.
const FixDateLayout = "2006-01-02T15:04:05Z"

// ErrMissingFixDate marks a CVE whose events contain no fix.
var ErrMissingFixDate = errors.New("no fix event")

// TagID is a VHP tag identifier. The API has served it both as a number and as a string.
type TagID string

// UnmarshalJSON accepts a JSON number or string.
func (t *TagID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = TagID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("tag id %s: %w", b, err)
	}
	*t = TagID(n.String())
	return nil
}

// Tag is an entry of tag_mapping.json.
type Tag struct {
	ID        TagID  `json:"id"`
	Shortname string `json:"shortname"`
}

// TagRef is a tag attached to a vulnerability.
type TagRef struct {
	ID TagID `json:"id"`
}

// Vulnerability is an entry of vulnerabilities_list.json.
type Vulnerability struct {
	CVE         string   `json:"cve"`
	ProjectName string   `json:"project_name"`
	Tags        []TagRef `json:"tag_json"`
}

// Offender is an entry of offender_files.json.
type Offender struct {
	Filepath    string   `json:"filepath"`
	ProjectName string   `json:"project_name"`
	CVEs        []string `json:"cves"`
}

// Event is an entry of event_data/<cve>.json.
type Event struct {
	EventType string `json:"event_type"`
	Date      string `json:"date"`
}

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// LoadTagCWEs maps tag ids to their shortname for tags that name a CWE.
func LoadTagCWEs(path string) (map[TagID]string, error) {
	var tags []Tag
	if err := readJSON(path, &tags); err != nil {
		return nil, err
	}
	cwes := make(map[TagID]string)
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t.Shortname), "cwe") {
			cwes[t.ID] = t.Shortname
		}
	}
	return cwes, nil
}

// LoadOffenders reads offender_files.json.
func LoadOffenders(path string) ([]Offender, error) {
	var offenders []Offender
	if err := readJSON(path, &offenders); err != nil {
		return nil, err
	}
	return offenders, nil
}

// LoadVulnerabilities reads vulnerabilities_list.json.
func LoadVulnerabilities(path string) ([]Vulnerability, error) {
	var vulns []Vulnerability
	if err := readJSON(path, &vulns); err != nil {
		return nil, err
	}
	return vulns, nil
}

// LoadUtilMap flags every alias of every rename row in dir/<project>.csv. A row
// is util when any of its text matches, and later rows override earlier ones.
func LoadUtilMap(dir string, projects []string) (map[string]bool, error) {
	util := make(map[string]bool)
	for _, p := range projects {
		chains, err := rename.ReadChains(filepath.Join(dir, p+".csv"))
		if err != nil {
			return nil, err
		}
		for _, chain := range chains {
			isUtil := contract.IsUtilPath(strings.Join(chain, ","))
			for _, name := range chain {
				util[name] = isUtil
			}
		}
	}
	return util, nil
}

// FixDate returns the date of the first fix event in an event file.
func FixDate(path string) (time.Time, error) {
	var events []Event
	if err := readJSON(path, &events); err != nil {
		return time.Time{}, err
	}
	for _, e := range events {
		if e.EventType != "fix" {
			continue
		}
		d, err := time.Parse(FixDateLayout, e.Date)
		if err != nil {
			return time.Time{}, fmt.Errorf("fix date of %s: %w", path, err)
		}
		return d, nil
	}
	return time.Time{}, ErrMissingFixDate
}

// LoadFixDates reads dir/<cve>.json for each id. CVEs without a fix event or
// without an event file are left out.
func LoadFixDates(dir string, ids []string) (map[string]time.Time, error) {
	dates := make(map[string]time.Time, len(ids))
	for _, id := range ids {
		d, err := FixDate(filepath.Join(dir, id+".json"))
		switch {
		case err == nil:
			dates[id] = d
		case errors.Is(err, ErrMissingFixDate):
			// unfixed
		case errors.Is(err, os.ErrNotExist):
			contract.LogWarn("event data for "+id, err)
		default:
			return nil, err
		}
	}
	return dates, nil
}

// IDs lists the CVE ids of vulns in order.
func IDs(vulns []Vulnerability) []string {
	ids := make([]string, len(vulns))
	for i, v := range vulns {
		ids[i] = v.CVE
	}
	return ids
}

// BuildCVERecords joins vulnerabilities with their CWEs and fixed files. With a
// nil fixDates every vulnerability is kept; otherwise only those with a date.
func BuildCVERecords(vulns []Vulnerability, tags map[TagID]string, offenders []Offender, util map[string]bool, fixDates map[string]time.Time) []schema.CVERecord {
	filesByCVE := make(map[string][]string)
	for _, o := range offenders {
		for _, cve := range o.CVEs {
			filesByCVE[cve] = append(filesByCVE[cve], o.Filepath)
		}
	}

	var records []schema.CVERecord
	for _, v := range vulns {
		rec := schema.CVERecord{ID: v.CVE, Project: v.ProjectName, CWEs: []string{}}
		if fixDates != nil {
			d, ok := fixDates[v.CVE]
			if !ok {
				continue
			}
			rec.FixDate, rec.HasFixDate = d, true
		}
		for _, t := range v.Tags {
			if cwe, ok := tags[t.ID]; ok {
				rec.CWEs = append(rec.CWEs, cwe)
			}
		}
		files := slices.Clone(filesByCVE[v.CVE])
		slices.Sort(files)
		rec.Files = slices.Compact(files)
		for _, f := range rec.Files {
			if util[f] {
				rec.Util = true
				break
			}
		}
		records = append(records, rec)
	}
	return records
}

// OverallProject names the cross-project entry of CompareCWEs.
const OverallProject = "Overall"

// CompareCWEs lists, per project in first-seen order and then overall, the CWEs
// seen only in util CVEs and only in non-util CVEs.
func CompareCWEs(records []schema.CVERecord) []schema.CWEComparison {
	type sides struct{ util, non map[string]struct{} }
	newSides := func() *sides { return &sides{util: map[string]struct{}{}, non: map[string]struct{}{}} }

	var order []string
	byProject := make(map[string]*sides)
	overall := newSides()
	for _, r := range records {
		s, ok := byProject[r.Project]
		if !ok {
			s = newSides()
			byProject[r.Project] = s
			order = append(order, r.Project)
		}
		for _, cwe := range r.CWEs {
			if r.Util {
				s.util[cwe] = struct{}{}
				overall.util[cwe] = struct{}{}
			} else {
				s.non[cwe] = struct{}{}
				overall.non[cwe] = struct{}{}
			}
		}
	}

	only := func(a, b map[string]struct{}) []string {
		out := []string{}
		for k := range a {
			if _, ok := b[k]; !ok {
				out = append(out, k)
			}
		}
		slices.Sort(out)
		return out
	}
	comps := make([]schema.CWEComparison, 0, len(order)+1)
	for _, p := range order {
		s := byProject[p]
		comps = append(comps, schema.CWEComparison{Project: p, UtilOnly: only(s.util, s.non), NonOnly: only(s.non, s.util)})
	}
	comps = append(comps, schema.CWEComparison{Project: OverallProject, UtilOnly: only(overall.util, overall.non), NonOnly: only(overall.non, overall.util)})
	return comps
}
