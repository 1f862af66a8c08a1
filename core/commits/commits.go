// Package commits picks one commit per fixed interval of a repository's history.
package commits

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/huangsam/utilstudy/schema"
)

// Default cadence of the selection.
const (
	DefaultInterval = 30 * 24 * time.Hour
	DefaultWindow   = 24 * time.Hour
)

// ErrNoCommits is returned when a repository has no reachable commits.
var ErrNoCommits = errors.New("repository has no commits")

// CommitLister returns the commits created within [since, until].
// The status code mirrors the HTTP status of a hosted API; 200 means the listing is complete.
type CommitLister interface {
	ListCommits(ctx context.Context, since, until time.Time) ([]schema.RemoteCommit, int, error)
}

// Selector walks forward from the first commit of a repository, one interval at a time.
type Selector struct {
	Lister   CommitLister
	Now      func() time.Time
	Interval time.Duration
	Window   time.Duration
}

// NewSelector returns a Selector with the default 30-day cadence.
func NewSelector(lister CommitLister) *Selector {
	return &Selector{
		Lister:   lister,
		Now:      time.Now,
		Interval: DefaultInterval,
		Window:   DefaultWindow,
	}
}

// Selection is the outcome of a Select run.
type Selection struct {
	// Records are newest first; the initial commit is always last.
	Records []schema.CommitRecord

	// StopStatus is the non-200 status that ended the walk early, or 0.
	StopStatus int
}

// Select picks the earliest commit inside a one-day window after every interval step.
//
// If a window has no commits, the next attempt starts one window later instead of a
// whole interval later, so a single miss moves the cadence for the rest of the walk.
// The walk stops at the first non-200 listing and keeps what it found so far.
func (s *Selector) Select(ctx context.Context, first schema.CommitRecord) (Selection, error) {
	start := midnight(first.Date.Time)
	pathway := []schema.CommitRecord{{Date: schema.CSVTime{Time: start}, SHA: first.SHA}}

	now := s.Now().UTC()
	retreat := s.Interval - s.Window
	target := start
	for target.Before(now) {
		target = target.Add(s.Interval)
		since := target
		until := target.Add(s.Window - time.Microsecond)

		found, status, err := s.Lister.ListCommits(ctx, since, until)
		if status != http.StatusOK {
			return Selection{Records: newestFirst(pathway), StopStatus: status}, err
		}
		if err != nil {
			return Selection{Records: newestFirst(pathway)}, err
		}
		if len(found) == 0 {
			target = target.Add(-retreat)
			continue
		}
		pathway = append(pathway, schema.CommitRecord{
			Date: schema.CSVTime{Time: target},
			SHA:  Earliest(found).SHA,
		})
	}
	return Selection{Records: newestFirst(pathway)}, nil
}

// Earliest returns the commit with the smallest committer date. Ties keep listing order.
func Earliest(found []schema.RemoteCommit) schema.RemoteCommit {
	best := found[0]
	for _, c := range found[1:] {
		if c.CommitterDate.Before(best.CommitterDate) {
			best = c
		}
	}
	return best
}

// InWindow keeps the commits whose committer date lies within [since, until].
func InWindow(all []schema.RemoteCommit, since, until time.Time) []schema.RemoteCommit {
	var out []schema.RemoteCommit
	for _, c := range all {
		if !c.CommitterDate.Before(since) && !c.CommitterDate.After(until) {
			out = append(out, c)
		}
	}
	return out
}

func newestFirst(pathway []schema.CommitRecord) []schema.CommitRecord {
	out := slices.Clone(pathway)
	slices.Reverse(out)
	return out
}

func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
