package commits

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/huangsam/utilstudy/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func fixedNow(s string) func() time.Time {
	return func() time.Time { return at(s) }
}

func TestSelector_Select(t *testing.T) {
	lister := NewStaticLister([]schema.RemoteCommit{
		{SHA: "late", CommitterDate: at("2020-01-31T14:00:00Z")},
		{SHA: "early", CommitterDate: at("2020-01-31T03:00:00Z")},
		{SHA: "mid", CommitterDate: at("2020-01-31T08:00:00Z")},
		{SHA: "outside", CommitterDate: at("2020-02-01T00:00:00Z")},
		{SHA: "march", CommitterDate: at("2020-03-02T12:00:00Z")},
	})
	s := NewSelector(lister)
	s.Now = fixedNow("2020-03-15T00:00:00Z")

	first := schema.CommitRecord{Date: schema.CSVTime{Time: at("2020-01-01T10:30:00Z")}, SHA: "init"}
	sel, err := s.Select(context.Background(), first)
	require.NoError(t, err)
	assert.Zero(t, sel.StopStatus)

	require.Len(t, sel.Records, 3)
	// 2020-03-01 has no commits, so the walk slides one day and lands on 2020-03-02
	assert.Equal(t, "march", sel.Records[0].SHA)
	assert.Equal(t, "2020-03-02", sel.Records[0].Day())
	assert.Equal(t, "early", sel.Records[1].SHA, "earliest commit of the window wins")
	assert.Equal(t, "2020-01-31", sel.Records[1].Day())
	assert.Equal(t, "init", sel.Records[2].SHA)
	assert.Equal(t, at("2020-01-01T00:00:00Z"), sel.Records[2].Date.Time, "start is the first commit's midnight")
}

func TestSelector_NothingAfterFirst(t *testing.T) {
	s := NewSelector(NewStaticLister(nil))
	s.Now = fixedNow("2020-01-10T00:00:00Z")

	first := schema.CommitRecord{Date: schema.CSVTime{Time: at("2020-01-01T00:00:00Z")}, SHA: "init"}
	sel, err := s.Select(context.Background(), first)
	require.NoError(t, err)
	require.Len(t, sel.Records, 1)
	assert.Equal(t, "init", sel.Records[0].SHA)
}

type scriptedLister struct {
	calls   int
	results []scriptedResult
	windows [][2]time.Time
}

type scriptedResult struct {
	commits []schema.RemoteCommit
	status  int
	err     error
}

func (l *scriptedLister) ListCommits(_ context.Context, since, until time.Time) ([]schema.RemoteCommit, int, error) {
	l.windows = append(l.windows, [2]time.Time{since, until})
	r := l.results[l.calls]
	l.calls++
	return r.commits, r.status, r.err
}

func TestSelector_StopsOnNon200(t *testing.T) {
	lister := &scriptedLister{results: []scriptedResult{
		{commits: []schema.RemoteCommit{{SHA: "a", CommitterDate: at("2020-01-31T01:00:00Z")}}, status: http.StatusOK},
		{status: http.StatusForbidden, err: errors.New("rate limited")},
	}}
	s := NewSelector(lister)
	s.Now = fixedNow("2021-01-01T00:00:00Z")

	first := schema.CommitRecord{Date: schema.CSVTime{Time: at("2020-01-01T05:00:00Z")}, SHA: "init"}
	sel, err := s.Select(context.Background(), first)
	assert.Error(t, err)
	assert.Equal(t, http.StatusForbidden, sel.StopStatus)
	assert.Equal(t, 2, lister.calls)

	require.Len(t, sel.Records, 2)
	assert.Equal(t, "a", sel.Records[0].SHA)
	assert.Equal(t, "init", sel.Records[1].SHA)

	// Windows cover one whole day ending a microsecond before the next midnight
	assert.Equal(t, at("2020-01-31T00:00:00Z"), lister.windows[0][0])
	assert.Equal(t, at("2020-02-01T00:00:00Z").Add(-time.Microsecond), lister.windows[0][1])
	assert.Equal(t, at("2020-03-01T00:00:00Z"), lister.windows[1][0])
}

func TestSelector_TransportError(t *testing.T) {
	lister := &scriptedLister{results: []scriptedResult{
		{status: http.StatusOK, err: errors.New("broken body")},
	}}
	s := NewSelector(lister)
	s.Now = fixedNow("2021-01-01T00:00:00Z")

	first := schema.CommitRecord{Date: schema.CSVTime{Time: at("2020-01-01T00:00:00Z")}, SHA: "init"}
	sel, err := s.Select(context.Background(), first)
	assert.Error(t, err)
	assert.Zero(t, sel.StopStatus)
	require.Len(t, sel.Records, 1)
}

func TestEarliestAndInWindow(t *testing.T) {
	all := []schema.RemoteCommit{
		{SHA: "b", CommitterDate: at("2020-01-02T05:00:00Z")},
		{SHA: "a", CommitterDate: at("2020-01-02T01:00:00Z")},
		{SHA: "c", CommitterDate: at("2020-01-03T00:00:00Z")},
	}
	in := InWindow(all, at("2020-01-02T00:00:00Z"), at("2020-01-02T23:59:59Z"))
	require.Len(t, in, 2)
	assert.Equal(t, "a", Earliest(in).SHA)

	assert.Empty(t, InWindow(all, at("2020-02-01T00:00:00Z"), at("2020-02-02T00:00:00Z")))
}

func TestLocalLister_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewStaticLister(nil).ListCommits(ctx, time.Time{}, time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}
