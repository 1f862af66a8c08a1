package commits

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitHubLister_ListCommits(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/chromium/chromium/commits", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.URL.Query().Get("since"))
		assert.NotEmpty(t, r.URL.Query().Get("until"))

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "" {
			w.Header().Set("Link", fmt.Sprintf(`<%s/repos/chromium/chromium/commits?page=2>; rel="next"`, srv.URL))
			_, _ = fmt.Fprint(w, `[{"sha":"newer","commit":{"committer":{"date":"2020-01-31T20:00:00Z"}}}]`)
			return
		}
		_, _ = fmt.Fprint(w, `[{"sha":"older","commit":{"committer":{"date":"2020-01-31T02:00:00Z"}}}]`)
	}))
	defer srv.Close()

	lister, err := NewGitHubLister(context.Background(), "secret", "chromium", "chromium", srv.URL)
	require.NoError(t, err)

	found, status, err := lister.ListCommits(context.Background(), at("2020-01-31T00:00:00Z"), at("2020-01-31T23:59:59Z"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, found, 2)
	assert.Equal(t, "older", Earliest(found).SHA)
}

func TestGitHubLister_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = fmt.Fprint(w, `{"message":"Bad credentials"}`)
	}))
	defer srv.Close()

	lister, err := NewGitHubLister(context.Background(), "", "o", "r", srv.URL+"/")
	require.NoError(t, err)

	_, status, err := lister.ListCommits(context.Background(), at("2020-01-31T00:00:00Z"), at("2020-01-31T23:59:59Z"))
	assert.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestNewGitHubLister_Validation(t *testing.T) {
	_, err := NewGitHubLister(context.Background(), "", "", "repo", "")
	assert.Error(t, err)
	_, err = NewGitHubLister(context.Background(), "", "owner", "repo", "://bad")
	assert.Error(t, err)
}
