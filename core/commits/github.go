package commits

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/github"
	"github.com/huangsam/utilstudy/schema"
	"golang.org/x/oauth2"
)

const githubPageSize = 100

// GitHubLister lists commits of one repository through the GitHub REST API.
type GitHubLister struct {
	client *github.Client
	owner  string
	repo   string
}

var _ CommitLister = &GitHubLister{} // Compile-time check

// NewGitHubLister creates a lister authenticated with a bearer token.
// An empty token makes unauthenticated requests. baseURL overrides api.github.com.
func NewGitHubLister(ctx context.Context, token, owner, repo, baseURL string) (*GitHubLister, error) {
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required for GitHub commit listing")
	}

	var httpClient *http.Client
	if token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}
	client := github.NewClient(httpClient)
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base URL: %w", err)
		}
		client.BaseURL = u
	}
	return &GitHubLister{client: client, owner: owner, repo: repo}, nil
}

// ListCommits implements CommitLister. Every page of the window is fetched.
func (l *GitHubLister) ListCommits(ctx context.Context, since, until time.Time) ([]schema.RemoteCommit, int, error) {
	opts := &github.CommitsListOptions{
		Since:       since,
		Until:       until,
		ListOptions: github.ListOptions{PerPage: githubPageSize},
	}

	var found []schema.RemoteCommit
	for {
		page, resp, err := l.client.Repositories.ListCommits(ctx, l.owner, l.repo, opts)
		if resp == nil {
			return nil, 0, fmt.Errorf("list commits %s/%s: %w", l.owner, l.repo, err)
		}
		if resp.StatusCode != http.StatusOK {
			return found, resp.StatusCode, err
		}
		if err != nil {
			return found, resp.StatusCode, fmt.Errorf("list commits %s/%s: %w", l.owner, l.repo, err)
		}
		for _, rc := range page {
			found = append(found, schema.RemoteCommit{
				SHA:           rc.GetSHA(),
				CommitterDate: rc.GetCommit().GetCommitter().GetDate(),
			})
		}
		if resp.NextPage == 0 {
			return found, http.StatusOK, nil
		}
		opts.Page = resp.NextPage
	}
}
