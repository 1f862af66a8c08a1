package commits

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/huangsam/utilstudy/schema"
)

// LocalLister answers window queries from a repository opened with go-git.
// It needs no network access and always reports status 200.
type LocalLister struct {
	commits []schema.RemoteCommit
}

var _ CommitLister = &LocalLister{} // Compile-time check

// NewLocalLister loads every commit reachable from HEAD.
func NewLocalLister(repoPath string) (*LocalLister, error) {
	all, err := loadCommits(repoPath)
	if err != nil {
		return nil, err
	}
	return &LocalLister{commits: all}, nil
}

// NewStaticLister wraps an in-memory commit list.
func NewStaticLister(all []schema.RemoteCommit) *LocalLister {
	return &LocalLister{commits: all}
}

// ListCommits implements CommitLister.
func (l *LocalLister) ListCommits(ctx context.Context, since, until time.Time) ([]schema.RemoteCommit, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	return InWindow(l.commits, since, until), http.StatusOK, nil
}

// FirstCommit returns the oldest root commit reachable from HEAD.
func FirstCommit(repoPath string) (schema.CommitRecord, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return schema.CommitRecord{}, fmt.Errorf("open repository %s: %w", repoPath, err)
	}
	iter, err := repo.Log(&git.LogOptions{})
	if err != nil {
		return schema.CommitRecord{}, fmt.Errorf("read log of %s: %w", repoPath, err)
	}
	defer iter.Close()

	var root *object.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if c.NumParents() == 0 && (root == nil || c.Committer.When.Before(root.Committer.When)) {
			root = c
		}
		return nil
	})
	if err != nil {
		return schema.CommitRecord{}, err
	}
	if root == nil {
		return schema.CommitRecord{}, ErrNoCommits
	}
	return schema.CommitRecord{
		Date: schema.CSVTime{Time: root.Committer.When.UTC()},
		SHA:  root.Hash.String(),
	}, nil
}

func loadCommits(repoPath string) ([]schema.RemoteCommit, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", repoPath, err)
	}
	iter, err := repo.Log(&git.LogOptions{})
	if err != nil {
		return nil, fmt.Errorf("read log of %s: %w", repoPath, err)
	}
	defer iter.Close()

	var all []schema.RemoteCommit
	err = iter.ForEach(func(c *object.Commit) error {
		all = append(all, schema.RemoteCommit{SHA: c.Hash.String(), CommitterDate: c.Committer.When.UTC()})
		return nil
	})
	return all, err
}
