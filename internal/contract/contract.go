// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/utilstudy/schema"
)

// GitClient defines the git operations the study needs.
// This allows the analysis logic to be tested without needing a real git executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command and returns its output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// --- Working Tree ---

	// Checkout switches the working tree to the given ref ("-" for the previous one).
	Checkout(ctx context.Context, repoPath string, ref string) error

	// Pull fetches and merges the upstream of the current branch.
	Pull(ctx context.Context, repoPath string) error

	// --- Rename Logs ---

	// GetFollowRenameLog returns the name-status log of a single file, following renames.
	GetFollowRenameLog(ctx context.Context, repoPath string, path string) ([]byte, error)

	// GetRenameLog returns the name-status log of every rename in the repository.
	GetRenameLog(ctx context.Context, repoPath string) ([]byte, error)
}

// ToolRunner runs external analysis tools such as scc and ctags.
type ToolRunner interface {
	// Run executes name with args inside dir and returns its standard output.
	Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error)
}

// CacheManager defines the interface for managing the stores.
// This allows the storage layer to be mocked for testing.
type CacheManager interface {
	GetResponseStore() CacheStore
	GetResultsStore() ResultsStore
}

// CacheStore defines the interface for cached response storage.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// ResultsStore defines the interface for tracking analysis runs and their results.
type ResultsStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(kind schema.RunKind, project string, startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalRecords int) error

	// RecordOddsRatio stores one contingency table of a run
	RecordOddsRatio(runID int64, project string, result schema.OddsRatioResult) error

	// RecordComplexity stores one side of a complexity summary
	RecordComplexity(runID int64, project string, dataset string, side string, summary schema.SideSummary) error

	// GetStatus returns status information about the results store
	GetStatus() (schema.ResultsStatus, error)

	// GetAllRuns retrieves all runs from the store
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllOddsRatios retrieves all odds ratio rows from the store
	GetAllOddsRatios() ([]schema.OddsRatioRecord, error)

	// GetAllComplexity retrieves all complexity rows from the store
	GetAllComplexity() ([]schema.ComplexityRecord, error)

	// Close closes the underlying connection
	Close() error
}
