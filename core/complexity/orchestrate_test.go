package complexity

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func record(day, sha string) schema.CommitRecord {
	d, err := time.Parse(time.DateOnly, day)
	if err != nil {
		panic(err)
	}
	return schema.CommitRecord{Date: schema.CSVTime{Time: d}, SHA: sha}
}

func TestDedupeByDay(t *testing.T) {
	in := []schema.CommitRecord{
		record("2020-03-01", "c"),
		record("2020-01-31", "b"),
		record("2020-03-01", "c2"),
	}
	out := DedupeByDay(in)
	require.Len(t, out, 2)
	assert.Equal(t, "c2", out[0].SHA)
	assert.Equal(t, "b", out[1].SHA)
}

func TestSnapshotArgs(t *testing.T) {
	args := SnapshotArgs("/repo", "/out", "2020-01-31")
	require.Len(t, args, 3)
	assert.Equal(t, []string{"/repo", "--by-file", "--format", "csv", "-o", filepath.Join("/out", "2020-01-31.csv")}, args[0])
	assert.Contains(t, args[1], "--uloc")
	assert.Equal(t, filepath.Join("/out", "2020-01-31_by_language.csv"), args[2][len(args[2])-1])
}

func TestOrchestrator_Run(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "complexity")
	git := new(contract.MockGitClient)
	tools := new(contract.MockToolRunner)

	git.On("GetRepoRoot", mock.Anything, "/repo/src").Return("/repo", nil).Once()
	git.On("Checkout", mock.Anything, "/repo", "sha1").Return(nil).Once()
	git.On("Checkout", mock.Anything, "/repo", "sha2").Return(errors.New("bad sha")).Once()
	git.On("Checkout", mock.Anything, "/repo", "-").Return(nil).Twice()
	git.On("Pull", mock.Anything, "/repo").Return(errors.New("no upstream")).Times(4)

	for _, day := range []string{"2020-01-31", "2020-01-01"} {
		for _, args := range SnapshotArgs("/repo", outDir, day) {
			callArgs := []any{mock.Anything, "", SCCBinary}
			for _, a := range args {
				callArgs = append(callArgs, a)
			}
			tools.On("Run", callArgs...).Return([]byte{}, nil).Once()
		}
	}

	o := &Orchestrator{Git: git, Tools: tools, RepoPath: "/repo/src", OutDir: outDir}
	n, err := o.Run(context.Background(), []schema.CommitRecord{
		record("2020-01-31", "sha1"),
		record("2020-01-01", "sha2"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.DirExists(t, outDir)
	git.AssertExpectations(t)
	tools.AssertExpectations(t)
}

func TestOrchestrator_NotARepository(t *testing.T) {
	git := new(contract.MockGitClient)
	tools := new(contract.MockToolRunner)
	git.On("GetRepoRoot", mock.Anything, "/tmp/plain").Return("", errors.New("not a git repository")).Once()

	o := &Orchestrator{Git: git, Tools: tools, RepoPath: "/tmp/plain", OutDir: t.TempDir()}
	n, err := o.Run(context.Background(), []schema.CommitRecord{record("2020-01-31", "sha1")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/tmp/plain is not inside a git repository")
	assert.Zero(t, n)
	git.AssertExpectations(t)
}

func TestOrchestrator_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := &Orchestrator{Git: new(contract.MockGitClient), Tools: new(contract.MockToolRunner), RepoPath: "/repo", OutDir: t.TempDir()}
	n, err := o.Run(ctx, []schema.CommitRecord{record("2020-01-31", "sha1")})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}
