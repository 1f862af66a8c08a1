package rename

import (
	"context"
	"errors"
	"testing"

	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParseOps(t *testing.T) {
	out := []byte("R100\told/a.c\tnew/a.c\nM\tnew/a.c\n\nA\tx.c\r\nR087\tb.c\tc.c\r\n")
	ops := ParseOps(out)
	require.Len(t, ops, 2)
	assert.Equal(t, Op{Status: "R100", Old: "old/a.c", New: "new/a.c"}, ops[0])
	assert.True(t, ops[0].IsRename())
	assert.Equal(t, "c.c", ops[1].New)
	assert.False(t, Op{Status: "C100"}.IsRename())
}

func TestBuildChains(t *testing.T) {
	tests := []struct {
		name     string
		parents  map[string]string
		files    []string
		expected []schema.AliasChain
	}{
		{
			name:     "linear chain",
			parents:  map[string]string{"B": "A", "C": "B"},
			files:    []string{"C"},
			expected: []schema.AliasChain{{"C", "B", "A"}},
		},
		{
			name:     "cycle terminates",
			parents:  map[string]string{"A": "B", "B": "A"},
			files:    []string{"A"},
			expected: []schema.AliasChain{{"A", "B", "A"}},
		},
		{
			name:     "aliases of earlier chains are skipped",
			parents:  map[string]string{"B": "A", "C": "B"},
			files:    []string{"C", "B", "A", "D"},
			expected: []schema.AliasChain{{"C", "B", "A"}, {"D"}},
		},
		{
			name:     "walk stops at a visited alias",
			parents:  map[string]string{"X": "A", "B": "A"},
			files:    []string{"X", "B"},
			expected: []schema.AliasChain{{"X", "A"}, {"B", "A"}},
		},
		{
			name:     "no renames",
			parents:  map[string]string{},
			files:    []string{"a", "b"},
			expected: []schema.AliasChain{{"a"}, {"b"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildChains(tt.parents, tt.files))
		})
	}
}

func TestParentMap_OldestRenameWins(t *testing.T) {
	ops := []Op{
		{Status: "R100", Old: "mid.c", New: "now.c"},
		{Status: "R100", Old: "first.c", New: "now.c"},
	}
	assert.Equal(t, map[string]string{"now.c": "first.c"}, ParentMap(ops))
}

const renameLog = "R100\tsrc/B.c\tsrc/C.c\nR095\tsrc/A.c\tsrc/B.c\n"

func TestTracker_Map(t *testing.T) {
	git := new(contract.MockGitClient)
	git.On("GetRenameLog", mock.Anything, "/repo").Return([]byte(renameLog), nil).Once()

	var progress []int
	tr := &Tracker{Git: git, RepoPath: "/repo", Progress: func(done, _ int) { progress = append(progress, done) }}
	chains, err := tr.Track(context.Background(), schema.MapStrategy, []string{"src/C.c", "src/A.c", "src/D.c"})
	require.NoError(t, err)
	assert.Equal(t, []schema.AliasChain{{"src/C.c", "src/B.c", "src/A.c"}, {"src/D.c"}}, chains)
	assert.Equal(t, []int{3}, progress)
	git.AssertExpectations(t)
}

func TestTracker_Follow(t *testing.T) {
	git := new(contract.MockGitClient)
	git.On("GetFollowRenameLog", mock.Anything, "/repo", "src/C.c").
		Return([]byte("M\tsrc/C.c\n"+renameLog+"A\tsrc/A.c\n"), nil).Once()
	git.On("GetFollowRenameLog", mock.Anything, "/repo", "src/D.c").
		Return(nil, errors.New("git failed")).Once()

	tr := &Tracker{Git: git, RepoPath: "/repo"}
	chains, err := tr.Track(context.Background(), schema.FollowStrategy, []string{"src/C.c", "src/B.c", "src/D.c"})
	require.NoError(t, err)
	assert.Equal(t, []schema.AliasChain{{"src/C.c", "src/B.c", "src/A.c"}, {"src/D.c"}}, chains)
	git.AssertExpectations(t)
}

func TestTracker_Follow_IgnoresUnrelatedRenames(t *testing.T) {
	git := new(contract.MockGitClient)
	git.On("GetFollowRenameLog", mock.Anything, "/repo", "a.c").
		Return([]byte("R100\tother.c\tunrelated.c\nR100\told.c\ta.c\n"), nil).Once()

	tr := &Tracker{Git: git, RepoPath: "/repo"}
	chains, err := tr.Track(context.Background(), schema.FollowStrategy, []string{"a.c"})
	require.NoError(t, err)
	assert.Equal(t, []schema.AliasChain{{"a.c", "old.c"}}, chains)
}

func TestTracker_Filtered(t *testing.T) {
	git := new(contract.MockGitClient)
	git.On("GetRenameLog", mock.Anything, "/repo").Return([]byte(renameLog), nil).Once()
	git.On("GetFollowRenameLog", mock.Anything, "/repo", "src/C.c").Return([]byte(renameLog), nil).Once()

	tr := &Tracker{Git: git, RepoPath: "/repo"}
	chains, err := tr.Track(context.Background(), schema.FilteredStrategy, []string{"src/C.c", "src/never.c"})
	require.NoError(t, err)
	assert.Equal(t, []schema.AliasChain{{"src/C.c", "src/B.c", "src/A.c"}, {"src/never.c"}}, chains)
	git.AssertExpectations(t)
	git.AssertNotCalled(t, "GetFollowRenameLog", mock.Anything, "/repo", "src/never.c")
}

func TestTracker_Errors(t *testing.T) {
	git := new(contract.MockGitClient)
	git.On("GetRenameLog", mock.Anything, "/repo").Return(nil, errors.New("boom"))

	tr := &Tracker{Git: git, RepoPath: "/repo"}
	_, err := tr.Track(context.Background(), schema.MapStrategy, []string{"a"})
	assert.Error(t, err)
	_, err = tr.Track(context.Background(), schema.FilteredStrategy, []string{"a"})
	assert.Error(t, err)
	_, err = tr.Track(context.Background(), "guess", []string{"a"})
	assert.Error(t, err)
}
