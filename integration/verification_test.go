//go:build integration

// Package integration contains integration tests for utilstudy.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"encoding/csv"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gitGoFiles lists every .go path touched by any commit, as git reports it.
func gitGoFiles(t *testing.T, repoDir string) []string {
	t.Helper()
	cmd := exec.Command("git", "log", "--name-only", "--pretty=format:")
	cmd.Dir = repoDir
	out, err := cmd.Output()
	require.NoError(t, err)

	seen := map[string]struct{}{}
	var files []string
	for line := range strings.SplitSeq(string(out), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasSuffix(line, ".go") {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		files = append(files, line)
	}
	slices.Sort(files)
	return files
}

// TestExternalRepoVerification clones a small public repo and checks the file
// records and rename chains against git.
func TestExternalRepoVerification(t *testing.T) {
	testRepoURL := "https://github.com/mitchellh/go-homedir"
	testRepoDir, err := filepath.Abs(filepath.Join(t.TempDir(), "go-homedir"))
	require.NoError(t, err)

	// Full history is needed for rename tracking
	if err := exec.Command("git", "clone", testRepoURL, testRepoDir).Run(); err != nil {
		t.Skipf("failed to clone test repo: %v", err)
	}
	verifyRepo(t, testRepoDir)
}

// verifyRepo runs rename records and rename rename and verifies them against git.
func verifyRepo(t *testing.T, repoDir string) {
	work := t.TempDir()
	exts := filepath.Join(work, "extensions.txt")
	require.NoError(t, os.WriteFile(exts, []byte("go\n"), 0o644))

	files := filepath.Join(work, "files.txt")
	_, err := runUtilstudy(t, repoDir, "rename", "records", repoDir, files, exts)
	require.NoError(t, err)

	content, err := os.ReadFile(files)
	require.NoError(t, err)
	recorded := strings.Fields(string(content))
	slices.Sort(recorded)
	assert.Equal(t, gitGoFiles(t, repoDir), recorded)

	for _, strategy := range []string{"map", "filtered", "follow"} {
		t.Run(strategy, func(t *testing.T) {
			out := filepath.Join(work, strategy+".csv")
			_, err := runUtilstudy(t, repoDir, "rename", "rename", repoDir, out, files, "--strategy", strategy)
			require.NoError(t, err)

			f, err := os.Open(out)
			require.NoError(t, err)
			defer func() { _ = f.Close() }()
			r := csv.NewReader(f)
			r.FieldsPerRecord = -1
			rows, err := r.ReadAll()
			require.NoError(t, err)

			current := map[string]struct{}{}
			for _, row := range rows {
				require.NotEmpty(t, row)
				assert.Contains(t, recorded, row[0])
				_, dup := current[row[0]]
				assert.False(t, dup, "%s starts two chains", row[0])
				current[row[0]] = struct{}{}
			}
		})
	}
}
