package rename

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	sig := &object.Signature{Name: "Test", Email: "test@example.com", When: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	write := func(name, body string) {
		full := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(body), 0o644))
		_, err := wt.Add(name)
		require.NoError(t, err)
	}

	write("old/util.c", "int add(int a, int b) { return a + b; }\n")
	write("main.c", "int main(void) { return 0; }\n")
	_, err = wt.Commit("initial", &git.CommitOptions{Author: sig})
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "old", "util.c")))
	_, err = wt.Remove("old/util.c")
	require.NoError(t, err)
	write("new/util.c", "int add(int a, int b) { return a + b; }\n")
	sig.When = sig.When.Add(time.Hour)
	_, err = wt.Commit("move", &git.CommitOptions{Author: sig})
	require.NoError(t, err)

	files, err := CollectFiles(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"old/util.c", "new/util.c", "main.c"}, files)
	assert.Equal(t, "main.c", files[len(files)-1], "files of older commits come last")
}

func TestCollectFiles_NotARepo(t *testing.T) {
	_, err := CollectFiles(t.TempDir())
	assert.Error(t, err)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "c", Extension("src/util.c"))
	assert.Equal(t, "gz", Extension("a.tar.gz"))
	assert.Equal(t, "Makefile", Extension("Makefile"))
}

func TestFilterByExtension(t *testing.T) {
	exts := map[string]struct{}{"c": {}, "h": {}}
	files := []string{
		"src/util.c",
		"src/util.h",
		"README.md",
		"third_party/zlib/inflate.c",
		"vendor/github.com/lib/x.c",
	}

	assert.Equal(t, []string{"src/util.c", "src/util.h", "third_party/zlib/inflate.c", "vendor/github.com/lib/x.c"},
		FilterByExtension(files, exts, FilterOptions{}))
	assert.Equal(t, []string{"src/util.c", "src/util.h", "vendor/github.com/lib/x.c"},
		FilterByExtension(files, exts, OptionsForRepo("/repos/Chromium", false)))
	// enry treats both third_party/ and vendor/ as vendored
	assert.Equal(t, []string{"src/util.c", "src/util.h"},
		FilterByExtension(files, exts, OptionsForRepo("/repos/linux", true)))
}

func TestReadExtensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ext.txt")
	require.NoError(t, os.WriteFile(path, []byte("c\nh \n\ncpp\n"), 0o644))
	exts, err := ReadExtensions(path)
	require.NoError(t, err)
	assert.Len(t, exts, 3)
	assert.Contains(t, exts, "h")
}
