package usage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/utilstudy/core/stats"
	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const utilSource = `int add(int a, int b) {
	return a + b;
}
int twice(int a) {
	return add(a, a);
}
`

const mainSource = `int main(void) {
	return twice(add(1, 2));
}
`

const tagsJSON = `{"_type": "ptag", "name": "JSON_OUTPUT_VERSION", "path": "0.0"}
{"_type": "tag", "name": "add", "path": "src/util.c", "line": 1, "kind": "function"}
{"_type": "tag", "name": "twice", "path": "src/util.c", "line": 4, "kind": "function"}
{"_type": "tag", "name": "main", "path": "src/main.c", "line": 1, "kind": "function"}
{"_type": "tag", "name": "counter", "path": "src/main.c", "line": 9, "kind": "variable"}

{"_type": "tag", "name": "add", "path": "vendor/lib/add.c", "line": 1, "kind": "function"}
`

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range map[string]string{
		"src/util.c":       utilSource,
		"src/main.c":       mainSource,
		"vendor/lib/add.c": "int add(int a, int b) { return a - b; }\n",
		TagsFile:           tagsJSON,
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return dir
}

func names(fns []*schema.FunctionNode) []string {
	out := make([]string, len(fns))
	for i, fn := range fns {
		out[i] = fn.Name
	}
	return out
}

func TestParseTags(t *testing.T) {
	g, err := ParseTags(strings.NewReader(tagsJSON))
	require.NoError(t, err)
	assert.Len(t, g.Functions, 4)
	assert.Len(t, g.ByName["add"], 2, "duplicates are kept")
	assert.Equal(t, 1, g.SharedNames())
	assert.Equal(t, []string{"src/util.c", "src/main.c", "vendor/lib/add.c"}, g.Files)

	_, err = ParseTags(strings.NewReader("{not json}\n"))
	assert.Error(t, err)
}

func TestParseTags_SameDeclarationOnce(t *testing.T) {
	// a prototype and a definition tagged on the same line
	tags := `{"_type": "tag", "name": "helper", "path": "src/util.c", "line": 1, "kind": "function"}
{"_type": "tag", "name": "helper", "path": "src/util.c", "line": 1, "kind": "function"}
{"_type": "tag", "name": "run", "path": "src/main.c", "line": 1, "kind": "function"}
`
	dir := t.TempDir()
	for name, body := range map[string]string{
		"src/util.c": "int helper(void) { return 1; }\n",
		"src/main.c": "int run(void) {\n\treturn helper();\n}\n",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}

	g, err := ParseTags(strings.NewReader(tags))
	require.NoError(t, err)
	assert.Len(t, g.Functions, 2)
	assert.Len(t, g.ByName["helper"], 1)
	assert.Len(t, g.ByFile["src/util.c"], 1)
	assert.Zero(t, g.SharedNames())

	require.NoError(t, g.FindCalls(dir))
	run := g.ByName["run"][0]
	assert.Len(t, run.Calls, 1)
	assert.Len(t, g.ByName["helper"][0].CalledBy, 1)

	s, err := Summarize(g)
	require.NoError(t, err)
	assert.Equal(t, 1, s.UtilCount)
	assert.Equal(t, 1, s.NonCount)
	assert.InDelta(t, 1, s.Out.NonMean, 1e-12)
}

func TestGraphAdd_ReturnsKnownNode(t *testing.T) {
	g := NewGraph()
	first := g.Add(&schema.FunctionNode{Name: "a", File: "f.c", Line: 3})
	again := g.Add(&schema.FunctionNode{Name: "a", File: "f.c", Line: 3})
	other := g.Add(&schema.FunctionNode{Name: "a", File: "g.c", Line: 3})
	assert.Same(t, first, again)
	assert.NotSame(t, first, other)
	assert.Len(t, g.ByName["a"], 2)
	assert.Equal(t, 1, g.SharedNames())
}

func TestCaller(t *testing.T) {
	g := NewGraph()
	g.Add(&schema.FunctionNode{Name: "a", File: "f.c", Line: 1})
	g.Add(&schema.FunctionNode{Name: "b", File: "f.c", Line: 10})
	g.SortByLine()

	assert.Nil(t, g.Caller("f.c", 1), "call on a declaration line has no caller")
	assert.Nil(t, g.Caller("f.c", 10))
	assert.Equal(t, "a", g.Caller("f.c", 5).Name)
	assert.Equal(t, "b", g.Caller("f.c", 11).Name)
	assert.Nil(t, g.Caller("other.c", 3))
}

func TestLink_Dedupes(t *testing.T) {
	a := &schema.FunctionNode{Name: "a"}
	b := &schema.FunctionNode{Name: "b"}
	Link(a, b)
	Link(a, b)
	assert.Len(t, a.Calls, 1)
	assert.Len(t, b.CalledBy, 1)
}

func TestFindCallsAndSummarize(t *testing.T) {
	dir := writeProject(t)
	g, err := LoadTags(dir)
	require.NoError(t, err)
	g.DropVendored()
	assert.Len(t, g.ByName["add"], 1)
	assert.NotContains(t, g.Files, "vendor/lib/add.c")

	require.NoError(t, g.FindCalls(dir))
	add, twice, mainFn := g.ByName["add"][0], g.ByName["twice"][0], g.ByName["main"][0]
	assert.ElementsMatch(t, []string{"twice", "main"}, names(add.CalledBy))
	assert.Equal(t, []string{"add"}, names(twice.Calls))
	assert.ElementsMatch(t, []string{"twice", "add"}, names(mainFn.Calls))
	assert.Empty(t, mainFn.CalledBy)

	s, err := Summarize(g)
	require.NoError(t, err)
	assert.Zero(t, s.SharedNames, "the vendored add was dropped before summarizing")
	assert.Equal(t, 2, s.UtilCount)
	assert.Equal(t, 1, s.NonCount)
	assert.InDelta(t, 1.5, s.In.UtilMedian, 1e-12)
	assert.InDelta(t, 0.5, s.Out.UtilMean, 1e-12)
	assert.InDelta(t, 2, s.Out.NonMedian, 1e-12)
	assert.InDelta(t, 2, s.In.Test.U, 1e-12)

	report := Report(s)
	assert.True(t, strings.HasPrefix(report, "Util Stats:\nUtil In: 1.5\nUtil In (mean): 1.5\n"))
	assert.Contains(t, report, "Non-Util Count: 1\nIn MWW\nMannWhitneyUResult(statistic=2,")
	assert.True(t, strings.HasSuffix(report, "--------\n\n"))
}

func TestFindCalls_DuplicateNamesLinkAll(t *testing.T) {
	dir := writeProject(t)
	g, err := LoadTags(dir)
	require.NoError(t, err)
	require.NoError(t, g.FindCalls(dir))
	for _, add := range g.ByName["add"] {
		assert.Contains(t, names(add.CalledBy), "twice")
	}
}

func TestSummarize_EmptySide(t *testing.T) {
	g := NewGraph()
	g.Add(&schema.FunctionNode{Name: "f", File: "main.c", Line: 1})
	_, err := Summarize(g)
	assert.ErrorIs(t, err, stats.ErrEmptySample)
}

func TestIndexProject(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.c"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))

	runner := new(contract.MockToolRunner)
	args := append([]any{mock.Anything, dir, CtagsBinary}, toAny(IndexArgs([]string{"a.c", "src"}))...)
	runner.On("Run", args...).Return([]byte(tagsJSON), nil).Once()

	require.NoError(t, IndexProject(context.Background(), runner, dir))
	raw, err := os.ReadFile(filepath.Join(dir, TagsFile))
	require.NoError(t, err)
	assert.Equal(t, tagsJSON, string(raw))
	runner.AssertExpectations(t)
}

func TestIndexProject_Errors(t *testing.T) {
	runner := new(contract.MockToolRunner)
	assert.Error(t, IndexProject(context.Background(), runner, filepath.Join(t.TempDir(), "missing")))
	assert.Error(t, IndexProject(context.Background(), runner, t.TempDir()), "empty project")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.c"), nil, 0o644))
	runner.On("Run", mock.Anything, dir, CtagsBinary, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, "a.c").
		Return(nil, errors.New("ctags not found"))
	assert.Error(t, IndexProject(context.Background(), runner, dir))
}

func toAny(args []string) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}
