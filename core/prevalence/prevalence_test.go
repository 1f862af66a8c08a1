package prevalence

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/utilstudy/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentage(t *testing.T) {
	chains := []schema.AliasChain{
		{"lib/util.c"},
		{"lib/helpers.h", "lib/old.h"},
		{"test/util_test.c"},
		{"a.c"}, {"b.c"}, {"c.c"}, {"d.c"}, {"e.c"}, {"f.c"},
		{"g_test.c"},
		{"main.java"},
	}
	langs := LanguageExtensions()
	results := Percentage(chains, langs)
	require.Len(t, results, 4)

	c := results[0]
	assert.Equal(t, "C/C++", c.Language)
	assert.Equal(t, 3, c.UtilWithTests)
	assert.Equal(t, 7, c.NonWithTests)
	assert.Equal(t, 10, c.TotalWithTests)
	assert.Equal(t, 2, c.UtilNoTests)
	assert.Equal(t, 6, c.NonUtilNoTests)

	assert.Equal(t, "Java", results[1].Language)
	assert.Equal(t, 1, results[1].TotalWithTests)
	assert.Zero(t, results[2].TotalWithTests)
}

func TestRecordExtension(t *testing.T) {
	assert.Equal(t, "tar", recordExtension(schema.AliasChain{"a.tar.gz"}))
	assert.Equal(t, "c", recordExtension(schema.AliasChain{"SRC/UTIL.C"}))
	assert.Equal(t, "makefile", recordExtension(schema.AliasChain{"Makefile"}))
	assert.Equal(t, "", recordExtension(nil))
}

func TestExtensionFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linux.txt")
	require.NoError(t, os.WriteFile(path, []byte("c\nh\nS\n"), 0o644))
	langs, err := ExtensionFilter(path)
	require.NoError(t, err)
	assert.Equal(t, []string{AllLanguages, "C/C++", "Java", "Python", "JavaScript"}, langs.Order)
	assert.Len(t, langs.Extensions[AllLanguages], 3)

	_, err = ExtensionFilter(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestConcentration(t *testing.T) {
	chains := []schema.AliasChain{
		{"src/main.c", "src/utils/io/read.c"},
		{"lib/helper.c"},
		{"test/utils/x.c"},
		{"src/plain.c"},
	}
	res := Concentration(chains)
	assert.Equal(t, map[int][]string{2: {"src/utils/io/read.c"}, 0: {"lib/helper.c"}, 1: {"test/utils/x.c"}}, res.WithTests)
	assert.Equal(t, map[int][]string{2: {"src/utils/io/read.c"}, 0: {"lib/helper.c"}}, res.WithoutTests)
}

func TestPromotions(t *testing.T) {
	chains := []schema.AliasChain{
		{"src/util.c", "src/core.c"},
		{"src/core.c", "src/util.c"},
		{"src/util.c", "src/core.c", "src/helper.c"},
		{"src/util.c", "src/utils.c"},
		{"src/Helper.c", "src/other.c"},
		{"src/util.c", "src/core.c"},
		{"src/only.c"},
	}
	res := Promotions(chains)
	assert.Equal(t, []schema.AliasChain{{"src/util.c", "src/core.c", "src/helper.c"}}, res.Both)
	assert.Equal(t, []schema.AliasChain{{"src/util.c", "src/core.c"}}, res.Promotions)
	assert.Equal(t, []schema.AliasChain{{"src/core.c", "src/util.c"}}, res.Demotions)
	assert.Equal(t, 6, res.TotalRenames)
}

func TestWritePercentage(t *testing.T) {
	var b strings.Builder
	require.NoError(t, WritePercentage(&b, []schema.PrevalenceResult{
		{Language: "C/C++", UtilWithTests: 3, NonWithTests: 7, TotalWithTests: 10, UtilNoTests: 1, NonUtilNoTests: 3, TotalNoTests: 4},
		{Language: "Java"},
	}))
	out := b.String()
	assert.Contains(t, out, "Language: C/C++\nTotal Files W/Test: 10\nTotal Util W/Test: 3\nTotal Non-Util W/Test: 7\nW/Test Percentage: 0.3\n")
	assert.Contains(t, out, "Total Files: 4\nTotal Util: 1\nTotal Non-Util: 3\nPercentage: 0.25\n-------------------------\n\n")
	assert.Contains(t, out, "Language: Java\nTotal Files W/Test: 0\nTotal Util W/Test: 0\nTotal Non-Util W/Test: 0\nTotal Files: 0\n")
}

func TestWriteConcentration(t *testing.T) {
	var b strings.Builder
	require.NoError(t, WriteConcentration(&b, schema.ConcentrationResult{
		WithTests:    map[int][]string{1: {"a/util/b.c"}, 0: {"x/util.c", "y/helper.c"}},
		WithoutTests: map[int][]string{0: {"x/util.c"}},
	}))
	assert.Equal(t,
		"Including Tests:\n0: 2\n[x/util.c, y/helper.c]\n1: 1\n[a/util/b.c]\n-------------------------\nExcluding Tests:\n0: 1\n[x/util.c]\n",
		b.String())
}

func TestWritePromotions(t *testing.T) {
	var b strings.Builder
	require.NoError(t, WritePromotions(&b, schema.PromotionResult{
		Promotions:   []schema.AliasChain{{"util.c", "core.c"}},
		TotalRenames: 4,
	}))
	assert.Equal(t, "Both: 0\nPromotion: 1\nutil.c,core.c\nDemotion: 0\nTotal Renames:4\n", b.String())
}
