package vuln

import (
	"fmt"
	"strings"
	"testing"

	"github.com/huangsam/utilstudy/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAliases(t *testing.T) {
	lookup, list := BuildAliases([]schema.AliasChain{
		{"src/core.c", "src/util.c"},
		{"test/fork_test.c"},
		{"src/util.c"},
		{},
	})
	require.Len(t, list, 3)
	assert.True(t, list[0].Util, "any util alias marks the row")
	assert.True(t, list[1].Test)
	assert.Same(t, list[2], lookup["src/util.c"], "later rows override")
	assert.Same(t, list[0], lookup["src/core.c"])
}

func TestTabulate_OddsRatio(t *testing.T) {
	var aliases []*Alias
	add := func(n int, util, off bool) {
		for i := range n {
			aliases = append(aliases, &Alias{Name: fmt.Sprintf("f%d.c", len(aliases)+i), Util: util, Offender: off})
		}
	}
	add(2, true, true)
	add(8, true, false)
	add(5, false, true)
	add(95, false, false)

	table := Tabulate(aliases, nil)
	assert.Equal(t, schema.ContingencyTable{UtilOff: 2, UtilNonOff: 8, NonUtilOff: 5, NonUtilNonOff: 95}, table)
	ratio, ok := table.OddsRatio()
	require.True(t, ok)
	assert.InDelta(t, (2.0/8.0)/(5.0/95.0), ratio, 1e-12)
}

func TestOddsRatio_Undefined(t *testing.T) {
	for _, table := range []schema.ContingencyTable{
		{UtilOff: 1, UtilNonOff: 0, NonUtilOff: 1, NonUtilNonOff: 1},
		{UtilOff: 1, UtilNonOff: 1, NonUtilOff: 0, NonUtilNonOff: 1},
		{UtilOff: 1, UtilNonOff: 1, NonUtilOff: 1, NonUtilNonOff: 0},
	} {
		_, ok := table.OddsRatio()
		assert.False(t, ok, "%+v", table)
	}
	ratio, ok := schema.ContingencyTable{UtilNonOff: 1, NonUtilOff: 1, NonUtilNonOff: 1}.OddsRatio()
	assert.True(t, ok)
	assert.Zero(t, ratio)
}

func TestOddsRatios(t *testing.T) {
	lookup, aliases := BuildAliases([]schema.AliasChain{
		{"lib/util.c"},
		{"lib/helpers.c"},
		{"kernel/fork.c"},
		{"kernel/exit.c"},
		{"tests/util_test.py"},
		{"net/Server.java"},
	})
	MarkOffenders(lookup, OffendersForProject([]Offender{
		{Filepath: "lib/util.c", ProjectName: "Linux Kernel"},
		{Filepath: "kernel/fork.c", ProjectName: "Linux Kernel"},
		{Filepath: "kernel/exit.c", ProjectName: "Other"},
		{Filepath: "missing.c", ProjectName: "Linux Kernel"},
	}, "Linux Kernel"))

	results := OddsRatios(aliases)
	require.Len(t, results, 2+4+4)

	all := results[0]
	assert.Equal(t, ScopeAllExtensions, all.Scope)
	assert.True(t, all.TestsIncluded)
	assert.Equal(t, schema.ContingencyTable{UtilOff: 1, UtilNonOff: 2, NonUtilOff: 1, NonUtilNonOff: 2}, all.Table)
	assert.True(t, all.Defined)
	assert.InDelta(t, 1.0, all.Ratio, 1e-12)

	assert.False(t, results[1].TestsIncluded)
	assert.Equal(t, 1, results[1].Table.UtilNonOff)

	c := results[2]
	assert.Equal(t, "C/C++", c.Scope)
	assert.True(t, c.TestsIncluded)
	assert.Equal(t, 4, c.Table.TotalUtil()+c.Table.TotalNonUtil())

	java := results[3]
	assert.Equal(t, "Java", java.Scope)
	assert.Equal(t, 1, java.Table.NonUtilNonOff)
	assert.False(t, java.Defined)

	assert.Equal(t, "Python", results[4].Scope)
	assert.Equal(t, 1, results[4].Table.UtilNonOff)
	assert.Equal(t, "Python", results[8].Scope)
	assert.False(t, results[8].TestsIncluded)
	assert.Zero(t, results[8].Table.TotalUtil())
}

func TestWriteOddsReport(t *testing.T) {
	var b strings.Builder
	require.NoError(t, WriteOddsReport(&b, "Linux", []schema.OddsRatioResult{
		{Scope: ScopeAllExtensions, TestsIncluded: true, Table: schema.ContingencyTable{UtilOff: 2, UtilNonOff: 8, NonUtilOff: 5, NonUtilNonOff: 95}, Ratio: 4.75, Defined: true},
		{Scope: "Java", Table: schema.ContingencyTable{NonUtilNonOff: 3}},
	}))
	assert.Equal(t, "Project: Linux\nAll Extensions: Tests Included\nOdds Ratio:4.75\nTotal Util Files: 10\ntotal Non-Util Files: 100\nUtil Offenders: 2\nNon-Util Offenders: 5\n"+
		"Project: Linux\nLanguage: Java Tests Excluded\nTotal Util Files: 0\ntotal Non-Util Files: 3\nUtil Offenders: 0\nNon-Util Offenders: 0\n", b.String())
}

func TestWriteCWEReport(t *testing.T) {
	var b strings.Builder
	require.NoError(t, WriteCWEReport(&b, []schema.CWEComparison{
		{Project: "Linux Kernel", UtilOnly: []string{"CWE-79"}, NonOnly: []string{}},
		{Project: OverallProject, UtilOnly: []string{"CWE-79"}, NonOnly: []string{"CWE-20"}},
	}))
	assert.Equal(t, "Linux Kernel\nUTIL ONLY:\nCWE-79\nNON-Only:\nOverall:\nUtil Only:\nCWE-79\nNon Only:\nCWE-20\n", b.String())
}
