package vuln

import (
	"github.com/huangsam/utilstudy/core/prevalence"
	"github.com/huangsam/utilstudy/core/rename"
	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/schema"
)

// ScopeAllExtensions is the scope covering every file of a project.
const ScopeAllExtensions = "All Extensions"

// Alias is one rename row. It is util when any of its names is, and a test
// file when its current name is.
type Alias struct {
	Name     string
	Aliases  []string
	Test     bool
	Util     bool
	Offender bool
}

// BuildAliases creates one Alias per chain and indexes it under every name.
// A name listed in several chains resolves to the last one.
func BuildAliases(chains []schema.AliasChain) (map[string]*Alias, []*Alias) {
	lookup := make(map[string]*Alias)
	var list []*Alias
	for _, chain := range chains {
		if len(chain) == 0 {
			continue
		}
		a := &Alias{Name: chain[0], Test: contract.IsTestPath(chain[0])}
		for _, name := range chain {
			a.Aliases = append(a.Aliases, name)
			if contract.IsUtilPath(name) {
				a.Util = true
			}
			lookup[name] = a
		}
		list = append(list, a)
	}
	return lookup, list
}

// OffendersForProject returns the offender paths of a VHP project.
func OffendersForProject(offenders []Offender, vhpProject string) []string {
	var paths []string
	for _, o := range offenders {
		if o.ProjectName == vhpProject {
			paths = append(paths, o.Filepath)
		}
	}
	return paths
}

// MarkOffenders flags the aliases holding any of paths.
func MarkOffenders(lookup map[string]*Alias, paths []string) {
	for _, p := range paths {
		if a, ok := lookup[p]; ok {
			a.Offender = true
		}
	}
}

// Tabulate counts aliases accepted by keep.
func Tabulate(aliases []*Alias, keep func(*Alias) bool) schema.ContingencyTable {
	var t schema.ContingencyTable
	for _, a := range aliases {
		if keep != nil && !keep(a) {
			continue
		}
		switch {
		case a.Offender && a.Util:
			t.UtilOff++
		case a.Offender:
			t.NonUtilOff++
		case a.Util:
			t.UtilNonOff++
		default:
			t.NonUtilNonOff++
		}
	}
	return t
}

func result(scope string, tests bool, t schema.ContingencyTable) schema.OddsRatioResult {
	ratio, ok := t.OddsRatio()
	return schema.OddsRatioResult{Scope: scope, TestsIncluded: tests, Table: t, Ratio: ratio, Defined: ok}
}

// OddsRatios computes every scope of a project: all extensions with and
// without tests, then each language with tests, then each language without.
func OddsRatios(aliases []*Alias) []schema.OddsRatioResult {
	noTests := func(a *Alias) bool { return !a.Test }
	results := []schema.OddsRatioResult{
		result(ScopeAllExtensions, true, Tabulate(aliases, nil)),
		result(ScopeAllExtensions, false, Tabulate(aliases, noTests)),
	}

	langs := prevalence.LanguageExtensions()
	inLanguage := func(lang string) func(*Alias) bool {
		exts := langs.Extensions[lang]
		return func(a *Alias) bool {
			_, ok := exts[rename.Extension(a.Name)]
			return ok
		}
	}
	for _, lang := range langs.Order {
		results = append(results, result(lang, true, Tabulate(aliases, inLanguage(lang))))
	}
	for _, lang := range langs.Order {
		keep := inLanguage(lang)
		results = append(results, result(lang, false, Tabulate(aliases, func(a *Alias) bool {
			return noTests(a) && keep(a)
		})))
	}
	return results
}
