// Package prevalence measures how common util files are in a rename record.
package prevalence

import (
	"slices"
	"strings"

	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/schema"
)

// AllLanguages is the language key covering every extension in the list file.
const AllLanguages = "All"

// Languages maps a language name to the extensions counted for it.
type Languages struct {
	Order      []string
	Extensions map[string]map[string]struct{}
}

func set(exts ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		m[e] = struct{}{}
	}
	return m
}

// LanguageExtensions returns the built-in language sets.
func LanguageExtensions() Languages {
	return Languages{
		Order: []string{"C/C++", "Java", "Python", "JavaScript"},
		Extensions: map[string]map[string]struct{}{
			"C/C++":      set("c", "ec", "pgc", "h", "cc", "cpp", "cxx", "c++", "pcc", "ino", "hh", "hpp", "hxx", "inl", "ipp"),
			"Java":       set("java"),
			"Python":     set("py", "pyw", "pyi"),
			"JavaScript": set("js", "mjs", "jsx"),
		},
	}
}

// ExtensionFilter prepends an "All" language built from the extension list at path.
func ExtensionFilter(path string) (Languages, error) {
	lines, err := contract.ReadLines(path)
	if err != nil {
		return Languages{}, err
	}
	all := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		all[strings.TrimSpace(l)] = struct{}{}
	}
	langs := LanguageExtensions()
	langs.Order = append([]string{AllLanguages}, langs.Order...)
	langs.Extensions[AllLanguages] = all
	return langs, nil
}

// line renders a chain the way it appears in the rename record, lower-cased.
func line(chain schema.AliasChain) string {
	return strings.ToLower(strings.Join(chain, ","))
}

// recordExtension is the second dot-separated component of the current name,
// or the whole name when it has no dot. "a.tar.gz" yields "tar".
func recordExtension(chain schema.AliasChain) string {
	if len(chain) == 0 {
		return ""
	}
	parts := strings.Split(strings.ToLower(chain[0]), ".")
	if len(parts) > 1 {
		return parts[1]
	}
	return parts[0]
}

// Percentage counts util and non-util chains per language, with and without tests.
func Percentage(chains []schema.AliasChain, langs Languages) []schema.PrevalenceResult {
	results := make([]schema.PrevalenceResult, 0, len(langs.Order))
	for _, lang := range langs.Order {
		exts := langs.Extensions[lang]
		res := schema.PrevalenceResult{Language: lang}
		for _, chain := range chains {
			if _, ok := exts[recordExtension(chain)]; !ok {
				continue
			}
			l := line(chain)
			test := contract.IsTestPath(l)
			if contract.IsUtilPath(l) {
				res.UtilWithTests++
				if !test {
					res.UtilNoTests++
				}
			} else {
				res.NonWithTests++
				if !test {
					res.NonUtilNoTests++
				}
			}
		}
		res.TotalWithTests = res.UtilWithTests + res.NonWithTests
		res.TotalNoTests = res.UtilNoTests + res.NonUtilNoTests
		results = append(results, res)
	}
	return results
}

// Concentration groups util chains by how many path components follow the
// first util directory of their first util alias.
func Concentration(chains []schema.AliasChain) schema.ConcentrationResult {
	res := schema.ConcentrationResult{
		WithTests:    make(map[int][]string),
		WithoutTests: make(map[int][]string),
	}
	for _, chain := range chains {
		l := line(chain)
		if !contract.IsUtilPath(l) {
			continue
		}
		idx := slices.IndexFunc(chain, contract.IsUtilPath)
		target := strings.ToLower(chain[idx])
		parts := strings.Split(target, "/")
		for i, part := range parts {
			if !contract.IsUtilPath(part) {
				continue
			}
			depth := len(parts) - i - 1
			res.WithTests[depth] = append(res.WithTests[depth], target)
			if !contract.IsTestPath(l) {
				res.WithoutTests[depth] = append(res.WithoutTests[depth], target)
			}
			break
		}
	}
	return res
}

// Promotions classifies util chains that also held a non-util name. Walking
// the chain from the current name, leaving util counts as a promotion and
// entering util as a demotion.
func Promotions(chains []schema.AliasChain) schema.PromotionResult {
	var res schema.PromotionResult
	seen := make(map[string]struct{})
	for _, chain := range chains {
		if len(chain) > 1 {
			res.TotalRenames++
		}
		raw := strings.Join(chain, ",")
		if !contract.IsPromotionCandidate(raw) {
			continue
		}
		if _, dup := seen[raw]; dup {
			continue
		}
		mixed := slices.ContainsFunc(chain, func(p string) bool { return !contract.IsUtilPath(p) })
		if !mixed {
			continue
		}
		seen[raw] = struct{}{}

		promoted, demoted := transitions(chain)
		switch {
		case promoted && demoted:
			res.Both = append(res.Both, chain)
		case promoted:
			res.Promotions = append(res.Promotions, chain)
		case demoted:
			res.Demotions = append(res.Demotions, chain)
		}
	}
	return res
}

func transitions(chain schema.AliasChain) (promoted, demoted bool) {
	if len(chain) == 0 {
		return false, false
	}
	wasUtil := contract.IsUtilPath(chain[0])
	for _, p := range chain[1:] {
		isUtil := contract.IsUtilPath(p)
		switch {
		case wasUtil && !isUtil:
			promoted = true
		case !wasUtil && isUtil:
			demoted = true
		}
		wasUtil = isUtil
	}
	return promoted, demoted
}
