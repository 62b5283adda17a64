// Package classify decides, for every package a module touches, whether the
// package is wholly owned by the module (usable as a recursive package
// prefix), owned at this level only (a single package), or split between the
// module and other contributors (must be selected class by class). The
// result feeds the pattern generator directly.
package classify

import (
	"strings"

	"go.uber.org/zap"

	"hiddenapi-tools/internal/patterns"
	"hiddenapi-tools/internal/trie"
)

// Provider tags a trie leaf with the contributor of that class.
type Provider string

const (
	ProviderModule Provider = "module"
	ProviderOther  Provider = "other"
)

// The trie only stores members as leaves, but classification works on whole
// classes. Without a member a class would become a leaf itself, which breaks
// when the same class is also an interior node for its nested classes, so
// every class gets this synthetic member appended.
const fakeMember = ";->fake()V"

// Result holds the three classification sets, package names dot-separated.
type Result struct {
	SplitPackages   []string
	SinglePackages  []string
	PackagePrefixes []string
}

// BuildTrie builds a provenance-tagged trie from the module's own classes
// and the classes found in the monolithic flag signatures. Module classes
// are inserted unconditionally; monolithic classes only when they fall under
// a top-level namespace the module already touches, since nothing else can
// affect the classification.
func BuildTrie(moduleClasses, monolithicSignatures []string) (*trie.Trie[Provider], error) {
	t := trie.New[Provider]()

	known := make(map[string]struct{}, len(moduleClasses))
	for _, class := range moduleClasses {
		if err := t.Add(class+fakeMember, ProviderModule); err != nil {
			return nil, err
		}
		known[class] = struct{}{}
	}

	seen := make(map[string]struct{})
	for _, sig := range monolithicSignatures {
		class, _, _ := strings.Cut(sig, ";->")
		if _, ok := known[class]; ok {
			continue
		}
		if _, ok := seen[class]; ok {
			continue
		}
		seen[class] = struct{}{}
		if err := t.AddOnlyIfMatches(class+fakeMember, ProviderOther); err != nil {
			return nil, err
		}
	}
	t.Seal()
	return t, nil
}

// Packages classifies every package node of a provenance trie. Decisions are
// logged at debug level so a surprising classification can be traced back to
// the package that caused it.
func Packages(t *trie.Trie[Provider], logger *zap.Logger) Result {
	var res Result
	recurse(t.ChildNodes(), logger, &res)
	return res
}

func recurse(nodes []*trie.Interior[Provider], logger *zap.Logger, res *Result) {
	for _, child := range nodes {
		// Class nodes are owned by whichever package classification applies
		// to their enclosing package.
		if child.Type() != trie.TypePackage {
			continue
		}
		pkg := patterns.SlashToDot(child.Selector())

		providers := providerSet(child, "**")
		switch {
		case len(providers) == 0:
			// The package and all its sub-packages contain no classes at
			// all. This should never happen.
		case only(providers, ProviderModule):
			// Wholly owned, sub-packages included: a package prefix covers
			// the entire subtree, so there is no point recursing further.
			logger.Debug("package is not split", zap.String("package", pkg+".**"))
			res.PackagePrefixes = append(res.PackagePrefixes, pkg)
			continue
		case only(providers, ProviderOther):
			// Nothing of the module's anywhere below here.
			logger.Debug("package contains no module classes", zap.String("package", pkg+".**"))
			continue
		}

		providers = providerSet(child, "*")
		switch {
		case len(providers) == 0:
			logger.Debug("package contains no classes", zap.String("package", pkg))
		case only(providers, ProviderModule):
			// This level is wholly the module's, but some sub-package is
			// not, so only a non-recursive pattern applies.
			logger.Debug("package is not split", zap.String("package", pkg+".*"))
			res.SinglePackages = append(res.SinglePackages, pkg)
		case only(providers, ProviderOther):
			// Sub-packages may still contain module classes.
			logger.Debug("package contains no module classes", zap.String("package", pkg+".*"))
		default:
			logger.Debug("package is split", zap.String("package", pkg+".*"))
			res.SplitPackages = append(res.SplitPackages, pkg)
		}

		recurse(child.ChildNodes(), logger, res)
	}
}

func providerSet(node *trie.Interior[Provider], pattern string) map[Provider]struct{} {
	rows, err := node.GetMatchingRows(pattern)
	if err != nil {
		// The bare "*" and "**" patterns always parse.
		panic(err)
	}
	set := make(map[Provider]struct{}, 2)
	for _, p := range rows {
		set[p] = struct{}{}
	}
	return set
}

func only(set map[Provider]struct{}, p Provider) bool {
	if len(set) != 1 {
		return false
	}
	_, ok := set[p]
	return ok
}
