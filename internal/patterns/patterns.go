// Package patterns generates the signature patterns that select one module's
// contribution out of the monolithic hidden API flags.
//
// Classes in a split package (contributed by several modules) are listed per
// outer class; packages wholly owned by the module become "pkg/*" patterns;
// declared package prefixes become recursive "pkg/**" patterns. Validation
// problems are accumulated and reported together rather than failing on the
// first one.
package patterns

import (
	"fmt"
	"slices"
	"strings"

	"hiddenapi-tools/internal/sortutil"
)

// DotToSlash converts a dot-separated package name to the slash form used in
// signatures. Command-line package arguments are dot-separated.
func DotToSlash(pkg string) string {
	return strings.ReplaceAll(pkg, ".", "/")
}

// DotToSlashAll converts a list of dot-separated package names.
func DotToSlashAll(pkgs []string) []string {
	out := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, DotToSlash(p))
	}
	return out
}

// SlashToDot converts a slash-separated package name back to dot form for
// human-readable output.
func SlashToDot(pkg string) string {
	return strings.ReplaceAll(pkg, "/", ".")
}

func slashToDotAll(pkgs []string) []string {
	out := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, SlashToDot(p))
	}
	return out
}

// matchedByPackagePrefix returns the first package prefix that matches pkg,
// either exactly or as a proper slash-separated prefix.
func matchedByPackagePrefix(packagePrefixes []string, pkg string) (string, bool) {
	for _, prefix := range packagePrefixes {
		if pkg == prefix {
			return prefix, true
		}
		if strings.HasPrefix(pkg, prefix+"/") {
			return prefix, true
		}
	}
	return "", false
}

// ValidateSplitPackages rejects a split-package set that mixes the universal
// wildcard "*" with specific package names.
func ValidateSplitPackages(splitPackages []string) []error {
	var errs []error
	if slices.Contains(splitPackages, "*") && len(splitPackages) > 1 {
		errs = append(errs, fmt.Errorf(
			"split packages are invalid as they contain both the wildcard (*) and "+
				"specific packages, use the wildcard or specific packages, not a mixture"))
	}
	return errs
}

// ValidateSinglePackages rejects packages declared both split and single.
func ValidateSinglePackages(splitPackages, singlePackages []string) []error {
	var overlaps []string
	for _, single := range singlePackages {
		if slices.Contains(splitPackages, single) {
			overlaps = append(overlaps, single)
		}
	}
	if len(overlaps) == 0 {
		return nil
	}
	var errs []error
	for _, pkg := range overlaps {
		errs = append(errs, fmt.Errorf(
			"package %s is present in both single_packages and split_packages, "+
				"please ensure it is only present in one", SlashToDot(pkg)))
	}
	return errs
}

// ValidatePackagePrefixes rejects split or single packages that are matched
// by a declared package prefix; the two instructions conflict.
func ValidatePackagePrefixes(splitPackages, singlePackages, packagePrefixes []string) []error {
	// No package prefixes means no possible conflict.
	if len(packagePrefixes) == 0 {
		return nil
	}

	var errs []error
	for _, split := range splitPackages {
		if split == "*" {
			errs = append(errs, fmt.Errorf(
				"split package '*' conflicts with all package prefixes %s, "+
					"add split_packages:[] to fix",
				strings.Join(slashToDotAll(packagePrefixes), ", ")))
			continue
		}
		errs = append(errs, validateNotPrefixMatched("split package", split, packagePrefixes)...)
	}
	for _, single := range singlePackages {
		errs = append(errs, validateNotPrefixMatched("single package", single, packagePrefixes)...)
	}
	return errs
}

func validateNotPrefixMatched(packageType, pkg string, packagePrefixes []string) []error {
	if prefix, ok := matchedByPackagePrefix(packagePrefixes, pkg); ok {
		return []error{fmt.Errorf("%s %s is matched by package prefix %s",
			packageType, SlashToDot(pkg), SlashToDot(prefix))}
	}
	return nil
}

// Produce emits the smallest pattern set that selects exactly the given
// member signatures. Package names are slash-separated. Problems are
// accumulated so the caller can report every one in a single run; generation
// still completes.
func Produce(signatures, splitPackages, singlePackages, packagePrefixes []string) ([]string, []error) {
	splitAll := slices.Contains(splitPackages, "*")

	patterns := make(map[string]struct{})
	unmatched := make(map[string]struct{})
	for _, sig := range signatures {
		text := strings.TrimPrefix(sig, "L")
		qualifiedClass, _, _ := strings.Cut(text, ";->")
		pkg := qualifiedClass
		if i := strings.LastIndex(qualifiedClass, "/"); i >= 0 {
			pkg = qualifiedClass[:i]
		}
		switch {
		case splitAll || slices.Contains(splitPackages, pkg):
			// A split package cannot select by package name alone: keep the
			// class, but drop nested class names as an outer class cannot be
			// split across modules.
			outer, _, _ := strings.Cut(qualifiedClass, "$")
			patterns[outer] = struct{}{}
		case slices.Contains(singlePackages, pkg):
			// Every class in a single package comes from this module; the
			// package wildcard is enough.
			patterns[pkg+"/*"] = struct{}{}
		default:
			unmatched[pkg] = struct{}{}
		}
	}

	// Packages covered by a declared prefix are accounted for.
	var errs []error
	for _, pkg := range sortutil.SortedKeys(unmatched) {
		if _, ok := matchedByPackagePrefix(packagePrefixes, pkg); ok {
			continue
		}
		errs = append(errs, fmt.Errorf(
			"package %s is not listed in split_packages, single_packages or "+
				"package_prefixes", SlashToDot(pkg)))
	}

	// Drop patterns a prefix pattern would subsume, then append the prefix
	// patterns themselves.
	var out []string
	for pattern := range patterns {
		if _, ok := matchedByPackagePrefix(packagePrefixes, pattern); ok {
			continue
		}
		out = append(out, pattern)
	}
	for _, prefix := range packagePrefixes {
		out = append(out, prefix+"/**")
	}
	return sortutil.StableSort(out), errs
}
