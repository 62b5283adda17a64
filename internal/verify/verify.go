// Package verify reconciles a module's hidden API flags against the
// monolithic flag set. The module's signature patterns select the relevant
// monolithic subset; every signature whose two flag lists differ becomes a
// Mismatch. Mismatches are result data, not errors: whether a non-empty list
// fails the run is the caller's decision.
package verify

import (
	"fmt"
	"io"
	"slices"

	"hiddenapi-tools/internal/diffreport"
	"hiddenapi-tools/internal/flagfile"
	"hiddenapi-tools/internal/sortutil"
	"hiddenapi-tools/internal/trie"
)

// MissingPolicy decides what flag list stands in for a signature that the
// module did not produce at all. A subset check treats absence as an empty
// list; a deny-by-default check substitutes the blocked flag so that an
// all-blocked monolithic entry still counts as agreement.
type MissingPolicy int

const (
	MissingEmpty MissingPolicy = iota
	MissingBlocked
)

// FlagBlocked is the flag denoting a member that is hidden from all APIs.
const FlagBlocked = "blocked"

// Mismatch records one signature whose modular and monolithic flags differ.
type Mismatch struct {
	Signature  string
	Modular    []string
	Monolithic []string
}

// BuildMonolithicTrie indexes the monolithic flag rows by signature.
func BuildMonolithicTrie(rows []flagfile.Row) (*trie.Trie[flagfile.Row], error) {
	t := trie.New[flagfile.Row]()
	for _, row := range rows {
		if err := t.Add(row.Signature, row); err != nil {
			return nil, err
		}
	}
	t.Seal()
	return t, nil
}

// ExtractSubset selects from the monolithic trie every row matched by one of
// the patterns and returns them keyed by signature.
func ExtractSubset(monolithic *trie.Trie[flagfile.Row], patterns []string) (map[string][]string, error) {
	subset := make(map[string][]string)
	for _, pattern := range patterns {
		rows, err := monolithic.GetMatchingRows(pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		for _, row := range rows {
			subset[row.Signature] = row.Flags
		}
	}
	return subset, nil
}

// Compare walks the union of signatures in the monolithic subset and the
// modular flag set and reports every signature whose flag lists differ.
// It never fails; all outcomes are in the returned slice, sorted by
// signature.
func Compare(monolithic, modular map[string][]string, missing MissingPolicy) []Mismatch {
	union := make(map[string]struct{}, len(monolithic)+len(modular))
	for sig := range monolithic {
		union[sig] = struct{}{}
	}
	for sig := range modular {
		union[sig] = struct{}{}
	}

	var mismatches []Mismatch
	for _, sig := range sortutil.SortedKeys(union) {
		monolithicFlags := monolithic[sig]
		modularFlags, ok := modular[sig]
		if !ok && missing == MissingBlocked {
			modularFlags = []string{FlagBlocked}
		}
		if !slices.Equal(modularFlags, monolithicFlags) {
			mismatches = append(mismatches, Mismatch{
				Signature:  sig,
				Modular:    modularFlags,
				Monolithic: monolithicFlags,
			})
		}
	}
	return mismatches
}

// WriteReport writes one block per mismatching signature: the signature
// followed by a unified diff between its monolithic and modular flag lists.
func WriteReport(w io.Writer, mismatches []Mismatch) error {
	for _, m := range mismatches {
		diff, err := diffreport.FlagLists(m.Monolithic, m.Modular, diffreport.Options{
			FromLabel: "monolithic",
			ToLabel:   "modular",
		})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\n%s\n", m.Signature, diff); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return nil
}
