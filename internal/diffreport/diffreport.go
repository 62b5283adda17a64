// Package diffreport renders unified diffs between two flag lists for the
// mismatch report. It uses github.com/pmezard/go-difflib/difflib to produce
// classic unified output (---/+++ headers, @@ hunks, '-'/'+' lines).
package diffreport

import (
	"fmt"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// Options controls diff rendering.
type Options struct {
	// Context is the number of context lines in unified hunks. If 0,
	// default to 3.
	Context int

	// FromLabel and ToLabel name the two sides in the diff header.
	FromLabel string
	ToLabel   string
}

// FlagLists produces a unified diff between two ordered flag lists, one flag
// per line. Identical lists produce an empty string.
func FlagLists(from, to []string, opt Options) (string, error) {
	ctx := opt.Context
	if ctx <= 0 {
		ctx = 3
	}
	u := difflib.UnifiedDiff{
		A:        flagLines(from),
		B:        flagLines(to),
		FromFile: opt.FromLabel,
		ToFile:   opt.ToLabel,
		Context:  ctx,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return "", fmt.Errorf("rendering flag diff: %w", err)
	}
	return s, nil
}

// flagLines converts a flag list into newline-terminated lines, which
// produces better unified hunks.
func flagLines(flags []string) []string {
	lines := make([]string, 0, len(flags))
	for _, f := range flags {
		lines = append(lines, f+"\n")
	}
	return lines
}
