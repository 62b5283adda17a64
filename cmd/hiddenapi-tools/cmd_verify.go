package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hiddenapi-tools/internal/flagfile"
	"hiddenapi-tools/internal/trie"
	"hiddenapi-tools/internal/verify"
)

var (
	verifyMonolithicFlags  string
	verifyModulePairs      []string
	verifyMissingAsBlocked bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify module flags against the monolithic flag set",
	Long: `Builds a trie from the monolithic flag file, then for each module uses the
module's signature patterns to extract the relevant monolithic subset and
compares it against the module's own flags.

A module is given as a FLAGS:PATTERNS file pair:

  hiddenapi-tools verify --monolithic-flags hiddenapi-flags.csv \
      --module art-flags.csv:art-patterns.csv

Mismatches are reported on stderr; any mismatch fails the command.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyMonolithicFlags, "monolithic-flags", "",
		"monolithic flag CSV containing an entry for every dex member")
	verifyCmd.Flags().StringArrayVar(&verifyModulePairs, "module", nil,
		"FLAGS:PATTERNS file pair for one module (repeatable)")
	verifyCmd.Flags().BoolVar(&verifyMissingAsBlocked, "missing-as-blocked", false,
		"treat signatures missing from a module's flags as blocked instead of empty")
	_ = verifyCmd.MarkFlagRequired("monolithic-flags")
}

// modulePair is one module's flag file and pattern file.
type modulePair struct {
	flagsPath    string
	patternsPath string
}

// parseModulePair splits a FLAGS:PATTERNS argument.
func parseModulePair(arg string) (modulePair, error) {
	flags, patterns, ok := strings.Cut(arg, ":")
	if !ok || flags == "" || patterns == "" {
		return modulePair{}, fmt.Errorf("invalid module %q: expected FLAGS:PATTERNS", arg)
	}
	return modulePair{flagsPath: flags, patternsPath: patterns}, nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	pairs := make([]modulePair, 0, len(verifyModulePairs))
	for _, arg := range verifyModulePairs {
		pair, err := parseModulePair(arg)
		if err != nil {
			return err
		}
		pairs = append(pairs, pair)
	}

	f, err := os.Open(verifyMonolithicFlags)
	if err != nil {
		return err
	}
	rows, err := flagfile.ReadRows(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("reading %s: %w", verifyMonolithicFlags, err)
	}
	monolithic, err := verify.BuildMonolithicTrie(rows)
	if err != nil {
		return fmt.Errorf("indexing %s: %w", verifyMonolithicFlags, err)
	}
	logger.Debug("indexed monolithic flags",
		zap.String("file", verifyMonolithicFlags), zap.Int("rows", len(rows)))

	policy := verify.MissingEmpty
	if verifyMissingAsBlocked {
		policy = verify.MissingBlocked
	}

	total := 0
	for _, pair := range pairs {
		mismatches, err := verifyModule(monolithic, pair, policy)
		if err != nil {
			return err
		}
		if len(mismatches) > 0 {
			fmt.Fprintf(os.Stderr, "ERROR: hidden API flags from %s are inconsistent with %s:\n",
				pair.flagsPath, verifyMonolithicFlags)
			if err := verify.WriteReport(os.Stderr, mismatches); err != nil {
				return err
			}
			total += len(mismatches)
		}
	}
	if total > 0 {
		return fmt.Errorf("%d inconsistent signatures", total)
	}
	return nil
}

func verifyModule(monolithic *trie.Trie[flagfile.Row], pair modulePair, policy verify.MissingPolicy) ([]verify.Mismatch, error) {
	pf, err := os.Open(pair.patternsPath)
	if err != nil {
		return nil, err
	}
	patterns, err := flagfile.ReadPatterns(pf)
	pf.Close()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", pair.patternsPath, err)
	}

	ff, err := os.Open(pair.flagsPath)
	if err != nil {
		return nil, err
	}
	modular, err := flagfile.ReadFlags(ff)
	ff.Close()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", pair.flagsPath, err)
	}

	subset, err := verify.ExtractSubset(monolithic, patterns)
	if err != nil {
		return nil, fmt.Errorf("extracting subset for %s: %w", pair.flagsPath, err)
	}
	logger.Debug("verifying module",
		zap.String("flags", pair.flagsPath),
		zap.Int("patterns", len(patterns)),
		zap.Int("subset", len(subset)))
	return verify.Compare(subset, modular, policy), nil
}
