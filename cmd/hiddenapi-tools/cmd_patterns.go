package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hiddenapi-tools/internal/flagfile"
	"hiddenapi-tools/internal/patterns"
)

var (
	patternsFlagsPath      string
	patternsSplitPackages  []string
	patternsSinglePackages []string
	patternsPrefixes       []string
	patternsOutput         string
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Generate signature patterns selecting a module's flag subset",
	Long: `Generates the set of signature patterns that selects this module's subset
of the monolithic hidden API files. Package names are dot-separated.

Every package contributing a signature must be declared split (shared with
other modules), single (owned alone at this level), or covered by a package
prefix (owned recursively). All validation problems are reported in one run.`,
	RunE: runPatterns,
}

func init() {
	patternsCmd.Flags().StringVar(&patternsFlagsPath, "flags", "",
		"stub flags CSV which contains an entry for every dex member")
	patternsCmd.Flags().StringArrayVar(&patternsSplitPackages, "split-package", nil,
		"package split across multiple modules (repeatable, * for all)")
	patternsCmd.Flags().StringArrayVar(&patternsSinglePackages, "single-package", nil,
		"package unique to this module, sub-packages excluded (repeatable)")
	patternsCmd.Flags().StringArrayVar(&patternsPrefixes, "package-prefix", nil,
		"package prefix unique to this module, sub-packages included (repeatable)")
	patternsCmd.Flags().StringVar(&patternsOutput, "output", "",
		"generated signature pattern file")
	_ = patternsCmd.MarkFlagRequired("flags")
	_ = patternsCmd.MarkFlagRequired("output")
}

func runPatterns(cmd *cobra.Command, args []string) error {
	split := patterns.DotToSlashAll(patternsSplitPackages)
	single := patterns.DotToSlashAll(patternsSinglePackages)
	prefixes := patterns.DotToSlashAll(patternsPrefixes)

	var errs []error
	errs = append(errs, patterns.ValidateSplitPackages(split)...)
	errs = append(errs, patterns.ValidateSinglePackages(split, single)...)
	errs = append(errs, patterns.ValidatePackagePrefixes(split, single, prefixes)...)
	if err := reportAll(errs); err != nil {
		return err
	}

	f, err := os.Open(patternsFlagsPath)
	if err != nil {
		return err
	}
	rows, err := flagfile.ReadRows(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("reading %s: %w", patternsFlagsPath, err)
	}
	signatures := make([]string, 0, len(rows))
	for _, row := range rows {
		signatures = append(signatures, row.Signature)
	}

	produced, errs := patterns.Produce(signatures, split, single, prefixes)
	if err := reportAll(errs); err != nil {
		return err
	}
	logger.Debug("generated patterns",
		zap.Int("signatures", len(signatures)), zap.Int("patterns", len(produced)))

	out, err := os.Create(patternsOutput)
	if err != nil {
		return err
	}
	defer out.Close()
	return flagfile.WritePatterns(out, produced)
}

// reportAll prints every accumulated validation error so the user sees all
// problems in one run, then fails with a summary.
func reportAll(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, "ERROR:", e)
	}
	return fmt.Errorf("%d validation errors", len(errs))
}
