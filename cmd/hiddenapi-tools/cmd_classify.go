package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hiddenapi-tools/internal/classify"
	"hiddenapi-tools/internal/flagfile"
)

var (
	classifyClassesPath    string
	classifyMonolithicPath string
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Derive split/single/prefix package properties for a module",
	Long: `Classifies every package the module contributes classes to, by comparing
the module's class list against the classes present in the monolithic flag
file. The result is the split_packages, single_packages and package_prefixes
property values to feed into pattern generation.`,
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringVar(&classifyClassesPath, "classes", "",
		"file listing the module's qualified class names, one per line")
	classifyCmd.Flags().StringVar(&classifyMonolithicPath, "monolithic-flags", "",
		"monolithic flag CSV containing an entry for every dex member")
	_ = classifyCmd.MarkFlagRequired("classes")
	_ = classifyCmd.MarkFlagRequired("monolithic-flags")
}

func runClassify(cmd *cobra.Command, args []string) error {
	cf, err := os.Open(classifyClassesPath)
	if err != nil {
		return err
	}
	classes, err := flagfile.ReadClasses(cf)
	cf.Close()
	if err != nil {
		return fmt.Errorf("reading %s: %w", classifyClassesPath, err)
	}

	mf, err := os.Open(classifyMonolithicPath)
	if err != nil {
		return err
	}
	rows, err := flagfile.ReadRows(mf)
	mf.Close()
	if err != nil {
		return fmt.Errorf("reading %s: %w", classifyMonolithicPath, err)
	}
	signatures := make([]string, 0, len(rows))
	for _, row := range rows {
		signatures = append(signatures, row.Signature)
	}

	t, err := classify.BuildTrie(classes, signatures)
	if err != nil {
		return fmt.Errorf("building provenance trie: %w", err)
	}
	res := classify.Packages(t, logger)
	logger.Debug("classified packages",
		zap.Int("split", len(res.SplitPackages)),
		zap.Int("single", len(res.SinglePackages)),
		zap.Int("prefixes", len(res.PackagePrefixes)))

	printProperty("split_packages", res.SplitPackages)
	printProperty("single_packages", res.SinglePackages)
	printProperty("package_prefixes", res.PackagePrefixes)
	return nil
}

// printProperty formats one property the way it appears in a build file.
func printProperty(name string, pkgs []string) {
	quoted := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		quoted = append(quoted, fmt.Sprintf("%q", p))
	}
	fmt.Printf("%s: [%s]\n", name, strings.Join(quoted, ", "))
}
