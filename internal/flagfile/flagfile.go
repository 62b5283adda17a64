// Package flagfile reads and writes the line-oriented files exchanged with
// the build: flag CSV files (one signature per record, remaining fields are
// that signature's flags) and pattern files (one namespace pattern per line).
//
// CSV quoting is the escape mechanism for commas inside flag tokens; records
// have no fixed field count.
package flagfile

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Row is one record of a flag file: a member signature and its ordered flags.
type Row struct {
	Signature string
	Flags     []string
}

// ReadRows reads every record of a flag CSV in file order.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading flags: %w", err)
		}
		if len(record) == 1 && record[0] == "" {
			continue
		}
		rows = append(rows, Row{Signature: record[0], Flags: record[1:]})
	}
}

// ReadFlags reads a flag CSV into a signature -> flags map. A signature that
// appears more than once keeps its last record.
func ReadFlags(r io.Reader) (map[string][]string, error) {
	rows, err := ReadRows(r)
	if err != nil {
		return nil, err
	}
	flags := make(map[string][]string, len(rows))
	for _, row := range rows {
		flags[row.Signature] = row.Flags
	}
	return flags, nil
}

// ReadPatterns reads a pattern file: one pattern per line, trailing
// whitespace stripped, blank lines skipped.
func ReadPatterns(r io.Reader) ([]string, error) {
	return readLines(r)
}

// ReadClasses reads a class list file: one qualified class name per line.
func ReadClasses(r io.Reader) ([]string, error) {
	return readLines(r)
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading lines: %w", err)
	}
	return lines, nil
}

// WritePatterns writes one pattern per line.
func WritePatterns(w io.Writer, patterns []string) error {
	bw := bufio.NewWriter(w)
	for _, p := range patterns {
		if _, err := bw.WriteString(p + "\n"); err != nil {
			return fmt.Errorf("writing patterns: %w", err)
		}
	}
	return bw.Flush()
}
