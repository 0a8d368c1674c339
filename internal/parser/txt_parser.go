package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Parse reads one C-V measurement file and turns it into a validated
// SweepTable plus filename-derived metadata.
//
// The file is decoded as UTF-8 when valid, otherwise as ISO-8859-1 (the
// instruments in the field export either). Commas are rewritten to dots
// before any structural parsing, so locale-formatted decimals parse
// cleanly; this assumes input files contain no commas outside numeric
// fields. Only lines with at least three whitespace-delimited tokens are
// kept (headers, footers and blank lines drop out here), and of those only
// the first three columns are read. Rows with an unparsable value in any of
// the three columns are dropped with a warning.
//
// Returns ErrEncoding, ErrEmptyAfterFilter or ErrInsufficientColumns when
// the file as a whole is unusable; each is a skip-this-file condition.
func Parse(path string, extractor MetadataExtractor) (*ParsedSweep, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	filename := filepath.Base(path)
	result := &ParsedSweep{
		Filename: filename,
		Metadata: extractor.Extract(filename),
	}

	text, warning, err := decodeText(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}

	// Locale normalization applies to the whole text, not just numeric
	// fields.
	text = strings.ReplaceAll(text, ",", ".")

	retained := 0
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		retained++

		row, ok := parseRow(fields)
		if !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: dropped non-numeric row %q", filename, strings.TrimSpace(line)))
			continue
		}
		result.Table.Rows = append(result.Table.Rows, row)
	}

	if retained == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrEmptyAfterFilter)
	}
	if len(result.Table.Rows) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrInsufficientColumns)
	}
	return result, nil
}

// decodeText tries strict UTF-8 first and falls back to ISO-8859-1. The
// second return value carries a warning when the fallback was taken.
func decodeText(raw []byte) (string, string, error) {
	if utf8.Valid(raw) {
		return string(raw), "", nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", "", ErrEncoding
	}
	return string(decoded), "decoded using ISO-8859-1 fallback encoding", nil
}

// parseRow converts the first three tokens of a retained line. Extra
// columns are ignored.
func parseRow(fields []string) (SweepRow, bool) {
	vals := make([]float64, 3)
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return SweepRow{}, false
		}
		vals[i] = v
	}
	return SweepRow{Voltage: vals[0], CapForward: vals[1], CapBackward: vals[2]}, true
}
