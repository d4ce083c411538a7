// Package delimited reads CSV/TSV exports and spreadsheet sheets into raw
// rows and guesses which column holds which transaction field.
package delimited

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/cleared-dev/stmtimport/internal/model"
)

// ErrSkipExceedsLines is returned when line skipping would leave nothing.
var ErrSkipExceedsLines = errors.New("skip count exceeds line count")

const bom = "\ufeff"

// Options controls how a delimited file is tokenized.
type Options struct {
	HasHeader bool
	Delimiter rune
}

// ParseDelimiter turns a configured delimiter into a rune. Empty text yields
// fallback; "tab" and `\t` are accepted for tab.
func ParseDelimiter(s string, fallback rune) rune {
	switch s {
	case "":
		return fallback
	case `\t`, "tab", "TAB":
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

// Parse tokenizes contents into rows. A leading byte-order mark is dropped,
// blank lines are skipped, and rows may have any number of cells. With a
// header the rows are NamedRow values, otherwise IndexedRow values.
func Parse(contents string, opts Options) ([]model.RawRow, error) {
	contents = strings.TrimPrefix(contents, bom)

	cr := csv.NewReader(strings.NewReader(contents))
	cr.Comma = opts.Delimiter
	if cr.Comma == 0 {
		cr.Comma = ','
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var records [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading delimited data: %w", err)
		}
		records = append(records, rec)
	}
	return buildRows(records, opts.HasHeader), nil
}

// ApplyLineSkips drops the first skipStart and last skipEnd lines of
// contents. A single trailing newline does not count as a line.
func ApplyLineSkips(contents string, skipStart, skipEnd int) (string, error) {
	if skipStart == 0 && skipEnd == 0 {
		return contents, nil
	}
	if skipStart < 0 || skipEnd < 0 {
		return "", fmt.Errorf("negative skip count (start %d, end %d)", skipStart, skipEnd)
	}
	lines := strings.Split(strings.TrimSuffix(contents, "\n"), "\n")
	if skipStart+skipEnd >= len(lines) {
		return "", fmt.Errorf("skipping %d+%d of %d lines: %w", skipStart, skipEnd, len(lines), ErrSkipExceedsLines)
	}
	return strings.Join(lines[skipStart:len(lines)-skipEnd], "\n"), nil
}

// ReadCell returns the cell of row referenced by ref, a header name or a
// numeric column index.
func ReadCell(row model.RawRow, ref string) (string, bool) {
	if row == nil || ref == "" {
		return "", false
	}
	return row.Cell(ref)
}

// buildRows trims cells, drops blank records, and shapes the rest.
func buildRows(records [][]string, hasHeader bool) []model.RawRow {
	var headers []string
	var rows []model.RawRow
	for _, rec := range records {
		cells := make([]string, len(rec))
		blank := true
		for i, c := range rec {
			cells[i] = strings.TrimSpace(c)
			if cells[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		if hasHeader && headers == nil {
			headers = cells
			continue
		}
		if hasHeader {
			rows = append(rows, model.NamedRow{Headers: headers, Cells: cells})
		} else {
			rows = append(rows, model.IndexedRow(cells))
		}
	}
	return rows
}
