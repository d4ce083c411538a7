package delimited

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/stmtimport/internal/model"
)

// ParseWorkbook reads the first sheet of an .xlsx workbook into rows, after
// dropping skipStart leading and skipEnd trailing sheet rows.
func ParseWorkbook(r io.Reader, hasHeader bool, skipStart, skipEnd int) ([]model.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	if skipStart < 0 || skipEnd < 0 {
		return nil, fmt.Errorf("negative skip count (start %d, end %d)", skipStart, skipEnd)
	}
	if skipStart > 0 || skipEnd > 0 {
		if skipStart+skipEnd >= len(records) {
			return nil, fmt.Errorf("skipping %d+%d of %d rows: %w", skipStart, skipEnd, len(records), ErrSkipExceedsLines)
		}
		records = records[skipStart : len(records)-skipEnd]
	}
	return buildRows(records, hasHeader), nil
}
