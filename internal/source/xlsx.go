package source

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// ParseXLSX decodes a workbook sheet with vocab and meaning header cells.
// An empty sheet name selects the first worksheet.
func ParseXLSX(r io.Reader, sheet string) ([]model.VocabRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close for read-only workbook.
			_ = cerr
		}
	}()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoRows
		}
		sheet = sheets[0]
	}
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rowsFromRecords(records)
}
