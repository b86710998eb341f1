package source

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// ParseCSV decodes a header-led CSV document with vocab and meaning columns.
func ParseCSV(r io.Reader) ([]model.VocabRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return rowsFromRecords(records)
}
