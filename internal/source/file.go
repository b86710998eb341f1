package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// FileSource reads a local CSV or XLSX file.
type FileSource struct {
	Path  string
	Sheet string
}

// Name implements Source.
func (s *FileSource) Name() string {
	return s.Path
}

// FetchRows implements Source.
func (s *FileSource) FetchRows(ctx context.Context) ([]model.VocabRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.Path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only source file.
			_ = cerr
		}
	}()

	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".csv":
		return ParseCSV(file)
	case ".xlsx":
		return ParseXLSX(file, s.Sheet)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, s.Path)
	}
}
