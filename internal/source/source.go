// Package source loads vocabulary rows from remote or local tabular data.
package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// DefaultURL is the published vocabulary sheet.
const DefaultURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vTYOz6-NUSu6cKmSdiGumlCs0sgfPnaipbnnQwWEFTQAqOHGFPojbLPFrm91fS44vNUpR2jhk0iXuau/pub?output=csv"

const (
	vocabColumn   = "vocab"
	meaningColumn = "meaning"
)

var (
	// ErrMissingColumn is returned when the header lacks a vocab or meaning column.
	ErrMissingColumn = errors.New("missing column")
	// ErrNoRows is returned when the data holds no usable rows.
	ErrNoRows = errors.New("no vocabulary rows")
	// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrStale accompanies rows served from the local cache after a failed download.
	ErrStale = errors.New("serving cached rows")
	// ErrTooLarge reports a downloaded document over the size limit.
	ErrTooLarge = errors.New("document too large")
)

// Source fetches the full vocabulary list in one call.
type Source interface {
	FetchRows(ctx context.Context) ([]model.VocabRow, error)
	Name() string
}

// Options configures New.
type Options struct {
	// Sheet selects a worksheet for XLSX sources; empty uses the first one.
	Sheet string
	// CacheDir enables the download cache for HTTP sources.
	CacheDir string
}

// New returns an HTTP source for http(s) locations and a file source otherwise.
func New(location string, opts Options) (Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("source location is empty")
	}
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return NewHTTPSource(location, opts.CacheDir), nil
	}
	switch strings.ToLower(filepath.Ext(location)) {
	case ".csv", ".xlsx":
		return &FileSource{Path: location, Sheet: opts.Sheet}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, location)
	}
}

// IsStale reports whether rows returned alongside err came from the cache.
func IsStale(rows []model.VocabRow, err error) bool {
	return len(rows) > 0 && errors.Is(err, ErrStale)
}

// rowsFromRecords maps a header row plus records to vocabulary rows.
func rowsFromRecords(records [][]string) ([]model.VocabRow, error) {
	if len(records) == 0 {
		return nil, ErrNoRows
	}
	vocabIdx, meaningIdx := -1, -1
	for i, name := range records[0] {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case vocabColumn:
			if vocabIdx == -1 {
				vocabIdx = i
			}
		case meaningColumn:
			if meaningIdx == -1 {
				meaningIdx = i
			}
		}
	}
	if vocabIdx == -1 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, vocabColumn)
	}
	if meaningIdx == -1 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, meaningColumn)
	}

	rows := make([]model.VocabRow, 0, len(records)-1)
	for _, record := range records[1:] {
		vocab := cell(record, vocabIdx)
		meaning := cell(record, meaningIdx)
		if vocab == "" || meaning == "" {
			continue
		}
		rows = append(rows, model.VocabRow{Vocab: vocab, Meaning: meaning})
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows, nil
}

func cell(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
