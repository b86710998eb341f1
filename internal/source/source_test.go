package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/xuri/excelize/v2"
)

const sheetCSV = "\ufeffVocab,Meaning,Note\r\ncat,con mèo,pet\r\ndog,con chó,\r\n\"fish, small\",con cá,\r\n,,\r\nbird,,\r\n"

func TestParseCSV(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader(sheetCSV))
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d: %+v", len(rows), rows)
	}
	if rows[0].Vocab != "cat" || rows[0].Meaning != "con mèo" {
		t.Fatalf("unexpected first row %+v", rows[0])
	}
	if rows[2].Vocab != "fish, small" {
		t.Fatalf("expected quoted vocab, got %q", rows[2].Vocab)
	}
}

func TestParseCSVMissingColumn(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("word,meaning\ncat,con mèo\n"))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected missing column error, got %v", err)
	}
}

func TestParseCSVNoRows(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("vocab,meaning\n,\n"))
	if !errors.Is(err, ErrNoRows) {
		t.Fatalf("expected no rows error, got %v", err)
	}
	_, err = ParseCSV(strings.NewReader(""))
	if !errors.Is(err, ErrNoRows) {
		t.Fatalf("expected no rows error for empty input, got %v", err)
	}
}

func TestHTTPSourceFetchesAndCaches(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if fail.Load() {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, sheetCSV)
	}))
	t.Cleanup(srv.Close)

	src := NewHTTPSource(srv.URL, t.TempDir())
	rows, err := src.FetchRows(context.Background())
	if err != nil {
		t.Fatalf("fetch rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if _, err := os.Stat(src.CachePath()); err != nil {
		t.Fatalf("expected cache file: %v", err)
	}

	fail.Store(true)
	rows, err = src.FetchRows(context.Background())
	if !IsStale(rows, err) {
		t.Fatalf("expected stale rows, got %d rows and %v", len(rows), err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 cached rows, got %d", len(rows))
	}
}

func TestHTTPSourceFailureWithoutCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	src := NewHTTPSource(srv.URL, "")
	rows, err := src.FetchRows(context.Background())
	if err == nil || rows != nil {
		t.Fatalf("expected failure, got %v rows and %v", rows, err)
	}
	if IsStale(rows, err) {
		t.Fatalf("did not expect stale result")
	}
}

func TestHTTPSourceRejectsOversizedDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, sheetCSV)
	}))
	t.Cleanup(srv.Close)

	src := NewHTTPSource(srv.URL, "")
	src.MaxBytes = int64(len(sheetCSV)) - 1
	rows, err := src.FetchRows(context.Background())
	if !errors.Is(err, ErrTooLarge) || rows != nil {
		t.Fatalf("expected too large error, got %d rows and %v", len(rows), err)
	}

	src.MaxBytes = int64(len(sheetCSV))
	rows, err = src.FetchRows(context.Background())
	if err != nil || len(rows) != 3 {
		t.Fatalf("expected document at the limit to load, got %d rows and %v", len(rows), err)
	}
}

func TestFileSourceXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.xlsx")
	f := excelize.NewFile()
	values := [][]any{
		{"vocab", "meaning"},
		{"cat", "con mèo"},
		{"dog", "con chó"},
	}
	for i, row := range values {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cellName, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	_ = f.Close()

	src, err := New(path, Options{})
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	rows, err := src.FetchRows(context.Background())
	if err != nil {
		t.Fatalf("fetch rows: %v", err)
	}
	if len(rows) != 2 || rows[1].Meaning != "con chó" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestFileSourceCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.csv")
	if err := os.WriteFile(path, []byte(sheetCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	src, err := New(path, Options{})
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	rows, err := src.FetchRows(context.Background())
	if err != nil || len(rows) != 3 {
		t.Fatalf("unexpected result: %d rows, %v", len(rows), err)
	}
}

func TestNewRoutesByLocation(t *testing.T) {
	src, err := New(DefaultURL, Options{})
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	if _, ok := src.(*HTTPSource); !ok {
		t.Fatalf("expected http source, got %T", src)
	}
	if _, err := New("words.txt", Options{}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
	if _, err := New("  ", Options{}); err == nil {
		t.Fatalf("expected error for empty location")
	}
}
