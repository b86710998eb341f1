package source

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/tuivoc/internal/model"
)

const maxDocumentBytes = 32 << 20

// HTTPSource downloads a CSV document. When CacheDir is set, successful
// downloads are cached and served if a later download fails.
type HTTPSource struct {
	URL      string
	CacheDir string
	Client   *http.Client
	// MaxBytes bounds the document size; 0 means 32 MiB.
	MaxBytes int64
}

// NewHTTPSource returns an HTTP source with a 60 second client timeout.
func NewHTTPSource(url, cacheDir string) *HTTPSource {
	return &HTTPSource{
		URL:      url,
		CacheDir: cacheDir,
		Client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Name implements Source.
func (s *HTTPSource) Name() string {
	return s.URL
}

// FetchRows implements Source.
func (s *HTTPSource) FetchRows(ctx context.Context) ([]model.VocabRow, error) {
	data, err := s.download(ctx)
	if err == nil {
		var rows []model.VocabRow
		rows, err = ParseCSV(bytes.NewReader(data))
		if err == nil {
			// Cache is optional.
			_ = s.writeCache(data)
			return rows, nil
		}
	}
	cached, cerr := s.readCache()
	if cerr != nil {
		return nil, err
	}
	return cached, fmt.Errorf("%w: %v", ErrStale, err)
}

func (s *HTTPSource) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}
	limit := s.MaxBytes
	if limit <= 0 {
		limit = maxDocumentBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}

// CachePath returns the cache file for the source URL, or "" when caching is off.
func (s *HTTPSource) CachePath() string {
	if s.CacheDir == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s.URL))
	return filepath.Join(s.CacheDir, hex.EncodeToString(sum[:8])+".csv")
}

func (s *HTTPSource) readCache() ([]model.VocabRow, error) {
	path := s.CachePath()
	if path == "" {
		return nil, errors.New("cache disabled")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCSV(bytes.NewReader(data))
}

func (s *HTTPSource) writeCache(data []byte) error {
	path := s.CachePath()
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "vocab-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp cache: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close cache: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move cache into place: %w", err)
	}
	return nil
}
