package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"ProductScanner/internal/domain"
	"ProductScanner/internal/ports"
)

const (
	batchTimeLayout = "20060102_150405"
	summaryFileName = "summary.json"
)

// ErrSummaryCorrupt reports that the summary file exists but cannot be decoded.
var ErrSummaryCorrupt = errors.New("summary file is corrupt")

// FileStore persists batches and the cumulative summary as JSON files under a
// single data directory. Every write goes through a temp file followed by a
// rename, so readers never observe a partially written file.
type FileStore struct {
	dataDir string
}

var (
	_ ports.BatchStore   = (*FileStore)(nil)
	_ ports.SummaryStore = (*FileStore)(nil)
)

// NewFileStore roots the store at dataDir; the directory is created on first write.
func NewFileStore(dataDir string) *FileStore {
	return &FileStore{dataDir: dataDir}
}

type batchEntry struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Tagline     string          `json:"tagline"`
	Description string          `json:"description"`
	VotesCount  int             `json:"votesCount"`
	Topics      topicConnection `json:"topics"`
	ScrapedDate string          `json:"scraped_date"`
}

type topicConnection struct {
	Edges []topicEdge `json:"edges"`
}

type topicEdge struct {
	Node topicNode `json:"node"`
}

type topicNode struct {
	Name string `json:"name"`
}

// WriteBatch stores one run's accepted records as a UTC-timestamped JSON
// array in their processing order and returns the file path.
func (s *FileStore) WriteBatch(ctx context.Context, records []domain.ProductRecord, runTime time.Time) (string, error) {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}

	entries := make([]batchEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, toBatchEntry(rec))
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode batch: %w", err)
	}

	name := fmt.Sprintf("products_batch_%s.json", runTime.UTC().Format(batchTimeLayout))
	path := filepath.Join(s.dataDir, name)
	if err := writeFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("store batch: %w", err)
	}

	return path, nil
}

// LoadSummary reads the cumulative summary. A missing file is not an error,
// it means no run has completed yet.
func (s *FileStore) LoadSummary(ctx context.Context) (*domain.RunSummary, error) {
	path := filepath.Join(s.dataDir, summaryFileName)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read summary: %w", err)
	}

	var summary domain.RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSummaryCorrupt, err)
	}

	return &summary, nil
}

// SaveSummary replaces the cumulative summary file.
func (s *FileStore) SaveSummary(ctx context.Context, summary domain.RunSummary) error {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}

	path := filepath.Join(s.dataDir, summaryFileName)
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("store summary: %w", err)
	}

	return nil
}

func toBatchEntry(rec domain.ProductRecord) batchEntry {
	edges := make([]topicEdge, 0, len(rec.Topics))
	for _, topic := range rec.Topics {
		edges = append(edges, topicEdge{Node: topicNode{Name: topic}})
	}
	return batchEntry{
		ID:          rec.ID,
		Name:        rec.Name,
		Tagline:     rec.Tagline,
		Description: rec.Description,
		VotesCount:  rec.VotesCount,
		Topics:      topicConnection{Edges: edges},
		ScrapedDate: rec.FetchedAt.UTC().Format(time.RFC3339),
	}
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}

	return nil
}
