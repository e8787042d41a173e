package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jonathan/resume-insights/internal/types"
)

// FileStore keeps one <id>.json file per analysis in a directory.
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store directory is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes the document through a temporary file so readers never see partial JSON.
func (s *FileStore) Save(_ context.Context, doc *types.AnalysisDocument) error {
	id, err := documentID(doc)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, id+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write analysis: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write analysis: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(id)); err != nil {
		return fmt.Errorf("failed to store analysis: %w", err)
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, id string) (*types.AnalysisDocument, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.path(id))
}

// Latest scans every stored analysis and returns the one with the newest upload time.
func (s *FileStore) Latest(_ context.Context) (*types.AnalysisDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, err := s.readAll()
	if err != nil {
		return nil, err
	}

	var latest *types.AnalysisDocument
	for _, doc := range docs {
		if doc.Metadata == nil {
			continue
		}
		if latest == nil || doc.Metadata.UploadTime.After(latest.Metadata.UploadTime) {
			latest = doc
		}
	}

	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (s *FileStore) List(_ context.Context, limit int) ([]types.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, err := s.readAll()
	if err != nil {
		return nil, err
	}
	return history(docs, limit), nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete analysis %s: %w", id, err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) readAll() ([]*types.AnalysisDocument, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}

	docs := make([]*types.AnalysisDocument, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		doc, err := s.read(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *FileStore) read(path string) (*types.AnalysisDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read analysis: %w", err)
	}

	var doc types.AnalysisDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode analysis %s: %w", filepath.Base(path), err)
	}
	return &doc, nil
}
