// Package store persists compiled analyses behind a backend-neutral interface.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-insights/internal/config"
	"github.com/jonathan/resume-insights/internal/types"
)

var (
	// ErrNotFound is returned when no analysis matches the request.
	ErrNotFound = errors.New("analysis not found")
	// ErrInvalidID is returned for analysis ids that are not UUIDs.
	ErrInvalidID = errors.New("invalid analysis id")
)

// Store persists analysis documents keyed by their file id.
type Store interface {
	// Save inserts or replaces the document. It must carry metadata with a valid id.
	Save(ctx context.Context, doc *types.AnalysisDocument) error
	// Get returns the document with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (*types.AnalysisDocument, error)
	// Latest returns the most recently uploaded document or ErrNotFound.
	Latest(ctx context.Context) (*types.AnalysisDocument, error)
	// List returns up to limit history rows, newest upload first. A limit below 1 means DefaultListLimit.
	List(ctx context.Context, limit int) ([]types.HistoryEntry, error)
	// Delete removes the document with the given id or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
	Close() error
}

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 50

// ValidateID checks that id is a UUID.
func ValidateID(id string) error {
	if err := uuid.Validate(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func documentID(doc *types.AnalysisDocument) (string, error) {
	if doc == nil || doc.Metadata == nil {
		return "", fmt.Errorf("analysis has no metadata")
	}
	id := doc.ID()
	if err := ValidateID(id); err != nil {
		return "", err
	}
	return id, nil
}

func listLimit(limit int) int {
	if limit < 1 {
		return DefaultListLimit
	}
	return limit
}

// history sorts documents newest first and returns the first limit rows.
// Documents without metadata are skipped.
func history(docs []*types.AnalysisDocument, limit int) []types.HistoryEntry {
	kept := make([]*types.AnalysisDocument, 0, len(docs))
	for _, doc := range docs {
		if doc.Metadata != nil {
			kept = append(kept, doc)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Metadata.UploadTime.After(kept[j].Metadata.UploadTime)
	})

	limit = listLimit(limit)
	if len(kept) > limit {
		kept = kept[:limit]
	}
	out := make([]types.HistoryEntry, 0, len(kept))
	for _, doc := range kept {
		out = append(out, doc.History())
	}
	return out
}

// Open creates the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Backend {
	case config.BackendFile, "":
		logger.Info("using file analysis store", zap.String("dir", cfg.Dir))
		return NewFileStore(cfg.Dir)
	case config.BackendPostgres:
		logger.Info("using postgres analysis store")
		return OpenPostgres(ctx, cfg.DatabaseURL)
	case config.BackendS3:
		logger.Info("using s3 analysis store",
			zap.String("bucket", cfg.S3.Bucket),
			zap.String("region", cfg.S3.Region),
			zap.String("prefix", cfg.S3.Prefix),
		)
		return OpenS3(cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
