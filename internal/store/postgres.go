package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/resume-insights/internal/db"
	"github.com/jonathan/resume-insights/internal/types"
)

// PostgresStore adapts db.DB to Store.
type PostgresStore struct {
	db *db.DB
}

// OpenPostgres connects to PostgreSQL and makes sure the analyses table exists.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is empty")
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return &PostgresStore{db: database}, nil
}

func (s *PostgresStore) Save(ctx context.Context, doc *types.AnalysisDocument) error {
	if _, err := documentID(doc); err != nil {
		return err
	}
	return s.db.SaveAnalysis(ctx, doc)
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*types.AnalysisDocument, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	doc, err := s.db.GetAnalysis(ctx, uuid.MustParse(id))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (s *PostgresStore) Latest(ctx context.Context) (*types.AnalysisDocument, error) {
	doc, err := s.db.LatestAnalysis(ctx)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]types.HistoryEntry, error) {
	rows, err := s.db.ListAnalyses(ctx, listLimit(limit))
	if err != nil {
		return nil, err
	}

	out := make([]types.HistoryEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, types.HistoryEntry{
			ID:       r.ID.String(),
			Name:     r.Filename,
			FileType: r.FileType,
			Score:    r.FitScore,
			Date:     r.UploadedAt,
		})
	}
	return out, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	deleted, err := s.db.DeleteAnalysis(ctx, uuid.MustParse(id))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
