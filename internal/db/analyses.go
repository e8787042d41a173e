package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-insights/internal/types"
)

const selectAnalysis = `SELECT id, filename, file_type, fit_score, uploaded_at, document, created_at FROM analyses`

// SaveAnalysis inserts or replaces an analysis keyed by its file id.
func (db *DB) SaveAnalysis(ctx context.Context, doc *types.AnalysisDocument) error {
	row, err := newAnalysisRow(doc)
	if err != nil {
		return err
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO analyses (id, filename, file_type, fit_score, uploaded_at, document)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET filename = $2, file_type = $3, fit_score = $4,
		   uploaded_at = $5, document = $6`,
		row.ID, row.Filename, row.FileType, row.FitScore, row.UploadedAt, row.Document,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis %s: %w", row.ID, err)
	}
	return nil
}

// GetAnalysis retrieves an analysis by id. It returns nil, nil when none exists.
func (db *DB) GetAnalysis(ctx context.Context, id uuid.UUID) (*types.AnalysisDocument, error) {
	row, err := db.queryRow(ctx, selectAnalysis+` WHERE id = $1`, id)
	if err != nil || row == nil {
		return nil, err
	}
	return row.Decode()
}

// LatestAnalysis retrieves the most recently uploaded analysis, or nil, nil when the table is empty.
func (db *DB) LatestAnalysis(ctx context.Context) (*types.AnalysisDocument, error) {
	row, err := db.queryRow(ctx, selectAnalysis+` ORDER BY uploaded_at DESC, created_at DESC LIMIT 1`)
	if err != nil || row == nil {
		return nil, err
	}
	return row.Decode()
}

// DeleteAnalysis removes an analysis. It reports whether a row was deleted.
func (db *DB) DeleteAnalysis(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM analyses WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete analysis %s: %w", id, err)
	}
	return result.RowsAffected() > 0, nil
}

// ListAnalyses returns the most recent analyses without their documents.
func (db *DB) ListAnalyses(ctx context.Context, limit int) ([]AnalysisRow, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, filename, file_type, fit_score, uploaded_at, created_at
		 FROM analyses ORDER BY uploaded_at DESC, created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var out []AnalysisRow
	for rows.Next() {
		var r AnalysisRow
		if err := rows.Scan(&r.ID, &r.Filename, &r.FileType, &r.FitScore, &r.UploadedAt, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return out, nil
}

func (db *DB) queryRow(ctx context.Context, query string, args ...any) (*AnalysisRow, error) {
	var r AnalysisRow
	err := db.pool.QueryRow(ctx, query, args...).
		Scan(&r.ID, &r.Filename, &r.FileType, &r.FitScore, &r.UploadedAt, &r.Document, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return &r, nil
}
