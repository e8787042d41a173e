package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-insights/internal/types"
)

// AnalysisRow is one row of the analyses table.
type AnalysisRow struct {
	ID         uuid.UUID `json:"id"`
	Filename   string    `json:"filename"`
	FileType   string    `json:"file_type"`
	FitScore   int       `json:"fit_score"`
	UploadedAt time.Time `json:"uploaded_at"`
	Document   []byte    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// newAnalysisRow flattens a document into its indexed columns and JSON body.
func newAnalysisRow(doc *types.AnalysisDocument) (*AnalysisRow, error) {
	if doc == nil || doc.Metadata == nil {
		return nil, fmt.Errorf("analysis has no metadata")
	}
	id, err := uuid.Parse(doc.Metadata.FileID)
	if err != nil {
		return nil, fmt.Errorf("invalid analysis id %q: %w", doc.Metadata.FileID, err)
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis: %w", err)
	}

	return &AnalysisRow{
		ID:         id,
		Filename:   doc.Metadata.Filename,
		FileType:   doc.Metadata.FileType,
		FitScore:   doc.OverallInsights.FitScore,
		UploadedAt: doc.Metadata.UploadTime,
		Document:   body,
	}, nil
}

// Decode unmarshals the stored document.
func (r *AnalysisRow) Decode() (*types.AnalysisDocument, error) {
	var doc types.AnalysisDocument
	if err := json.Unmarshal(r.Document, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode analysis %s: %w", r.ID, err)
	}
	return &doc, nil
}
