package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-insights/internal/catalog"
	"github.com/jonathan/resume-insights/internal/ingestion"
	"github.com/jonathan/resume-insights/internal/pipeline"
	"github.com/jonathan/resume-insights/internal/store"
	"github.com/jonathan/resume-insights/internal/types"
)

// multipart bodies carry some framing on top of the file itself
const multipartOverhead = 1 << 20

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"message": serviceName,
		"status":  "running",
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
	})
}

// handleUpload stores the uploaded file as <file_id><ext> and analyzes it.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(s.cfg.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			s.errorResponse(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File exceeds the %d MB limit", s.cfg.MaxUploadMB))
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			s.errorFrom(w, &ErrNoFile{})
		default:
			s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("Invalid upload: %v", err))
		}
		return
	}
	defer func() { _ = file.Close() }()

	if header.Filename == "" {
		s.errorFrom(w, &ErrNoFile{})
		return
	}
	if header.Size > maxBytes {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File exceeds the %d MB limit", s.cfg.MaxUploadMB))
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !ingestion.Supported(ext) {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf(
			"Invalid file type. Supported types: %s", strings.Join(ingestion.SupportedExtensions(), ", ")))
		return
	}

	fileID := uuid.NewString()
	path := filepath.Join(s.cfg.UploadDir, fileID+ext)
	if err := saveUpload(path, file); err != nil {
		s.logger.Error("failed to save upload", zap.String("file_id", fileID), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Error saving uploaded file")
		return
	}

	res, err := s.pipeline.Run(r.Context(), pipeline.RunOptions{
		Path:       path,
		FileID:     fileID,
		Filename:   filepath.Base(header.Filename),
		UploadTime: time.Now().UTC(),
		Persist:    true,
	})
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			s.logger.Warn("failed to remove upload", zap.String("path", path), zap.Error(rmErr))
		}
		s.logger.Error("failed to process upload", zap.String("file_id", fileID), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Error processing resume: %v", err))
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Resume uploaded and analyzed successfully",
		"file_id":  fileID,
		"analysis": res.Document,
	})
}

func saveUpload(path string, src io.Reader) error {
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return err
	}
	return dst.Close()
}

func (s *Server) handleUploadStatus(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Latest(r.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.jsonResponse(w, http.StatusNotFound, map[string]any{
				"success": false,
				"message": "No resume has been uploaded yet",
			})
			return
		}
		s.errorFrom(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":      true,
		"has_analysis": true,
		"file_id":      doc.ID(),
	})
}

// handleGetAnalysis returns the analysis named by ?file_id=, or the latest one.
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	fileID := r.URL.Query().Get("file_id")

	var (
		doc *types.AnalysisDocument
		err error
	)
	if fileID != "" {
		doc, err = s.store.Get(r.Context(), fileID)
		if errors.Is(err, store.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("Analysis not found for file_id: %s", fileID))
			return
		}
	} else {
		doc, err = s.store.Latest(r.Context())
		if errors.Is(err, store.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "No analysis available. Please upload a resume first.")
			return
		}
	}
	if err != nil {
		s.errorFrom(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    doc,
	})
}

// maxListLimit bounds ?limit= on the history listing.
const maxListLimit = 200

// handleListAnalyses returns the upload history, newest first.
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxListLimit {
			s.errorFrom(w, &ErrValidation{
				Field:   "limit",
				Message: fmt.Sprintf("must be an integer between 1 and %d", maxListLimit),
			})
			return
		}
		limit = n
	}

	entries, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.errorFrom(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":  true,
		"analyses": entries,
	})
}

func (s *Server) handleAnalysisSummary(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Latest(r.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "No analysis available")
			return
		}
		s.errorFrom(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"summary": doc.Summarize(),
	})
}

func (s *Server) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "id")

	if err := s.store.Delete(r.Context(), fileID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("Analysis not found for file_id: %s", fileID))
			return
		}
		s.errorFrom(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Analysis %s deleted successfully", fileID),
	})
}

// roleView is a catalog role labelled with the categories of its required skills.
type roleView struct {
	catalog.Role
	Focus []string `json:"focus"`
}

func (s *Server) handleRoles(w http.ResponseWriter, _ *http.Request) {
	roles := make([]roleView, 0, len(s.catalog.Roles))
	for _, role := range s.catalog.Roles {
		roles = append(roles, roleView{Role: role, Focus: s.catalog.Focus(role)})
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":          true,
		"roles":            roles,
		"skill_categories": s.catalog.SkillCategories,
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]any{
		"success": false,
		"detail":  message,
	})
}

func (s *Server) errorFrom(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
		message = "Internal server error"
	}
	s.errorResponse(w, status, message)
}
