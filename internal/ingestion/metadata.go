package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// Metadata describes an ingested resume document.
type Metadata struct {
	Filename   string `json:"filename"`
	Format     string `json:"format"`
	Timestamp  string `json:"timestamp"`  // RFC3339
	Hash       string `json:"hash"`       // SHA256 of the cleaned text
	Characters int    `json:"characters"` // rune count of the cleaned text
}

// NewMetadata describes the cleaned text extracted from path.
func NewMetadata(path string, text string) *Metadata {
	return &Metadata{
		Filename:   filepath.Base(path),
		Format:     strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Hash:       computeHash(text),
		Characters: utf8.RuneCountInString(text),
	}
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to indented JSON.
func (m *Metadata) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return data, nil
}
