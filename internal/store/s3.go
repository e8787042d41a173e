package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/jonathan/resume-insights/internal/config"
	"github.com/jonathan/resume-insights/internal/types"
)

const latestKey = "latest"

// S3Store keeps each analysis as <prefix><id>.json and records the most recent id in
// a <prefix>latest pointer object.
type S3Store struct {
	client s3iface.S3API
	bucket string
	prefix string
}

// OpenS3 creates an S3 client from the default credential chain.
func OpenS3(cfg config.S3Config) (*S3Store, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("s3 bucket and region are required")
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return NewS3Store(s3.New(sess), cfg.Bucket, cfg.Prefix), nil
}

// NewS3Store wraps an existing client.
func NewS3Store(client s3iface.S3API, bucket, prefix string) *S3Store {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) key(id string) string {
	return s.prefix + id + ".json"
}

func (s *S3Store) Save(ctx context.Context, doc *types.AnalysisDocument) error {
	id, err := documentID(doc)
	if err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	if err := s.put(ctx, s.key(id), data, "application/json"); err != nil {
		return fmt.Errorf("failed to upload analysis %s: %w", id, err)
	}

	// Only move the pointer forward in upload time.
	current, err := s.latestFromPointer(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if current != nil && current.Metadata != nil && current.Metadata.UploadTime.After(doc.Metadata.UploadTime) {
		return nil
	}
	if err := s.put(ctx, s.prefix+latestKey, []byte(id), "text/plain"); err != nil {
		return fmt.Errorf("failed to update latest pointer: %w", err)
	}
	return nil
}

func (s *S3Store) Get(ctx context.Context, id string) (*types.AnalysisDocument, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	data, err := s.get(ctx, s.key(id))
	if err != nil {
		return nil, err
	}

	var doc types.AnalysisDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode analysis %s: %w", id, err)
	}
	return &doc, nil
}

// Latest follows the pointer object. When the pointer is missing or stale it falls back
// to scanning every stored analysis.
func (s *S3Store) Latest(ctx context.Context) (*types.AnalysisDocument, error) {
	doc, err := s.latestFromPointer(ctx)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return s.scanLatest(ctx)
}

// List downloads every stored analysis to order them by upload time.
func (s *S3Store) List(ctx context.Context, limit int) ([]types.HistoryEntry, error) {
	docs, err := s.scanAll(ctx)
	if err != nil {
		return nil, err
	}
	return history(docs, limit), nil
}

func (s *S3Store) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to look up analysis %s: %w", id, err)
	}

	_, err = s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete analysis %s: %w", id, err)
	}

	pointer, err := s.get(ctx, s.prefix+latestKey)
	if err == nil && string(pointer) == id {
		_, err = s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.prefix + latestKey),
		})
		if err != nil {
			return fmt.Errorf("failed to clear latest pointer: %w", err)
		}
	}
	return nil
}

func (s *S3Store) Close() error {
	return nil
}

func (s *S3Store) latestFromPointer(ctx context.Context) (*types.AnalysisDocument, error) {
	pointer, err := s.get(ctx, s.prefix+latestKey)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, strings.TrimSpace(string(pointer)))
}

func (s *S3Store) scanLatest(ctx context.Context) (*types.AnalysisDocument, error) {
	docs, err := s.scanAll(ctx)
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

// scanAll downloads every analysis under the prefix. Objects deleted mid-scan are skipped.
func (s *S3Store) scanAll(ctx context.Context) ([]*types.AnalysisDocument, error) {
	var ids []string
	err := s.client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	}, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, obj := range page.Contents {
			name := path.Base(aws.StringValue(obj.Key))
			if id, ok := strings.CutSuffix(name, ".json"); ok && ValidateID(id) == nil {
				ids = append(ids, id)
			}
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}

	docs := make([]*types.AnalysisDocument, 0, len(ids))
	for _, id := range ids {
		doc, err := s.Get(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *S3Store) put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return err
}

func (s *S3Store) get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

func isNotFound(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}
	switch aerr.Code() {
	case s3.ErrCodeNoSuchKey, "NotFound":
		return true
	}
	return false
}
