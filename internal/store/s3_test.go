package store

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-insights/internal/config"
	"github.com/jonathan/resume-insights/internal/types"
)

// fakeS3 is an in-memory bucket implementing the calls S3Store makes.
type fakeS3 struct {
	s3iface.S3API

	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}}
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.StringValue(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.StringValue(in.Key)]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "no such key", nil)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) HeadObjectWithContext(_ aws.Context, in *s3.HeadObjectInput, _ ...request.Option) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.StringValue(in.Key)]; !ok {
		return nil, awserr.New("NotFound", "not found", nil)
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.StringValue(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2PagesWithContext(_ aws.Context, in *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, _ ...request.Option) error {
	f.mu.Lock()
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		if strings.HasPrefix(k, aws.StringValue(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	f.mu.Unlock()
	sort.Strings(keys)

	page := &s3.ListObjectsV2Output{}
	for _, k := range keys {
		page.Contents = append(page.Contents, &s3.Object{Key: aws.String(k)})
	}
	fn(page, true)
	return nil
}

func TestS3Store_SaveGet(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	s := NewS3Store(fake, "bucket", "analyses")

	doc := newDocument(77, time.Now())
	require.NoError(t, s.Save(ctx, doc))

	assert.Contains(t, fake.objects, "analyses/"+doc.ID()+".json")
	assert.Equal(t, doc.ID(), string(fake.objects["analyses/latest"]))

	got, err := s.Get(ctx, doc.ID())
	require.NoError(t, err)
	assert.Equal(t, 77, got.OverallInsights.FitScore)

	_, err = s.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestS3Store_LatestPointerOnlyMovesForward(t *testing.T) {
	ctx := context.Background()
	s := NewS3Store(newFakeS3(), "bucket", "analyses/")

	_, err := s.Latest(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	newer := newDocument(80, base.Add(time.Hour))
	older := newDocument(60, base)

	require.NoError(t, s.Save(ctx, newer))
	require.NoError(t, s.Save(ctx, older))

	got, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, newer.ID(), got.ID())
}

func TestS3Store_DeleteFallsBackToScan(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	s := NewS3Store(fake, "bucket", "analyses/")

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	first := newDocument(50, base)
	second := newDocument(65, base.Add(time.Minute))
	third := newDocument(90, base.Add(2*time.Minute))
	for _, doc := range []*types.AnalysisDocument{first, second, third} {
		require.NoError(t, s.Save(ctx, doc))
	}

	require.NoError(t, s.Delete(ctx, third.ID()))
	assert.NotContains(t, fake.objects, "analyses/latest")

	got, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID(), got.ID())

	assert.ErrorIs(t, s.Delete(ctx, third.ID()), ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "bad"), ErrInvalidID)
}

func TestS3Store_List(t *testing.T) {
	ctx := context.Background()
	s := NewS3Store(newFakeS3(), "bucket", "analyses/")

	entries, err := s.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	first := newDocument(50, base)
	second := newDocument(65, base.Add(time.Minute))
	for _, doc := range []*types.AnalysisDocument{first, second} {
		require.NoError(t, s.Save(ctx, doc))
	}

	entries, err = s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID(), entries[0].ID)
	assert.Equal(t, first.ID(), entries[1].ID)
	assert.Equal(t, 50, entries[1].Score)
}

func TestS3Store_DeleteKeepsPointerForOtherIDs(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	s := NewS3Store(fake, "bucket", "")

	base := time.Now()
	older := newDocument(50, base)
	newer := newDocument(60, base.Add(time.Second))
	require.NoError(t, s.Save(ctx, older))
	require.NoError(t, s.Save(ctx, newer))

	require.NoError(t, s.Delete(ctx, older.ID()))
	assert.Equal(t, newer.ID(), string(fake.objects["latest"]))
}

func TestOpenS3_RequiresBucketAndRegion(t *testing.T) {
	_, err := OpenS3(config.S3Config{Region: "us-east-1"})
	assert.Error(t, err)

	_, err = OpenS3(config.S3Config{Bucket: "b"})
	assert.Error(t, err)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(awserr.New(s3.ErrCodeNoSuchKey, "x", nil)))
	assert.True(t, isNotFound(awserr.New("NotFound", "x", nil)))
	assert.False(t, isNotFound(awserr.New("AccessDenied", "x", nil)))
	assert.False(t, isNotFound(io.EOF))
}
