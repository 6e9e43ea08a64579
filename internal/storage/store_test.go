package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms-evaluation/internal/schemas"
)

func sampleList(n int) []schemas.EvaluationData {
	list := make([]schemas.EvaluationData, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, schemas.EvaluationData{
			ID:                string(rune('a' + i)),
			ReviewerName:      "Reviewer",
			ReviewerEmail:     "r@example.com",
			EvaluationDate:    "2025-02-01",
			PlatformEvaluated: "Kaltura",
			Scores: schemas.Scores{
				"integrations": {Items: map[string]schemas.ScoreItem{
					"sso_integration":   {Score: schemas.NewScore(i%5 + 1), Comments: "note"},
					"api_extensibility": {},
				}},
			},
			OverallScore: float64(i%5 + 1),
			Timestamp:    "2025-02-01T10:00:00.000Z",
		})
	}
	return list
}

func TestFileStore_MissingIsEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "none.json"))
	list, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "nested", "lms-evaluations.json"))
	want := sampleList(3)

	require.NoError(t, s.Save(ctx, want))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// overwrite, not append
	require.NoError(t, s.Save(ctx, want[:1]))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want[:1], got)

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path).Load(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestFileStore_LegacyBrowserExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.json")
	legacy := `[{"id":"x","reviewerName":"A","reviewerEmail":"a@b.c","evaluationDate":"2024-01-01","platformEvaluated":"Cypher","scores":{"integrations":{"items":{"sso_integration":{"score":"","comments":""},"api_extensibility":{"score":4,"comments":"ok"}}}},"overallScore":4,"timestamp":"2024-01-01T00:00:00.000Z"}]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	list, err := NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	it, _ := list[0].Scores.Item("integrations", "sso_integration")
	assert.False(t, it.Score.IsSet())
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, cleanup, err := Open(ctx, Options{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "evals.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	list, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	want := sampleList(4)
	require.NoError(t, store.Save(ctx, want))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, store.Save(ctx, want[2:]))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want[2:], got)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, _, err := Open(context.Background(), Options{Driver: "redis"}, nil)
	assert.EqualError(t, err, `unknown storage driver "redis"`)
}

type fakeObjects struct {
	data   map[string][]byte
	getErr error
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	b, ok := f.data[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.data[*in.Bucket+"/"+*in.Key] = b
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	objects := &fakeObjects{data: map[string][]byte{}}
	s := newS3Store(objects, "evals", "", nil)
	assert.Equal(t, "s3://evals/lms-evaluations.json", s.Ref())

	list, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	want := sampleList(2)
	require.NoError(t, s.Save(ctx, want))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	objects.getErr = errors.New("connection refused")
	_, err = s.Load(ctx)
	assert.ErrorContains(t, err, "get s3://evals/lms-evaluations.json: connection refused")
}

func TestS3Store_GenericNotFound(t *testing.T) {
	objects := &fakeObjects{data: map[string][]byte{}, getErr: &smithy.GenericAPIError{Code: "NotFound"}}
	list, err := newS3Store(objects, "evals", "evals.json", nil).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}
