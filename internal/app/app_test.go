package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms-evaluation/internal/metrics"
	"lms-evaluation/internal/schemas"
	"lms-evaluation/internal/storage"
)

type memStore struct {
	list    []schemas.EvaluationData
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load(context.Context) ([]schemas.EvaluationData, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.list, nil
}

func (m *memStore) Save(_ context.Context, list []schemas.EvaluationData) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.list = append([]schemas.EvaluationData(nil), list...)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ev(id string) schemas.EvaluationData {
	return schemas.EvaluationData{
		ID:                id,
		PlatformEvaluated: "Cypher",
		Scores:            schemas.Scores{"c": {Items: map[string]schemas.ScoreItem{"i": {Score: schemas.NewScore(3)}}}},
		OverallScore:      3,
	}
}

func TestLoad_CorruptStartsEmpty(t *testing.T) {
	m := metrics.New()
	a := New(&memStore{loadErr: storage.ErrCorrupt}, quietLogger(), m)

	a.Load(context.Background())

	assert.Empty(t, a.Evaluations())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreErrors.WithLabelValues("load")))
}

func TestAppend_PersistsWholeList(t *testing.T) {
	store := &memStore{list: []schemas.EvaluationData{ev("a")}}
	a := New(store, quietLogger(), nil)
	a.Load(context.Background())

	a.Append(context.Background(), ev("b"))
	a.Append(context.Background(), ev("c"))

	ids := func(list []schemas.EvaluationData) []string {
		out := make([]string, len(list))
		for i, e := range list {
			out[i] = e.ID
		}
		return out
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids(a.Evaluations()))
	assert.Equal(t, []string{"a", "b", "c"}, ids(store.list))
	assert.Equal(t, 2, store.saves)
}

func TestAppend_BeforeLoadDoesNotWrite(t *testing.T) {
	store := &memStore{}
	a := New(store, quietLogger(), nil)

	a.Append(context.Background(), ev("x"))

	assert.Equal(t, 0, store.saves)
	assert.Len(t, a.Evaluations(), 1)
}

func TestAppend_SaveFailureKeepsRecordInMemory(t *testing.T) {
	m := metrics.New()
	store := &memStore{saveErr: errors.New("disk full")}
	a := New(store, quietLogger(), m)
	a.Load(context.Background())

	a.Append(context.Background(), ev("x"))

	got, ok := a.Get("x")
	require.True(t, ok)
	assert.Equal(t, "x", got.ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreErrors.WithLabelValues("save")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EvaluationsSaved))
}

func TestEvaluations_ReturnsCopies(t *testing.T) {
	a := New(&memStore{}, quietLogger(), nil)
	a.Load(context.Background())
	a.Append(context.Background(), ev("x"))

	list := a.Evaluations()
	list[0].PlatformEvaluated = "changed"
	list[0].Scores["c"].Items["i"] = schemas.ScoreItem{}

	got, _ := a.Get("x")
	assert.Equal(t, "Cypher", got.PlatformEvaluated)
	assert.True(t, got.Scores["c"].Items["i"].Score.IsSet())

	_, ok := a.Get("missing")
	assert.False(t, ok)
}

func TestReload_FileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lms-evaluations.json")

	first := New(storage.NewFileStore(path), quietLogger(), nil)
	first.Load(ctx)
	for _, id := range []string{"1", "2", "3"} {
		first.Append(ctx, ev(id))
	}

	second := New(storage.NewFileStore(path), quietLogger(), nil)
	second.Load(ctx)
	assert.Equal(t, first.Evaluations(), second.Evaluations())
}
