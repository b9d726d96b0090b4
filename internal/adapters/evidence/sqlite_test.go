package evidence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/veritas/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	fixed := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store, err := New(filepath.Join(t.TempDir(), "evidence.db"),
		WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_PutStampsMetadata(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	vec := Encode(Features{Accuracy: 0.9, TaskID: "task-1"})
	err := store.Put(ctx, TruthKey("task-1"), vec, map[string]any{"agentId": "agent-1"})
	require.NoError(t, err)

	meta, err := store.Get(ctx, "truth:task-1")
	require.NoError(t, err)
	require.NotNil(t, meta)

	require.Equal(t, "agent-1", meta["agentId"])
	require.Equal(t, "truth", meta[MetaKeyType])
	// JSON round-trips numbers as float64.
	require.Equal(t, float64(MetadataVersion), meta[MetaKeyVersion])
	storedAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC).UnixMilli()
	require.Equal(t, float64(storedAt), meta[MetaKeyStoredAt])
}

func TestStore_GetMissingKeyIsNil(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	meta, err := store.Get(ctx, "truth:absent")
	require.NoError(t, err)
	require.Nil(t, meta)
}

func TestStore_PutReplacesExisting(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	vec := Encode(Features{TaskID: "task-1"})
	require.NoError(t, store.Put(ctx, "truth:task-1", vec, map[string]any{"rev": 1}))
	require.NoError(t, store.Put(ctx, "truth:task-1", vec, map[string]any{"rev": 2}))

	meta, err := store.Get(ctx, "truth:task-1")
	require.NoError(t, err)
	require.Equal(t, float64(2), meta["rev"])

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.VectorCount)
}

func TestStore_PutRejectsWrongDimension(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	err := store.Put(ctx, "truth:task-1", []float64{1, 2, 3}, nil)
	require.Error(t, err)

	var domErr *core.DomainError
	require.ErrorAs(t, err, &domErr)
	require.Equal(t, core.ErrCatValidation, domErr.Category)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	vec := Encode(Features{TaskID: "task-1"})
	require.NoError(t, store.Put(ctx, "truth:task-1", vec, nil))

	existed, err := store.Delete(ctx, "truth:task-1")
	require.NoError(t, err)
	require.True(t, existed)

	existed, err = store.Delete(ctx, "truth:task-1")
	require.NoError(t, err)
	require.False(t, existed)

	meta, err := store.Get(ctx, "truth:task-1")
	require.NoError(t, err)
	require.Nil(t, meta)
}

func TestStore_SearchRanksBySimilarity(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	near := Encode(Features{Accuracy: 0.9, Confidence: 0.5, TaskID: "task-near"})
	far := Encode(Features{Accuracy: 0.1, Passed: true, TaskID: "task-far"})
	require.NoError(t, store.Put(ctx, "truth:task-near", near, nil))
	require.NoError(t, store.Put(ctx, "truth:task-far", far, nil))

	query := Encode(Features{Accuracy: 0.9, Confidence: 0.5, TaskID: "task-near"})
	results, err := store.Search(ctx, query, SearchOptions{K: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Equal(t, "truth:task-near", results[0].Key)
	require.InDelta(t, 1.0, results[0].Similarity, 1e-9)
	require.Greater(t, results[0].Similarity, results[1].Similarity)
}

func TestStore_SearchHonorsKAndFilter(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for i, task := range []core.TaskID{"task-1", "task-2", "task-3"} {
		agent := "agent-a"
		if i == 2 {
			agent = "agent-b"
		}
		vec := Encode(Features{Accuracy: 0.5, TaskID: task})
		require.NoError(t, store.Put(ctx, TruthKey(task), vec, map[string]any{"agentId": agent}))
	}

	query := Encode(Features{Accuracy: 0.5, TaskID: "task-1"})

	results, err := store.Search(ctx, query, SearchOptions{K: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)

	results, err = store.Search(ctx, query, SearchOptions{Filter: map[string]any{"agentId": "agent-b"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "truth:task-3", results[0].Key)
}

func TestStore_SearchRejectsWrongDimension(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Search(ctx, []float64{1}, SearchOptions{})
	require.Error(t, err)
}

func TestRecordType(t *testing.T) {
	t.Parallel()

	require.Equal(t, "truth", recordType("truth:task-1"))
	require.Equal(t, "snapshot", recordType("snapshot:task-1:snap-1"))
	require.Equal(t, "record", recordType("plain-key"))
}

func TestVectorRoundTrip(t *testing.T) {
	t.Parallel()

	vec := Encode(Features{Accuracy: 0.25, TaskID: "task-1", SessionID: "session-1"})
	decoded, err := decodeVector(encodeVector(vec))
	require.NoError(t, err)
	require.Equal(t, vec, decoded)

	_, err = decodeVector([]byte{1, 2, 3})
	require.Error(t, err)
}
