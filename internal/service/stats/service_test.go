package stats

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/plexicon/internal/domain"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type mockBackend struct {
	LoadFunc func(ctx context.Context, key string) ([]byte, error)
	SaveFunc func(ctx context.Context, key string, blob []byte) error

	mu    sync.Mutex
	saved [][]byte
}

func (m *mockBackend) Load(ctx context.Context, key string) ([]byte, error) {
	if m.LoadFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.LoadFunc(ctx, key)
}

func (m *mockBackend) Save(ctx context.Context, key string, blob []byte) error {
	m.mu.Lock()
	m.saved = append(m.saved, blob)
	m.mu.Unlock()
	if m.SaveFunc == nil {
		return nil
	}
	return m.SaveFunc(ctx, key, blob)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func blobOf(t *testing.T, rec domain.StatsRecord) []byte {
	t.Helper()
	b, err := json.Marshal(rec)
	require.NoError(t, err)
	return b
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestStore_Load_Absent(t *testing.T) {
	t.Parallel()

	s := NewStore(newTestLogger(), &mockBackend{}, "")

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalGenerated)
	assert.Equal(t, 0, got.UniqueCount)
	assert.Empty(t, got.WordFrequency)
}

func TestStore_Load_UsesKey(t *testing.T) {
	t.Parallel()

	var gotKey string
	backend := &mockBackend{LoadFunc: func(_ context.Context, key string) ([]byte, error) {
		gotKey = key
		return nil, domain.ErrNotFound
	}}

	_, err := NewStore(newTestLogger(), backend, "").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "lexicon_v3_stats", gotKey)
}

func TestStore_Load_Existing(t *testing.T) {
	t.Parallel()

	stored := domain.StatsRecord{
		TotalGenerated: 3,
		UniqueCount:    2,
		WordFrequency:  map[string]int{"Banco": 2, "Bola": 1},
	}
	backend := &mockBackend{LoadFunc: func(context.Context, string) ([]byte, error) {
		return blobOf(t, stored), nil
	}}
	s := NewStore(newTestLogger(), backend, "")

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stored, got)
	assert.Equal(t, stored, s.Snapshot())
}

func TestStore_Load_Reconciles(t *testing.T) {
	t.Parallel()

	backend := &mockBackend{LoadFunc: func(context.Context, string) ([]byte, error) {
		return []byte(`{"totalGenerated": 99, "uniqueCount": 7, "wordFrequency": {"Apple": 2, "Axe": 1}}`), nil
	}}
	s := NewStore(newTestLogger(), backend, "")

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalGenerated)
	assert.Equal(t, 2, got.UniqueCount)
}

func TestStore_Load_Corrupt(t *testing.T) {
	t.Parallel()

	backend := &mockBackend{LoadFunc: func(context.Context, string) ([]byte, error) {
		return []byte(`{"totalGenerated": `), nil
	}}
	s := NewStore(newTestLogger(), backend, "")

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.NewStatsRecord(), got)
}

func TestStore_Load_BackendError(t *testing.T) {
	t.Parallel()

	backend := &mockBackend{LoadFunc: func(context.Context, string) ([]byte, error) {
		return nil, errors.New("connection refused")
	}}
	s := NewStore(newTestLogger(), backend, "")

	got, err := s.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, got.TotalGenerated)
}

func TestStore_Record(t *testing.T) {
	t.Parallel()

	backend := &mockBackend{}
	s := NewStore(newTestLogger(), backend, "")
	ctx := context.Background()

	_, err := s.Record(ctx, "Banco")
	require.NoError(t, err)
	_, err = s.Record(ctx, "Bola")
	require.NoError(t, err)
	got, err := s.Record(ctx, "Banco")
	require.NoError(t, err)

	assert.Equal(t, domain.StatsRecord{
		TotalGenerated: 3,
		UniqueCount:    2,
		WordFrequency:  map[string]int{"Banco": 2, "Bola": 1},
	}, got)

	require.Len(t, backend.saved, 3, "every record is persisted")
	var persisted domain.StatsRecord
	require.NoError(t, json.Unmarshal(backend.saved[2], &persisted))
	assert.Equal(t, got, persisted)
}

func TestStore_Record_CaseSensitiveKeys(t *testing.T) {
	t.Parallel()

	s := NewStore(newTestLogger(), &mockBackend{}, "")
	ctx := context.Background()

	_, _ = s.Record(ctx, "Banco")
	got, err := s.Record(ctx, "banco")
	require.NoError(t, err)

	assert.Equal(t, 2, got.UniqueCount)
}

func TestStore_Record_SaveErrorKeepsIncrement(t *testing.T) {
	t.Parallel()

	backend := &mockBackend{SaveFunc: func(context.Context, string, []byte) error {
		return errors.New("disk full")
	}}
	s := NewStore(newTestLogger(), backend, "")

	got, err := s.Record(context.Background(), "Xylophone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 1, got.TotalGenerated)
	assert.Equal(t, 1, s.Snapshot().TotalGenerated)
}

func TestStore_Snapshot_IsCopy(t *testing.T) {
	t.Parallel()

	s := NewStore(newTestLogger(), &mockBackend{}, "")
	_, _ = s.Record(context.Background(), "Kite")

	snap := s.Snapshot()
	snap.WordFrequency["Kite"] = 100
	snap.WordFrequency["Lamp"] = 1

	again := s.Snapshot()
	assert.Equal(t, 1, again.WordFrequency["Kite"])
	assert.NotContains(t, again.WordFrequency, "Lamp")
}

func TestStore_ConcurrentReaders(t *testing.T) {
	t.Parallel()

	s := NewStore(newTestLogger(), &mockBackend{}, "")
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				snap := s.Snapshot()
				assert.True(t, snap.Consistent())
			}
		}()
	}
	for range 50 {
		_, _ = s.Record(ctx, "Word")
	}
	wg.Wait()

	assert.Equal(t, 50, s.Snapshot().TotalGenerated)
}

func TestStore_SnapshotDoesNotWaitOnSave(t *testing.T) {
	t.Parallel()

	saving := make(chan struct{})
	release := make(chan struct{})
	backend := &mockBackend{SaveFunc: func(context.Context, string, []byte) error {
		close(saving)
		<-release
		return nil
	}}
	s := NewStore(newTestLogger(), backend, "")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Record(context.Background(), "Pájaro")
	}()
	<-saving

	got := make(chan domain.StatsRecord, 1)
	go func() { got <- s.Snapshot() }()
	select {
	case snap := <-got:
		assert.Equal(t, 1, snap.TotalGenerated, "the increment is visible while the save is pending")
	case <-time.After(time.Second):
		t.Fatal("Snapshot blocked on a pending save")
	}

	close(release)
	<-done
}
