// Package stats keeps the persisted discovery counters.
package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/heartmarshall/plexicon/internal/domain"
)

// DefaultKey is the storage key of the stats blob.
const DefaultKey = "lexicon_v3_stats"

// Backend stores opaque blobs by key. Load returns domain.ErrNotFound for an
// absent key.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, blob []byte) error
}

// Store owns the in-memory StatsRecord and writes it through to the backend.
type Store struct {
	log     *slog.Logger
	backend Backend
	key     string

	// writeMu orders writes to the backend; mu guards rec only, so readers
	// never wait on a save.
	writeMu sync.Mutex
	mu      sync.RWMutex
	rec     domain.StatsRecord
}

// NewStore creates a Store holding the zero record until Load is called.
func NewStore(logger *slog.Logger, backend Backend, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		log:     logger.With("service", "stats"),
		backend: backend,
		key:     key,
		rec:     domain.NewStatsRecord(),
	}
}

// Load reads the blob once and replaces the in-memory record. An absent or
// unparseable blob yields the zero record. Counts that disagree with the
// frequency map are recomputed. A backend read failure leaves the zero record
// in place and is returned.
func (s *Store) Load(ctx context.Context) (domain.StatsRecord, error) {
	rec, err := s.read(ctx)

	s.mu.Lock()
	s.rec = rec
	s.mu.Unlock()

	return rec.Clone(), err
}

func (s *Store) read(ctx context.Context) (domain.StatsRecord, error) {
	blob, err := s.backend.Load(ctx, s.key)
	if errors.Is(err, domain.ErrNotFound) {
		s.log.DebugContext(ctx, "no stats stored yet", slog.String("key", s.key))
		return domain.NewStatsRecord(), nil
	}
	if err != nil {
		return domain.NewStatsRecord(), fmt.Errorf("stats: load: %w", err)
	}

	var rec domain.StatsRecord
	if err := json.Unmarshal(blob, &rec); err != nil {
		s.log.WarnContext(ctx, "stats blob is corrupt, starting from zero",
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
		return domain.NewStatsRecord(), nil
	}

	if !rec.Consistent() {
		s.log.WarnContext(ctx, "stats counts inconsistent, recomputing",
			slog.Int("total_generated", rec.TotalGenerated),
			slog.Int("unique_count", rec.UniqueCount),
		)
	}
	return rec.Reconciled(), nil
}

// Record counts one more occurrence of word and persists the whole record.
// On a save failure the in-memory record keeps the increment and the error
// is returned.
func (s *Store) Record(ctx context.Context, word string) (domain.StatsRecord, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.rec = s.rec.With(word)
	out := s.rec.Clone()
	s.mu.Unlock()

	blob, err := json.Marshal(out)
	if err != nil {
		return out, fmt.Errorf("stats: encode: %w", err)
	}
	if err := s.backend.Save(ctx, s.key, blob); err != nil {
		return out, fmt.Errorf("stats: save: %w", err)
	}

	s.log.DebugContext(ctx, "stats recorded",
		slog.String("word", word),
		slog.Int("total_generated", out.TotalGenerated),
	)
	return out, nil
}

// Snapshot returns a copy of the current record.
func (s *Store) Snapshot() domain.StatsRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.Clone()
}
