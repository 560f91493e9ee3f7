package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

const blobTable = "kv_blobs"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// BlobStore keeps opaque blobs in the kv_blobs table.
type BlobStore struct {
	q     Querier
	close func()
}

// NewBlobStore wraps an existing querier. Close is a no-op.
func NewBlobStore(q Querier) *BlobStore {
	return &BlobStore{q: q, close: func() {}}
}

// NewPoolBlobStore wraps a pool that Close will shut down.
func NewPoolBlobStore(pool *pgxpool.Pool) *BlobStore {
	return &BlobStore{q: pool, close: pool.Close}
}

// Load returns domain.ErrNotFound when the key has no row.
func (s *BlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	query, args, err := psql.
		Select("value").
		From(blobTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, mapError(err, key)
	}

	var value []byte
	if err := s.q.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		return nil, mapError(err, key)
	}
	return value, nil
}

// Save upserts the blob and bumps updated_at.
func (s *BlobStore) Save(ctx context.Context, key string, blob []byte) error {
	query, args, err := psql.
		Insert(blobTable).
		Columns("key", "value", "updated_at").
		Values(key, blob, sq.Expr("now()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return mapError(err, key)
	}

	if _, err := s.q.Exec(ctx, query, args...); err != nil {
		return mapError(err, key)
	}
	return nil
}

func (s *BlobStore) Ping(ctx context.Context) error {
	return s.q.Ping(ctx)
}

func (s *BlobStore) Close() error {
	s.close()
	return nil
}
