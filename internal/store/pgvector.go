package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"incident-rag/internal/config"
)

// The vector column dimension matches text-embedding-3-large.
type chunkRow struct {
	bun.BaseModel `bun:"table:chunks,alias:c"`
	ID            string            `bun:"id,pk"`
	Content       string            `bun:"content,notnull"`
	Embedding     []float32         `bun:"embedding,notnull,type:vector(3072)"`
	Metadata      map[string]string `bun:"metadata,type:jsonb"`
}

// PgVector is the Postgres/pgvector backend, for deployments where the
// chunk collection should live in a shared database instead of an embedded
// file.
type PgVector struct {
	db *bun.DB
}

// NewPgVector connects and ensures the chunks table exists.
func NewPgVector(cfg *config.StoreConfig) (*PgVector, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(cfg.PostgresDSN),
		pgdriver.WithPassword(cfg.PostgresKey),
	))
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	ctx := context.Background()
	if _, err := db.NewCreateTable().Model((*chunkRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return nil, fmt.Errorf("%w: failed to initialize chunks table: %v", ErrUnavailable, err)
	}
	return &PgVector{db: db}, nil
}

// Upsert writes the batch, replacing rows that share an id.
func (s *PgVector) Upsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]chunkRow, len(entries))
	for i, e := range entries {
		rows[i] = chunkRow{
			ID:        e.ID,
			Content:   e.Text,
			Embedding: e.Embedding,
			Metadata:  e.Metadata,
		}
	}
	_, err := s.db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("content = EXCLUDED.content").
		Set("embedding = EXCLUDED.embedding").
		Set("metadata = EXCLUDED.metadata").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// Query returns the k rows nearest to the query embedding by L2 distance.
func (s *PgVector) Query(ctx context.Context, embedding []float32, k int) ([]Result, error) {
	if k <= 0 {
		return nil, nil
	}
	var rows []chunkRow
	err := s.db.NewSelect().
		Model(&rows).
		Column("id", "content", "metadata").
		OrderExpr("embedding <-> ?", embedding).
		Limit(k).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	results := make([]Result, len(rows))
	for i, r := range rows {
		results[i] = Result{Text: r.Content, Metadata: r.Metadata}
	}
	return results, nil
}

// Count reports how many chunk rows are stored.
func (s *PgVector) Count(ctx context.Context) (int, error) {
	n, err := s.db.NewSelect().Model((*chunkRow)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n, nil
}

// Close releases the database connection.
func (s *PgVector) Close() error {
	return s.db.Close()
}
