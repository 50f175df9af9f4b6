package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the read-only layout LoadPostgres expects. Records are stored
// as they arrive from the source so canonicalization stays in one place.
const Schema = `
CREATE TABLE IF NOT EXISTS catalog_scholarships (
	position SERIAL PRIMARY KEY,
	record   JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS catalog_narratives (
	position SERIAL PRIMARY KEY,
	record   JSONB NOT NULL
);`

// LoadPostgres reads the whole catalog once and returns an immutable Snapshot.
func LoadPostgres(ctx context.Context, databaseURL string) (*Snapshot, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return loadFromPool(ctx, pool)
}

func loadFromPool(ctx context.Context, pool *pgxpool.Pool) (*Snapshot, error) {
	rows, err := pool.Query(ctx, `SELECT record FROM catalog_scholarships ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query scholarships: %w", err)
	}
	var raw []map[string]any
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan scholarship: %w", err)
		}
		record, err := decodeRecord(data)
		if err != nil {
			rows.Close()
			return nil, err
		}
		raw = append(raw, record)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scholarships: %w", err)
	}

	rows, err = pool.Query(ctx, `SELECT record FROM catalog_narratives ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query narratives: %w", err)
	}
	defer rows.Close()
	var narratives []Narrative
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan narrative: %w", err)
		}
		var n Narrative
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("decode narrative: %w", err)
		}
		narratives = append(narratives, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate narratives: %w", err)
	}

	return NewSnapshot(raw, narratives)
}

// Seed replaces the catalog tables with the given records. It backs the
// seed_catalog script; the service itself never writes.
func Seed(ctx context.Context, pool *pgxpool.Pool, scholarships []map[string]any, narratives []Narrative) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	if _, err := tx.Exec(ctx, `TRUNCATE catalog_scholarships, catalog_narratives RESTART IDENTITY`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	for _, s := range scholarships {
		data, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("encode scholarship: %w", err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO catalog_scholarships (record) VALUES ($1)`, data); err != nil {
			return fmt.Errorf("insert scholarship: %w", err)
		}
	}
	for _, n := range narratives {
		data, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("encode narrative: %w", err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO catalog_narratives (record) VALUES ($1)`, data); err != nil {
			return fmt.Errorf("insert narrative: %w", err)
		}
	}
	return tx.Commit(ctx)
}
