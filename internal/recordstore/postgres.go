package recordstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres implements Store on a single jsonb documents table.
type Postgres struct {
	db *pgxpool.Pool
}

// NewPostgres creates a Postgres store backed by the given connection pool.
func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

// Collection returns a handle for the named collection.
func (p *Postgres) Collection(name string) Collection {
	return &pgCollection{db: p.db, name: name}
}

type pgCollection struct {
	db   *pgxpool.Pool
	name string
}

func (c *pgCollection) Push(ctx context.Context, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}

	key := uuid.NewString()
	_, err = c.db.Exec(ctx,
		`INSERT INTO documents (collection, key, data) VALUES ($1, $2, $3)`,
		c.name, key, data,
	)
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", c.name, err)
	}
	return key, nil
}

func (c *pgCollection) Get(ctx context.Context, key string, dst any) error {
	var data []byte
	err := c.db.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND key = $2`,
		c.name, key,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get from %s: %w", c.name, err)
	}
	return json.Unmarshal(data, dst)
}

func (c *pgCollection) All(ctx context.Context) ([]Record, error) {
	rows, err := c.db.Query(ctx,
		`SELECT key, data FROM documents WHERE collection = $1 ORDER BY inserted_at, key`,
		c.name,
	)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (c *pgCollection) QueryByField(ctx context.Context, field, value string) ([]Record, error) {
	rows, err := c.db.Query(ctx,
		`SELECT key, data FROM documents
		 WHERE collection = $1 AND data->>$2 = $3
		 ORDER BY inserted_at, key`,
		c.name, field, value,
	)
	if err != nil {
		return nil, fmt.Errorf("query %s by %s: %w", c.name, field, err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (c *pgCollection) Update(ctx context.Context, key string, fields map[string]any) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal update: %w", err)
	}

	tag, err := c.db.Exec(ctx,
		`UPDATE documents SET data = data || $3 WHERE collection = $1 AND key = $2`,
		c.name, key, patch,
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", c.name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *pgCollection) Delete(ctx context.Context, key string) error {
	tag, err := c.db.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND key = $2`,
		c.name, key,
	)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", c.name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRecords(rows pgx.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Key, (*[]byte)(&rec.Data)); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}
