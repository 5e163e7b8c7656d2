package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Dialect decide el estilo de placeholders de las sentencias.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

// SQLCache guarda cada clave en una fila de la tabla 'snapshots'. Sirve tanto para
// SQLite (modernc.org/sqlite) como para PostgreSQL (pgx/stdlib).
type SQLCache struct {
	db      *sql.DB
	dialect Dialect
}

var _ Cache = (*SQLCache)(nil)

func NewSQLCache(db *sql.DB, dialect Dialect) *SQLCache {
	return &SQLCache{db: db, dialect: dialect}
}

// InitSchema crea la tabla si no existe.
func (c *SQLCache) InitSchema(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS snapshots (
		key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("failed to create snapshots table: %w", err)
	}
	return nil
}

// ph devuelve el placeholder n-ésimo (base 1) según el dialecto.
func (c *SQLCache) ph(n int) string {
	if c.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (c *SQLCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	var payload string
	err := c.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE key = `+c.ph(1), key,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set hace upsert: la fila anterior se reemplaza entera dentro de una sola sentencia.
func (c *SQLCache) Set(ctx context.Context, key string, val interface{}) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO snapshots (key, payload, updated_at) VALUES (%s, %s, %s)
		 ON CONFLICT (key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
			c.ph(1), c.ph(2), c.ph(3)),
		key, string(data), time.Now().UTC(),
	)
	return err
}

func (c *SQLCache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = `+c.ph(1), key)
	return err
}
