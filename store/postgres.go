package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tailored-agentic-units/statewire/codec"
	"github.com/tailored-agentic-units/statewire/serialization"
)

// DefaultPostgresTable holds documents when no table is configured.
const DefaultPostgresTable = "statewire_runs"

// PgxQuerier is the subset of pgxpool.Pool the postgres store uses.
type PgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps documents in a single table keyed by run ID.
type PostgresStore struct {
	db    PgxQuerier
	codec codec.Codec
	table string
}

// NewPostgresStore creates a PostgresStore over db. The table name is
// quoted as an identifier.
func NewPostgresStore(db PgxQuerier, table string, c codec.Codec) *PostgresStore {
	if c == nil {
		c = codec.JSON()
	}
	if table == "" {
		table = DefaultPostgresTable
	}
	return &PostgresStore{
		db:    db,
		codec: c,
		table: pgx.Identifier{table}.Sanitize(),
	}
}

// ConnectPostgres opens a pool for dsn and verifies it with a ping.
func ConnectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the document table if it does not exist.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+p.table+` (
		run_id       TEXT PRIMARY KEY,
		tag          TEXT NOT NULL,
		content_type TEXT NOT NULL,
		data         BYTEA NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", mapPgError(err))
	}
	return nil
}

func (p *PostgresStore) Save(ctx context.Context, runID string, doc serialization.Document) error {
	if err := ValidateRunID(runID); err != nil {
		return err
	}
	data, err := encode(p.codec, runID, doc)
	if err != nil {
		return err
	}

	_, err = p.db.Exec(ctx, `INSERT INTO `+p.table+` (run_id, tag, content_type, data, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (run_id) DO UPDATE
		SET tag = EXCLUDED.tag, content_type = EXCLUDED.content_type, data = EXCLUDED.data, updated_at = now()`,
		runID, doc.Tag(), p.codec.ContentType(), data)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSaveFailed, runID, mapPgError(err))
	}
	return nil
}

func (p *PostgresStore) Load(ctx context.Context, runID string) (serialization.Document, error) {
	if err := ValidateRunID(runID); err != nil {
		return nil, err
	}

	var data []byte
	err := p.db.QueryRow(ctx, `SELECT data FROM `+p.table+` WHERE run_id = $1`, runID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailed, runID, mapPgError(err))
	}
	return decode(p.codec, runID, data)
}

func (p *PostgresStore) Delete(ctx context.Context, runID string) error {
	if err := ValidateRunID(runID); err != nil {
		return err
	}
	if _, err := p.db.Exec(ctx, `DELETE FROM `+p.table+` WHERE run_id = $1`, runID); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDeleteFailed, runID, mapPgError(err))
	}
	return nil
}

func (p *PostgresStore) List(ctx context.Context) ([]string, error) {
	rows, err := p.db.Query(ctx, `SELECT run_id FROM `+p.table+` ORDER BY run_id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, mapPgError(err))
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, mapPgError(err))
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// mapPgError classifies PostgreSQL errors the store has a sentinel for.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UndefinedTable:
		return fmt.Errorf("%w: %s", ErrSchemaMissing, pgErr.Message)
	default:
		return err
	}
}
