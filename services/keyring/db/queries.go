package db

import (
	"context"
	"database/sql"
)

type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

const getSecret = `SELECT value FROM secrets WHERE key = ?`

func (q *Queries) GetSecret(ctx context.Context, key string) (string, error) {
	row := q.db.QueryRowContext(ctx, getSecret, key)
	var value string
	err := row.Scan(&value)
	return value, err
}

const setSecret = `INSERT INTO secrets (key, value) VALUES (?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value`

func (q *Queries) SetSecret(ctx context.Context, key, value string) error {
	_, err := q.db.ExecContext(ctx, setSecret, key, value)
	return err
}
