// Package keyring is a durable per-key secret store backed by sqlite.
// It holds the portal credentials the user sets and the session tokens
// the scraper derives, each overwritten in place on refresh.
package keyring

import (
	"context"
	"database/sql"
	"errors"

	"jobcan-assist/services/keyring/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/keyring")

type Service struct {
	db  *sql.DB
	qry *db.Queries
}

func NewService(database *sql.DB) Service {
	return Service{
		db:  database,
		qry: db.New(database),
	}
}

// Get returns the stored value for `key`, or "" if it was never set.
func (s Service) Get(ctx context.Context, key string) (string, error) {
	ctx, span := tracer.Start(ctx, "Get")
	defer span.End()
	span.SetAttributes(attribute.String("key", key))

	value, err := s.qry.GetSecret(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return value, nil
}

// Set stores `value` under `key`, replacing any previous value.
func (s Service) Set(ctx context.Context, key, value string) error {
	ctx, span := tracer.Start(ctx, "Set")
	defer span.End()
	span.SetAttributes(attribute.String("key", key))

	err := s.qry.SetSecret(ctx, key, value)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
