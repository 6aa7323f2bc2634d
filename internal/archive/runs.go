// Package archive records the outcome of every workflow run in Postgres.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"cityinfo/internal/models"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const schema = `
CREATE TABLE IF NOT EXISTS city_profile_runs (
	run_id        UUID PRIMARY KEY,
	city          TEXT NOT NULL,
	country       TEXT NOT NULL DEFAULT '',
	source_errors JSONB NOT NULL DEFAULT '{}'::jsonb,
	generated     BOOLEAN NOT NULL DEFAULT FALSE,
	failure       TEXT NOT NULL DEFAULT '',
	document      TEXT NOT NULL DEFAULT '',
	object_key    TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS city_profile_runs_city_idx ON city_profile_runs (lower(city), lower(country), created_at DESC);
`

// Run is one archived workflow execution.
type Run struct {
	RunID        uuid.UUID
	City         string
	Country      string
	SourceErrors map[string]string
	Generated    bool
	Failure      string
	Document     string
	ObjectKey    string
	CreatedAt    time.Time
}

// NewRun summarises state. runErr is the workflow error, if any.
func NewRun(state *models.PipelineState, runErr error, objectKey string) Run {
	r := Run{
		RunID:        state.RunID,
		City:         state.Query.City,
		Country:      state.Query.Country,
		SourceErrors: state.SourceErrors(),
		ObjectKey:    objectKey,
		CreatedAt:    time.Now().UTC(),
	}
	if state.Profile != nil {
		r.Generated = state.Profile.Generated
		r.Document = state.Profile.Document()
	}
	if runErr != nil {
		r.Failure = runErr.Error()
	}
	return r
}

type Repository struct {
	db DBTX
}

func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (r *Repository) Record(ctx context.Context, run Run) error {
	query := `
		INSERT INTO city_profile_runs (run_id, city, country, source_errors, generated, failure, document, object_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (run_id) DO NOTHING
	`
	errs, err := json.Marshal(run.SourceErrors)
	if err != nil {
		return fmt.Errorf("failed to marshal source errors: %w", err)
	}
	_, err = r.db.Exec(ctx, query,
		run.RunID,
		run.City,
		run.Country,
		errs,
		run.Generated,
		run.Failure,
		run.Document,
		run.ObjectKey,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Latest returns the most recent successful run for the city.
func (r *Repository) Latest(ctx context.Context, q models.CityQuery) (*Run, error) {
	query := `
		SELECT run_id, city, country, source_errors, generated, failure, document, object_key, created_at
		FROM city_profile_runs
		WHERE lower(city) = lower($1) AND lower(country) = lower($2) AND failure = ''
		ORDER BY created_at DESC
		LIMIT 1
	`
	var (
		run  Run
		errs []byte
	)
	err := r.db.QueryRow(ctx, query, q.City, q.Country).Scan(
		&run.RunID,
		&run.City,
		&run.Country,
		&errs,
		&run.Generated,
		&run.Failure,
		&run.Document,
		&run.ObjectKey,
		&run.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: no archived run for %s", models.ErrNotFound, q.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	if err := json.Unmarshal(errs, &run.SourceErrors); err != nil {
		return nil, fmt.Errorf("failed to decode source errors: %w", err)
	}
	return &run, nil
}
