// Package history keeps an optional PostgreSQL ledger of processing runs.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
)

var ErrDisabled = errors.New("histórico desativado (history.dsn vazio)")

type Store struct{ DB *sql.DB }

type Run struct {
	ID         uuid.UUID `json:"id"`
	Book       string    `json:"book"`
	Input      string    `json:"input"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model"`
	Status     string    `json:"status"`
	Stage      string    `json:"stage,omitempty"`
	Error      string    `json:"error,omitempty"`
	Total      int       `json:"total_paragraphs"`
	Marked     int       `json:"marked"`
	Unmarked   int       `json:"unmarked"`
	APICalls   int       `json:"api_calls"`
	CostUSD    float64   `json:"estimated_cost_usd"`
	DurationMS int64     `json:"duration_ms"`
	OutputDir  string    `json:"output_dir,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

const schema = `
create table if not exists styler_runs (
	id          uuid primary key,
	book        text not null,
	input       text not null,
	provider    text not null,
	model       text not null,
	status      text not null,
	stage       text not null default '',
	error       text not null default '',
	total       integer not null default 0,
	marked      integer not null default 0,
	unmarked    integer not null default 0,
	api_calls   integer not null default 0,
	cost_usd    double precision not null default 0,
	duration_ms bigint not null default 0,
	output_dir  text not null default '',
	created_at  timestamptz not null default now()
)`

func Open(dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrDisabled
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(time.Hour)
	return &Store{DB: db}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, schema)
	return err
}

func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// Record inserts r, assigning an id when it has none.
func (s *Store) Record(ctx context.Context, r Run) (uuid.UUID, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	const q = `
insert into styler_runs(id, book, input, provider, model, status, stage, error,
	total, marked, unmarked, api_calls, cost_usd, duration_ms, output_dir)
values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`
	_, err := s.DB.ExecContext(ctx, q, r.ID, r.Book, r.Input, r.Provider, r.Model, r.Status, r.Stage, r.Error,
		r.Total, r.Marked, r.Unmarked, r.APICalls, r.CostUSD, r.DurationMS, r.OutputDir)
	if err != nil {
		return uuid.Nil, err
	}
	return r.ID, nil
}

// Recent returns the latest runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
select id, book, input, provider, model, status, stage, error,
	total, marked, unmarked, api_calls, cost_usd, duration_ms, output_dir, created_at
from styler_runs
order by created_at desc
limit $1`
	rows, err := s.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Book, &r.Input, &r.Provider, &r.Model, &r.Status, &r.Stage, &r.Error,
			&r.Total, &r.Marked, &r.Unmarked, &r.APICalls, &r.CostUSD, &r.DurationMS, &r.OutputDir, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
