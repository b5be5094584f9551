// Package savestore persists encoded terminal records.
package savestore

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"

	"darkterminal/pkg/game/computer"
)

var ErrNotFound = errors.New("terminal record not found")

// Repository saves and restores terminals by name
type Repository interface {
	Save(ctx context.Context, c *computer.Computer) error
	Load(ctx context.Context, name string) (*computer.Computer, error)
	Delete(ctx context.Context, name string) error
}

// Store keeps terminal records in a SQL table
type Store struct {
	db *sql.DB
}

var _ Repository = (*Store)(nil)

// Open connects to Postgres through the pgx driver
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open save database")
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(15 * time.Minute)
	return New(db), nil
}

// New wraps an existing database handle
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error { return s.db.Close() }

// EnsureSchema creates the records table if it does not exist
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		create table if not exists terminal_records (
			name text primary key,
			record text not null,
			saved_at timestamptz not null default now()
		)`)
	return errors.Wrap(err, "cannot create terminal_records")
}

// Save upserts the encoded terminal under its name
func (s *Store) Save(ctx context.Context, c *computer.Computer) error {
	_, err := s.db.ExecContext(ctx, `
		insert into terminal_records(name, record, saved_at)
		values ($1, $2, now())
		on conflict (name) do update
		set record = excluded.record, saved_at = excluded.saved_at
	`, c.Name, computer.Encode(c))
	return errors.Wrapf(err, "cannot save terminal %q", c.Name)
}

// Load restores a terminal by name
func (s *Store) Load(ctx context.Context, name string) (*computer.Computer, error) {
	var record string
	err := s.db.QueryRowContext(ctx, `select record from terminal_records where name=$1`, name).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot load terminal %q", name)
	}
	return computer.Decode(record)
}

// Delete removes a terminal record
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `delete from terminal_records where name=$1`, name)
	if err != nil {
		return errors.Wrapf(err, "cannot delete terminal %q", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "cannot delete terminal %q", name)
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	return nil
}
