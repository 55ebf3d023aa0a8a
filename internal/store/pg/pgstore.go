package pg

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"shiftclock.org/internal/auth"
	"shiftclock.org/internal/perimeter"
	"shiftclock.org/internal/roster"
	"shiftclock.org/internal/shift"
)

// Store implements the shift, perimeter, roster and user stores on
// PostgreSQL.
type Store struct {
	db *sql.DB
}

var (
	_ shift.Service   = (*Store)(nil)
	_ perimeter.Store = (*Store)(nil)
	_ roster.Store    = (*Store)(nil)
	_ auth.UserStore  = (*Store)(nil)
)

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Tuned pool defaults; adjust under load tests
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewStore wraps an existing connection pool. Used by tests with sqlmock.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// isUniqueViolation reports whether err is the Postgres unique_violation
// error (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
