package pg

import (
	"context"
	"database/sql"
	"errors"

	"shiftclock.org/internal/auth"
	"shiftclock.org/internal/ids"
)

func (s *Store) Create(ctx context.Context, u *auth.User) error {
	if u.ID == "" {
		u.ID = ids.New()
	}
	err := s.db.QueryRowContext(ctx, `
		insert into users(id, email, password_hash)
		values ($1, $2, $3)
		returning created_at
	`, u.ID, u.Email, u.PasswordHash).Scan(&u.CreatedAt)
	if isUniqueViolation(err) {
		return auth.ErrAlreadyExists
	}
	return err
}

func (s *Store) Find(ctx context.Context, id string) (*auth.User, error) {
	return s.findUser(ctx, `select id, email, password_hash, created_at from users where id = $1`, id)
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.findUser(ctx, `select id, email, password_hash, created_at from users where email = $1`, email)
}

func (s *Store) findUser(ctx context.Context, query, arg string) (*auth.User, error) {
	var u auth.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) ResolveEmails(ctx context.Context, userIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`select id, email from users where id = any($1)`, pqArray(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, email string
		if err := rows.Scan(&id, &email); err != nil {
			return nil, err
		}
		out[id] = email
	}
	return out, rows.Err()
}

// pqArray renders ids as a Postgres text array literal for any($1). The pgx
// stdlib driver passes []string through, but building the literal keeps the
// query portable across sqlmock in tests.
func pqArray(items []string) string {
	lit := "{"
	for i, item := range items {
		if i > 0 {
			lit += ","
		}
		lit += `"` + item + `"`
	}
	return lit + "}"
}
