package pg

import (
	"context"

	"shiftclock.org/internal/roster"
)

func (s *Store) IsManager(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`select exists(select 1 from managers where email = $1)`,
		roster.Normalize(email),
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (s *Store) Add(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx,
		`insert into managers(email) values ($1) on conflict (email) do nothing`,
		roster.Normalize(email),
	)
	return err
}

func (s *Store) Remove(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx,
		`delete from managers where email = $1`,
		roster.Normalize(email),
	)
	return err
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `select email from managers order by email asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		res = append(res, email)
	}
	return res, rows.Err()
}
