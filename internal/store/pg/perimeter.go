package pg

import (
	"context"
	"database/sql"
	"errors"

	"shiftclock.org/internal/ids"
	"shiftclock.org/internal/perimeter"
)

// The perimeter_config table carries a constant sentinel column with a
// unique constraint, so at most one row can ever exist and concurrent
// writers converge on it instead of racing on "latest updated_at".

func (s *Store) Latest(ctx context.Context) (*perimeter.Config, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, center_lat, center_long, radius_km, created_at, updated_at
		from perimeter_config
	`)
	var cfg perimeter.Config
	err := row.Scan(&cfg.ID, &cfg.Center.Lat, &cfg.Center.Long, &cfg.RadiusKm, &cfg.CreatedAt, &cfg.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *Store) Upsert(ctx context.Context, cfg perimeter.Config) (perimeter.Config, error) {
	if err := cfg.Validate(); err != nil {
		return perimeter.Config{}, err
	}
	row := s.db.QueryRowContext(ctx, `
		insert into perimeter_config(id, singleton, center_lat, center_long, radius_km)
		values ($1, true, $2, $3, $4)
		on conflict (singleton) do update
		set center_lat = excluded.center_lat,
		    center_long = excluded.center_long,
		    radius_km = excluded.radius_km,
		    updated_at = now()
		returning id, center_lat, center_long, radius_km, created_at, updated_at
	`, ids.New(), cfg.Center.Lat, cfg.Center.Long, cfg.RadiusKm)
	var out perimeter.Config
	if err := row.Scan(&out.ID, &out.Center.Lat, &out.Center.Long, &out.RadiusKm, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return perimeter.Config{}, err
	}
	return out, nil
}

func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `delete from perimeter_config`)
	return err
}
