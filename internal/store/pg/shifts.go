package pg

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"shiftclock.org/internal/geo"
	"shiftclock.org/internal/ids"
	"shiftclock.org/internal/shift"
)

const shiftColumns = `id, worker_id, clock_in_time, clock_out_time,
	coalesce(clock_in_location,''), coalesce(clock_out_location,''),
	coalesce(clock_in_note,''), coalesce(clock_out_note,'')`

func (s *Store) ClockIn(ctx context.Context, workerID string, loc geo.Coordinate, note string) (shift.ClockInResult, error) {
	if workerID == "" {
		return shift.ClockInResult{}, shift.ErrInvalidInput
	}

	if rec, err := s.openShift(ctx, workerID); err == nil {
		return shift.ClockInResult{Record: rec, AlreadyOpen: true}, nil
	} else if !errors.Is(err, shift.ErrNotFound) {
		return shift.ClockInResult{}, err
	}

	// The partial unique index on open shifts makes the insert race-safe:
	// a concurrent winner leaves us with zero inserted rows.
	rec := shift.Record{
		ID:              ids.New(),
		WorkerID:        workerID,
		ClockInLocation: loc.String(),
		ClockInNote:     note,
	}
	err := s.db.QueryRowContext(ctx, `
		insert into shifts(id, worker_id, clock_in_time, clock_in_location, clock_in_note)
		values ($1, $2, now(), $3, nullif($4,''))
		on conflict (worker_id) where clock_out_time is null do nothing
		returning clock_in_time
	`, rec.ID, rec.WorkerID, rec.ClockInLocation, rec.ClockInNote).Scan(&rec.ClockInTime)
	if errors.Is(err, sql.ErrNoRows) {
		// Lost the race; return the record the other request created.
		existing, lookupErr := s.openShift(ctx, workerID)
		if lookupErr != nil {
			return shift.ClockInResult{}, lookupErr
		}
		return shift.ClockInResult{Record: existing, AlreadyOpen: true}, nil
	}
	if err != nil {
		return shift.ClockInResult{}, err
	}
	return shift.ClockInResult{Record: rec}, nil
}

func (s *Store) ClockOut(ctx context.Context, workerID string, loc geo.Coordinate, note string) (shift.ClockOutResult, error) {
	if workerID == "" {
		return shift.ClockOutResult{}, shift.ErrInvalidInput
	}
	row := s.db.QueryRowContext(ctx, `
		update shifts
		set clock_out_time = now(), clock_out_location = $2, clock_out_note = nullif($3,'')
		where id = (
			select id from shifts
			where worker_id = $1 and clock_out_time is null
			order by clock_in_time desc
			limit 1
		)
		returning `+shiftColumns+`
	`, workerID, loc.String(), note)
	rec, err := scanShift(row)
	if errors.Is(err, sql.ErrNoRows) {
		// Nothing to close; not an error.
		return shift.ClockOutResult{}, nil
	}
	if err != nil {
		return shift.ClockOutResult{}, err
	}
	return shift.ClockOutResult{Record: rec, Closed: true}, nil
}

func (s *Store) OpenShift(ctx context.Context, workerID string) (shift.Record, error) {
	return s.openShift(ctx, workerID)
}

func (s *Store) ListShifts(ctx context.Context, f shift.Filter) ([]shift.Record, error) {
	query := `select ` + shiftColumns + ` from shifts where 1=1`
	var args []any
	if f.WorkerID != "" {
		args = append(args, f.WorkerID)
		query += ` and worker_id = $` + itoa(len(args))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		query += ` and clock_in_time >= $` + itoa(len(args))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		query += ` and clock_in_time <= $` + itoa(len(args))
	}
	query += ` order by clock_in_time desc`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []shift.Record
	for rows.Next() {
		rec, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

func (s *Store) openShift(ctx context.Context, workerID string) (shift.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		select `+shiftColumns+`
		from shifts
		where worker_id = $1 and clock_out_time is null
		order by clock_in_time desc
		limit 1
	`, workerID)
	rec, err := scanShift(row)
	if errors.Is(err, sql.ErrNoRows) {
		return shift.Record{}, shift.ErrNotFound
	}
	if err != nil {
		return shift.Record{}, err
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShift(row rowScanner) (shift.Record, error) {
	var (
		rec shift.Record
		out sql.NullTime
	)
	err := row.Scan(
		&rec.ID, &rec.WorkerID, &rec.ClockInTime, &out,
		&rec.ClockInLocation, &rec.ClockOutLocation,
		&rec.ClockInNote, &rec.ClockOutNote,
	)
	if err != nil {
		return shift.Record{}, err
	}
	if out.Valid {
		t := out.Time.UTC()
		rec.ClockOutTime = &t
	}
	rec.ClockInTime = rec.ClockInTime.UTC()
	return rec, nil
}

func itoa(n int) string { return strconv.Itoa(n) }
