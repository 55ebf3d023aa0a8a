package shift

import (
	"context"
	"sort"
	"sync"
	"time"

	"shiftclock.org/internal/geo"
	"shiftclock.org/internal/ids"
)

// Service defines shift storage operations. Clock-in and clock-out are
// idempotent: attempting to enter the state the worker is already in returns
// the current state rather than an error.
type Service interface {
	ClockIn(ctx context.Context, workerID string, loc geo.Coordinate, note string) (ClockInResult, error)
	ClockOut(ctx context.Context, workerID string, loc geo.Coordinate, note string) (ClockOutResult, error)
	OpenShift(ctx context.Context, workerID string) (Record, error)
	ListShifts(ctx context.Context, f Filter) ([]Record, error)
}

// InMemory implements Service with in-process concurrency safety. Used in
// tests and when the API runs without a database DSN.
type InMemory struct {
	mu      sync.Mutex
	records map[string]*Record
	order   []string
	now     func() time.Time
}

var _ Service = (*InMemory)(nil)

func NewInMemory() *InMemory {
	return &InMemory{
		records: make(map[string]*Record),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the time source. Test use only.
func (s *InMemory) SetClock(fn func() time.Time) { s.now = fn }

func (s *InMemory) ClockIn(ctx context.Context, workerID string, loc geo.Coordinate, note string) (ClockInResult, error) {
	if workerID == "" {
		return ClockInResult{}, ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-submission guard: an existing open shift is returned unchanged.
	if rec := s.openLocked(workerID); rec != nil {
		return ClockInResult{Record: *rec, AlreadyOpen: true}, nil
	}

	rec := &Record{
		ID:              ids.New(),
		WorkerID:        workerID,
		ClockInTime:     s.now(),
		ClockInLocation: loc.String(),
		ClockInNote:     note,
	}
	s.records[rec.ID] = rec
	s.order = append(s.order, rec.ID)
	return ClockInResult{Record: *rec}, nil
}

func (s *InMemory) ClockOut(ctx context.Context, workerID string, loc geo.Coordinate, note string) (ClockOutResult, error) {
	if workerID == "" {
		return ClockOutResult{}, ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.openLocked(workerID)
	if rec == nil {
		return ClockOutResult{}, nil
	}
	now := s.now()
	rec.ClockOutTime = &now
	rec.ClockOutLocation = loc.String()
	rec.ClockOutNote = note
	return ClockOutResult{Record: *rec, Closed: true}, nil
}

func (s *InMemory) OpenShift(ctx context.Context, workerID string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec := s.openLocked(workerID); rec != nil {
		return *rec, nil
	}
	return Record{}, ErrNotFound
}

func (s *InMemory) ListShifts(ctx context.Context, f Filter) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []Record
	for _, id := range s.order {
		rec := s.records[id]
		if f.Matches(*rec) {
			res = append(res, *rec)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ClockInTime.After(res[j].ClockInTime) })
	return res, nil
}

// openLocked returns the latest open record for workerID; callers hold mu.
func (s *InMemory) openLocked(workerID string) *Record {
	for i := len(s.order) - 1; i >= 0; i-- {
		rec := s.records[s.order[i]]
		if rec.WorkerID == workerID && rec.Open() {
			return rec
		}
	}
	return nil
}
