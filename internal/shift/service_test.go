package shift

import (
	"context"
	"sync"
	"testing"
	"time"

	"shiftclock.org/internal/geo"
)

var testLoc = geo.Coordinate{Lat: 37.7749, Long: -122.4194}

func TestClockInCreatesOpenShift(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	res, err := s.ClockIn(ctx, "w1", testLoc, "starting")
	if err != nil {
		t.Fatal(err)
	}
	if res.AlreadyOpen {
		t.Fatal("fresh clock-in reported as already open")
	}
	if res.Record.ID == "" || !res.Record.Open() {
		t.Fatalf("unexpected record: %+v", res.Record)
	}
	if res.Record.ClockInLocation != testLoc.String() {
		t.Fatalf("location not serialized: %q", res.Record.ClockInLocation)
	}

	open, err := s.OpenShift(ctx, "w1")
	if err != nil {
		t.Fatal(err)
	}
	if open.ID != res.Record.ID {
		t.Fatalf("open shift mismatch: %s != %s", open.ID, res.Record.ID)
	}
}

func TestClockInIdempotent(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	first, err := s.ClockIn(ctx, "w1", testLoc, "")
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.ClockIn(ctx, "w1", testLoc, "retry")
	if err != nil {
		t.Fatal(err)
	}
	if !second.AlreadyOpen {
		t.Fatal("second clock-in should report already open")
	}
	if second.Record.ID != first.Record.ID {
		t.Fatalf("duplicate record created: %s != %s", second.Record.ID, first.Record.ID)
	}
	if second.Record.ClockInNote != first.Record.ClockInNote {
		t.Fatal("existing record must be returned unchanged")
	}
}

func TestClockOutNoOpenShiftIsNoOp(t *testing.T) {
	s := NewInMemory()
	res, err := s.ClockOut(context.Background(), "w1", testLoc, "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Closed {
		t.Fatal("nothing to close, but Closed was set")
	}
}

func TestClockOutClosesShift(t *testing.T) {
	s := NewInMemory()
	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return base })
	ctx := context.Background()

	in, err := s.ClockIn(ctx, "w1", testLoc, "")
	if err != nil {
		t.Fatal(err)
	}
	s.SetClock(func() time.Time { return base.Add(8 * time.Hour) })
	out, err := s.ClockOut(ctx, "w1", testLoc, "done")
	if err != nil {
		t.Fatal(err)
	}
	if !out.Closed || out.Record.ID != in.Record.ID {
		t.Fatalf("unexpected clock-out result: %+v", out)
	}
	if out.Record.ClockOutTime == nil || !out.Record.ClockOutTime.Equal(base.Add(8*time.Hour)) {
		t.Fatalf("clock-out time not set: %+v", out.Record)
	}
	if out.Record.ClockOutTime.Before(out.Record.ClockInTime) {
		t.Fatal("clock-out precedes clock-in")
	}
	if _, err := s.OpenShift(ctx, "w1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after clock-out, got %v", err)
	}
}

func TestConcurrentClockInsYieldOneRecord(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.ClockIn(ctx, "w1", testLoc, "")
		}()
	}
	wg.Wait()

	records, err := s.ListShifts(ctx, Filter{WorkerID: "w1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(records))
	}
}

func TestListShiftsFilter(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	for day, worker := range map[int]string{0: "w1", 1: "w2", 2: "w1"} {
		s.SetClock(func() time.Time { return base.AddDate(0, 0, day) })
		if _, err := s.ClockIn(ctx, worker, testLoc, ""); err != nil {
			t.Fatal(err)
		}
		if _, err := s.ClockOut(ctx, worker, testLoc, ""); err != nil {
			t.Fatal(err)
		}
	}

	all, _ := s.ListShifts(ctx, Filter{})
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	mine, _ := s.ListShifts(ctx, Filter{WorkerID: "w1"})
	if len(mine) != 2 {
		t.Fatalf("expected 2 records for w1, got %d", len(mine))
	}
	ranged, _ := s.ListShifts(ctx, Filter{From: base.AddDate(0, 0, 1), To: base.AddDate(0, 0, 1).Add(time.Hour)})
	if len(ranged) != 1 || ranged[0].WorkerID != "w2" {
		t.Fatalf("unexpected ranged result: %+v", ranged)
	}
}
