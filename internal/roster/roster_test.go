package roster

import (
	"context"
	"errors"
	"testing"
)

type failingStore struct{}

func (failingStore) IsManager(ctx context.Context, email string) (bool, error) {
	return true, errors.New("roster lookup failed")
}
func (failingStore) Add(ctx context.Context, email string) error    { return nil }
func (failingStore) Remove(ctx context.Context, email string) error { return nil }
func (failingStore) List(ctx context.Context) ([]string, error)     { return nil, nil }

func TestClassifyManager(t *testing.T) {
	s := NewInMemory("boss@example.com")
	if got := Classify(context.Background(), s, "boss@example.com"); got != Manager {
		t.Fatalf("expected Manager, got %v", got)
	}
	// Case and whitespace must not matter.
	if got := Classify(context.Background(), s, "  Boss@Example.COM "); got != Manager {
		t.Fatalf("expected Manager for normalized email, got %v", got)
	}
}

func TestClassifyUnknownIsWorker(t *testing.T) {
	s := NewInMemory("boss@example.com")
	if got := Classify(context.Background(), s, "staff@example.com"); got != Worker {
		t.Fatalf("expected Worker, got %v", got)
	}
	if got := Classify(context.Background(), s, ""); got != Worker {
		t.Fatalf("empty email must be Worker, got %v", got)
	}
}

func TestClassifyFailsClosed(t *testing.T) {
	// Even a lookup that errors while reporting true must classify as Worker.
	if got := Classify(context.Background(), failingStore{}, "boss@example.com"); got != Worker {
		t.Fatalf("lookup failure must fail closed to Worker, got %v", got)
	}
}

func TestInMemoryAddRemove(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	if err := s.Add(ctx, "Lead@Example.com"); err != nil {
		t.Fatal(err)
	}
	ok, err := s.IsManager(ctx, "lead@example.com")
	if err != nil || !ok {
		t.Fatalf("expected membership, got ok=%v err=%v", ok, err)
	}
	if err := s.Remove(ctx, "lead@example.com"); err != nil {
		t.Fatal(err)
	}
	ok, _ = s.IsManager(ctx, "lead@example.com")
	if ok {
		t.Fatal("expected removal")
	}
}
