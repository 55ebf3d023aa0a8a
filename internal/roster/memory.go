package roster

import (
	"context"
	"sort"
	"sync"
)

// InMemory implements Store for tests and DSN-less local runs.
type InMemory struct {
	mu     sync.RWMutex
	emails map[string]struct{}
}

var _ Store = (*InMemory)(nil)

func NewInMemory(seed ...string) *InMemory {
	s := &InMemory{emails: make(map[string]struct{})}
	for _, e := range seed {
		if e = Normalize(e); e != "" {
			s.emails[e] = struct{}{}
		}
	}
	return s
}

func (s *InMemory) IsManager(ctx context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.emails[Normalize(email)]
	return ok, nil
}

func (s *InMemory) Add(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emails[Normalize(email)] = struct{}{}
	return nil
}

func (s *InMemory) Remove(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.emails, Normalize(email))
	return nil
}

func (s *InMemory) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.emails))
	for e := range s.emails {
		out = append(out, e)
	}
	sort.Strings(out)
	return out, nil
}
