package perimeter

import (
	"context"
	"sync"
	"time"

	"shiftclock.org/internal/ids"
)

// InMemory implements Store for tests and DSN-less local runs.
type InMemory struct {
	mu  sync.RWMutex
	cfg *Config
	now func() time.Time
}

var _ Store = (*InMemory)(nil)

func NewInMemory() *InMemory {
	return &InMemory{now: func() time.Time { return time.Now().UTC() }}
}

// SetClock overrides the time source. Test use only.
func (s *InMemory) SetClock(fn func() time.Time) { s.now = fn }

func (s *InMemory) Latest(ctx context.Context) (*Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cfg == nil {
		return nil, nil
	}
	out := *s.cfg
	return &out, nil
}

func (s *InMemory) Upsert(ctx context.Context, cfg Config) (Config, error) {
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if s.cfg == nil {
		cfg.ID = ids.New()
		cfg.CreatedAt = now
	} else {
		cfg.ID = s.cfg.ID
		cfg.CreatedAt = s.cfg.CreatedAt
	}
	cfg.UpdatedAt = now
	s.cfg = &cfg
	return cfg, nil
}

func (s *InMemory) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = nil
	return nil
}
