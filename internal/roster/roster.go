// Package roster classifies callers as managers or workers against the
// manager roster. Classification fails closed: any lookup problem yields the
// less-privileged worker role.
package roster

import (
	"context"
	"strings"
)

// Role is the caller's access level.
type Role int

const (
	Worker Role = iota
	Manager
)

func (r Role) String() string {
	if r == Manager {
		return "manager"
	}
	return "worker"
}

// Store persists the manager roster, keyed by email.
type Store interface {
	IsManager(ctx context.Context, email string) (bool, error)
	Add(ctx context.Context, email string) error
	Remove(ctx context.Context, email string) error
	List(ctx context.Context) ([]string, error)
}

// Classify resolves the caller's role. Empty emails, roster misses, and
// lookup errors all classify as Worker.
func Classify(ctx context.Context, s Store, email string) Role {
	email = Normalize(email)
	if email == "" || s == nil {
		return Worker
	}
	ok, err := s.IsManager(ctx, email)
	if err != nil || !ok {
		return Worker
	}
	return Manager
}

// Normalize lower-cases and trims an email for roster comparison.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
