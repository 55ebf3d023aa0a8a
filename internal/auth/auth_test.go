package auth

import (
	"context"
	"testing"
	"time"
)

func setSecret(t *testing.T) {
	t.Helper()
	t.Setenv("SHIFTCLOCK_AUTH_SECRET", "test-secret")
	ResetSecretForTests()
	t.Cleanup(ResetSecretForTests)
}

func TestGenerateAndValidateToken(t *testing.T) {
	setSecret(t)

	token, err := GenerateToken("user-42", "Staff@Example.com", 30*time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseAndValidate(token)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	if claims.Subject != "user-42" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if claims.Email != "staff@example.com" {
		t.Fatalf("email not normalized: %s", claims.Email)
	}
	if claims.Issuer != "shiftclock" {
		t.Fatalf("unexpected issuer: %s", claims.Issuer)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	setSecret(t)
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := ParseAndValidate(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestGenerateTokenRequiresInputs(t *testing.T) {
	setSecret(t)
	if _, err := GenerateToken("", "a@b.c", time.Minute); err == nil {
		t.Fatal("expected error for empty user")
	}
	if _, err := GenerateToken("u", "", time.Minute); err == nil {
		t.Fatal("expected error for empty email")
	}
	if _, err := GenerateToken("u", "a@b.c", 0); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}

func TestValidateSecret(t *testing.T) {
	setSecret(t)
	if err := ValidateSecret(); err != nil {
		t.Fatalf("ValidateSecret with secret set: %v", err)
	}

	t.Setenv("SHIFTCLOCK_AUTH_SECRET", "")
	ResetSecretForTests()
	if err := ValidateSecret(); err == nil {
		t.Fatal("expected error with no secret configured")
	}
}

func TestGenerateTokenFailsWithoutSecret(t *testing.T) {
	t.Setenv("SHIFTCLOCK_AUTH_SECRET", "")
	ResetSecretForTests()
	t.Cleanup(ResetSecretForTests)
	if _, err := GenerateToken("u", "a@b.c", time.Minute); err == nil {
		t.Fatal("expected error with no secret configured")
	}
}

func TestContextIdentity(t *testing.T) {
	ctx := ContextWithIdentity(context.Background(), Identity{UserID: " user-7 ", Email: "Boss@Example.COM"})
	id, ok := IdentityFromContext(ctx)
	if !ok {
		t.Fatal("identity not found")
	}
	if id.UserID != "user-7" || id.Email != "boss@example.com" {
		t.Fatalf("identity not normalized: %+v", id)
	}
	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Fatal("empty context must not carry identity")
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	store := NewInMemoryUsers()
	ctx := context.Background()

	u, err := Register(ctx, store, "Staff@Example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "staff@example.com" || u.ID == "" {
		t.Fatalf("unexpected user: %+v", u)
	}

	if _, err := Register(ctx, store, "staff@example.com", "hunter2hunter2"); err != ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if _, err := Register(ctx, store, "bad-email", "hunter2hunter2"); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for bad email, got %v", err)
	}
	if _, err := Register(ctx, store, "short@example.com", "short"); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}

	got, err := Authenticate(ctx, store, "staff@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("authenticated wrong user: %s != %s", got.ID, u.ID)
	}

	if _, err := Authenticate(ctx, store, "staff@example.com", "wrong-password"); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := Authenticate(ctx, store, "ghost@example.com", "whatever123"); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for unknown email, got %v", err)
	}
}

func TestResolveEmails(t *testing.T) {
	store := NewInMemoryUsers()
	ctx := context.Background()
	u, err := Register(ctx, store, "one@example.com", "password-one")
	if err != nil {
		t.Fatal(err)
	}
	m, err := store.ResolveEmails(ctx, []string{u.ID, "missing", u.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(m) != 1 || m[u.ID] != "one@example.com" {
		t.Fatalf("unexpected map: %v", m)
	}
}
