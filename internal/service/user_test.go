package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/gossip/internal/apperror"
)

// The mocks live in chat_test.go — same package, shared across test files.

func newUserFixture(t *testing.T) (*UserService, *mockUserRepo, *mockMirror) {
	t.Helper()
	users := newMockUserRepo()
	m := newMockMirror()
	svc := NewUserService(users, m, testLogger())
	return svc, users, m
}

func TestRegister(t *testing.T) {
	svc, users, m := newUserFixture(t)

	user, err := svc.Register(context.Background(), "Ada", "ada@x.com")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// userId is derived from the email, never generated.
	if user.UserID != "ada_x_com" {
		t.Errorf("UserID = %q, want %q", user.UserID, "ada_x_com")
	}
	if user.Name != "Ada" || user.Email != "ada@x.com" {
		t.Errorf("user = %+v, want Ada/ada@x.com", user)
	}

	if m.upsertCalls != 1 {
		t.Errorf("provider upsert calls = %d, want 1", m.upsertCalls)
	}
	if users.createCalls != 1 {
		t.Errorf("store create calls = %d, want 1", users.createCalls)
	}
}

// Calling Register twice with the same email yields the same ID and writes
// nothing a second time — both existence checks precede both writes.
func TestRegister_Idempotent(t *testing.T) {
	svc, users, m := newUserFixture(t)

	first, err := svc.Register(context.Background(), "Ada", "ada@x.com")
	if err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	second, err := svc.Register(context.Background(), "Ada", "ada@x.com")
	if err != nil {
		t.Fatalf("second Register() error = %v", err)
	}

	if first.UserID != second.UserID {
		t.Errorf("IDs differ: %q vs %q", first.UserID, second.UserID)
	}
	if m.upsertCalls != 1 {
		t.Errorf("provider upsert calls = %d, want 1 (no duplicate provider record)", m.upsertCalls)
	}
	if users.createCalls != 1 {
		t.Errorf("store create calls = %d, want 1 (no duplicate row)", users.createCalls)
	}
}

// The two registries can disagree: a user already in the provider registry
// but missing locally gets only the local insert.
func TestRegister_ProviderKnowsUserAlready(t *testing.T) {
	svc, users, m := newUserFixture(t)
	m.registry["ada_x_com"] = true

	user, err := svc.Register(context.Background(), "Ada", "ada@x.com")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if m.upsertCalls != 0 {
		t.Errorf("provider upsert calls = %d, want 0", m.upsertCalls)
	}
	if users.createCalls != 1 {
		t.Errorf("store create calls = %d, want 1", users.createCalls)
	}
	if user.UserID != "ada_x_com" {
		t.Errorf("UserID = %q, want %q", user.UserID, "ada_x_com")
	}
}

func TestRegister_MissingFields(t *testing.T) {
	tests := []struct {
		name      string
		userName  string
		userEmail string
	}{
		{name: "missing name", userName: "", userEmail: "ada@x.com"},
		{name: "missing email", userName: "Ada", userEmail: ""},
		{name: "whitespace only name", userName: "   ", userEmail: "ada@x.com"},
		{name: "both missing", userName: "", userEmail: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users, m := newUserFixture(t)

			_, err := svc.Register(context.Background(), tt.userName, tt.userEmail)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("Register() error = %v, want ErrValidation", err)
			}

			// Validation precedes every write, local or remote.
			if m.existsCalls != 0 || m.upsertCalls != 0 {
				t.Error("provider touched despite invalid input")
			}
			if users.createCalls != 0 {
				t.Error("store written despite invalid input")
			}
		})
	}
}

func TestRegister_ProviderFailure(t *testing.T) {
	svc, users, m := newUserFixture(t)
	m.existsErr = apperror.Upstream("stream", "timeout")

	_, err := svc.Register(context.Background(), "Ada", "ada@x.com")
	if !errors.Is(err, apperror.ErrUpstream) {
		t.Fatalf("Register() error = %v, want ErrUpstream", err)
	}
	if users.createCalls != 0 {
		t.Errorf("store create calls = %d, want 0", users.createCalls)
	}
}

// The provider write happens before the local insert and is not rolled back
// if the insert fails — the registries are allowed to drift.
func TestRegister_StoreFailureAfterProviderWrite(t *testing.T) {
	svc, users, m := newUserFixture(t)
	users.createErr = errors.New("disk full")

	_, err := svc.Register(context.Background(), "Ada", "ada@x.com")
	if err == nil {
		t.Fatal("Register() expected error")
	}
	if m.upsertCalls != 1 {
		t.Errorf("provider upsert calls = %d, want 1 (provider write precedes local insert)", m.upsertCalls)
	}
	// The provider now has a record the store does not - by contract.
	if !m.registry["ada_x_com"] {
		t.Error("provider registry missing the user after upsert")
	}
}
