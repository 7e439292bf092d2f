package app

import (
	"context"
	"testing"

	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/user"

	"github.com/google/uuid"
)

func newAuthFixture(users ...*user.User) (*AuthService, *fakeUserRepo) {
	repo := &fakeUserRepo{users: users}
	return NewAuthService(repo), repo
}

func activeUser(email, password string) *user.User {
	return &user.User{
		ID:       uuid.New(),
		Name:     "Maria",
		Email:    email,
		Password: password,
		Role:     user.RoleClient,
		Active:   true,
	}
}

func TestLoginAndAuthenticate(t *testing.T) {
	u := activeUser("maria@acme.com.br", "segredo")
	svc, _ := newAuthFixture(u)

	token, err := svc.Login(context.Background(), "maria@acme.com.br", "segredo")
	if err != nil {
		t.Fatal(err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	got, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID {
		t.Errorf("authenticated user = %s, want %s", got.ID, u.ID)
	}
}

func TestLoginRejections(t *testing.T) {
	inactive := activeUser("saiu@acme.com.br", "segredo")
	inactive.Active = false
	svc, _ := newAuthFixture(activeUser("maria@acme.com.br", "segredo"), inactive)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "ninguem@acme.com.br", "segredo"},
		{"wrong password", "maria@acme.com.br", "errada"},
		{"inactive user", "saiu@acme.com.br", "segredo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Login(context.Background(), tt.email, tt.password); err != ErrInvalidCredentials {
				t.Errorf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _ := newAuthFixture(activeUser("maria@acme.com.br", "segredo"))

	token, err := svc.Login(context.Background(), "maria@acme.com.br", "segredo")
	if err != nil {
		t.Fatal(err)
	}

	svc.Logout(token)
	if _, err := svc.Authenticate(context.Background(), token); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}

	// Revoking twice is harmless.
	svc.Logout(token)
}

func TestAuthenticateUnknownToken(t *testing.T) {
	svc, _ := newAuthFixture()
	if _, err := svc.Authenticate(context.Background(), "nope"); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestLoginsIssueDistinctTokens(t *testing.T) {
	svc, _ := newAuthFixture(activeUser("maria@acme.com.br", "segredo"))

	a, err := svc.Login(context.Background(), "maria@acme.com.br", "segredo")
	if err != nil {
		t.Fatal(err)
	}
	b, err := svc.Login(context.Background(), "maria@acme.com.br", "segredo")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two logins returned the same token")
	}

	// Both sessions stay valid independently.
	svc.Logout(a)
	if _, err := svc.Authenticate(context.Background(), b); err != nil {
		t.Errorf("second session revoked by first logout: %v", err)
	}
}
