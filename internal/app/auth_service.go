package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/user"

	"github.com/google/uuid"
)

// Custom application-level errors for auth service
var ErrInvalidCredentials = fmt.Errorf("invalid email or password")
var ErrInvalidToken = fmt.Errorf("unknown or revoked token")

// AuthService issues bearer tokens for portal users. Tokens live in an
// in-process map and never expire; a restart revokes everything. That is the
// portal's historical auth model, kept as is.
type AuthService struct {
	userRepo user.Repository

	mu     sync.RWMutex
	tokens map[string]uuid.UUID // token -> user id
}

func NewAuthService(ur user.Repository) *AuthService {
	return &AuthService{
		userRepo: ur,
		tokens:   make(map[string]uuid.UUID),
	}
}

// Login checks the credentials and returns a fresh bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if !u.Active || u.Password != password {
		return "", ErrInvalidCredentials
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = u.ID
	s.mu.Unlock()
	return token, nil
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*user.User, error) {
	s.mu.RLock()
	userID, ok := s.tokens[token]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidToken
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user for token: %w", err)
	}
	return u, nil
}

// Logout revokes a token. Revoking an unknown token is a no-op.
func (s *AuthService) Logout(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}
