package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
	obsctx "github.com/fairyhunter13/ai-mock-interview/internal/observability"
)

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 6

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(encoded, password string) (bool, error)
}

// TokenIssuer signs access tokens for a user.
type TokenIssuer interface {
	Issue(userID string) (token string, expiresAt time.Time, err error)
}

// AuthResult is an access token plus the user it belongs to.
type AuthResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      domain.User `json:"user"`
}

// AuthService registers users and logs them in.
type AuthService struct {
	Users  domain.UserRepository
	Hasher PasswordHasher
	Tokens TokenIssuer
	Now    func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(u domain.UserRepository, h PasswordHasher, t TokenIssuer) AuthService {
	return AuthService{Users: u, Hasher: h, Tokens: t, Now: time.Now}
}

// Register creates a user and returns a token for it.
func (s AuthService) Register(ctx domain.Context, name, email, password string) (AuthResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return AuthResult{}, fmt.Errorf("%w: name required", domain.ErrInvalidArgument)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return AuthResult{}, fmt.Errorf("%w: invalid email", domain.ErrInvalidArgument)
	}
	if len(password) < MinPasswordLen {
		return AuthResult{}, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidArgument, MinPasswordLen)
	}

	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return AuthResult{}, fmt.Errorf("%w: user already exists", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return AuthResult{}, fmt.Errorf("op=auth.register: %w", err)
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("op=auth.register: %w", err)
	}
	u := domain.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	id, err := s.Users.Create(ctx, u)
	if err != nil {
		return AuthResult{}, fmt.Errorf("op=auth.register: %w", err)
	}
	u.ID = id
	obsctx.LoggerFromContext(ctx).Info("user registered", slog.String("user_id", id))
	return s.issue(u)
}

// Login checks credentials and returns a fresh token.
func (s AuthService) Login(ctx domain.Context, email, password string) (AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return AuthResult{}, fmt.Errorf("%w: email and password required", domain.ErrInvalidArgument)
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AuthResult{}, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return AuthResult{}, fmt.Errorf("op=auth.login: %w", err)
	}
	ok, err := s.Hasher.Verify(u.PasswordHash, password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("op=auth.login: %w", err)
	}
	if !ok {
		return AuthResult{}, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	return s.issue(u)
}

func (s AuthService) issue(u domain.User) (AuthResult, error) {
	tok, exp, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("op=auth.issue: %w", err)
	}
	return AuthResult{Token: tok, ExpiresAt: exp, User: u}, nil
}

func (s AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }
