package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
)

// UserRepo persists API users.
type UserRepo struct{ Pool PgxPool }

// NewUserRepo constructs a UserRepo with the given pool.
func NewUserRepo(p PgxPool) *UserRepo { return &UserRepo{Pool: p} }

// Create inserts a user. A duplicate email is ErrConflict.
func (r *UserRepo) Create(ctx domain.Context, u domain.User) (string, error) {
	ctx, span := startSpan(ctx, "repo.users", "users.Create", "INSERT", "users")
	defer span.End()
	if u.ID == "" {
		u.ID = newID()
	}
	q := `INSERT INTO users (id, name, email, password_hash, created_at) VALUES ($1,$2,$3,$4,$5)`
	if _, err := r.Pool.Exec(ctx, q, u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("op=user.create: %w: email already registered", domain.ErrConflict)
		}
		return "", fmt.Errorf("op=user.create: %w", err)
	}
	return u.ID, nil
}

// GetByEmail loads a user by email.
func (r *UserRepo) GetByEmail(ctx domain.Context, email string) (domain.User, error) {
	ctx, span := startSpan(ctx, "repo.users", "users.GetByEmail", "SELECT", "users")
	defer span.End()
	return r.getOne(ctx, "op=user.get_by_email", `SELECT id, name, email, password_hash, created_at FROM users WHERE email=$1`, email)
}

// Get loads a user by id.
func (r *UserRepo) Get(ctx domain.Context, id string) (domain.User, error) {
	ctx, span := startSpan(ctx, "repo.users", "users.Get", "SELECT", "users")
	defer span.End()
	return r.getOne(ctx, "op=user.get", `SELECT id, name, email, password_hash, created_at FROM users WHERE id=$1`, id)
}

func (r *UserRepo) getOne(ctx domain.Context, op, q, arg string) (domain.User, error) {
	var u domain.User
	if err := r.Pool.QueryRow(ctx, q, arg).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
