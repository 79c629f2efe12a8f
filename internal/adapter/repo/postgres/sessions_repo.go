package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
)

// SessionRepo persists interview sessions.
type SessionRepo struct{ Pool PgxPool }

// NewSessionRepo constructs a SessionRepo with the given pool.
func NewSessionRepo(p PgxPool) *SessionRepo { return &SessionRepo{Pool: p} }

func startSpan(ctx domain.Context, tracerName, name, op, table string) (domain.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, name)
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", op),
		attribute.String("db.sql.table", table),
	)
	return ctx, span
}

// Create inserts a new session and returns its id.
func (r *SessionRepo) Create(ctx domain.Context, s domain.Session) (string, error) {
	ctx, span := startSpan(ctx, "repo.sessions", "sessions.Create", "INSERT", "sessions")
	defer span.End()
	qs, err := json.Marshal(nonNilQuestions(s.Questions))
	if err != nil {
		return "", fmt.Errorf("op=session.create: %w", err)
	}
	q := `INSERT INTO sessions (id, user_id, domain, questions, status, started_at) VALUES ($1,$2,$3,$4,$5,$6)`
	if _, err := r.Pool.Exec(ctx, q, s.ID, s.UserID, s.Domain, qs, string(s.Status), s.StartedAt); err != nil {
		return "", fmt.Errorf("op=session.create: %w", err)
	}
	return s.ID, nil
}

// Get loads a session by id.
func (r *SessionRepo) Get(ctx domain.Context, id string) (domain.Session, error) {
	ctx, span := startSpan(ctx, "repo.sessions", "sessions.Get", "SELECT", "sessions")
	defer span.End()
	q := `SELECT id, user_id, domain, questions, status, started_at, completed_at, total_score FROM sessions WHERE id=$1`
	var (
		s      domain.Session
		qs     []byte
		status string
	)
	err := r.Pool.QueryRow(ctx, q, id).Scan(&s.ID, &s.UserID, &s.Domain, &qs, &status, &s.StartedAt, &s.CompletedAt, &s.TotalScore)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Session{}, fmt.Errorf("op=session.get: %w", domain.ErrNotFound)
		}
		return domain.Session{}, fmt.Errorf("op=session.get: %w", err)
	}
	if err := json.Unmarshal(qs, &s.Questions); err != nil {
		return domain.Session{}, fmt.Errorf("op=session.get: decode questions: %w", err)
	}
	s.Status = domain.SessionStatus(status)
	return s, nil
}

// Complete marks a session completed with its final score.
func (r *SessionRepo) Complete(ctx domain.Context, id string, totalScore float64, at time.Time) error {
	ctx, span := startSpan(ctx, "repo.sessions", "sessions.Complete", "UPDATE", "sessions")
	defer span.End()
	q := `UPDATE sessions SET status=$2, total_score=$3, completed_at=$4 WHERE id=$1`
	tag, err := r.Pool.Exec(ctx, q, id, string(domain.SessionCompleted), totalScore, at)
	if err != nil {
		return fmt.Errorf("op=session.complete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=session.complete: %w", domain.ErrNotFound)
	}
	return nil
}

func nonNilQuestions(qs []domain.Question) []domain.Question {
	if qs == nil {
		return []domain.Question{}
	}
	return qs
}
