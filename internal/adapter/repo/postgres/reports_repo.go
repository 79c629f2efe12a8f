package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
)

// ReportRepo persists session reports. Reports are write-once per session.
type ReportRepo struct{ Pool PgxPool }

// NewReportRepo constructs a ReportRepo with the given pool.
func NewReportRepo(p PgxPool) *ReportRepo { return &ReportRepo{Pool: p} }

const reportColumns = `id, session_id, user_id, domain, total_questions, average_score, strengths, gaps,
recommendations, overall_feedback, generated_at`

// GetBySession loads the report of a session.
func (r *ReportRepo) GetBySession(ctx domain.Context, sessionID string) (domain.Report, error) {
	ctx, span := startSpan(ctx, "repo.reports", "reports.GetBySession", "SELECT", "reports")
	defer span.End()
	return r.getOne(ctx, "op=report.get_by_session", `SELECT `+reportColumns+` FROM reports WHERE session_id=$1`, sessionID)
}

// Get loads a report by id.
func (r *ReportRepo) Get(ctx domain.Context, id string) (domain.Report, error) {
	ctx, span := startSpan(ctx, "repo.reports", "reports.Get", "SELECT", "reports")
	defer span.End()
	return r.getOne(ctx, "op=report.get", `SELECT `+reportColumns+` FROM reports WHERE id=$1`, id)
}

// Create stores rep unless the session already has a report, in which case
// the stored report is returned unchanged.
func (r *ReportRepo) Create(ctx domain.Context, rep domain.Report) (domain.Report, error) {
	ctx, span := startSpan(ctx, "repo.reports", "reports.Create", "INSERT", "reports")
	defer span.End()
	strengths, err := encodeList(rep.Strengths)
	if err != nil {
		return domain.Report{}, fmt.Errorf("op=report.create: %w", err)
	}
	gaps, err := encodeList(rep.Gaps)
	if err != nil {
		return domain.Report{}, fmt.Errorf("op=report.create: %w", err)
	}
	recs, err := encodeList(rep.Recommendations)
	if err != nil {
		return domain.Report{}, fmt.Errorf("op=report.create: %w", err)
	}
	if rep.ID == "" {
		rep.ID = newID()
	}
	q := `INSERT INTO reports (` + reportColumns + `) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	ON CONFLICT (session_id) DO NOTHING`
	if _, err := r.Pool.Exec(ctx, q, rep.ID, rep.SessionID, rep.UserID, rep.Domain, rep.TotalQuestions,
		rep.AverageScore, strengths, gaps, recs, rep.OverallFeedback, rep.GeneratedAt); err != nil {
		return domain.Report{}, fmt.Errorf("op=report.create: %w", err)
	}
	return r.getOne(ctx, "op=report.create", `SELECT `+reportColumns+` FROM reports WHERE session_id=$1`, rep.SessionID)
}

// ListByUser returns the user's reports, newest first.
func (r *ReportRepo) ListByUser(ctx domain.Context, userID string) ([]domain.Report, error) {
	ctx, span := startSpan(ctx, "repo.reports", "reports.ListByUser", "SELECT", "reports")
	defer span.End()
	rows, err := r.Pool.Query(ctx, `SELECT `+reportColumns+` FROM reports WHERE user_id=$1 ORDER BY generated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("op=report.list: %w", err)
	}
	defer rows.Close()
	out := []domain.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("op=report.list: %w", err)
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=report.list: %w", err)
	}
	return out, nil
}

func (r *ReportRepo) getOne(ctx domain.Context, op, q string, arg string) (domain.Report, error) {
	rep, err := scanReport(r.Pool.QueryRow(ctx, q, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Report{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.Report{}, fmt.Errorf("%s: %w", op, err)
	}
	return rep, nil
}

func scanReport(row pgx.Row) (domain.Report, error) {
	var (
		rep                   domain.Report
		strengths, gaps, recs []byte
	)
	if err := row.Scan(&rep.ID, &rep.SessionID, &rep.UserID, &rep.Domain, &rep.TotalQuestions, &rep.AverageScore,
		&strengths, &gaps, &recs, &rep.OverallFeedback, &rep.GeneratedAt); err != nil {
		return domain.Report{}, err
	}
	if err := decodeJSON(strengths, &rep.Strengths); err != nil {
		return domain.Report{}, err
	}
	if err := decodeJSON(gaps, &rep.Gaps); err != nil {
		return domain.Report{}, err
	}
	if err := decodeJSON(recs, &rep.Recommendations); err != nil {
		return domain.Report{}, err
	}
	return rep, nil
}
