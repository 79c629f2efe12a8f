package postgres

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
)

// ResponseRepo persists evaluated answers, one row per (session, question).
type ResponseRepo struct{ Pool PgxPool }

// NewResponseRepo constructs a ResponseRepo with the given pool.
func NewResponseRepo(p PgxPool) *ResponseRepo { return &ResponseRepo{Pool: p} }

const responseColumns = `id, session_id, user_id, question_id, question_text, answer, score, technical_score,
communication_score, focus_score, feedback, ideal_answer, strengths, areas_to_improve, mistakes,
line_corrections, filler_analysis, provider, evaluated_at, submitted_at, created_at`

// FindOne loads the response for a session and question.
func (r *ResponseRepo) FindOne(ctx domain.Context, sessionID, questionID string) (domain.Response, error) {
	ctx, span := startSpan(ctx, "repo.responses", "responses.FindOne", "SELECT", "responses")
	defer span.End()
	q := `SELECT ` + responseColumns + ` FROM responses WHERE session_id=$1 AND question_id=$2`
	resp, err := scanResponse(r.Pool.QueryRow(ctx, q, sessionID, questionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Response{}, fmt.Errorf("op=response.find: %w", domain.ErrNotFound)
		}
		return domain.Response{}, fmt.Errorf("op=response.find: %w", err)
	}
	return resp, nil
}

// Upsert inserts the response or replaces the stored one for the same
// (session, question), keeping the stored id and created_at.
func (r *ResponseRepo) Upsert(ctx domain.Context, resp domain.Response) (domain.Response, error) {
	ctx, span := startSpan(ctx, "repo.responses", "responses.Upsert", "UPSERT", "responses")
	defer span.End()
	strengths, areas, mistakes, lines, filler, err := encodeResponseJSON(resp)
	if err != nil {
		return domain.Response{}, fmt.Errorf("op=response.upsert: %w", err)
	}
	q := `INSERT INTO responses (` + responseColumns + `)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
	ON CONFLICT (session_id, question_id)
	DO UPDATE SET question_text=EXCLUDED.question_text, answer=EXCLUDED.answer, score=EXCLUDED.score,
		technical_score=EXCLUDED.technical_score, communication_score=EXCLUDED.communication_score,
		focus_score=EXCLUDED.focus_score, feedback=EXCLUDED.feedback, ideal_answer=EXCLUDED.ideal_answer,
		strengths=EXCLUDED.strengths, areas_to_improve=EXCLUDED.areas_to_improve, mistakes=EXCLUDED.mistakes,
		line_corrections=EXCLUDED.line_corrections, filler_analysis=EXCLUDED.filler_analysis,
		provider=EXCLUDED.provider, evaluated_at=EXCLUDED.evaluated_at, submitted_at=EXCLUDED.submitted_at
	RETURNING id, created_at`
	if resp.ID == "" {
		resp.ID = newID()
	}
	err = r.Pool.QueryRow(ctx, q,
		resp.ID, resp.SessionID, resp.UserID, resp.QuestionID, resp.QuestionText, resp.Answer,
		resp.Score, resp.TechnicalScore, resp.CommunicationScore, resp.FocusScore,
		resp.Feedback, resp.IdealAnswer, strengths, areas, mistakes, lines, filler, resp.Provider,
		resp.EvaluatedAt, resp.SubmittedAt, resp.CreatedAt,
	).Scan(&resp.ID, &resp.CreatedAt)
	if err != nil {
		return domain.Response{}, fmt.Errorf("op=response.upsert: %w", err)
	}
	return resp, nil
}

// ListBySession returns all responses of a session ordered by submission time.
func (r *ResponseRepo) ListBySession(ctx domain.Context, sessionID string) ([]domain.Response, error) {
	ctx, span := startSpan(ctx, "repo.responses", "responses.ListBySession", "SELECT", "responses")
	defer span.End()
	q := `SELECT ` + responseColumns + ` FROM responses WHERE session_id=$1 ORDER BY submitted_at ASC`
	rows, err := r.Pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("op=response.list: %w", err)
	}
	defer rows.Close()
	out := []domain.Response{}
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("op=response.list: %w", err)
		}
		out = append(out, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=response.list: %w", err)
	}
	return out, nil
}

func scanResponse(row pgx.Row) (domain.Response, error) {
	var (
		resp                                   domain.Response
		strengths, areas, mistakes, lines, fil []byte
	)
	err := row.Scan(&resp.ID, &resp.SessionID, &resp.UserID, &resp.QuestionID, &resp.QuestionText, &resp.Answer,
		&resp.Score, &resp.TechnicalScore, &resp.CommunicationScore, &resp.FocusScore,
		&resp.Feedback, &resp.IdealAnswer, &strengths, &areas, &mistakes, &lines, &fil, &resp.Provider,
		&resp.EvaluatedAt, &resp.SubmittedAt, &resp.CreatedAt)
	if err != nil {
		return domain.Response{}, err
	}
	if err := decodeJSON(strengths, &resp.Strengths); err != nil {
		return domain.Response{}, err
	}
	if err := decodeJSON(areas, &resp.AreasToImprove); err != nil {
		return domain.Response{}, err
	}
	if err := decodeJSON(mistakes, &resp.Mistakes); err != nil {
		return domain.Response{}, err
	}
	if err := decodeJSON(lines, &resp.LineByLineCorrection); err != nil {
		return domain.Response{}, err
	}
	if len(fil) > 0 {
		var fa domain.FillerAnalysis
		if err := json.Unmarshal(fil, &fa); err != nil {
			return domain.Response{}, fmt.Errorf("decode filler analysis: %w", err)
		}
		resp.FillerAnalysis = &fa
	}
	return resp, nil
}

func encodeResponseJSON(r domain.Response) (strengths, areas, mistakes, lines, filler []byte, err error) {
	if strengths, err = encodeList(r.Strengths); err != nil {
		return
	}
	if areas, err = encodeList(r.AreasToImprove); err != nil {
		return
	}
	if mistakes, err = encodeList(r.Mistakes); err != nil {
		return
	}
	if r.LineByLineCorrection == nil {
		lines = []byte("[]")
	} else if lines, err = json.Marshal(r.LineByLineCorrection); err != nil {
		return
	}
	if r.FillerAnalysis != nil {
		filler, err = json.Marshal(r.FillerAnalysis)
	}
	return
}
