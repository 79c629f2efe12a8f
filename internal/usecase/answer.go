package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
	obsctx "github.com/fairyhunter13/ai-mock-interview/internal/observability"
	"github.com/fairyhunter13/ai-mock-interview/pkg/textx"
)

// SubmitLimiter throttles answer submissions per user.
type SubmitLimiter interface {
	Allow(ctx domain.Context, subject string) (allowed bool, retryAfter time.Duration, err error)
}

// SubmitAnswerInput is one answer submission.
type SubmitAnswerInput struct {
	SessionID    string
	QuestionID   string
	QuestionText string
	Answer       string
	FocusScore   *float64
}

// AnswerService evaluates and stores answers.
type AnswerService struct {
	Sessions  domain.SessionRepository
	Responses domain.ResponseRepository
	Evaluator domain.Evaluator
	Events    domain.EventPublisher
	Limiter   SubmitLimiter
	Now       func() time.Time
}

// NewAnswerService constructs an AnswerService. events and limiter may be nil.
func NewAnswerService(s domain.SessionRepository, r domain.ResponseRepository, ev domain.Evaluator, events domain.EventPublisher, limiter SubmitLimiter) AnswerService {
	return AnswerService{Sessions: s, Responses: r, Evaluator: ev, Events: events, Limiter: limiter, Now: time.Now}
}

// Submit evaluates an answer and upserts it keyed on (session, question).
// A resubmission replaces the content but keeps the original ID and CreatedAt.
func (s AnswerService) Submit(ctx domain.Context, userID string, in SubmitAnswerInput) (domain.Response, error) {
	in.QuestionText = textx.SanitizeText(in.QuestionText)
	in.Answer = textx.SanitizeText(in.Answer)
	if in.SessionID == "" || in.QuestionID == "" || in.QuestionText == "" || in.Answer == "" {
		return domain.Response{}, fmt.Errorf("%w: sessionId, questionId, questionText and userAnswer are required", domain.ErrInvalidArgument)
	}
	sess, err := ownedSession(ctx, s.Sessions, userID, in.SessionID)
	if err != nil {
		return domain.Response{}, err
	}
	if s.Limiter != nil {
		allowed, retryAfter, lerr := s.Limiter.Allow(ctx, userID)
		if lerr != nil {
			obsctx.LoggerFromContext(ctx).Warn("submission limiter unavailable", slog.Any("error", lerr))
		}
		if !allowed {
			return domain.Response{}, fmt.Errorf("%w: retry after %s", domain.ErrRateLimited, retryAfter.Round(time.Second))
		}
	}

	ctx = obsctx.WithLogAttrs(ctx, slog.String("session_id", sess.ID), slog.String("question_id", in.QuestionID))
	lg := obsctx.LoggerFromContext(ctx)

	eval, err := s.Evaluator.Evaluate(ctx, in.QuestionText, in.Answer, sess.Domain)
	if err != nil {
		// evaluator chains end in the heuristic; a bare remote evaluator may still fail
		return domain.Response{}, fmt.Errorf("op=answer.submit: %w", err)
	}
	filler := AnalyzeCommunication(in.Answer)

	now := s.now()
	resp := domain.Response{
		SessionID:            sess.ID,
		UserID:               userID,
		QuestionID:           in.QuestionID,
		QuestionText:         in.QuestionText,
		Answer:               in.Answer,
		Score:                domain.NormalizeScore(eval.Score),
		TechnicalScore:       normalizeOr(eval.TechnicalScore, eval.Score),
		CommunicationScore:   normalizeOr(eval.CommunicationScore, filler.CommunicationScore),
		FocusScore:           in.FocusScore,
		Feedback:             eval.Feedback,
		IdealAnswer:          eval.IdealAnswer,
		Strengths:            nonNil(eval.Strengths),
		AreasToImprove:       nonNil(eval.AreasToImprove),
		Mistakes:             nonNil(eval.Mistakes),
		LineByLineCorrection: eval.LineByLineCorrection,
		FillerAnalysis:       &filler,
		Provider:             eval.Provider,
		EvaluatedAt:          now,
		SubmittedAt:          now,
		CreatedAt:            now,
	}
	if resp.LineByLineCorrection == nil {
		resp.LineByLineCorrection = []domain.LineCorrection{}
	}

	prev, err := s.Responses.FindOne(ctx, sess.ID, in.QuestionID)
	switch {
	case err == nil:
		resp.ID = prev.ID
		resp.CreatedAt = prev.CreatedAt
	case errors.Is(err, domain.ErrNotFound):
	default:
		return domain.Response{}, fmt.Errorf("op=answer.submit: %w", err)
	}

	stored, err := s.Responses.Upsert(ctx, resp)
	if err != nil {
		return domain.Response{}, fmt.Errorf("op=answer.submit: %w", err)
	}
	lg.Info("answer evaluated",
		slog.String("provider", stored.Provider),
		slog.Float64("score", stored.Score),
		slog.Bool("resubmission", prev.ID != ""))

	publish(ctx, s.Events, domain.Event{
		Type:       domain.EventAnswerEvaluated,
		SessionID:  sess.ID,
		UserID:     userID,
		QuestionID: in.QuestionID,
		Score:      stored.Score,
		At:         now,
	})
	return stored, nil
}

// List returns the caller's responses for a session, oldest submission first.
func (s AnswerService) List(ctx domain.Context, userID, sessionID string) ([]domain.Response, error) {
	if _, err := ownedSession(ctx, s.Sessions, userID, sessionID); err != nil {
		return nil, err
	}
	list, err := s.Responses.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("op=answer.list: %w", err)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].SubmittedAt.Before(list[j].SubmittedAt) })
	return list, nil
}

func (s AnswerService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// ownedSession loads a session and checks that userID owns it.
func ownedSession(ctx domain.Context, repo domain.SessionRepository, userID, sessionID string) (domain.Session, error) {
	if sessionID == "" {
		return domain.Session{}, fmt.Errorf("%w: interview id required", domain.ErrInvalidArgument)
	}
	sess, err := repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Session{}, fmt.Errorf("%w: interview not found", domain.ErrNotFound)
		}
		return domain.Session{}, fmt.Errorf("op=session.get: %w", err)
	}
	if sess.UserID != userID {
		return domain.Session{}, fmt.Errorf("%w: not authorized for this interview", domain.ErrForbidden)
	}
	return sess, nil
}

// publish sends an event without failing the caller.
func publish(ctx domain.Context, p domain.EventPublisher, e domain.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		obsctx.LoggerFromContext(ctx).Warn("event publish failed",
			slog.String("type", e.Type),
			slog.Any("error", err))
	}
}

// normalizeOr normalizes v, or fallback when v is unset.
func normalizeOr(v, fallback float64) float64 {
	if v == 0 {
		v = fallback
	}
	return domain.NormalizeScore(v)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
