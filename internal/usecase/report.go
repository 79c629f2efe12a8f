package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/ai-mock-interview/internal/adapter/observability"
	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
	obsctx "github.com/fairyhunter13/ai-mock-interview/internal/observability"
)

// ReportService aggregates a session's responses into a single immutable report.
type ReportService struct {
	Sessions  domain.SessionRepository
	Responses domain.ResponseRepository
	Reports   domain.ReportRepository
	Events    domain.EventPublisher
	Now       func() time.Time
}

// NewReportService constructs a ReportService. events may be nil.
func NewReportService(s domain.SessionRepository, r domain.ResponseRepository, rep domain.ReportRepository, events domain.EventPublisher) ReportService {
	return ReportService{Sessions: s, Responses: r, Reports: rep, Events: events, Now: time.Now}
}

// Generate returns the session report, creating it on first call. cached is
// true when an existing report was returned unchanged.
func (s ReportService) Generate(ctx domain.Context, userID, sessionID string) (report domain.Report, cached bool, err error) {
	sess, err := ownedSession(ctx, s.Sessions, userID, sessionID)
	if err != nil {
		return domain.Report{}, false, err
	}
	lg := obsctx.LoggerFromContext(ctx).With(slog.String("session_id", sessionID))

	existing, err := s.Reports.GetBySession(ctx, sessionID)
	switch {
	case err == nil:
		if err := s.completeFrom(ctx, sess, existing); err != nil {
			return domain.Report{}, false, err
		}
		observability.RecordReport(true)
		return existing, true, nil
	case !errors.Is(err, domain.ErrNotFound):
		return domain.Report{}, false, fmt.Errorf("op=report.generate: %w", err)
	}

	responses, err := s.Responses.ListBySession(ctx, sessionID)
	if err != nil {
		return domain.Report{}, false, fmt.Errorf("op=report.generate: %w", err)
	}
	scores := make([]float64, len(responses))
	for i, r := range responses {
		scores[i] = r.Score
	}
	mean, ok := domain.MeanScore(scores)
	if !ok {
		return domain.Report{}, false, fmt.Errorf("%w: no answers submitted yet, complete the interview first", domain.ErrFailedPrecondition)
	}

	insights := AnalyzePerformance(responses, sess.Domain)
	now := s.now()
	candidate := domain.Report{
		ID:              uuid.New().String(),
		SessionID:       sessionID,
		UserID:          userID,
		Domain:          sess.Domain,
		TotalQuestions:  len(sess.Questions),
		AverageScore:    mean,
		Strengths:       insights.Strengths,
		Gaps:            insights.Gaps,
		Recommendations: insights.Recommendations,
		OverallFeedback: OverallFeedback(mean, sess.Domain),
		GeneratedAt:     now,
	}
	stored, err := s.Reports.Create(ctx, candidate)
	if err != nil {
		return domain.Report{}, false, fmt.Errorf("op=report.generate: %w", err)
	}
	if stored.ID != candidate.ID {
		// a concurrent request stored its report first
		if err := s.completeFrom(ctx, sess, stored); err != nil {
			return domain.Report{}, false, err
		}
		observability.RecordReport(true)
		return stored, true, nil
	}

	if err := s.Sessions.Complete(ctx, sessionID, mean, now); err != nil {
		return domain.Report{}, false, fmt.Errorf("op=report.generate: %w", err)
	}
	observability.RecordReport(false)
	lg.Info("report generated", slog.Float64("average_score", mean), slog.Int("responses", len(responses)))
	publish(ctx, s.Events, domain.Event{
		Type:      domain.EventReportGenerated,
		SessionID: sessionID,
		UserID:    userID,
		Score:     mean,
		At:        now,
	})
	return stored, false, nil
}

// completeFrom marks sess completed from an already stored report. It repairs
// sessions left in progress when an earlier completion failed.
func (s ReportService) completeFrom(ctx domain.Context, sess domain.Session, rep domain.Report) error {
	if sess.Status == domain.SessionCompleted {
		return nil
	}
	if err := s.Sessions.Complete(ctx, sess.ID, rep.AverageScore, rep.GeneratedAt); err != nil {
		return fmt.Errorf("op=report.generate: %w", err)
	}
	return nil
}

// Get returns one report owned by userID.
func (s ReportService) Get(ctx domain.Context, userID, reportID string) (domain.Report, error) {
	r, err := s.Reports.Get(ctx, reportID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Report{}, fmt.Errorf("%w: report not found", domain.ErrNotFound)
		}
		return domain.Report{}, fmt.Errorf("op=report.get: %w", err)
	}
	if r.UserID != userID {
		return domain.Report{}, fmt.Errorf("%w: not authorized to view this report", domain.ErrForbidden)
	}
	return r, nil
}

// ListForUser returns the user's reports, newest first.
func (s ReportService) ListForUser(ctx domain.Context, userID string) ([]domain.Report, error) {
	list, err := s.Reports.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("op=report.list: %w", err)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].GeneratedAt.After(list[j].GeneratedAt) })
	return list, nil
}

func (s ReportService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
