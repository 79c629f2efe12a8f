package usecase

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
	obsctx "github.com/fairyhunter13/ai-mock-interview/internal/observability"
)

// InterviewService starts interview sessions from the question catalog.
type InterviewService struct {
	Catalog  domain.QuestionCatalog
	Sessions domain.SessionRepository
	Now      func() time.Time
}

// NewInterviewService constructs an InterviewService.
func NewInterviewService(c domain.QuestionCatalog, s domain.SessionRepository) InterviewService {
	return InterviewService{Catalog: c, Sessions: s, Now: time.Now}
}

// Domains lists the domains that have questions.
func (s InterviewService) Domains() []string { return s.Catalog.Domains() }

// Questions returns the catalog questions for one domain.
func (s InterviewService) Questions(domainName string) ([]domain.Question, error) {
	domainName = strings.TrimSpace(domainName)
	if domainName == "" {
		return nil, fmt.Errorf("%w: domain required", domain.ErrInvalidArgument)
	}
	qs, err := s.Catalog.Questions(domainName)
	if err != nil {
		return nil, fmt.Errorf("op=interview.questions: %w", err)
	}
	return qs, nil
}

// Start creates an in-progress session holding a snapshot of the domain's questions.
func (s InterviewService) Start(ctx domain.Context, userID, domainName string) (domain.Session, error) {
	if userID == "" {
		return domain.Session{}, fmt.Errorf("%w: user required", domain.ErrUnauthorized)
	}
	qs, err := s.Questions(domainName)
	if err != nil {
		return domain.Session{}, err
	}
	if len(qs) == 0 {
		return domain.Session{}, fmt.Errorf("%w: no questions for domain %q", domain.ErrNotFound, domainName)
	}
	snapshot := make([]domain.Question, len(qs))
	copy(snapshot, qs)

	sess := domain.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Domain:    strings.TrimSpace(domainName),
		Questions: snapshot,
		Status:    domain.SessionInProgress,
		StartedAt: s.now(),
	}
	id, err := s.Sessions.Create(ctx, sess)
	if err != nil {
		return domain.Session{}, fmt.Errorf("op=interview.start: %w", err)
	}
	sess.ID = id
	obsctx.LoggerFromContext(ctx).Info("interview started",
		slog.String("session_id", id),
		slog.String("domain", sess.Domain),
		slog.Int("questions", len(snapshot)))
	return sess, nil
}

// Get returns a session owned by userID.
func (s InterviewService) Get(ctx domain.Context, userID, sessionID string) (domain.Session, error) {
	return ownedSession(ctx, s.Sessions, userID, sessionID)
}

func (s InterviewService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
