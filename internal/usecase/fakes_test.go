package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
)

type memSessions struct {
	mu   sync.Mutex
	byID map[string]domain.Session
}

func newMemSessions(ss ...domain.Session) *memSessions {
	m := &memSessions{byID: map[string]domain.Session{}}
	for _, s := range ss {
		m.byID[s.ID] = s
	}
	return m
}

func (m *memSessions) Create(_ domain.Context, s domain.Session) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[s.ID] = s
	return s.ID, nil
}

func (m *memSessions) Get(_ domain.Context, id string) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return domain.Session{}, domain.ErrNotFound
	}
	return s, nil
}

func (m *memSessions) Complete(_ domain.Context, id string, total float64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = domain.SessionCompleted
	s.TotalScore = &total
	s.CompletedAt = &at
	m.byID[id] = s
	return nil
}

type memResponses struct {
	mu    sync.Mutex
	items []domain.Response
	seq   int
}

func (m *memResponses) FindOne(_ domain.Context, sessionID, questionID string) (domain.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.items {
		if r.SessionID == sessionID && r.QuestionID == questionID {
			return r, nil
		}
	}
	return domain.Response{}, domain.ErrNotFound
}

func (m *memResponses) Upsert(_ domain.Context, r domain.Response) (domain.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cur := range m.items {
		if cur.SessionID == r.SessionID && cur.QuestionID == r.QuestionID {
			r.ID, r.CreatedAt = cur.ID, cur.CreatedAt
			m.items[i] = r
			return r, nil
		}
	}
	if r.ID == "" {
		m.seq++
		r.ID = fmt.Sprintf("resp-%d", m.seq)
	}
	m.items = append(m.items, r)
	return r, nil
}

func (m *memResponses) ListBySession(_ domain.Context, sessionID string) ([]domain.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Response{}
	for _, r := range m.items {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

type memReports struct {
	mu    sync.Mutex
	items []domain.Report
	// beforeCreate runs inside Create, before the existence check
	beforeCreate func()
}

func (m *memReports) GetBySession(_ domain.Context, sessionID string) (domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.items {
		if r.SessionID == sessionID {
			return r, nil
		}
	}
	return domain.Report{}, domain.ErrNotFound
}

func (m *memReports) Get(_ domain.Context, id string) (domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.items {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Report{}, domain.ErrNotFound
}

func (m *memReports) Create(_ domain.Context, r domain.Report) (domain.Report, error) {
	if m.beforeCreate != nil {
		m.beforeCreate()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cur := range m.items {
		if cur.SessionID == r.SessionID {
			return cur, nil
		}
	}
	m.items = append(m.items, r)
	return r, nil
}

func (m *memReports) ListByUser(_ domain.Context, userID string) ([]domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Report{}
	for _, r := range m.items {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

type memUsers struct {
	mu    sync.Mutex
	items map[string]domain.User
}

func newMemUsers() *memUsers { return &memUsers{items: map[string]domain.User{}} }

func (m *memUsers) Create(_ domain.Context, u domain.User) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[u.ID] = u
	return u.ID, nil
}

func (m *memUsers) GetByEmail(_ domain.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.items {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (m *memUsers) Get(_ domain.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.items[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

type mockEvaluator struct{ mock.Mock }

func (m *mockEvaluator) Evaluate(ctx domain.Context, question, answer, domainName string) (domain.EvaluationResult, error) {
	args := m.Called(ctx, question, answer, domainName)
	return args.Get(0).(domain.EvaluationResult), args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx domain.Context, e domain.Event) error {
	return m.Called(ctx, e).Error(0)
}

type stubLimiter struct {
	allowed bool
	err     error
}

func (s stubLimiter) Allow(context.Context, string) (bool, time.Duration, error) {
	return s.allowed, 30 * time.Second, s.err
}

type stubCatalog map[string][]domain.Question

func (c stubCatalog) Domains() []string {
	out := []string{}
	for _, d := range domain.Domains {
		if _, ok := c[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

func (c stubCatalog) Questions(d string) ([]domain.Question, error) {
	qs, ok := c[d]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return qs, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func ptr[T any](v T) *T { return &v }
