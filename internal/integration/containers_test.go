//go:build integration

// Package integration runs the storage adapters against real Postgres and
// Redis containers. Run with: go test -tags=integration ./internal/integration/...
package integration

import (
	"context"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fairyhunter13/ai-mock-interview/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
	"github.com/fairyhunter13/ai-mock-interview/internal/service/ratelimiter"
)

func startPostgres(ctx context.Context, t *testing.T) string {
	t.Helper()
	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16",
		Env:          map[string]string{"POSTGRES_PASSWORD": "postgres", "POSTGRES_USER": "postgres", "POSTGRES_DB": "interview"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(90 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: pgReq, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)
	return "postgres://postgres:postgres@" + host + ":" + port.Port() + "/interview?sslmode=disable"
}

func TestPostgres_SessionResponseReportLifecycle(t *testing.T) {
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, startPostgres(ctx, t), 30*time.Second)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.EnsureSchema(ctx, pool))
	require.NoError(t, postgres.EnsureSchema(ctx, pool), "schema is idempotent")

	sessions := postgres.NewSessionRepo(pool)
	responses := postgres.NewResponseRepo(pool)
	reports := postgres.NewReportRepo(pool)
	users := postgres.NewUserRepo(pool)
	now := time.Now().UTC().Truncate(time.Millisecond)

	uid, err := users.Create(ctx, domain.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "h", CreatedAt: now})
	require.NoError(t, err)
	_, err = users.Create(ctx, domain.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "h", CreatedAt: now})
	assert.ErrorIs(t, err, domain.ErrConflict)

	sid, err := sessions.Create(ctx, domain.Session{
		ID: "sess-int", UserID: uid, Domain: domain.DomainJava, Status: domain.SessionInProgress, StartedAt: now,
		Questions: []domain.Question{{ID: "q1", Text: "Explain channels", Category: "Concurrency", Difficulty: domain.DifficultyMedium}},
	})
	require.NoError(t, err)

	first, err := responses.Upsert(ctx, domain.Response{
		SessionID: sid, UserID: uid, QuestionID: "q1", QuestionText: "Explain channels", Answer: "first",
		Score: 4, TechnicalScore: 4, CommunicationScore: 8, Feedback: "thin answer", IdealAnswer: "x",
		EvaluatedAt: now, SubmittedAt: now, CreatedAt: now,
	})
	require.NoError(t, err)

	later := now.Add(time.Minute)
	second, err := responses.Upsert(ctx, domain.Response{
		SessionID: sid, UserID: uid, QuestionID: "q1", QuestionText: "Explain channels", Answer: "second",
		Score: 8, TechnicalScore: 8, CommunicationScore: 8, Feedback: "much better", IdealAnswer: "x",
		FillerAnalysis: &domain.FillerAnalysis{TotalWords: 1, FoundFillers: []domain.FillerCount{}},
		EvaluatedAt:    later, SubmittedAt: later, CreatedAt: later,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))

	list, err := responses.ListBySession(ctx, sid)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "second", list[0].Answer)
	require.NotNil(t, list[0].FillerAnalysis)

	rep, err := reports.Create(ctx, domain.Report{ID: "rep-1", SessionID: sid, UserID: uid, AverageScore: 8, GeneratedAt: now})
	require.NoError(t, err)
	again, err := reports.Create(ctx, domain.Report{ID: "rep-2", SessionID: sid, UserID: uid, AverageScore: 1, GeneratedAt: later})
	require.NoError(t, err)
	assert.Equal(t, rep.ID, again.ID)
	assert.Equal(t, 8.0, again.AverageScore)

	require.NoError(t, sessions.Complete(ctx, sid, 8, later))
	s, err := sessions.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, s.Status)
	assert.Equal(t, "Explain channels", s.Questions[0].Text)
}

func TestRedis_SubmissionLimiter(t *testing.T) {
	ctx := context.Background()
	rdReq := testcontainers.ContainerRequest{
		Image:        "redis:7",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
	}
	rdC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: rdReq, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })
	host, err := rdC.Host(ctx)
	require.NoError(t, err)
	port, err := rdC.MappedPort(ctx, "6379")
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	require.Eventually(t, func() bool { return rdb.Ping(ctx).Err() == nil }, 30*time.Second, time.Second)

	lim := ratelimiter.NewRedisLuaLimiter(rdb, "it", ratelimiter.NewBucketConfigFromPerMinute(2))
	for i := 0; i < 2; i++ {
		ok, _, err := lim.Allow(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, retry, err := lim.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, retry, time.Duration(0))
}
