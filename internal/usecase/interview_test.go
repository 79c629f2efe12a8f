package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
	"github.com/fairyhunter13/ai-mock-interview/internal/usecase"
)

func testCatalog() stubCatalog {
	return stubCatalog{
		domain.DomainPython: {
			{ID: "py-1", Text: "What is the GIL?", Category: "Runtime", Difficulty: domain.DifficultyMedium},
			{ID: "py-2", Text: "Explain generators", Category: "Language", Difficulty: domain.DifficultyEasy},
		},
		domain.DomainHR: {},
	}
}

func TestInterview_StartSnapshotsQuestions(t *testing.T) {
	t.Parallel()
	cat := testCatalog()
	sessions := newMemSessions()
	svc := usecase.NewInterviewService(cat, sessions)
	svc.Now = fixedClock(t0)

	sess, err := svc.Start(context.Background(), "user-1", " Python ")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, domain.DomainPython, sess.Domain)
	assert.Equal(t, domain.SessionInProgress, sess.Status)
	assert.Equal(t, t0, sess.StartedAt)
	require.Len(t, sess.Questions, 2)

	// catalog edits do not leak into the stored session
	cat[domain.DomainPython][0].Text = "changed"
	got, err := svc.Get(context.Background(), "user-1", sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "What is the GIL?", got.Questions[0].Text)

	_, err = svc.Get(context.Background(), "user-2", sess.ID)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestInterview_StartErrors(t *testing.T) {
	t.Parallel()
	svc := usecase.NewInterviewService(testCatalog(), newMemSessions())
	ctx := context.Background()

	_, err := svc.Start(ctx, "user-1", "")
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
	_, err = svc.Start(ctx, "user-1", "Cobol")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = svc.Start(ctx, "user-1", domain.DomainHR)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = svc.Start(ctx, "", domain.DomainPython)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestInterview_DomainsAndQuestions(t *testing.T) {
	t.Parallel()
	svc := usecase.NewInterviewService(testCatalog(), newMemSessions())
	assert.Equal(t, []string{domain.DomainPython, domain.DomainHR}, svc.Domains())

	qs, err := svc.Questions(domain.DomainPython)
	require.NoError(t, err)
	assert.Len(t, qs, 2)
}
