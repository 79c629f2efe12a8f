package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
)

type fakeLLM struct {
	name  string
	reply string
	err   error
	calls int
	last  string
}

func (f *fakeLLM) Name() string { return f.name }

func (f *fakeLLM) Generate(_ domain.Context, prompt string) (string, error) {
	f.calls++
	f.last = prompt
	return f.reply, f.err
}

const goodReply = `{"score":9,"feedback":"Thorough and well reasoned answer.","technicalScore":9,"communicationScore":8}`

func remote(llm *fakeLLM) RemoteEvaluator {
	return NewRemoteEvaluator(llm, PromptBuilder{Model: "gpt-4", MaxAnswerToken: 100})
}

func TestRemoteEvaluator_Success(t *testing.T) {
	llm := &fakeLLM{name: "ollama", reply: goodReply}
	res, err := remote(llm).Evaluate(context.Background(), "What is Go?", "A language.", "Cloud")
	require.NoError(t, err)
	assert.Equal(t, 9.0, res.Score)
	assert.Equal(t, "ollama", res.Provider)
	assert.Contains(t, llm.last, "You are an expert Cloud interview evaluator.")
	assert.Contains(t, llm.last, "Question: What is Go?")
	assert.Contains(t, llm.last, "Answer: A language.")
}

func TestRemoteEvaluator_Failures(t *testing.T) {
	tests := []struct {
		name  string
		llm   *fakeLLM
		match error
	}{
		{"transport", &fakeLLM{name: "x", err: fmt.Errorf("dial: %w", domain.ErrUpstream)}, domain.ErrUpstream},
		{"unparsable", &fakeLLM{name: "x", reply: "I cannot help with that"}, ErrUnparsableReply},
		{"short feedback", &fakeLLM{name: "x", reply: `{"score":8,"feedback":"ok"}`}, ErrUnparsableReply},
		{"exactly ten chars", &fakeLLM{name: "x", reply: `{"score":8,"feedback":"0123456789"}`}, ErrUnparsableReply},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := remote(tt.llm).Evaluate(context.Background(), "q", "a", "Java")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.match))
		})
	}
}

func TestPromptBuilder_TruncatesLongAnswers(t *testing.T) {
	long := strings.Repeat("database ", 1000)
	p := PromptBuilder{Model: "gpt-4", MaxAnswerToken: 20}.Build("q", long, "Java")
	assert.Less(t, len(p), len(long))
	assert.Contains(t, p, `"lineByLineCorrection":[{"original":"problem text"`)
}

func TestChain_PrimarySuccess(t *testing.T) {
	llm := &fakeLLM{name: "gemini", reply: goodReply}
	chain := NewChain(Link{Name: "gemini", Evaluator: remote(llm)})

	res, err := chain.Evaluate(context.Background(), "q", "a", "React")
	require.NoError(t, err)
	assert.Equal(t, "gemini", res.Provider)
	assert.Equal(t, 9.0, res.Score)
}

func TestChain_FallsBackToSecondaryThenHeuristic(t *testing.T) {
	primary := &fakeLLM{name: "ollama", err: errors.New("connection refused")}
	secondary := &fakeLLM{name: "openai", reply: goodReply}
	chain := NewChain(
		Link{Name: "ollama", Evaluator: remote(primary)},
		Link{Name: "openai", Evaluator: remote(secondary)},
	)
	res, err := chain.Evaluate(context.Background(), "q", "a", "React")
	require.NoError(t, err)
	assert.Equal(t, "openai", res.Provider)

	secondary.reply = "garbage"
	res, err = chain.Evaluate(context.Background(), "q", "a", "React")
	require.NoError(t, err)
	assert.Equal(t, ProviderHeuristic, res.Provider)
	assert.Equal(t, HeuristicEvaluate("q", "a", "React").Score, res.Score)
	assert.Equal(t, []string{"ollama", "openai", "heuristic"}, chain.Providers())
}

func TestChain_EmptyDomainDefaultsToGeneral(t *testing.T) {
	res, err := NewChain().Evaluate(context.Background(), "q", "tiny", "")
	require.NoError(t, err)
	assert.Contains(t, res.AreasToImprove, "Include more technical terms relevant to General")
}

func TestChain_OpenCircuitSkipsProvider(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cb := newTestBreaker(&now)
	llm := &fakeLLM{name: "ollama", err: errors.New("down")}
	chain := NewChain(Link{Name: "ollama", Evaluator: remote(llm), Breaker: cb})

	for i := 0; i < 5; i++ {
		res, err := chain.Evaluate(context.Background(), "q", "a", "QA")
		require.NoError(t, err)
		assert.Equal(t, ProviderHeuristic, res.Provider)
	}
	assert.Equal(t, 3, llm.calls)
	assert.Equal(t, CircuitOpen, cb.State())

	now = now.Add(time.Minute)
	llm.err, llm.reply = nil, goodReply
	res, err := chain.Evaluate(context.Background(), "q", "a", "QA")
	require.NoError(t, err)
	assert.Equal(t, "ollama", res.Provider)
	assert.Equal(t, CircuitClosed, cb.State())
}

func TestChain_CanceledContextStillAnswers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	llm := &fakeLLM{name: "ollama", err: context.Canceled}
	res, err := NewChain(Link{Name: "ollama", Evaluator: remote(llm)}).Evaluate(ctx, "q", "a", "HR")
	require.NoError(t, err)
	assert.Equal(t, ProviderHeuristic, res.Provider)
}

func TestChain_CanceledRequestsDoNotTripBreaker(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cb := newTestBreaker(&now)
	llm := &fakeLLM{name: "ollama", err: fmt.Errorf("post: %w", context.Canceled)}
	chain := NewChain(Link{Name: "ollama", Evaluator: remote(llm), Breaker: cb})

	for i := 0; i < 5; i++ {
		res, err := chain.Evaluate(context.Background(), "q", "a", "HR")
		require.NoError(t, err)
		assert.Equal(t, ProviderHeuristic, res.Provider)
	}
	assert.Equal(t, 5, llm.calls)
	assert.Equal(t, CircuitClosed, cb.State())
}

func TestFallbackReason(t *testing.T) {
	assert.Equal(t, "parse", fallbackReason(fmt.Errorf("x: %w", ErrUnparsableReply)))
	assert.Equal(t, "config", fallbackReason(fmt.Errorf("x: %w", domain.ErrInvalidArgument)))
	assert.Equal(t, "timeout", fallbackReason(context.DeadlineExceeded))
	assert.Equal(t, "canceled", fallbackReason(context.Canceled))
	assert.Equal(t, "status", fallbackReason(domain.ErrUpstream))
	assert.Equal(t, "transport", fallbackReason(errors.New("eof")))
}
