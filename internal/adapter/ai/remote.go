package ai

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
	obsctx "github.com/fairyhunter13/ai-mock-interview/internal/observability"
)

// ErrUnparsableReply marks a model reply that held no usable evaluation.
var ErrUnparsableReply = errors.New("unparsable model reply")

// minFeedbackLen is the shortest feedback accepted from a model.
const minFeedbackLen = 10

// RemoteEvaluator evaluates answers with a remote model.
type RemoteEvaluator struct {
	Client domain.LLMClient
	Prompt PromptBuilder
}

// NewRemoteEvaluator wires a client with its prompt builder.
func NewRemoteEvaluator(client domain.LLMClient, prompt PromptBuilder) RemoteEvaluator {
	return RemoteEvaluator{Client: client, Prompt: prompt}
}

// Evaluate implements domain.Evaluator. Any transport, status, or parse
// problem is returned as an error so the caller can fall back.
func (e RemoteEvaluator) Evaluate(ctx domain.Context, question, answer, domainName string) (domain.EvaluationResult, error) {
	tracer := otel.Tracer("ai.remote")
	ctx, span := tracer.Start(ctx, "RemoteEvaluator.Evaluate")
	defer span.End()
	span.SetAttributes(attribute.String("ai.provider", e.Client.Name()))

	raw, err := e.Client.Generate(ctx, e.Prompt.Build(question, answer, domainName))
	if err != nil {
		span.RecordError(err)
		return domain.EvaluationResult{}, fmt.Errorf("op=ai.remote.evaluate: %w", err)
	}
	res, ok := ParseEvaluation(raw)
	if !ok {
		obsctx.LoggerFromContext(ctx).Debug("model reply not parsable",
			"provider", e.Client.Name(),
			"reply_snippet", snippet(raw, 200))
		return domain.EvaluationResult{}, fmt.Errorf("op=ai.remote.evaluate: %w", ErrUnparsableReply)
	}
	if len(res.Feedback) <= minFeedbackLen {
		return domain.EvaluationResult{}, fmt.Errorf("op=ai.remote.evaluate: %w: feedback too short", ErrUnparsableReply)
	}
	res.Provider = e.Client.Name()
	return res, nil
}

// NewHTTPClient returns a traced client whose timeout bounds one remote call.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// ReadSnippet reads at most n bytes from r for log and error messages.
func ReadSnippet(r io.Reader, n int64) string {
	if r == nil || n <= 0 {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, n))
	return string(b)
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
