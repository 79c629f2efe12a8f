package ai

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/fairyhunter13/ai-mock-interview/internal/adapter/observability"
	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
	obsctx "github.com/fairyhunter13/ai-mock-interview/internal/observability"
)

// Link is one remote strategy in an evaluation chain.
type Link struct {
	Name      string
	Evaluator domain.Evaluator
	// Breaker is optional; when set an open circuit skips the link.
	Breaker *CircuitBreaker
}

// Chain tries each link in order and always ends with the heuristic, so
// Evaluate never returns an error to its caller.
type Chain struct {
	links []Link
	last  domain.Evaluator
}

// NewChain builds a chain of the given links followed by the heuristic.
func NewChain(links ...Link) *Chain {
	return &Chain{links: links, last: Heuristic{}}
}

// Providers lists the configured link names, heuristic last.
func (c *Chain) Providers() []string {
	out := make([]string, 0, len(c.links)+1)
	for _, l := range c.links {
		out = append(out, l.Name)
	}
	return append(out, ProviderHeuristic)
}

// Evaluate implements domain.Evaluator.
func (c *Chain) Evaluate(ctx domain.Context, question, answer, domainName string) (domain.EvaluationResult, error) {
	if strings.TrimSpace(domainName) == "" {
		domainName = domain.DefaultDomainLabel
	}
	lg := obsctx.LoggerFromContext(ctx)

	for _, l := range c.links {
		if l.Breaker != nil && !l.Breaker.Allow() {
			observability.RecordFallback(l.Name, "circuit_open")
			lg.Debug("provider skipped, circuit open", slog.String("provider", l.Name))
			continue
		}
		res, err := l.Evaluator.Evaluate(ctx, question, answer, domainName)
		if err != nil {
			// an abandoned request says nothing about provider health
			if l.Breaker != nil && !errors.Is(err, context.Canceled) {
				l.Breaker.RecordFailure()
			}
			reason := fallbackReason(err)
			observability.RecordFallback(l.Name, reason)
			lg.Warn("evaluation provider failed, falling back",
				slog.String("provider", l.Name),
				slog.String("reason", reason),
				slog.Any("error", err))
			continue
		}
		if l.Breaker != nil {
			l.Breaker.RecordSuccess()
		}
		if res.Provider == "" {
			res.Provider = l.Name
		}
		observability.ObserveEvaluation(res.Provider, res.Score)
		return res, nil
	}

	res, _ := c.last.Evaluate(ctx, question, answer, domainName)
	observability.ObserveEvaluation(ProviderHeuristic, res.Score)
	return res, nil
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, ErrUnparsableReply):
		return "parse"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "config"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, domain.ErrUpstream):
		return "status"
	default:
		return "transport"
	}
}
