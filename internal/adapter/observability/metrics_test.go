package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMetricsMiddleware_Basic(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	mw := HTTPMetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))
	mw.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusNoContent, rec.Result().StatusCode)
	assert.GreaterOrEqual(t, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/x", http.MethodGet, "No Content")), 1.0)
}

func TestEvaluationMetricsHelpers(t *testing.T) {
	InitMetrics()
	InitMetrics()

	before := testutil.ToFloat64(EvaluationsTotal.WithLabelValues("heuristic"))
	ObserveEvaluation("heuristic", 7.5)
	ObserveEvaluation("heuristic", 42)
	assert.Equal(t, before+2, testutil.ToFloat64(EvaluationsTotal.WithLabelValues("heuristic")))

	RecordFallback("ollama", "parse")
	assert.GreaterOrEqual(t, testutil.ToFloat64(EvaluationFallbacksTotal.WithLabelValues("ollama", "parse")), 1.0)

	RecordReport(true)
	RecordReport(false)
	assert.GreaterOrEqual(t, testutil.ToFloat64(ReportsGeneratedTotal.WithLabelValues("true")), 1.0)

	RecordEvent("answer.evaluated", nil)
	RecordEvent("answer.evaluated", errors.New("x"))
	assert.GreaterOrEqual(t, testutil.ToFloat64(EventsPublishedTotal.WithLabelValues("answer.evaluated", "error")), 1.0)

	ObserveAIRequest("gemini", "ok", 120*time.Millisecond)
	assert.GreaterOrEqual(t, testutil.ToFloat64(AIRequestsTotal.WithLabelValues("gemini", "ok")), 1.0)
}
