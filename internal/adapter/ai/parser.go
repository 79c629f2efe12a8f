package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
)

// Placeholders used when a model omits a text field.
const (
	DefaultFeedback    = "Good attempt. Keep practicing."
	DefaultIdealAnswer = "No ideal answer provided."
	neutralScore       = 5.0
)

var (
	fencePattern         = regexp.MustCompile("```(?:json)?\\n?")
	blankLinePattern     = regexp.MustCompile(`(?m)^\s*[\r\n]+`)
	trailingCommaPattern = regexp.MustCompile(`,(\s*[}\]])`)
)

// ParseEvaluation extracts an evaluation from free-form model output.
// The candidate object spans from the first '{' to the last '}', so two
// unrelated objects in one reply produce an invalid candidate and fail.
// It never panics; ok is false whenever no usable object is found.
func ParseEvaluation(raw string) (res domain.EvaluationResult, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			res, ok = domain.EvaluationResult{}, false
		}
	}()

	candidate, found := extractCandidate(cleanModelText(raw))
	if !found {
		return domain.EvaluationResult{}, false
	}
	fields, err := decodeObject(candidate)
	if err != nil {
		fields, err = decodeObject(trailingCommaPattern.ReplaceAllString(candidate, "$1"))
		if err != nil {
			return domain.EvaluationResult{}, false
		}
	}
	return normalizeFields(fields), true
}

// cleanModelText removes code fences and blank lines.
func cleanModelText(s string) string {
	s = fencePattern.ReplaceAllString(s, "")
	s = blankLinePattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func extractCandidate(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func decodeObject(s string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("op=ai.parse: %w: null object", domain.ErrInvalidArgument)
	}
	return m, nil
}

func normalizeFields(m map[string]any) domain.EvaluationResult {
	score, hasScore := positiveNumber(m["score"])
	if !hasScore {
		score = neutralScore
	}
	subScore := func(key string) float64 {
		if v, ok := positiveNumber(m[key]); ok {
			return domain.NormalizeScore(v)
		}
		return domain.NormalizeScore(score)
	}

	ideal := nonEmptyString(m["idealAnswer"])
	if ideal == "" {
		ideal = nonEmptyString(m["ideal_answer"])
	}
	if ideal == "" {
		ideal = DefaultIdealAnswer
	}
	feedback := nonEmptyString(m["feedback"])
	if feedback == "" {
		feedback = DefaultFeedback
	}

	return domain.EvaluationResult{
		Score:                domain.NormalizeScore(score),
		TechnicalScore:       subScore("technicalScore"),
		CommunicationScore:   subScore("communicationScore"),
		Feedback:             feedback,
		IdealAnswer:          ideal,
		Strengths:            stringList(m["strengths"]),
		AreasToImprove:       stringList(m["areasToImprove"]),
		Mistakes:             stringList(m["mistakes"]),
		LineByLineCorrection: correctionList(m["lineByLineCorrection"]),
	}
}

// positiveNumber accepts JSON numbers and numeric strings. Zero counts as absent.
func positiveNumber(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = p
	case bool:
		if !x {
			return 0, false
		}
		f = 1
	default:
		return 0, false
	}
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func nonEmptyString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if !x {
			return ""
		}
		return "true"
	case float64:
		if x == 0 {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func stringList(v any) []string {
	items, ok := v.([]any)
	out := make([]string, 0, len(items))
	if !ok {
		return out
	}
	for _, it := range items {
		switch x := it.(type) {
		case nil:
		case string:
			out = append(out, x)
		default:
			if s := nonEmptyString(x); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func correctionList(v any) []domain.LineCorrection {
	items, ok := v.([]any)
	out := make([]domain.LineCorrection, 0, len(items))
	if !ok {
		return out
	}
	for _, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, domain.LineCorrection{
			Original:    nonEmptyString(obj["original"]),
			Corrected:   nonEmptyString(obj["corrected"]),
			Explanation: nonEmptyString(obj["explanation"]),
		})
	}
	return out
}
