package usecase

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
)

// Score bands used for report insights.
const (
	highScoreMin   = 7.0
	mediumScoreMin = 4.0
	reviewPrefixN  = 50
)

// Insights holds the narrative parts of a report.
type Insights struct {
	Strengths       []string
	Gaps            []string
	Recommendations []string
}

// AnalyzePerformance derives strengths, gaps and recommendations from the
// banding of response scores.
func AnalyzePerformance(responses []domain.Response, domainName string) Insights {
	var high, medium, low []domain.Response
	for _, r := range responses {
		switch {
		case r.Score >= highScoreMin:
			high = append(high, r)
		case r.Score >= mediumScoreMin:
			medium = append(medium, r)
		default:
			low = append(low, r)
		}
	}
	n := len(responses)
	var in Insights

	if len(high) > 0 {
		in.Strengths = append(in.Strengths, fmt.Sprintf("Strong performance in %d out of %d questions", len(high), n))
		if float64(len(high)) >= float64(n)*0.6 {
			in.Strengths = append(in.Strengths, fmt.Sprintf("Excellent grasp of %s fundamentals", domainName))
		}
		for _, r := range high {
			if strings.Contains(strings.ToLower(r.QuestionText), "explain") {
				in.Strengths = append(in.Strengths, "Good ability to explain complex concepts")
				break
			}
		}
	}

	if len(low) > 0 {
		in.Gaps = append(in.Gaps, fmt.Sprintf("Needs improvement in %d areas", len(low)))
		for _, r := range low {
			if r.QuestionText != "" {
				in.Gaps = append(in.Gaps, "Review: "+prefixRunes(r.QuestionText, reviewPrefixN)+"...")
			}
		}
	}
	if float64(len(medium)) > float64(n)*0.5 {
		in.Gaps = append(in.Gaps, "Many answers lack depth - consider adding more examples")
	}

	if len(low) > 0 {
		in.Recommendations = append(in.Recommendations,
			fmt.Sprintf("Focus on fundamentals of %s", domainName),
			"Practice explaining concepts with real-world examples")
	}
	if len(medium) > 0 {
		in.Recommendations = append(in.Recommendations, "Work on providing more detailed and structured answers")
	}
	in.Recommendations = append(in.Recommendations,
		fmt.Sprintf("Take more practice interviews in %s", domainName),
		"Review the ideal answers provided for each question")

	if len(in.Strengths) == 0 {
		in.Strengths = []string{"Keep practicing to develop your strengths"}
	}
	if len(in.Gaps) == 0 {
		in.Gaps = []string{"No major gaps identified - continue improving"}
	}
	return in
}

// OverallFeedback returns the summary paragraph for a mean score.
func OverallFeedback(mean float64, domainName string) string {
	switch {
	case mean >= 8:
		return fmt.Sprintf("Outstanding performance! You demonstrated expert-level knowledge in %s. Your answers were comprehensive and well-structured. You're well-prepared for technical interviews in this domain.", domainName)
	case mean >= 6:
		return fmt.Sprintf("Good performance! You have a solid understanding of %s concepts. To improve further, focus on providing more detailed examples and diving deeper into the technical aspects of your answers.", domainName)
	case mean >= 4:
		return fmt.Sprintf("Decent effort. Your %s knowledge covers the basics but needs more depth. Spend time reviewing core concepts and practice explaining them clearly with concrete examples.", domainName)
	default:
		return fmt.Sprintf("You need significant improvement in %s. We recommend revisiting the fundamentals and practicing regularly. Review the ideal answers provided and try to understand the key concepts better.", domainName)
	}
}

func prefixRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
