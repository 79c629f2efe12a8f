package ai

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
)

// ProviderHeuristic names the local keyword-based evaluator.
const ProviderHeuristic = "heuristic"

var technicalKeywords = []string{
	"function", "variable", "class", "object", "array", "loop", "algorithm",
	"database", "api", "server", "client", "framework", "library",
	"component", "state", "props", "hook", "async", "promise",
	"performance", "optimization", "security", "scalability",
}

var structureMarkers = []string{
	"first", "second", "third", "finally", "because", "therefore", "however", "for example", "specifically",
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// Heuristic is the deterministic evaluator that never fails. It is the last
// link of every evaluation chain.
type Heuristic struct{}

// Evaluate implements domain.Evaluator.
func (Heuristic) Evaluate(_ domain.Context, question, answer, domainName string) (domain.EvaluationResult, error) {
	return HeuristicEvaluate(question, answer, domainName), nil
}

// HeuristicEvaluate scores an answer from its length, technical vocabulary
// and structure markers. Matching is by lowercase substring, so "class"
// also counts inside "subclass".
func HeuristicEvaluate(question, answer, domainName string) domain.EvaluationResult {
	if strings.TrimSpace(domainName) == "" {
		domainName = domain.DefaultDomainLabel
	}
	lower := strings.ToLower(answer)
	wordCount := len(strings.Fields(answer))
	keywordCount := countContained(lower, technicalKeywords)
	structureCount := countContained(lower, structureMarkers)

	score := 3.0
	switch {
	case wordCount >= 150:
		score = 8
	case wordCount >= 100:
		score = 7
	case wordCount >= 50:
		score = 6
	}
	if keywordCount >= 5 {
		score = min(domain.MaxScore, score+1)
	}
	if keywordCount >= 10 {
		score = min(domain.MaxScore, score+1)
	}
	if structureCount >= 2 {
		score = min(domain.MaxScore, score+0.5)
	}
	score = domain.RoundScore(score)

	var strengths, areas []string
	if wordCount >= 100 {
		strengths = append(strengths, "Comprehensive answer with good detail")
	} else {
		areas = append(areas, "Add more detail and examples")
	}
	if keywordCount >= 3 {
		strengths = append(strengths, "Good use of technical terminology")
	} else {
		areas = append(areas, "Include more technical terms relevant to "+domainName)
	}
	if structureCount >= 2 {
		strengths = append(strengths, "Well-structured response")
	} else {
		areas = append(areas, "Structure your answer with clear points (First, Second, etc.)")
	}
	if len(strengths) == 0 {
		strengths = []string{"Made an attempt to answer"}
	}
	if len(areas) == 0 {
		areas = []string{"Continue practicing"}
	}

	corrections := []domain.LineCorrection{}
	if wordCount < 100 {
		if s, ok := firstLongSentence(answer); ok {
			corrections = append(corrections, domain.LineCorrection{
				Original:    s,
				Corrected:   s + ". Consider expanding with specific examples and technical details.",
				Explanation: "Adding more depth will strengthen your answer.",
			})
		}
	}

	mistakes := []string{}
	if wordCount < 50 {
		mistakes = []string{"Answer is too brief - aim for at least 50 words", "Missing specific examples"}
	}

	technical := score - 0.5
	if keywordCount > 5 {
		technical = score + 0.5
	}
	communication := score
	if structureCount > 2 {
		communication = score + 0.5
	}

	return domain.EvaluationResult{
		Score:                domain.NormalizeScore(score),
		TechnicalScore:       domain.NormalizeScore(technical),
		CommunicationScore:   domain.NormalizeScore(communication),
		Feedback:             heuristicFeedback(score, domainName),
		IdealAnswer:          idealAnswerTemplate(question, domainName),
		Strengths:            strengths,
		AreasToImprove:       areas,
		Mistakes:             mistakes,
		LineByLineCorrection: corrections,
		Provider:             ProviderHeuristic,
	}
}

func countContained(text string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(text, t) {
			n++
		}
	}
	return n
}

// firstLongSentence returns the first sentence whose trimmed length exceeds ten characters.
func firstLongSentence(answer string) (string, bool) {
	for _, s := range sentenceSplit.Split(answer, -1) {
		s = strings.TrimSpace(s)
		if len(s) > 10 {
			return s, true
		}
	}
	return "", false
}

func heuristicFeedback(score float64, domainName string) string {
	switch {
	case score >= 8:
		return fmt.Sprintf("Excellent answer! You demonstrated strong understanding of %s concepts. Your explanation was comprehensive with good technical depth. Keep up the great work!", domainName)
	case score >= 6:
		return "Good answer! You covered the main points well. To improve, consider adding more specific examples from your experience and diving deeper into the technical implementation details."
	case score >= 4:
		return `Decent attempt. Your answer shows basic understanding but could benefit from more depth. Focus on providing concrete examples, explaining the "why" behind concepts, and structuring your response more clearly.`
	default:
		return "Your answer needs improvement. Try to: 1) Provide a more complete explanation, 2) Include specific examples, 3) Use relevant technical terminology, 4) Structure your answer with clear points."
	}
}

func idealAnswerTemplate(question, domainName string) string {
	return fmt.Sprintf(`A strong answer to "%s" would include:

1. **Clear Definition/Overview**: Start by directly addressing what is being asked with a concise definition or explanation.

2. **Technical Details**: Explain the core concepts, technologies, or methodologies involved in %s.

3. **Real Examples**: Share specific examples from your experience or well-known use cases.

4. **Best Practices**: Mention industry best practices and common patterns.

5. **Trade-offs**: Discuss any trade-offs, limitations, or considerations.

6. **Summary**: Conclude with key takeaways that demonstrate mastery of the topic.`, question, domainName)
}
