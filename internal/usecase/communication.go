package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
)

// FillerWords are counted as whole words or phrases, case-insensitively.
var FillerWords = []string{"um", "uh", "like", "you know", "basically", "actually", "literally", "so", "well"}

var fillerPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(FillerWords))
	for i, w := range FillerWords {
		out[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`)
	}
	return out
}()

// AnalyzeCommunication measures filler-word density in text. Empty text
// yields zero words, zero percent and a perfect score.
func AnalyzeCommunication(text string) domain.FillerAnalysis {
	totalWords := len(strings.Fields(text))

	found := []domain.FillerCount{}
	fillerCount := 0
	for i, re := range fillerPatterns {
		n := len(re.FindAllStringIndex(text, -1))
		if n == 0 {
			continue
		}
		fillerCount += n
		found = append(found, domain.FillerCount{Word: FillerWords[i], Count: n})
	}

	pct := 0.0
	if totalWords > 0 {
		pct = float64(fillerCount) / float64(totalWords) * 100
	}

	score := 10.0
	switch {
	case pct > 10:
		score -= 3
	case pct > 5:
		score -= 2
	case pct > 2:
		score -= 1
	}
	score = max(domain.MinScore, score)

	feedback := "Good communication clarity with minimal filler words!"
	if fillerCount > 5 {
		names := make([]string, len(found))
		for i, f := range found {
			names[i] = f.Word
		}
		feedback = fmt.Sprintf("You used %d filler words. Try to reduce usage of: %s", fillerCount, strings.Join(names, ", "))
	}

	return domain.FillerAnalysis{
		TotalWords:         totalWords,
		FillerCount:        fillerCount,
		FillerPercentage:   domain.RoundScore(pct),
		FoundFillers:       found,
		CommunicationScore: score,
		Feedback:           feedback,
	}
}
