package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
)

func TestAnalyzeCommunication_Empty(t *testing.T) {
	for _, in := range []string{"", "   \n\t"} {
		a := AnalyzeCommunication(in)
		assert.Equal(t, 0, a.TotalWords)
		assert.Equal(t, 0, a.FillerCount)
		assert.Equal(t, 0.0, a.FillerPercentage)
		assert.Equal(t, 10.0, a.CommunicationScore)
		assert.NotNil(t, a.FoundFillers)
		assert.Equal(t, "Good communication clarity with minimal filler words!", a.Feedback)
	}
}

func TestAnalyzeCommunication_WordBoundaries(t *testing.T) {
	a := AnalyzeCommunication("Also the soldier is unlikely to be well known")
	// "well" matches, "so" inside "also"/"soldier" and "like" inside "unlikely" do not
	assert.Equal(t, 1, a.FillerCount)
	assert.Equal(t, []domain.FillerCount{{Word: "well", Count: 1}}, a.FoundFillers)
}

func TestAnalyzeCommunication_HeavyFillers(t *testing.T) {
	text := "Um so like you know I basically um actually think uh it is literally well fine"
	a := AnalyzeCommunication(text)

	assert.Equal(t, 16, a.TotalWords)
	assert.Equal(t, 10, a.FillerCount)
	assert.Equal(t, 62.5, a.FillerPercentage)
	assert.Equal(t, 7.0, a.CommunicationScore)
	assert.Equal(t, []domain.FillerCount{
		{Word: "um", Count: 2},
		{Word: "uh", Count: 1},
		{Word: "like", Count: 1},
		{Word: "you know", Count: 1},
		{Word: "basically", Count: 1},
		{Word: "actually", Count: 1},
		{Word: "literally", Count: 1},
		{Word: "so", Count: 1},
		{Word: "well", Count: 1},
	}, a.FoundFillers)
	assert.Equal(t, "You used 10 filler words. Try to reduce usage of: um, uh, like, you know, basically, actually, literally, so, well", a.Feedback)
}

func TestAnalyzeCommunication_ScoreTiers(t *testing.T) {
	tests := []struct {
		fillers int
		want    float64
	}{
		{0, 10},
		{2, 10},  // 2%
		{3, 9},   // 3%
		{6, 8},   // 6%
		{11, 7},  // 11%
		{100, 7}, // floor never reached by a single deduction
	}
	for _, tt := range tests {
		text := strings.TrimSpace(strings.Repeat("um ", tt.fillers) + strings.Repeat("word ", 100-tt.fillers))
		a := AnalyzeCommunication(text)
		assert.Equal(t, 100, a.TotalWords)
		assert.Equal(t, tt.want, a.CommunicationScore, "fillers=%d", tt.fillers)
	}
}
