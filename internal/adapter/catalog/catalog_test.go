package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
)

func TestDefault_CoversEverySupportedDomain(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.Equal(t, domain.Domains, c.Domains())
	for _, d := range domain.Domains {
		qs, err := c.Questions(d)
		require.NoError(t, err, d)
		assert.GreaterOrEqual(t, len(qs), 4, d)
		for _, q := range qs {
			assert.NotEmpty(t, q.Category)
			assert.Contains(t, []domain.Difficulty{domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard}, q.Difficulty)
		}
	}
}

func TestQuestions_ReturnsCopy(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	qs, _ := c.Questions(domain.DomainReact)
	qs[0].Text = "mutated"
	again, _ := c.Questions(domain.DomainReact)
	assert.NotEqual(t, "mutated", again[0].Text)

	_, err = c.Questions("Cobol")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"empty":          "domains: {}",
		"bad yaml":       "domains: [",
		"unknown domain": "domains:\n  Cobol:\n    - {id: c1, question: q}",
		"missing id":     "domains:\n  Java:\n    - {question: q}",
		"duplicate id":   "domains:\n  Java:\n    - {id: j, question: a}\n    - {id: j, question: b}",
		"bad difficulty": "domains:\n  Java:\n    - {id: j, question: a, difficulty: Extreme}",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestLoad_FileOverride(t *testing.T) {
	p := filepath.Join(t.TempDir(), "q.yaml")
	require.NoError(t, os.WriteFile(p, []byte("domains:\n  HR:\n    - {id: hr-x, question: \"Why us?\", category: Motivation, difficulty: Easy}\n"), 0o600))
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.DomainHR}, c.Domains())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	c, err = Load("")
	require.NoError(t, err)
	assert.Len(t, c.Domains(), len(domain.Domains))
}
