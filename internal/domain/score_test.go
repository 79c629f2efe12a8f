package domain

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundScore(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{6.25, 6.3},
		{6.24, 6.2},
		{8.5, 8.5},
		{7.05, 7.1},
		{1, 1},
		{9.99, 10},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, RoundScore(tt.in))
		})
	}
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 1.0, ClampScore(-3))
	assert.Equal(t, 1.0, ClampScore(0))
	assert.Equal(t, 10.0, ClampScore(12.5))
	assert.Equal(t, 5.5, ClampScore(5.5))
	assert.Equal(t, 1.0, ClampScore(math.NaN()))
	assert.Equal(t, 10.0, NormalizeScore(10.04))
}

func TestMeanScore(t *testing.T) {
	m, ok := MeanScore([]float64{8.5, 4.0})
	assert.True(t, ok)
	assert.Equal(t, 6.3, m)

	m, ok = MeanScore([]float64{7, 7, 8})
	assert.True(t, ok)
	assert.Equal(t, 7.3, m)

	_, ok = MeanScore(nil)
	assert.False(t, ok)
}

func TestIsSupportedDomain(t *testing.T) {
	assert.True(t, IsSupportedDomain("Node.js"))
	assert.True(t, IsSupportedDomain("System Design"))
	assert.False(t, IsSupportedDomain("node.js"))
	assert.False(t, IsSupportedDomain(""))
	assert.Len(t, Domains, 11)
}

func TestErrorIs(t *testing.T) {
	wrapped := fmt.Errorf("op=report.generate: %w", ErrFailedPrecondition)
	assert.True(t, errors.Is(wrapped, ErrFailedPrecondition))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(ErrForbidden, ErrUnauthorized))
}
