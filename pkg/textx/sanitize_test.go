package textx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	tests := map[string]string{
		"he\x00llo\nwo\x7frld\t!": "hello\nworld\t!",
		"  padded answer \n":      "padded answer",
		"bad \xff byte":           "bad � byte",
		"\x01\x02":                "",
		"naïve café":              "naïve café",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeText(in), "%q", in)
	}
}
