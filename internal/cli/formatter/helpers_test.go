package formatter

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ansiPattern matches ANSI escape sequences for stripping before comparison.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestEUR(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "0 €"},
		{950, "950 €"},
		{20000, "20 000 €"},
		{1234567, "1 234 567 €"},
		{-4100, "-4 100 €"},
		{30900.4, "30 900 €"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EUR(tt.amount), "EUR(%v)", tt.amount)
	}
}

func TestHours(t *testing.T) {
	assert.Equal(t, "48 h", Hours(48))
	assert.Equal(t, "7.5 h", Hours(7.5))
	assert.Equal(t, "0 h", Hours(0))
}

func TestPct(t *testing.T) {
	assert.Equal(t, "N/A", Pct(nil))
	v := 37.5
	assert.Equal(t, "37.5 %", Pct(&v))
}
