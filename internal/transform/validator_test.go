package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"revagg/internal/names"
)

func TestClassifyNames(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		extracted string
		want      MatchClass
	}{
		{"equal names confirm", "good table", "good table", MatchConfirmed},
		{"extracted inside input", "grill house", "grill", MatchPartial},
		{"input inside extracted", "grill", "grill house", MatchPartial},
		{"unrelated names", "fore street", "duckfat", MatchNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyNames(tt.input, tt.extracted))
		})
	}
}

func TestClassifyNamesSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"grill house", "grill"},
		{"fore street", "duckfat"},
		{"good table", "good table"},
	}

	for _, p := range pairs {
		assert.Equal(t, ClassifyNames(p[0], p[1]), ClassifyNames(p[1], p[0]),
			"classification of (%q, %q) is not symmetric", p[0], p[1])
	}
}

func TestNormalizedEqualNamesAlwaysConfirm(t *testing.T) {
	// Names that normalize to the same string must classify as confirmed and
	// never reach the drop list.
	input := names.Normalize("The Good Table")
	extracted := names.Normalize("good table")

	assert.Equal(t, MatchConfirmed, ClassifyNames(input, extracted))
}
