package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Fore Street", "fore street"},
		{"strips leading article", "The Good Table", "good table"},
		{"strips article with leading whitespace", "  The Good Table", "good table"},
		{"article strip is case insensitive", "THE Grill Room", "grill room"},
		{"html entity ampersand", "Street &amp; Co.", "street and co."},
		{"bare ampersand", "Eventide & Co", "eventide and co"},
		{"interior the is kept", "Over The Top", "over the top"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"The Good Table",
		"Street &amp; Co.",
		"The The Works",
		"fore street",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalizing %q twice diverged", in)
	}
}
