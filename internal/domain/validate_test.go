package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		valid bool
	}{
		{"uppercases", "abc123", "ABC123", true},
		{"trims whitespace", "  ka-01-1234 ", "KA-01-1234", true},
		{"dashes allowed", "AB-12-CD", "AB-12-CD", true},
		{"minimum two chars", "A1", "A1", true},
		{"single char too short", "A", "A", false},
		{"leading dash rejected", "-AB12", "-AB12", false},
		{"symbols rejected", "AB*12", "AB*12", false},
		{"spaces inside rejected", "AB 12", "AB 12", false},
		{"too long", "ABCDEFGHIJKLM", "ABCDEFGHIJKLM", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizePlate(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.valid, ok)
		})
	}
}
