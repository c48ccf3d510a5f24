package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "Red Shirt", "red-shirt"},
		{"already a slug", "red-shirt", "red-shirt"},
		{"punctuation collapses", "Bob's  Burgers!!", "bob-s-burgers"},
		{"leading and trailing junk", "  --Hello--  ", "hello"},
		{"digits kept", "Size 42", "size-42"},
		{"non-ascii dropped", "Caffè Latte", "caff-latte"},
		{"empty input", "", ""},
		{"only junk", "!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}
