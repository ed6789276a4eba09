package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"alice@example.com",
		"a.b+tag@sub.example.org",
	}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), "email %q", email)
	}

	invalid := []string{
		"",
		"   ",
		"not-an-email",
		"@example.com",
		"alice@",
	}
	for _, email := range invalid {
		assert.Error(t, ValidateEmail(email), "email %q", email)
	}
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("alice"))
	assert.NoError(t, ValidateUsername(strings.Repeat("a", 80)))

	assert.Error(t, ValidateUsername(""))
	assert.Error(t, ValidateUsername("   "))
	assert.Error(t, ValidateUsername(strings.Repeat("a", 81)))
}

func TestValidateRequired(t *testing.T) {
	assert.NoError(t, ValidateRequired("value", "field"))

	err := ValidateRequired("  ", "title")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "title")
}
