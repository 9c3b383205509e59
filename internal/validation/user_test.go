package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name        string
		email       string
		expectError bool
	}{
		{"Simple address", "user1@test.com", false},
		{"Subdomain", "a.b@mail.example.co.uk", false},
		{"Plus tag", "user+tag@example.com", false},
		{"Missing at", "user1.test.com", true},
		{"Missing domain", "user1@", true},
		{"Missing local part", "@test.com", true},
		{"Domain without dot", "user1@localhost", true},
		{"Spaces", "user 1@test.com", true},
		{"Empty", "", true},
		{"Too long", strings.Repeat("a", 250) + "@test.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"Lowercases domain", "user1@TEST.COM", "user1@test.com"},
		{"Preserves local part case", "User1@TEST.com", "User1@test.com"},
		{"Already normalized", "user1@test.com", "user1@test.com"},
		{"No at sign left as-is", "not-an-email", "not-an-email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeEmail(tt.in))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("abcd"))
	assert.NoError(t, ValidatePassword("abcde"))
	assert.NoError(t, ValidatePassword("testpass123"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 129)))
}

func TestValidateName(t *testing.T) {
	assert.Error(t, ValidateName(""))
	assert.Error(t, ValidateName("   "))
	assert.NoError(t, ValidateName("user1"))
	assert.Error(t, ValidateName(strings.Repeat("n", 256)))
}
