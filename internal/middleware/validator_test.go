package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMessageLength(t *testing.T) {
	assert.NoError(t, ValidateMessage("hello"))
	assert.NoError(t, ValidateMessage(""))
	assert.Error(t, ValidateMessage(strings.Repeat("a", MaxMessageLength+1)))
}

func TestValidateAttribute(t *testing.T) {
	assert.NoError(t, ValidateAttribute("channel", ""))
	assert.NoError(t, ValidateAttribute("channel", "email"))
	assert.Error(t, ValidateAttribute("channel", strings.Repeat("x", 257)))
	assert.Error(t, ValidateAttribute("customer_id", "bad\nvalue"))
}

func TestValidateBatchSize(t *testing.T) {
	assert.Error(t, ValidateBatchSize(0))
	assert.NoError(t, ValidateBatchSize(1))
	assert.NoError(t, ValidateBatchSize(MaxBatchSize))
	assert.Error(t, ValidateBatchSize(MaxBatchSize+1))
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, 100, ValidateLimit(0))
	assert.Equal(t, 100, ValidateLimit(-5))
	assert.Equal(t, 50, ValidateLimit(50))
	assert.Equal(t, 1000, ValidateLimit(5000))
}

func TestValidateDays(t *testing.T) {
	assert.Equal(t, 7, ValidateDays(0))
	assert.Equal(t, 30, ValidateDays(30))
	assert.Equal(t, 365, ValidateDays(1000))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello\x00  "))
	assert.Equal(t, "a b", SanitizeString("a\x01 b"))
}
