package middleware

import (
	"fmt"
	"strings"
)

// Input validation and sanitization utilities

// MaxMessageLength caps accepted message bodies; classifier backends truncate
// long inputs silently, so oversized messages are rejected instead.
const MaxMessageLength = 10000

// MaxBatchSize caps the number of messages per batch analysis request
const MaxBatchSize = 100

// ValidateMessage checks length bounds on a raw message body. Emptiness is a
// domain concern and is validated in the pipeline, not here.
func ValidateMessage(message string) error {
	if len(message) > MaxMessageLength {
		return fmt.Errorf("message exceeds maximum length of %d characters", MaxMessageLength)
	}
	return nil
}

// ValidateAttribute validates optional free-text attributes (customer_id, channel)
func ValidateAttribute(name, value string) error {
	if value == "" {
		return nil // Optional field
	}
	if len(value) > 256 {
		return fmt.Errorf("%s exceeds maximum length of 256 characters", name)
	}
	if strings.ContainsAny(value, "\x00\n\r") {
		return fmt.Errorf("invalid characters in %s", name)
	}
	return nil
}

// ValidateBatchSize checks the item count of a batch request
func ValidateBatchSize(n int) error {
	if n == 0 {
		return fmt.Errorf("batch cannot be empty")
	}
	if n > MaxBatchSize {
		return fmt.Errorf("batch exceeds maximum size of %d", MaxBatchSize)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit validates the listing limit parameter
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 100 // default
	}
	if limit > 1000 {
		return 1000 // max limit
	}
	return limit
}

// ValidateDays validates the trends days parameter
func ValidateDays(days int) int {
	if days <= 0 {
		return 7 // default
	}
	if days > 365 {
		return 365 // max 1 year
	}
	return days
}
