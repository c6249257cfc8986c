package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketExhausts(t *testing.T) {
	tb := NewTokenBucket(3, 1)

	for i := 0; i < 3; i++ {
		assert.True(t, tb.Allow(), "token %d should be granted", i)
	}
	assert.False(t, tb.Allow(), "bucket should be empty")
}

func TestRateLimiterIsolatesKeys(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	assert.True(t, rl.Allow("10.0.0.1:1234"))
	assert.False(t, rl.Allow("10.0.0.1:1234"))
	assert.True(t, rl.Allow("10.0.0.2:1234"), "a different client must get its own bucket")
}
