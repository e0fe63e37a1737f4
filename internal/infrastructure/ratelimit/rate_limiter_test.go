package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketExhaustsAndReportsWait(t *testing.T) {
	bucket := NewTokenBucket(3, 1, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, _ := bucket.Allow()
		assert.True(t, allowed)
	}

	allowed, wait := bucket.Allow()
	assert.False(t, allowed)
	assert.Greater(t, wait, time.Duration(0))
}

func TestRateLimiterPerUserPerAction(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < 5; i++ {
		allowed, _ := rl.Allow("alice", "create_chat")
		assert.True(t, allowed)
	}

	allowed, _ := rl.Allow("alice", "create_chat")
	assert.False(t, allowed)

	// Other users and other actions have their own buckets.
	allowed, _ = rl.Allow("bob", "create_chat")
	assert.True(t, allowed)
	allowed, _ = rl.Allow("alice", "send_message")
	assert.True(t, allowed)
}

func TestGetStatus(t *testing.T) {
	rl := NewRateLimiter()

	tokens, max := rl.GetStatus("alice", "send_message")
	assert.Equal(t, 0, tokens)
	assert.Equal(t, 0, max)

	rl.Allow("alice", "send_message")

	tokens, max = rl.GetStatus("alice", "send_message")
	assert.Equal(t, 9, tokens)
	assert.Equal(t, 10, max)
}
