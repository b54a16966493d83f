package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/srgjo27/event_ticket/internal/platform/config"
)

func TestRetryPolicy_FromConfig(t *testing.T) {
	policy := retryPolicy(config.Default().Fulfillment)

	assert.Equal(t, time.Minute, policy.Interval)
	assert.Equal(t, 5*time.Minute, policy.Grace)
	assert.Equal(t, 5, policy.MaxAttempts)
	assert.Equal(t, 100, policy.BatchSize)
}
