//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricStatusString(t *testing.T) {
	tests := map[MetricStatus]string{
		MetricStatusUnknown:     "unknown",
		MetricStatusScored:      "scored",
		MetricStatusTimedOut:    "timed_out",
		MetricStatusFailed:      "failed",
		MetricStatusRateLimited: "rate_limited",
		MetricStatus(99):        "unknown",
	}
	for s, want := range tests {
		assert.Equal(t, want, s.String())
	}
}

func TestMetricStatusTerminal(t *testing.T) {
	assert.False(t, MetricStatusUnknown.Terminal())
	assert.True(t, MetricStatusScored.Terminal())
	assert.True(t, MetricStatusTimedOut.Terminal())
	assert.True(t, MetricStatusFailed.Terminal())
	assert.True(t, MetricStatusRateLimited.Terminal())
}
