//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package status defines the terminal states of one metric evaluation.
package status

// MetricStatus is the terminal state of evaluating one metric on one sample.
type MetricStatus int

const (
	// MetricStatusUnknown is the zero value before evaluation completes.
	MetricStatusUnknown MetricStatus = iota
	// MetricStatusScored means the metric produced a numeric score.
	MetricStatusScored
	// MetricStatusTimedOut means the metric exceeded its per-metric deadline.
	MetricStatusTimedOut
	// MetricStatusFailed means the metric raised an error other than a timeout
	// or rate limit.
	MetricStatusFailed
	// MetricStatusRateLimited means the scoring backend rejected the call for
	// exceeding its rate limit.
	MetricStatusRateLimited
)

var statusNames = map[MetricStatus]string{
	MetricStatusUnknown:     "unknown",
	MetricStatusScored:      "scored",
	MetricStatusTimedOut:    "timed_out",
	MetricStatusFailed:      "failed",
	MetricStatusRateLimited: "rate_limited",
}

// String returns the lowercase name of the status.
func (s MetricStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether the status represents a finished evaluation.
func (s MetricStatus) Terminal() bool {
	return s != MetricStatusUnknown
}
