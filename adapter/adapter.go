//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package adapter defines the platform adapter contract and the unified
// response shape shared by all backend adapters.
package adapter

import "context"

// PerformanceMetrics holds the timing and token accounting for one invocation.
type PerformanceMetrics struct {
	// TotalTime is the end-to-end invocation time in seconds. The backend's
	// declared elapsed time is authoritative when it reports one.
	TotalTime float64 `json:"total_time"`
	// TimeToFirstToken is the time until the first answer fragment arrived,
	// in seconds. Nil when no fragment ever arrived (blocking calls included).
	TimeToFirstToken *float64 `json:"time_to_first_token,omitempty"`
	// StreamingLatency holds the deltas between consecutive fragment arrivals.
	StreamingLatency []float64 `json:"streaming_latency,omitempty"`
	// TotalTokens is the backend-reported aggregate token count. It is not
	// required to equal InputTokens+OutputTokens.
	TotalTokens  int `json:"total_tokens"`
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	// TotalPrice and Currency are reported only by backends that meter cost.
	TotalPrice *float64 `json:"total_price,omitempty"`
	Currency   string   `json:"currency,omitempty"`
}

// Response is the unified result reconstructed from a backend invocation,
// regardless of the response shape the backend used.
type Response struct {
	// Answer is the full generated answer text.
	Answer string `json:"answer"`
	// Contexts are the retrieved context snippets, insertion ordered,
	// deduplicated by exact value, never containing the empty string.
	Contexts []string `json:"contexts,omitempty"`
	// ToolCalls are opaque tool invocation records reported by the backend.
	ToolCalls []map[string]any `json:"tool_calls,omitempty"`
	// Metadata collects diagnostic payloads from the backend, last write wins
	// per key.
	Metadata map[string]any `json:"metadata,omitempty"`
	// Performance is nil only when the backend reported nothing usable.
	Performance *PerformanceMetrics `json:"performance,omitempty"`
}

// Adapter is a client for one conversational agent backend.
//
// Open must be called before the first Invoke and Close after the last one;
// the session owns the pooled transport shared by all invocations in a batch.
type Adapter interface {
	// Open prepares the transport session.
	Open(ctx context.Context) error
	// Close releases the transport session.
	Close() error
	// Invoke sends one user input to the backend and reconstructs a unified
	// Response. It returns ErrSessionNotOpen when called outside an open
	// session.
	Invoke(ctx context.Context, input string, opt ...Option) (*Response, error)
}
