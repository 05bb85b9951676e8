//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

package adapter

import (
	"errors"
	"fmt"
	"time"
)

// ErrSessionNotOpen reports an Invoke issued outside an open session.
var ErrSessionNotOpen = errors.New("adapter session is not open")

// TransportError reports a connection failure or a non-2xx response on a
// single call. It is fatal to that sample's invocation step only.
type TransportError struct {
	// StatusCode is zero when the request never produced a response.
	StatusCode int
	Body       string
	Err        error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport error: %v", e.Err)
	}
	return fmt.Sprintf("transport error: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// StreamTimeoutError reports a streaming deadline that expired before any
// answer content was accumulated. A deadline hit after content arrived is not
// an error; the partial result is returned instead.
type StreamTimeoutError struct {
	Elapsed time.Duration
}

// Error implements the error interface.
func (e *StreamTimeoutError) Error() string {
	return fmt.Sprintf("stream read timed out: no data received within %.2fs", e.Elapsed.Seconds())
}
