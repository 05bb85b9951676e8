//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

package dify

import (
	"net"
	"net/http"
	"time"
)

const (
	// connectTimeout bounds dialing only; reads are bounded per call.
	connectTimeout = 5 * time.Second
	// streamingTimeoutFloor is the minimum read deadline for streaming calls.
	// Event streams are long-lived, so the per-call timeout does not apply
	// to them directly.
	streamingTimeoutFloor = 300 * time.Second
	// streamingTimeoutScale multiplies the base per-call timeout for streams.
	streamingTimeoutScale = 10
)

// streamingTimeout derives the streaming read deadline from the base
// per-call timeout: 10x the base with a 300s floor.
func streamingTimeout(base time.Duration) time.Duration {
	scaled := base * streamingTimeoutScale
	if scaled > streamingTimeoutFloor {
		return scaled
	}
	return streamingTimeoutFloor
}

// newHTTPClient builds the pooled transport for one session. The client
// itself carries no timeout; blocking and streaming calls each bound their
// requests with a context deadline.
func newHTTPClient() *http.Client {
	dialer := &net.Dialer{Timeout: connectTimeout}
	return &http.Client{
		Transport: &http.Transport{
			DialContext:         dialer.DialContext,
			MaxIdleConns:        16,
			MaxIdleConnsPerHost: 16,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: connectTimeout,
		},
	}
}
