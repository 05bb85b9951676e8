//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

package adapter

// DefaultUser identifies the harness to the backend when no user is supplied.
const DefaultUser = "agent-evaluator"

// InvokeOptions holds the per-invocation options shared by all adapters.
type InvokeOptions struct {
	// Streaming selects server-sent-event streaming instead of one blocking
	// request.
	Streaming bool
	// Path overrides the adapter's default request path, selecting between
	// the backend's response shapes.
	Path string
	// Inputs carries structured workflow input variables. When it contains a
	// "query" key that value is the effective query and the top-level query
	// field is sent as a placeholder.
	Inputs map[string]any
	// ConversationID continues an existing conversation when non-empty.
	ConversationID string
	// User identifies the end user to the backend.
	User string
}

// Option configures one invocation.
type Option func(*InvokeOptions)

// NewInvokeOptions creates InvokeOptions with the default values.
func NewInvokeOptions(opt ...Option) *InvokeOptions {
	opts := &InvokeOptions{User: DefaultUser}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// WithStreaming selects streaming or blocking response mode.
func WithStreaming(streaming bool) Option {
	return func(o *InvokeOptions) {
		o.Streaming = streaming
	}
}

// WithPath overrides the request path.
func WithPath(path string) Option {
	return func(o *InvokeOptions) {
		o.Path = path
	}
}

// WithInputs sets structured workflow input variables.
func WithInputs(inputs map[string]any) Option {
	return func(o *InvokeOptions) {
		o.Inputs = inputs
	}
}

// WithConversationID continues an existing conversation.
func WithConversationID(id string) Option {
	return func(o *InvokeOptions) {
		o.ConversationID = id
	}
}

// WithUser sets the end user identifier.
func WithUser(user string) Option {
	return func(o *InvokeOptions) {
		o.User = user
	}
}
