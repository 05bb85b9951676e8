//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package evalsample defines the sample shapes flowing through an evaluation:
// the dataset record going in, the invocation record coming back, and the
// scoring input handed to metrics.
package evalsample

import (
	"strings"

	"trpc.group/trpc-go/trpc-agent-eval-go/adapter"
)

// ContextPlaceholder stands in for retrieval context when a sample carries
// neither retrieved nor reference contexts. Context-dependent metrics still
// need a non-empty context to run.
const ContextPlaceholder = "no context available"

// MetadataKeyContextPlaceholder marks a scoring input whose contexts were
// substituted with ContextPlaceholder.
const MetadataKeyContextPlaceholder = "context_placeholder_used"

// TestSample is one dataset record before invocation.
type TestSample struct {
	// Query is the user input sent to the agent.
	Query string `json:"query"`
	// ReferenceAnswer is the expected answer, used by reference-based metrics.
	ReferenceAnswer string `json:"reference_answer,omitempty"`
	// ReferenceContexts are the ground-truth retrieval contexts.
	ReferenceContexts []string `json:"reference_contexts,omitempty"`
	// Inputs are extra structured variables forwarded to the backend.
	Inputs map[string]any `json:"inputs,omitempty"`
	// Metadata carries free-form record annotations.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// EvalSample is one sample after invocation: the dataset record joined with
// what the agent actually produced.
type EvalSample struct {
	Query             string                      `json:"query"`
	Answer            string                      `json:"answer"`
	ReferenceAnswer   string                      `json:"reference_answer,omitempty"`
	RetrievedContexts []string                    `json:"retrieved_contexts,omitempty"`
	ReferenceContexts []string                    `json:"reference_contexts,omitempty"`
	ToolCalls         []map[string]any            `json:"tool_calls,omitempty"`
	Performance       *adapter.PerformanceMetrics `json:"performance,omitempty"`
	Metadata          map[string]any              `json:"metadata,omitempty"`
}

// FromResponse joins a dataset record with the adapter response it produced.
// Response metadata merges over the record metadata; on key collision the
// response wins.
func FromResponse(ts *TestSample, resp *adapter.Response) *EvalSample {
	metadata := make(map[string]any, len(ts.Metadata)+len(resp.Metadata))
	for k, v := range ts.Metadata {
		metadata[k] = v
	}
	for k, v := range resp.Metadata {
		metadata[k] = v
	}
	return &EvalSample{
		Query:             ts.Query,
		Answer:            resp.Answer,
		ReferenceAnswer:   ts.ReferenceAnswer,
		RetrievedContexts: resp.Contexts,
		ReferenceContexts: ts.ReferenceContexts,
		ToolCalls:         resp.ToolCalls,
		Performance:       resp.Performance,
		Metadata:          metadata,
	}
}

// ScoringInput is the fixed view of one sample handed to every metric.
type ScoringInput struct {
	UserInput         string         `json:"user_input"`
	Response          string         `json:"response"`
	Reference         string         `json:"reference,omitempty"`
	RetrievedContexts []string       `json:"retrieved_contexts,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
}

// ScoringInputFor builds the scoring input for one evaluated sample.
// Context fallback order: retrieved contexts, then reference contexts, then
// the placeholder, flagged in metadata so reports can tell real retrieval
// apart from the substitute. Blank entries are dropped before each step, so a
// list of whitespace-only contexts falls through like an empty one.
func ScoringInputFor(s *EvalSample) *ScoringInput {
	in := &ScoringInput{
		UserInput: s.Query,
		Response:  s.Answer,
		Reference: s.ReferenceAnswer,
		Metadata:  map[string]any{},
	}
	retrieved := nonBlank(s.RetrievedContexts)
	reference := nonBlank(s.ReferenceContexts)
	switch {
	case len(retrieved) > 0:
		in.RetrievedContexts = retrieved
	case len(reference) > 0:
		in.RetrievedContexts = reference
	default:
		in.RetrievedContexts = []string{ContextPlaceholder}
		in.Metadata[MetadataKeyContextPlaceholder] = true
	}
	return in
}

// nonBlank returns the entries of list carrying non-whitespace text.
func nonBlank(list []string) []string {
	var out []string
	for _, s := range list {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
