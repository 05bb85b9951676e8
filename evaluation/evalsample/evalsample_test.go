//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

package evalsample

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trpc.group/trpc-go/trpc-agent-eval-go/adapter"
)

func TestFromResponseMergesMetadata(t *testing.T) {
	ts := &TestSample{
		Query:           "q",
		ReferenceAnswer: "ref",
		Metadata:        map[string]any{"source": "dataset", "shared": "old"},
	}
	resp := &adapter.Response{
		Answer:   "a",
		Contexts: []string{"c1"},
		Metadata: map[string]any{"shared": "new", "run": "r1"},
	}

	s := FromResponse(ts, resp)
	assert.Equal(t, "q", s.Query)
	assert.Equal(t, "a", s.Answer)
	assert.Equal(t, "ref", s.ReferenceAnswer)
	assert.Equal(t, []string{"c1"}, s.RetrievedContexts)
	assert.Equal(t, "dataset", s.Metadata["source"])
	assert.Equal(t, "new", s.Metadata["shared"])
	assert.Equal(t, "r1", s.Metadata["run"])
}

func TestScoringInputPrefersRetrievedContexts(t *testing.T) {
	in := ScoringInputFor(&EvalSample{
		Query:             "q",
		Answer:            "a",
		RetrievedContexts: []string{"retrieved"},
		ReferenceContexts: []string{"reference"},
	})
	assert.Equal(t, []string{"retrieved"}, in.RetrievedContexts)
	assert.NotContains(t, in.Metadata, MetadataKeyContextPlaceholder)
}

func TestScoringInputFallsBackToReferenceContexts(t *testing.T) {
	in := ScoringInputFor(&EvalSample{
		Query:             "q",
		Answer:            "a",
		ReferenceContexts: []string{"reference"},
	})
	assert.Equal(t, []string{"reference"}, in.RetrievedContexts)
	assert.NotContains(t, in.Metadata, MetadataKeyContextPlaceholder)
}

func TestScoringInputPlaceholderWhenNoContexts(t *testing.T) {
	in := ScoringInputFor(&EvalSample{Query: "q", Answer: "a"})
	assert.Equal(t, []string{ContextPlaceholder}, in.RetrievedContexts)
	assert.Equal(t, true, in.Metadata[MetadataKeyContextPlaceholder])
}

func TestScoringInputSkipsBlankContexts(t *testing.T) {
	// Whitespace-only retrieved contexts fall through to the reference
	// contexts, and whitespace-only reference contexts fall through to the
	// placeholder.
	in := ScoringInputFor(&EvalSample{
		Query:             "q",
		Answer:            "a",
		RetrievedContexts: []string{" ", "\t\n"},
		ReferenceContexts: []string{"reference"},
	})
	assert.Equal(t, []string{"reference"}, in.RetrievedContexts)
	assert.NotContains(t, in.Metadata, MetadataKeyContextPlaceholder)

	in = ScoringInputFor(&EvalSample{
		Query:             "q",
		Answer:            "a",
		RetrievedContexts: []string{" "},
		ReferenceContexts: []string{"  "},
	})
	assert.Equal(t, []string{ContextPlaceholder}, in.RetrievedContexts)
	assert.Equal(t, true, in.Metadata[MetadataKeyContextPlaceholder])

	// Blank entries are dropped, non-blank siblings survive.
	in = ScoringInputFor(&EvalSample{
		Query:             "q",
		Answer:            "a",
		RetrievedContexts: []string{"", "real", " "},
	})
	assert.Equal(t, []string{"real"}, in.RetrievedContexts)
}
