//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

package llmjudge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/evalsample"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{`{"score": 0.85, "reason": "good"}`, 0.85, false},
		{"```json\n{\"score\": 0.5}\n```", 0.5, false},
		{`0.7`, 0.7, false},
		{`not a score`, 0, true},
	}
	for _, tt := range tests {
		got, err := parseScore(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-0.1))
	assert.Equal(t, 1.0, clamp01(1.5))
	assert.Equal(t, 0.4, clamp01(0.4))
}

func TestScorerBuildPrompt(t *testing.T) {
	s := NewScorer("faithfulness", "is the response supported by the contexts", nil)
	prompt := s.buildPrompt(&evalsample.ScoringInput{
		UserInput:         "q",
		Response:          "a",
		Reference:         "ref",
		RetrievedContexts: []string{"c1", "c2"},
	})
	assert.Contains(t, prompt, "is the response supported by the contexts")
	assert.Contains(t, prompt, "Reference answer:\nref")
	assert.Contains(t, prompt, "[2] c2")
}

func TestScorerScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"model":  "judge-model",
			"choices": []map[string]any{
				{
					"index":   0,
					"message": map[string]any{"role": "assistant", "content": `{"score": 0.9, "reason": "solid"}`},
				},
			},
		})
	}))
	t.Cleanup(srv.Close)

	judge := New("key", WithModel("judge-model"), WithBaseURL(srv.URL))
	s := NewScorer("answer_accuracy", "is the answer accurate", judge)

	score, err := s.Score(context.Background(), &evalsample.ScoringInput{UserInput: "q", Response: "a"})
	require.NoError(t, err)
	assert.InDelta(t, 0.9, score, 1e-9)
	assert.Equal(t, "answer_accuracy", s.Name())
}
