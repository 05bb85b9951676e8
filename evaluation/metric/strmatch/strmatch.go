//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package strmatch implements the reference-based string matching metrics:
// exact match, substring presence, and edit-distance similarity.
package strmatch

import (
	"context"
	"strings"

	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/evalsample"
)

// ExactMatch scores 1 when the response equals the reference exactly.
type ExactMatch struct{}

// Name returns the metric name.
func (ExactMatch) Name() string { return "exact_match" }

// Score compares response and reference byte for byte.
func (ExactMatch) Score(_ context.Context, in *evalsample.ScoringInput) (float64, error) {
	if in.Response == in.Reference {
		return 1, nil
	}
	return 0, nil
}

// StringPresence scores 1 when the reference appears inside the response.
type StringPresence struct{}

// Name returns the metric name.
func (StringPresence) Name() string { return "string_presence" }

// Score checks substring containment of the reference in the response.
func (StringPresence) Score(_ context.Context, in *evalsample.ScoringInput) (float64, error) {
	if in.Reference == "" {
		return 0, nil
	}
	if strings.Contains(in.Response, in.Reference) {
		return 1, nil
	}
	return 0, nil
}

// StringSimilarity scores 1 minus the normalized Levenshtein distance
// between response and reference.
type StringSimilarity struct{}

// Name returns the metric name.
func (StringSimilarity) Name() string { return "non_llm_string_similarity" }

// Score computes the normalized edit-distance similarity.
func (StringSimilarity) Score(_ context.Context, in *evalsample.ScoringInput) (float64, error) {
	return Similarity(in.Response, in.Reference), nil
}

// Similarity returns 1 - levenshtein(a, b)/max(len(a), len(b)) over runes.
// Two empty strings are identical.
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

// levenshtein computes the edit distance with a rolling single-row table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
