//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package rouge scores n-gram overlap between a response and its reference
// answer. It computes the ROUGE-L F1 measure over whitespace-delimited
// tokens, which works for latin scripts and space-segmented text.
package rouge

import (
	"context"
	"strings"

	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/evalsample"
)

// Scorer computes the ROUGE-L F1 score against the reference answer.
// A sample without a reference scores 0.
type Scorer struct{}

// New creates a ROUGE-L scorer.
func New() *Scorer {
	return &Scorer{}
}

// Name returns the metric name.
func (s *Scorer) Name() string {
	return "rouge_score"
}

// Score computes the ROUGE-L F1 between response and reference.
func (s *Scorer) Score(_ context.Context, in *evalsample.ScoringInput) (float64, error) {
	return F1(in.Response, in.Reference), nil
}

// F1 returns the ROUGE-L F1 measure between a candidate and a reference.
// Both empty counts as a perfect match; one empty scores 0.
func F1(candidate, reference string) float64 {
	cand := tokenize(candidate)
	ref := tokenize(reference)
	if len(cand) == 0 && len(ref) == 0 {
		return 1
	}
	if len(cand) == 0 || len(ref) == 0 {
		return 0
	}
	lcs := lcsLength(cand, ref)
	if lcs == 0 {
		return 0
	}
	precision := float64(lcs) / float64(len(cand))
	recall := float64(lcs) / float64(len(ref))
	return 2 * precision * recall / (precision + recall)
}

func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// lcsLength computes the longest common subsequence length with a rolling
// single-row table, keeping memory linear in the reference length.
func lcsLength(a, b []string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
