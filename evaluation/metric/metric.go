//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package metric defines the pluggable scorer interface and the registry that
// turns configured metric names and category shorthands into scorers.
package metric

import (
	"context"
	"fmt"
	"sort"

	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/evalsample"
	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/metric/llmjudge"
	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/metric/rouge"
	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/metric/strmatch"
	"trpc.group/trpc-go/trpc-agent-eval-go/log"
)

// Scorer is one independent quality metric producing a 0-1 score for a
// sample. Implementations must be safe for sequential reuse across samples.
type Scorer interface {
	Name() string
	Score(ctx context.Context, in *evalsample.ScoringInput) (float64, error)
}

// rubrics state the judged criterion for each LLM-backed metric.
var rubrics = map[string]string{
	MetricFaithfulness:        "What fraction of the claims in the response is supported by the retrieved contexts?",
	MetricResponseRelevancy:   "How relevant is the response to the user input?",
	MetricContextPrecision:    "What fraction of the retrieved contexts is relevant to the user input?",
	MetricContextRecall:       "How completely do the retrieved contexts cover the reference answer?",
	MetricContextEntityRecall: "What fraction of the entities in the reference answer appears in the retrieved contexts?",
	MetricNoiseSensitivity:    "How robust is the response against irrelevant retrieved contexts? Score 1 when no irrelevant context leaked into the response.",
	MetricContextRelevance:    "How relevant are the retrieved contexts to the user input?",
	MetricResponseGrounded:    "How well is the response grounded in the retrieved contexts?",
	MetricAnswerCorrectness:   "How correct is the response compared to the reference answer?",
	MetricAnswerAccuracy:      "How accurate is the response compared to the reference answer?",
}

// BuildOption configures the registry build.
type BuildOption func(*buildOptions)

type buildOptions struct {
	judge *llmjudge.Judge
}

// WithJudge supplies the judge backing LLM-scored metrics. Without it, LLM
// metrics in the list are an error.
func WithJudge(judge *llmjudge.Judge) BuildOption {
	return func(o *buildOptions) {
		o.judge = judge
	}
}

// Build resolves configured metric names and category shorthands into
// scorers. Multi-turn metrics are skipped with a warning because samples are
// single-turn. An empty usable set is an error.
func Build(names []string, opt ...BuildOption) ([]Scorer, error) {
	opts := &buildOptions{}
	for _, o := range opt {
		o(opts)
	}

	var scorers []Scorer
	var skipped []string
	for _, name := range ExpandCategories(names) {
		if IsMultiTurn(name) {
			log.Warnf("metric: skipping %s: multi-turn metrics need conversation samples", name)
			skipped = append(skipped, name)
			continue
		}
		s, err := build(name, opts)
		if err != nil {
			return nil, err
		}
		scorers = append(scorers, s)
	}
	if len(scorers) == 0 {
		if len(skipped) > 0 {
			return nil, fmt.Errorf("no usable metrics: all configured metrics were skipped (%v)", skipped)
		}
		return nil, fmt.Errorf("no metrics configured")
	}
	return scorers, nil
}

func build(name string, opts *buildOptions) (Scorer, error) {
	switch name {
	case MetricExactMatch:
		return strmatch.ExactMatch{}, nil
	case MetricStringPresence:
		return strmatch.StringPresence{}, nil
	case MetricStringSimilarity:
		return strmatch.StringSimilarity{}, nil
	case MetricRougeScore:
		return rouge.New(), nil
	}
	if IsLLMBacked(name) {
		if opts.judge == nil {
			return nil, fmt.Errorf("metric %s needs an LLM judge, none configured", name)
		}
		return llmjudge.NewScorer(name, rubrics[name], opts.judge), nil
	}
	return nil, fmt.Errorf("unsupported metric %q (supported: %v)", name, SupportedNames())
}

// SupportedNames lists all supported canonical metric names, sorted.
func SupportedNames() []string {
	names := []string{
		MetricExactMatch,
		MetricStringPresence,
		MetricStringSimilarity,
		MetricRougeScore,
	}
	for name := range llmBackedMetrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
