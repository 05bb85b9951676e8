//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

package metric

import "strings"

// Canonical metric names.
const (
	// RAG metrics, all judged by an LLM.
	MetricFaithfulness        = "faithfulness"
	MetricResponseRelevancy   = "response_relevancy"
	MetricContextPrecision    = "context_precision"
	MetricContextRecall       = "context_recall"
	MetricContextEntityRecall = "context_entity_recall"
	MetricNoiseSensitivity    = "noise_sensitivity"
	MetricContextRelevance    = "context_relevance"
	MetricResponseGrounded    = "response_groundedness"
	MetricAnswerCorrectness   = "answer_correctness"
	MetricAnswerAccuracy      = "answer_accuracy"

	// Reference-based metrics computed locally.
	MetricExactMatch       = "exact_match"
	MetricStringPresence   = "string_presence"
	MetricStringSimilarity = "non_llm_string_similarity"
	MetricRougeScore       = "rouge_score"
)

// aliases maps accepted spellings to canonical metric names.
var aliases = map[string]string{
	"answer_relevancy": MetricResponseRelevancy,
	"relevancy":        MetricResponseRelevancy,
	"rouge":            MetricRougeScore,
}

// Categories maps a category shorthand to its member metrics. A category name
// in a metric list expands to its members in this order.
var Categories = map[string][]string{
	"rag": {
		MetricContextPrecision,
		MetricContextRecall,
		MetricContextEntityRecall,
		MetricNoiseSensitivity,
		MetricResponseRelevancy,
		MetricFaithfulness,
		MetricContextRelevance,
		MetricResponseGrounded,
		MetricAnswerCorrectness,
		MetricAnswerAccuracy,
	},
	"llm": {
		MetricExactMatch,
		MetricStringPresence,
		MetricStringSimilarity,
		MetricRougeScore,
	},
	"agent": {
		"topic_adherence_score",
		"tool_call_accuracy",
		"agent_goal_accuracy",
	},
}

// multiTurnMetrics require conversation-level samples. They are recognized so
// configs naming them fail soft, but single-turn evaluation skips them.
var multiTurnMetrics = map[string]struct{}{
	"topic_adherence_score": {},
	"tool_call_accuracy":    {},
	"agent_goal_accuracy":   {},
}

// llmBackedMetrics are scored by the LLM judge and need one configured.
var llmBackedMetrics = map[string]struct{}{
	MetricFaithfulness:        {},
	MetricResponseRelevancy:   {},
	MetricContextPrecision:    {},
	MetricContextRecall:       {},
	MetricContextEntityRecall: {},
	MetricNoiseSensitivity:    {},
	MetricContextRelevance:    {},
	MetricResponseGrounded:    {},
	MetricAnswerCorrectness:   {},
	MetricAnswerAccuracy:      {},
}

// IsMultiTurn reports whether the metric needs conversation-level samples.
func IsMultiTurn(name string) bool {
	_, ok := multiTurnMetrics[Canonical(name)]
	return ok
}

// IsLLMBacked reports whether the metric is scored by the LLM judge.
func IsLLMBacked(name string) bool {
	_, ok := llmBackedMetrics[Canonical(name)]
	return ok
}

// Canonical normalizes a metric name: lowercased, trimmed, alias-resolved.
func Canonical(name string) string {
	n := normalize(name)
	if canonical, ok := aliases[n]; ok {
		return canonical
	}
	return n
}

// ExpandCategories expands category shorthands into member metric names,
// resolving aliases, removing duplicates, and preserving first-seen order.
func ExpandCategories(names []string) []string {
	var expanded []string
	for _, name := range names {
		if members, ok := Categories[normalize(name)]; ok {
			expanded = append(expanded, members...)
			continue
		}
		expanded = append(expanded, Canonical(name))
	}
	seen := make(map[string]struct{}, len(expanded))
	result := make([]string, 0, len(expanded))
	for _, name := range expanded {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		result = append(result, name)
	}
	return result
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
