//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

package metric

import "fmt"

// Score bands for rationale wording.
const (
	bandHigh   = 0.8
	bandMedium = 0.5
)

// rationaleTexts holds the per-band wording for metrics with tailored
// rationales, indexed high, medium, low, zero. %s is the formatted score.
var rationaleTexts = map[string][4]string{
	MetricFaithfulness: {
		"response is highly faithful to the contexts (%s of claims supported)",
		"response is partially faithful to the contexts (%s of claims supported)",
		"response has low faithfulness (only %s of claims supported), likely hallucination",
		"response is entirely unfaithful to the contexts (score 0.0/1.0), severe hallucination",
	},
	MetricResponseRelevancy: {
		"response is highly relevant (relevancy %s)",
		"response is partially relevant (relevancy %s), some information may be missing",
		"response has low relevancy (%s), the question may not be fully answered",
		"response is irrelevant to the question (score 0.0/1.0)",
	},
	MetricContextPrecision: {
		"retrieved contexts are highly precise (%s relevant to the question)",
		"retrieved contexts are partially precise (%s relevant), some noise present",
		"retrieved contexts have low precision (only %s relevant), heavy noise",
		"retrieved contexts are entirely irrelevant (score 0.0/1.0), poor retrieval",
	},
	MetricContextRecall: {
		"retrieved contexts are highly complete (%s of the reference covered)",
		"retrieved contexts are partially complete (%s of the reference covered)",
		"retrieved contexts have low completeness (only %s of the reference covered)",
		"retrieved contexts cover none of the reference (score 0.0/1.0), low recall",
	},
	MetricContextEntityRecall: {
		"contexts contain most reference entities (%s present)",
		"contexts contain some reference entities (%s present)",
		"contexts have low entity coverage (only %s present)",
		"contexts contain no reference entities (score 0.0/1.0)",
	},
	MetricAnswerCorrectness: {
		"answer is highly correct (correctness %s)",
		"answer is partially correct (correctness %s), some errors present",
		"answer has low correctness (%s), many errors present",
		"answer is entirely incorrect (score 0.0/1.0)",
	},
	MetricAnswerAccuracy: {
		"answer is highly accurate (accuracy %s)",
		"answer is partially accurate (accuracy %s), some deviation present",
		"answer has low accuracy (%s), large deviation present",
		"answer is entirely inaccurate (score 0.0/1.0)",
	},
	MetricContextRelevance: {
		"retrieved contexts are highly relevant (relevance %s)",
		"retrieved contexts are partially relevant (relevance %s), some unrelated content",
		"retrieved contexts have low relevance (%s), mostly unrelated content",
		"retrieved contexts are irrelevant to the question (score 0.0/1.0)",
	},
	MetricResponseGrounded: {
		"response is highly grounded in the contexts (groundedness %s)",
		"response is partially grounded (groundedness %s), some ungrounded content",
		"response has low groundedness (%s), mostly ungrounded content",
		"response is not grounded in the contexts (score 0.0/1.0), likely hallucination",
	},
}

// Rationale derives the human-readable scoring rationale from the metric
// identity and score band. Unrecognized metrics get a generic banded message.
func Rationale(name string, score float64) string {
	if texts, ok := rationaleTexts[Canonical(name)]; ok {
		pct := fmt.Sprintf("%.1f%%", score*100)
		switch {
		case score >= bandHigh:
			return fmt.Sprintf(texts[0], pct)
		case score >= bandMedium:
			return fmt.Sprintf(texts[1], pct)
		case score > 0:
			return fmt.Sprintf(texts[2], pct)
		}
		return texts[3]
	}
	switch {
	case score >= bandHigh:
		return fmt.Sprintf("high score (%.4f/1.0), good performance", score)
	case score >= bandMedium:
		return fmt.Sprintf("medium score (%.4f/1.0), average performance", score)
	case score > 0:
		return fmt.Sprintf("low score (%.4f/1.0), needs improvement", score)
	}
	return "score 0.0000/1.0, poor performance"
}
