//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package evalresult defines the per-metric, per-sample, and per-run result
// shapes produced by an evaluation.
package evalresult

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"trpc.group/trpc-go/trpc-agent-eval-go/adapter"
	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/status"
)

// MetricOutcome is the result of evaluating one metric on one sample.
// A failed metric keeps Score at 0 with Error populated.
type MetricOutcome struct {
	MetricName string              `json:"metric_name"`
	Score      float64             `json:"score"`
	Rationale  string              `json:"rationale,omitempty"`
	Error      string              `json:"error,omitempty"`
	Status     status.MetricStatus `json:"-"`
	Duration   time.Duration       `json:"-"`
}

// SampleResult aggregates one sample's metric outcomes with its display
// strings and performance record. Error is set only when the sample failed
// before any metric could run; per-metric errors live in Outcomes.
type SampleResult struct {
	// Outcomes is keyed by metric name, produced even when some metrics fail.
	Outcomes map[string]*MetricOutcome `json:"outcomes,omitempty"`
	// Error is the sample-level error: invocation failure or rejection.
	Error string `json:"error,omitempty"`

	UserInput string   `json:"user_input,omitempty"`
	Response  string   `json:"response,omitempty"`
	Reference string   `json:"reference,omitempty"`
	Contexts  []string `json:"contexts,omitempty"`

	Performance *adapter.PerformanceMetrics `json:"performance,omitempty"`
	Metadata    map[string]any              `json:"metadata,omitempty"`
}

// Scores returns the metric-name-to-score map, including zero scores of
// failed metrics.
func (r *SampleResult) Scores() map[string]float64 {
	scores := make(map[string]float64, len(r.Outcomes))
	for name, o := range r.Outcomes {
		scores[name] = o.Score
	}
	return scores
}

// MetricErrors returns the per-metric error map, holding only failed metrics.
func (r *SampleResult) MetricErrors() map[string]string {
	errs := make(map[string]string)
	for name, o := range r.Outcomes {
		if o.Error != "" {
			errs[name] = o.Error
		}
	}
	return errs
}

// Success reports whether the sample counts as successfully evaluated:
// no sample-level error and at least one metric scored cleanly. Partial
// metric failures do not break success.
func (r *SampleResult) Success() bool {
	if r.Error != "" {
		return false
	}
	for _, o := range r.Outcomes {
		if o.Error == "" {
			return true
		}
	}
	return false
}

// AverageScore returns the unweighted mean over cleanly scored metrics.
// Failed metrics are excluded; no scored metric yields 0.
func (r *SampleResult) AverageScore() float64 {
	var sum float64
	var n int
	for _, o := range r.Outcomes {
		if o.Error != "" {
			continue
		}
		sum += o.Score
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// ErrorSummary renders a one-line summary of which metrics failed and why,
// sorted by metric name. Empty when nothing failed.
func (r *SampleResult) ErrorSummary() string {
	errs := r.MetricErrors()
	if len(errs) == 0 {
		return ""
	}
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, errs[name]))
	}
	return fmt.Sprintf("some metrics failed: %s", strings.Join(parts, "; "))
}

// EvalReport aggregates one run.
type EvalReport struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Duration   time.Duration   `json:"duration"`
	Samples    []*SampleResult `json:"samples"`

	TotalSamples  int     `json:"total_samples"`
	FailedSamples int     `json:"failed_samples"`
	SuccessRate   float64 `json:"success_rate"`
	// OverallScore is the unweighted mean over all samples' average scores,
	// failed samples counting as 0.
	OverallScore float64 `json:"overall_score"`
	// MetricAverages is the per-metric unweighted mean over samples that
	// scored the metric cleanly.
	MetricAverages map[string]float64 `json:"metric_averages,omitempty"`
	// AveragePerformance is the field-wise mean over samples that carry a
	// performance record.
	AveragePerformance *adapter.PerformanceMetrics `json:"average_performance,omitempty"`
}

// NewReport creates an empty report for one run.
func NewReport(runID string) *EvalReport {
	return &EvalReport{
		RunID:     runID,
		StartedAt: time.Now(),
	}
}

// Add appends one sample result.
func (r *EvalReport) Add(result *SampleResult) {
	r.Samples = append(r.Samples, result)
}

// Finalize computes the aggregates. Call once, after the last Add.
func (r *EvalReport) Finalize() {
	r.FinishedAt = time.Now()
	r.Duration = r.FinishedAt.Sub(r.StartedAt)
	r.TotalSamples = len(r.Samples)

	var scoreSum float64
	metricSums := make(map[string]float64)
	metricCounts := make(map[string]int)
	for _, s := range r.Samples {
		if !s.Success() {
			r.FailedSamples++
		}
		scoreSum += s.AverageScore()
		for name, o := range s.Outcomes {
			if o.Error != "" {
				continue
			}
			metricSums[name] += o.Score
			metricCounts[name]++
		}
	}
	if r.TotalSamples > 0 {
		r.SuccessRate = float64(r.TotalSamples-r.FailedSamples) / float64(r.TotalSamples)
		r.OverallScore = scoreSum / float64(r.TotalSamples)
	}
	if len(metricSums) > 0 {
		r.MetricAverages = make(map[string]float64, len(metricSums))
		for name, sum := range metricSums {
			r.MetricAverages[name] = sum / float64(metricCounts[name])
		}
	}
	r.AveragePerformance = averagePerformance(r.Samples)
}

// averagePerformance computes the field-wise mean over samples carrying a
// performance record. Nil when no sample has one.
func averagePerformance(samples []*SampleResult) *adapter.PerformanceMetrics {
	var n int
	var totalTime, ttft, price float64
	var ttftN, priceN int
	var totalTokens, inTokens, outTokens int
	currency := ""
	for _, s := range samples {
		p := s.Performance
		if p == nil {
			continue
		}
		n++
		totalTime += p.TotalTime
		totalTokens += p.TotalTokens
		inTokens += p.InputTokens
		outTokens += p.OutputTokens
		if p.TimeToFirstToken != nil {
			ttft += *p.TimeToFirstToken
			ttftN++
		}
		if p.TotalPrice != nil {
			price += *p.TotalPrice
			priceN++
		}
		if currency == "" {
			currency = p.Currency
		}
	}
	if n == 0 {
		return nil
	}
	avg := &adapter.PerformanceMetrics{
		TotalTime:    totalTime / float64(n),
		TotalTokens:  totalTokens / n,
		InputTokens:  inTokens / n,
		OutputTokens: outTokens / n,
		Currency:     currency,
	}
	if ttftN > 0 {
		v := ttft / float64(ttftN)
		avg.TimeToFirstToken = &v
	}
	if priceN > 0 {
		v := price / float64(priceN)
		avg.TotalPrice = &v
	}
	return avg
}
