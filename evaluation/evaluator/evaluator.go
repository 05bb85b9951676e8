//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package evaluator runs configured metrics against one evaluated sample.
// Every metric runs under its own timeout and a failing metric never aborts
// its siblings or the sample.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/evalresult"
	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/evalsample"
	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/metric"
	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/status"
	"trpc.group/trpc-go/trpc-agent-eval-go/log"
)

const (
	// defaultTimeout bounds one metric evaluation.
	defaultTimeout = 120 * time.Second
	// defaultProgressInterval paces the in-flight progress log line.
	defaultProgressInterval = 10 * time.Second

	// maxResponseDisplay and maxContextDisplay bound the stored display
	// strings; full lengths are preserved in metadata.
	maxResponseDisplay = 200
	maxContextDisplay  = 100
)

// ErrBlankAnswer rejects a sample whose reconstructed answer is empty or
// whitespace-only. No metric is attempted for such a sample.
var ErrBlankAnswer = errors.New("response is blank, nothing to evaluate")

// Executor evaluates samples against a fixed scorer set. One timeout value is
// shared by all metrics of one executor.
type Executor struct {
	scorers          []metric.Scorer
	timeout          time.Duration
	progressInterval time.Duration
}

// Option configures the executor.
type Option func(*Executor)

// WithTimeout sets the per-metric timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.timeout = d
	}
}

// WithProgressInterval sets the in-flight progress reporting interval.
func WithProgressInterval(d time.Duration) Option {
	return func(e *Executor) {
		e.progressInterval = d
	}
}

// New creates an executor over the given scorers.
func New(scorers []metric.Scorer, opt ...Option) *Executor {
	e := &Executor{
		scorers:          scorers,
		timeout:          defaultTimeout,
		progressInterval: defaultProgressInterval,
	}
	for _, o := range opt {
		o(e)
	}
	return e
}

// Evaluate scores one sample with every configured metric. It always returns
// a result: metric failures are captured per metric, and only a blank answer
// fails the sample outright.
func (e *Executor) Evaluate(ctx context.Context, sample *evalsample.EvalSample) *evalresult.SampleResult {
	if strings.TrimSpace(sample.Answer) == "" {
		log.Warnf("evaluator: %v", ErrBlankAnswer)
		return &evalresult.SampleResult{
			Error:     ErrBlankAnswer.Error(),
			UserInput: sample.Query,
			Metadata:  sample.Metadata,
		}
	}

	in := evalsample.ScoringInputFor(sample)
	total := len(e.scorers)
	outcomes := make(map[string]*evalresult.MetricOutcome, total)

	log.Infof("evaluator: evaluating %d metrics, answer length %d, %d contexts",
		total, len(sample.Answer), len(in.RetrievedContexts))
	for i, s := range e.scorers {
		name := s.Name()
		log.Infof("evaluator: [%d/%d] evaluating %s", i+1, total, name)
		outcome := e.runMetric(ctx, s, in)
		outcomes[name] = outcome
		switch outcome.Status {
		case status.MetricStatusScored:
			log.Infof("evaluator: [%d/%d] %s scored %.4f in %.2fs",
				i+1, total, name, outcome.Score, outcome.Duration.Seconds())
		default:
			log.Warnf("evaluator: [%d/%d] %s %s after %.2fs: %s",
				i+1, total, name, outcome.Status, outcome.Duration.Seconds(), outcome.Error)
		}
	}

	metadata := make(map[string]any, len(sample.Metadata)+len(in.Metadata)+1)
	for k, v := range sample.Metadata {
		metadata[k] = v
	}
	for k, v := range in.Metadata {
		metadata[k] = v
	}
	metadata["response_full_length"] = len(sample.Answer)

	result := &evalresult.SampleResult{
		Outcomes:    outcomes,
		UserInput:   sample.Query,
		Response:    truncate(sample.Answer, maxResponseDisplay),
		Reference:   sample.ReferenceAnswer,
		Contexts:    displayContexts(in.RetrievedContexts),
		Performance: sample.Performance,
		Metadata:    metadata,
	}
	failedCount := len(result.MetricErrors())
	log.Infof("evaluator: done, %d/%d metrics scored", total-failedCount, total)
	return result
}

// runMetric runs one scorer bound by the per-metric timeout, classifying the
// outcome. The scorer runs in its own goroutine so a hung scorer cannot hold
// up the sample past its deadline.
func (e *Executor) runMetric(ctx context.Context, s metric.Scorer, in *evalsample.ScoringInput) *evalresult.MetricOutcome {
	name := s.Name()
	start := time.Now()
	outcome := &evalresult.MetricOutcome{MetricName: name}

	metricCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type scoreResult struct {
		score float64
		err   error
	}
	done := make(chan scoreResult, 1)
	go func() {
		score, err := s.Score(metricCtx, in)
		done <- scoreResult{score: score, err: err}
	}()

	ticker := time.NewTicker(e.progressInterval)
	defer ticker.Stop()
	for {
		select {
		case r := <-done:
			outcome.Duration = time.Since(start)
			if r.err != nil {
				e.classifyError(outcome, r.err)
				return outcome
			}
			outcome.Score = r.score
			outcome.Rationale = metric.Rationale(name, r.score)
			outcome.Status = status.MetricStatusScored
			return outcome
		case <-metricCtx.Done():
			outcome.Duration = time.Since(start)
			outcome.Status = status.MetricStatusTimedOut
			outcome.Error = fmt.Sprintf("evaluation timed out after %s", e.timeout)
			return outcome
		case <-ticker.C:
			elapsed := time.Since(start)
			remaining := e.timeout - elapsed
			if remaining < 0 {
				remaining = 0
			}
			log.Infof("evaluator: %s still running, elapsed %.1fs, remaining %.1fs",
				name, elapsed.Seconds(), remaining.Seconds())
		}
	}
}

// classifyError fills the outcome for a scorer error, tagging rate limits so
// reports can separate quota exhaustion from real failures.
func (e *Executor) classifyError(outcome *evalresult.MetricOutcome, err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		outcome.Status = status.MetricStatusTimedOut
		outcome.Error = fmt.Sprintf("evaluation timed out after %s", e.timeout)
	case strings.Contains(msg, "429") || strings.Contains(msg, "Too Many Requests"):
		outcome.Status = status.MetricStatusRateLimited
		outcome.Error = fmt.Sprintf("rate limited (429 Too Many Requests): %s", msg)
	default:
		outcome.Status = status.MetricStatusFailed
		outcome.Error = msg
	}
}

// truncate shortens s to at most n runes, appending an ellipsis when cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// displayContexts renders the numbered, shortened context previews stored on
// the result.
func displayContexts(contexts []string) []string {
	display := make([]string, 0, len(contexts))
	for i, ctx := range contexts {
		if strings.TrimSpace(ctx) == "" {
			display = append(display, fmt.Sprintf("context %d: (empty)", i+1))
			continue
		}
		display = append(display, fmt.Sprintf("context %d: %s", i+1, truncate(ctx, maxContextDisplay)))
	}
	return display
}
