//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package runner orchestrates evaluation runs: it drives the platform
// adapter per sample, hands the reconstructed sample to the metric executor,
// and aggregates the batch into one report.
package runner

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-agent-eval-go/adapter"
	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/evalresult"
	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/evalsample"
	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/evaluator"
	"trpc.group/trpc-go/trpc-agent-eval-go/log"
)

// Runner evaluates dataset samples against one platform adapter.
type Runner struct {
	adapter     adapter.Adapter
	executor    *evaluator.Executor
	streaming   bool
	path        string
	parallelism int
}

// Option configures the runner.
type Option func(*Runner)

// WithStreaming selects the streaming response mode for invocations.
func WithStreaming(streaming bool) Option {
	return func(r *Runner) {
		r.streaming = streaming
	}
}

// WithPath sets the invocation endpoint path.
func WithPath(path string) Option {
	return func(r *Runner) {
		r.path = path
	}
}

// WithParallelism sets how many samples are evaluated concurrently.
// Values below 2 keep the batch sequential.
func WithParallelism(n int) Option {
	return func(r *Runner) {
		r.parallelism = n
	}
}

// New creates a runner over an adapter and a metric executor.
func New(a adapter.Adapter, e *evaluator.Executor, opt ...Option) *Runner {
	r := &Runner{
		adapter:     a,
		executor:    e,
		parallelism: 1,
	}
	for _, o := range opt {
		o(r)
	}
	return r
}

// EvaluateSample invokes the backend for one dataset sample and scores the
// reconstructed response. Invocation failures yield a result carrying only
// the sample-level error, so a batch can continue past them.
func (r *Runner) EvaluateSample(ctx context.Context, ts *evalsample.TestSample) *evalresult.SampleResult {
	opts := []adapter.Option{
		adapter.WithStreaming(r.streaming),
		adapter.WithPath(r.path),
	}
	if len(ts.Inputs) > 0 {
		opts = append(opts, adapter.WithInputs(ts.Inputs))
	}
	resp, err := r.adapter.Invoke(ctx, ts.Query, opts...)
	if err != nil {
		log.Errorf("runner: invocation failed: %v", err)
		return &evalresult.SampleResult{
			Error:     fmt.Sprintf("invocation failed: %v", err),
			UserInput: ts.Query,
			Reference: ts.ReferenceAnswer,
			Metadata:  ts.Metadata,
		}
	}
	sample := evalsample.FromResponse(ts, resp)
	return r.executor.Evaluate(ctx, sample)
}

// EvaluateBatch evaluates all samples and aggregates them into one report.
// Result order matches input order regardless of parallelism.
func (r *Runner) EvaluateBatch(ctx context.Context, samples []*evalsample.TestSample) (*evalresult.EvalReport, error) {
	if err := r.adapter.Open(ctx); err != nil {
		return nil, fmt.Errorf("open adapter session: %w", err)
	}
	defer func() {
		if err := r.adapter.Close(); err != nil {
			log.Warnf("runner: close adapter session: %v", err)
		}
	}()

	runID := uuid.NewString()
	report := evalresult.NewReport(runID)
	log.Infof("runner: starting run %s, %d samples, streaming=%v, parallelism=%d",
		runID, len(samples), r.streaming, r.parallelism)

	results, err := r.evaluateAll(ctx, samples)
	if err != nil {
		return nil, err
	}
	for _, result := range results {
		report.Add(result)
	}
	report.Finalize()
	log.Infof("runner: run %s finished in %.2fs, success rate %.1f%%, overall score %.4f",
		runID, report.Duration.Seconds(), report.SuccessRate*100, report.OverallScore)
	return report, nil
}

func (r *Runner) evaluateAll(ctx context.Context, samples []*evalsample.TestSample) ([]*evalresult.SampleResult, error) {
	results := make([]*evalresult.SampleResult, len(samples))
	if r.parallelism < 2 {
		for i, ts := range samples {
			log.Infof("runner: sample %d/%d", i+1, len(samples))
			results[i] = r.EvaluateSample(ctx, ts)
		}
		return results, nil
	}

	pool, err := createSampleEvalPool(r.parallelism)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, ts := range samples {
		param := sampleEvalParamPool.Get().(*sampleEvalParam)
		param.idx = i
		param.ctx = ctx
		param.sample = ts
		param.runner = r
		param.results = results
		param.wg = &wg
		wg.Add(1)
		if err := pool.Invoke(param); err != nil {
			wg.Done()
			param.reset()
			sampleEvalParamPool.Put(param)
			return nil, fmt.Errorf("submit sample %d: %w", i, err)
		}
	}
	wg.Wait()
	return results, nil
}
