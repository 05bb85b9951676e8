//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

package runner

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-agent-eval-go/adapter"
	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/evalsample"
	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/evaluator"
	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/metric"
)

type fakeAdapter struct {
	opened  atomic.Bool
	closed  atomic.Bool
	invoked atomic.Int64
	failOn  string
}

func (f *fakeAdapter) Open(context.Context) error {
	f.opened.Store(true)
	return nil
}

func (f *fakeAdapter) Close() error {
	f.closed.Store(true)
	return nil
}

func (f *fakeAdapter) Invoke(_ context.Context, input string, _ ...adapter.Option) (*adapter.Response, error) {
	f.invoked.Add(1)
	if input == f.failOn {
		return nil, &adapter.TransportError{StatusCode: 500, Body: "boom"}
	}
	return &adapter.Response{
		Answer:      "answer to " + input,
		Contexts:    []string{"ctx"},
		Metadata:    map[string]any{},
		Performance: &adapter.PerformanceMetrics{TotalTime: 1, TotalTokens: 10},
	}, nil
}

type constantScorer struct{ score float64 }

func (constantScorer) Name() string { return "exact_match" }

func (c constantScorer) Score(context.Context, *evalsample.ScoringInput) (float64, error) {
	return c.score, nil
}

func makeSamples(n int) []*evalsample.TestSample {
	samples := make([]*evalsample.TestSample, n)
	for i := range samples {
		samples[i] = &evalsample.TestSample{Query: fmt.Sprintf("q%d", i)}
	}
	return samples
}

func newRunner(a adapter.Adapter, opt ...Option) *Runner {
	exec := evaluator.New([]metric.Scorer{constantScorer{score: 0.8}})
	return New(a, exec, opt...)
}

func TestEvaluateBatchSequential(t *testing.T) {
	fa := &fakeAdapter{}
	r := newRunner(fa)

	report, err := r.EvaluateBatch(context.Background(), makeSamples(3))
	require.NoError(t, err)
	assert.True(t, fa.opened.Load())
	assert.True(t, fa.closed.Load())
	assert.Equal(t, int64(3), fa.invoked.Load())
	assert.Equal(t, 3, report.TotalSamples)
	assert.Zero(t, report.FailedSamples)
	assert.InDelta(t, 0.8, report.OverallScore, 1e-9)
	assert.NotEmpty(t, report.RunID)

	// Input order is preserved.
	for i, s := range report.Samples {
		assert.Equal(t, fmt.Sprintf("q%d", i), s.UserInput)
	}
}

func TestEvaluateBatchParallelPreservesOrder(t *testing.T) {
	fa := &fakeAdapter{}
	r := newRunner(fa, WithParallelism(4))

	samples := makeSamples(16)
	report, err := r.EvaluateBatch(context.Background(), samples)
	require.NoError(t, err)
	require.Len(t, report.Samples, 16)
	for i, s := range report.Samples {
		assert.Equal(t, fmt.Sprintf("q%d", i), s.UserInput)
	}
}

func TestEvaluateBatchContinuesPastInvocationFailure(t *testing.T) {
	fa := &fakeAdapter{failOn: "q1"}
	r := newRunner(fa)

	report, err := r.EvaluateBatch(context.Background(), makeSamples(3))
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalSamples)
	assert.Equal(t, 1, report.FailedSamples)
	assert.Contains(t, report.Samples[1].Error, "invocation failed")
	assert.Empty(t, report.Samples[1].Outcomes)
	assert.True(t, report.Samples[0].Success())
	assert.True(t, report.Samples[2].Success())
}

func TestEvaluateSampleForwardsInputs(t *testing.T) {
	var gotOpts *adapter.InvokeOptions
	a := adapterFunc(func(_ context.Context, input string, opt ...adapter.Option) (*adapter.Response, error) {
		gotOpts = adapter.NewInvokeOptions(opt...)
		return &adapter.Response{Answer: "a"}, nil
	})
	r := newRunner(a, WithStreaming(true), WithPath("workflows/run"))

	result := r.EvaluateSample(context.Background(), &evalsample.TestSample{
		Query:  "real question",
		Inputs: map[string]any{"query": "real question"},
	})
	require.NotNil(t, gotOpts)
	assert.True(t, gotOpts.Streaming)
	assert.Equal(t, "workflows/run", gotOpts.Path)
	assert.Equal(t, "real question", gotOpts.Inputs["query"])
	assert.True(t, result.Success())
}

// adapterFunc adapts a bare invoke function to the adapter interface.
type adapterFunc func(context.Context, string, ...adapter.Option) (*adapter.Response, error)

func (adapterFunc) Open(context.Context) error { return nil }
func (adapterFunc) Close() error               { return nil }

func (f adapterFunc) Invoke(ctx context.Context, input string, opt ...adapter.Option) (*adapter.Response, error) {
	return f(ctx, input, opt...)
}
