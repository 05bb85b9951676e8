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
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/evalresult"
	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/evalsample"
)

type sampleEvalParam struct {
	idx     int
	ctx     context.Context
	sample  *evalsample.TestSample
	runner  *Runner
	results []*evalresult.SampleResult
	wg      *sync.WaitGroup
}

func (p *sampleEvalParam) reset() {
	p.idx = 0
	p.ctx = nil
	p.sample = nil
	p.runner = nil
	p.results = nil
	p.wg = nil
}

var sampleEvalParamPool = &sync.Pool{
	New: func() any { return new(sampleEvalParam) },
}

func createSampleEvalPool(size int) (*ants.PoolWithFunc, error) {
	if size <= 0 {
		return nil, errors.New("pool size must be greater than 0")
	}
	pool, err := ants.NewPoolWithFunc(size, func(args any) {
		param, ok := args.(*sampleEvalParam)
		if !ok {
			panic("sample eval pool args type error")
		}
		wg := param.wg
		defer func() {
			wg.Done()
			param.reset()
			sampleEvalParamPool.Put(param)
		}()
		param.results[param.idx] = param.runner.EvaluateSample(param.ctx, param.sample)
	})
	if err != nil {
		return nil, fmt.Errorf("create sample eval pool: %w", err)
	}
	return pool, nil
}
