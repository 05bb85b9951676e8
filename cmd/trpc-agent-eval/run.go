//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-agent-eval-go/adapter/dify"
	"trpc.group/trpc-go/trpc-agent-eval-go/config"
	"trpc.group/trpc-go/trpc-agent-eval-go/dataset"
	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/evaluator"
	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/metric"
	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/metric/llmjudge"
	"trpc.group/trpc-go/trpc-agent-eval-go/log"
	"trpc.group/trpc-go/trpc-agent-eval-go/reporter"
	"trpc.group/trpc-go/trpc-agent-eval-go/runner"
)

func newRunCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an evaluation described by a config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvaluation(cmd, configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yml", "path to the evaluation config file")
	return cmd
}

func runEvaluation(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log.SetLevel(cfg.Log.Level)

	samples, err := dataset.Load(cfg.Dataset)
	if err != nil {
		return err
	}

	var buildOpts []metric.BuildOption
	if cfg.Judge.APIKey != "" {
		judgeOpts := []llmjudge.Option{llmjudge.WithModel(cfg.Judge.Model)}
		if cfg.Judge.BaseURL != "" {
			judgeOpts = append(judgeOpts, llmjudge.WithBaseURL(cfg.Judge.BaseURL))
		}
		buildOpts = append(buildOpts, metric.WithJudge(llmjudge.New(cfg.Judge.APIKey, judgeOpts...)))
	}
	scorers, err := metric.Build(cfg.Metrics, buildOpts...)
	if err != nil {
		return err
	}

	a := dify.New(cfg.APIConfig.APIKey,
		dify.WithBaseURL(cfg.APIConfig.BaseURL),
		dify.WithTimeout(cfg.APITimeout()),
		dify.WithShowStreamingContent(cfg.Log.ShowStreamingContent),
	)
	exec := evaluator.New(scorers, evaluator.WithTimeout(cfg.JudgeTimeout()))
	r := runner.New(a, exec,
		runner.WithStreaming(cfg.Stream),
		runner.WithPath(cfg.APIConfig.Path),
		runner.WithParallelism(cfg.Parallelism),
	)

	report, err := r.EvaluateBatch(cmd.Context(), samples)
	if err != nil {
		return fmt.Errorf("evaluation run: %w", err)
	}
	return reporter.Emit(report, cfg.Output.Formats, cfg.Output.SavePath)
}
