//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package llmjudge scores samples with an LLM acting as judge. Each metric is
// a rubric prompt; the judge model returns a JSON object with a 0-1 score.
package llmjudge

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/evalsample"
	"trpc.group/trpc-go/trpc-agent-eval-go/log"
)

const defaultModel = "gpt-4o-mini"

const systemPrompt = `You are a strict evaluation judge for question-answering systems.
Score the sample on the single criterion you are given.
Respond with a JSON object of the form {"score": <number between 0 and 1>, "reason": "<one sentence>"} and nothing else.`

// Judge holds the judge-model client shared by all LLM-backed scorers.
type Judge struct {
	client openai.Client
	model  string
}

// Option configures the judge.
type Option func(*judgeOptions)

type judgeOptions struct {
	model          string
	baseURL        string
	requestOptions []option.RequestOption
}

// WithModel sets the judge model name.
func WithModel(model string) Option {
	return func(o *judgeOptions) {
		o.model = model
	}
}

// WithBaseURL points the judge at an OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(o *judgeOptions) {
		o.baseURL = url
	}
}

// WithRequestOptions forwards extra client options to the underlying SDK.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(o *judgeOptions) {
		o.requestOptions = append(o.requestOptions, opts...)
	}
}

// New creates a judge backed by an OpenAI-compatible chat completion API.
func New(apiKey string, opt ...Option) *Judge {
	opts := &judgeOptions{model: defaultModel}
	for _, o := range opt {
		o(opts)
	}
	clientOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if opts.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.baseURL))
	}
	clientOpts = append(clientOpts, opts.requestOptions...)
	return &Judge{
		client: openai.NewClient(clientOpts...),
		model:  opts.model,
	}
}

// Scorer is one LLM-backed metric: a named rubric evaluated by the judge.
type Scorer struct {
	name   string
	rubric string
	judge  *Judge
}

// NewScorer creates a scorer for one rubric. The rubric states the criterion
// in prose; the judge model applies it to the sample.
func NewScorer(name, rubric string, judge *Judge) *Scorer {
	return &Scorer{name: name, rubric: rubric, judge: judge}
}

// Name returns the metric name.
func (s *Scorer) Name() string {
	return s.name
}

// Score asks the judge model to grade the sample against the rubric.
func (s *Scorer) Score(ctx context.Context, in *evalsample.ScoringInput) (float64, error) {
	completion, err := s.judge.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(s.judge.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(s.buildPrompt(in)),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("judge call for %s: %w", s.name, err)
	}
	if len(completion.Choices) == 0 {
		return 0, fmt.Errorf("judge call for %s: empty completion", s.name)
	}
	content := completion.Choices[0].Message.Content
	score, err := parseScore(content)
	if err != nil {
		return 0, fmt.Errorf("judge reply for %s: %w", s.name, err)
	}
	log.Debugf("llmjudge: %s scored %.4f", s.name, score)
	return clamp01(score), nil
}

func (s *Scorer) buildPrompt(in *evalsample.ScoringInput) string {
	var b strings.Builder
	b.WriteString("Criterion: ")
	b.WriteString(s.rubric)
	b.WriteString("\n\nUser input:\n")
	b.WriteString(in.UserInput)
	b.WriteString("\n\nResponse:\n")
	b.WriteString(in.Response)
	if in.Reference != "" {
		b.WriteString("\n\nReference answer:\n")
		b.WriteString(in.Reference)
	}
	if len(in.RetrievedContexts) > 0 {
		b.WriteString("\n\nRetrieved contexts:\n")
		for i, ctx := range in.RetrievedContexts {
			fmt.Fprintf(&b, "[%d] %s\n", i+1, ctx)
		}
	}
	return b.String()
}

// parseScore extracts the score from the judge reply. The reply should be the
// requested JSON object, but models sometimes wrap it in a code fence or
// answer with a bare number.
func parseScore(content string) (float64, error) {
	text := strings.TrimSpace(content)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var reply struct {
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(text), &reply); err == nil {
		return reply.Score, nil
	}
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return v, nil
	}
	return 0, fmt.Errorf("unparseable score %q", content)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
