//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validConfig = `
platform: dify
api_config:
  api_key: app-xxx
  base_url: https://api.dify.ai/v1
  timeout: 60
dataset: ./data/dataset.json
metrics:
  - rag
  - exact_match
evaluator_llm:
  model: gpt-4o-mini
  api_key: sk-xxx
output:
  format: [console, json]
  save_path: ./out/
stream: true
parallelism: 4
log:
  level: debug
  show_streaming_content: true
`

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "dify", cfg.Platform)
	assert.Equal(t, "app-xxx", cfg.APIConfig.APIKey)
	assert.Equal(t, 60*time.Second, cfg.APITimeout())
	assert.Equal(t, []string{"rag", "exact_match"}, cfg.Metrics)
	assert.Equal(t, "gpt-4o-mini", cfg.Judge.Model)
	assert.Equal(t, DefaultJudgeTimeout, cfg.JudgeTimeout())
	assert.Equal(t, []string{"console", "json"}, cfg.Output.Formats)
	assert.True(t, cfg.Stream)
	assert.Equal(t, 4, cfg.Parallelism)
	assert.True(t, cfg.Log.ShowStreamingContent)
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
platform: dify
api_config:
  api_key: app-xxx
  base_url: https://api.dify.ai/v1
dataset: ./d.json
metrics: [exact_match]
`))
	require.NoError(t, err)
	assert.Equal(t, DefaultAPITimeout, cfg.APITimeout())
	assert.Equal(t, DefaultRequestPath, cfg.APIConfig.Path)
	assert.Equal(t, []string{"console"}, cfg.Output.Formats)
	assert.Equal(t, DefaultOutputPath, cfg.Output.SavePath)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultParallelism, cfg.Parallelism)
	assert.False(t, cfg.Stream)
}

func TestValidateErrors(t *testing.T) {
	tests := map[string]string{
		"platform: coze\napi_config: {api_key: k, base_url: u}\ndataset: d\nmetrics: [a]":  "unsupported platform",
		"platform: dify\napi_config: {base_url: u}\ndataset: d\nmetrics: [a]":              "api_key is required",
		"platform: dify\napi_config: {api_key: k}\ndataset: d\nmetrics: [a]":               "base_url is required",
		"platform: dify\napi_config: {api_key: k, base_url: u, timeout: 500}\ndataset: d\nmetrics: [a]": "timeout must be within",
		"platform: dify\napi_config: {api_key: k, base_url: u}\nmetrics: [a]":              "dataset is required",
		"platform: dify\napi_config: {api_key: k, base_url: u}\ndataset: d":                "at least one metric",
		"platform: dify\napi_config: {api_key: k, base_url: u}\ndataset: d\nmetrics: [a]\noutput: {format: [pdf]}": "unsupported output format",
	}
	for content, wantErr := range tests {
		_, err := Load(writeConfig(t, content))
		require.Error(t, err, content)
		assert.Contains(t, err.Error(), wantErr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
