//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package config loads and validates the YAML evaluation configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by Load when the file leaves a field unset.
const (
	DefaultAPITimeout   = 30 * time.Second
	DefaultJudgeTimeout = 120 * time.Second
	DefaultOutputPath   = "./results/"
	DefaultLogLevel     = "info"
	DefaultRequestPath  = "chat-messages"
	DefaultParallelism  = 1
)

// APIConfig configures the target platform API.
type APIConfig struct {
	APIKey string `yaml:"api_key"`
	// BaseURL is the API endpoint, e.g. https://api.dify.ai/v1.
	BaseURL string `yaml:"base_url"`
	// Timeout is the base per-call timeout in seconds; streaming calls
	// derive their longer deadline from it.
	Timeout float64 `yaml:"timeout"`
	// Path selects the invocation endpoint, chat-messages or workflows/run.
	Path string `yaml:"path"`
}

// JudgeConfig configures the LLM judging the LLM-backed metrics.
type JudgeConfig struct {
	Model string `yaml:"model"`
	// APIKey authenticates against an OpenAI-compatible endpoint.
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	// Timeout bounds one metric evaluation in seconds.
	Timeout float64 `yaml:"timeout"`
}

// OutputConfig selects report formats and their destination.
type OutputConfig struct {
	// Formats is any subset of console, json, html, csv.
	Formats  []string `yaml:"format"`
	SavePath string   `yaml:"save_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
	// ShowStreamingContent logs each stream event at debug level.
	ShowStreamingContent bool `yaml:"show_streaming_content"`
}

// Config is the top-level evaluation configuration.
type Config struct {
	// Platform names the target backend. Only dify is implemented.
	Platform  string       `yaml:"platform"`
	APIConfig APIConfig    `yaml:"api_config"`
	Dataset   string       `yaml:"dataset"`
	Metrics   []string     `yaml:"metrics"`
	Judge     JudgeConfig  `yaml:"evaluator_llm"`
	Output    OutputConfig `yaml:"output"`
	Stream    bool         `yaml:"stream"`
	// Parallelism is the number of samples evaluated concurrently.
	Parallelism int       `yaml:"parallelism"`
	Log         LogConfig `yaml:"log"`
}

// Load reads, defaults, and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.APIConfig.Timeout <= 0 {
		c.APIConfig.Timeout = DefaultAPITimeout.Seconds()
	}
	if c.APIConfig.Path == "" {
		c.APIConfig.Path = DefaultRequestPath
	}
	if c.Judge.Timeout <= 0 {
		c.Judge.Timeout = DefaultJudgeTimeout.Seconds()
	}
	if len(c.Output.Formats) == 0 {
		c.Output.Formats = []string{"console"}
	}
	if c.Output.SavePath == "" {
		c.Output.SavePath = DefaultOutputPath
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Parallelism <= 0 {
		c.Parallelism = DefaultParallelism
	}
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.Platform == "" {
		return fmt.Errorf("platform is required")
	}
	if c.Platform != "dify" {
		return fmt.Errorf("unsupported platform %q, only dify is supported", c.Platform)
	}
	if c.APIConfig.APIKey == "" {
		return fmt.Errorf("api_config.api_key is required")
	}
	if c.APIConfig.BaseURL == "" {
		return fmt.Errorf("api_config.base_url is required")
	}
	if c.APIConfig.Timeout < 1 || c.APIConfig.Timeout > 300 {
		return fmt.Errorf("api_config.timeout must be within [1, 300] seconds, got %v", c.APIConfig.Timeout)
	}
	if c.Dataset == "" {
		return fmt.Errorf("dataset is required")
	}
	if len(c.Metrics) == 0 {
		return fmt.Errorf("metrics must name at least one metric or category")
	}
	for _, f := range c.Output.Formats {
		switch f {
		case "console", "json", "html", "csv":
		default:
			return fmt.Errorf("unsupported output format %q", f)
		}
	}
	return nil
}

// APITimeout returns the per-call timeout as a duration.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.APIConfig.Timeout * float64(time.Second))
}

// JudgeTimeout returns the per-metric timeout as a duration.
func (c *Config) JudgeTimeout() time.Duration {
	return time.Duration(c.Judge.Timeout * float64(time.Second))
}
