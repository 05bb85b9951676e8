//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		LevelDebug: zapcore.DebugLevel,
		LevelInfo:  zapcore.InfoLevel,
		LevelWarn:  zapcore.WarnLevel,
		LevelError: zapcore.ErrorLevel,
		LevelFatal: zapcore.FatalLevel,
		"bogus":    zapcore.InfoLevel,
	}
	for input, expected := range tests {
		SetLevel(input)
		assert.Equal(t, expected, zapLevel.Level())
	}
	SetLevel(LevelInfo)
}

func TestDefaultLoggerHelpers(t *testing.T) {
	// Helpers must not panic with the default logger installed.
	assert.NotPanics(t, func() {
		Debug("debug")
		Debugf("debug %d", 1)
		Info("info")
		Infof("info %d", 1)
		Warn("warn")
		Warnf("warn %d", 1)
		Error("error")
		Errorf("error %d", 1)
	})
}
