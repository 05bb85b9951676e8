//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

package reporter

import (
	"encoding/json"

	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/evalresult"
)

// JSON renders the full report as an indented JSON document.
type JSON struct{}

// Name returns the format identifier.
func (*JSON) Name() string { return "json" }

// Ext returns the saved file extension.
func (*JSON) Ext() string { return "json" }

// Render marshals the report.
func (*JSON) Render(report *evalresult.EvalReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
