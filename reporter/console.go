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
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/evalresult"
)

// Console renders a plain-text summary for terminal output.
type Console struct{}

// Name returns the format identifier.
func (*Console) Name() string { return "console" }

// Ext returns empty: console output is not saved to a file.
func (*Console) Ext() string { return "" }

// Render produces the terminal summary.
func (*Console) Render(report *evalresult.EvalReport) ([]byte, error) {
	var b bytes.Buffer
	line := strings.Repeat("=", 64)

	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "Evaluation Report  (run %s)\n", report.RunID)
	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "Samples:       %d total, %d failed\n", report.TotalSamples, report.FailedSamples)
	fmt.Fprintf(&b, "Success rate:  %.1f%%\n", report.SuccessRate*100)
	fmt.Fprintf(&b, "Overall score: %.4f\n", report.OverallScore)
	fmt.Fprintf(&b, "Duration:      %.2fs\n", report.Duration.Seconds())

	if len(report.MetricAverages) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Metric averages:")
		w := tabwriter.NewWriter(&b, 2, 4, 2, ' ', 0)
		for _, name := range metricNames(report) {
			if avg, ok := report.MetricAverages[name]; ok {
				fmt.Fprintf(w, "  %s\t%.4f\n", name, avg)
			}
		}
		w.Flush()
	}

	if perf := report.AveragePerformance; perf != nil {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Average performance:")
		fmt.Fprintf(&b, "  total time:    %.3fs\n", perf.TotalTime)
		if perf.TimeToFirstToken != nil {
			fmt.Fprintf(&b, "  ttft:          %.3fs\n", *perf.TimeToFirstToken)
		}
		fmt.Fprintf(&b, "  tokens:        %d (in %d, out %d)\n",
			perf.TotalTokens, perf.InputTokens, perf.OutputTokens)
		if perf.TotalPrice != nil {
			fmt.Fprintf(&b, "  price:         %.6f %s\n", *perf.TotalPrice, perf.Currency)
		}
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Per-sample results:")
	for i, s := range report.Samples {
		status := "ok"
		if !s.Success() {
			status = "failed"
		}
		fmt.Fprintf(&b, "  [%d] %s  avg %.4f  %s\n", i+1, status, s.AverageScore(), firstLine(s.UserInput))
		if s.Error != "" {
			fmt.Fprintf(&b, "      error: %s\n", s.Error)
		}
		if summary := s.ErrorSummary(); summary != "" {
			fmt.Fprintf(&b, "      %s\n", summary)
		}
	}
	fmt.Fprintln(&b, line)
	return b.Bytes(), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	const max = 80
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return s
}
