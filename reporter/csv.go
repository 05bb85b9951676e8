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
	"encoding/csv"
	"fmt"
	"strconv"

	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/evalresult"
)

// CSV renders a summary block followed by one row per sample.
type CSV struct{}

// Name returns the format identifier.
func (*CSV) Name() string { return "csv" }

// Ext returns the saved file extension.
func (*CSV) Ext() string { return "csv" }

// Render produces the CSV document.
func (*CSV) Render(report *evalresult.EvalReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"metric", "value"},
		{"total_samples", strconv.Itoa(report.TotalSamples)},
		{"successful_samples", strconv.Itoa(report.TotalSamples - report.FailedSamples)},
		{"failed_samples", strconv.Itoa(report.FailedSamples)},
		{"success_rate", fmt.Sprintf("%.4f", report.SuccessRate)},
		{"overall_score", fmt.Sprintf("%.4f", report.OverallScore)},
		{"duration_seconds", fmt.Sprintf("%.4f", report.Duration.Seconds())},
		{},
	}

	names := metricNames(report)
	header := []string{"sample", "status", "average_score"}
	header = append(header, names...)
	header = append(header, "total_time_seconds", "ttft_seconds", "total_tokens")
	rows = append(rows, header)

	for i, s := range report.Samples {
		status := "success"
		if !s.Success() {
			status = "failed"
		}
		row := []string{
			fmt.Sprintf("sample_%d", i+1),
			status,
			fmt.Sprintf("%.4f", s.AverageScore()),
		}
		scores := s.Scores()
		for _, name := range names {
			row = append(row, fmt.Sprintf("%.4f", scores[name]))
		}
		if p := s.Performance; p != nil {
			ttft := "N/A"
			if p.TimeToFirstToken != nil {
				ttft = fmt.Sprintf("%.4f", *p.TimeToFirstToken)
			}
			row = append(row, fmt.Sprintf("%.4f", p.TotalTime), ttft, strconv.Itoa(p.TotalTokens))
		} else {
			row = append(row, "N/A", "N/A", "N/A")
		}
		rows = append(rows, row)
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
