//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package reporter renders evaluation reports in the configured output
// formats: console, json, csv, and html.
package reporter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/evalresult"
	"trpc.group/trpc-go/trpc-agent-eval-go/log"
)

// Reporter renders one report format.
type Reporter interface {
	// Name is the format identifier used in configuration.
	Name() string
	// Ext is the file extension for saved reports, empty for console-only.
	Ext() string
	// Render produces the report document.
	Render(report *evalresult.EvalReport) ([]byte, error)
}

// New creates the reporter for a configured format name.
func New(format string) (Reporter, error) {
	switch format {
	case "console":
		return &Console{}, nil
	case "json":
		return &JSON{}, nil
	case "csv":
		return &CSV{}, nil
	case "html":
		return &HTML{}, nil
	}
	return nil, fmt.Errorf("unsupported report format %q", format)
}

// Emit renders the report in every requested format. Console output goes to
// stdout; file formats are saved under dir as eval_report_<runID>.<ext>.
func Emit(report *evalresult.EvalReport, formats []string, dir string) error {
	for _, format := range formats {
		r, err := New(format)
		if err != nil {
			return err
		}
		doc, err := r.Render(report)
		if err != nil {
			return fmt.Errorf("render %s report: %w", format, err)
		}
		if r.Ext() == "" {
			fmt.Print(string(doc))
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("eval_report_%s.%s", report.RunID, r.Ext()))
		if err := os.WriteFile(path, doc, 0o644); err != nil {
			return fmt.Errorf("write %s report: %w", format, err)
		}
		log.Infof("reporter: saved %s report to %s", format, path)
	}
	return nil
}

// metricNames collects every metric name appearing in the report, sorted, so
// tabular formats get stable columns.
func metricNames(report *evalresult.EvalReport) []string {
	seen := map[string]struct{}{}
	for _, s := range report.Samples {
		for name := range s.Outcomes {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
