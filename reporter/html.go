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
	"html/template"

	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/evalresult"
)

// HTML renders a standalone report page.
type HTML struct{}

// Name returns the format identifier.
func (*HTML) Name() string { return "html" }

// Ext returns the saved file extension.
func (*HTML) Ext() string { return "html" }

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Evaluation Report {{.RunID}}</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
table { border-collapse: collapse; margin: 1em 0; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: left; }
th { background: #f0f0f0; }
.failed { color: #b00; }
.ok { color: #080; }
.rationale { color: #666; font-size: 0.9em; }
</style>
</head>
<body>
<h1>Evaluation Report</h1>
<p>Run {{.RunID}} &middot; {{.TotalSamples}} samples &middot; success rate {{printf "%.1f" .SuccessPct}}% &middot; overall score {{printf "%.4f" .OverallScore}} &middot; {{printf "%.2f" .DurationSeconds}}s</p>

{{if .MetricRows}}
<h2>Metric averages</h2>
<table>
<tr><th>Metric</th><th>Average</th></tr>
{{range .MetricRows}}<tr><td>{{.Name}}</td><td>{{printf "%.4f" .Average}}</td></tr>
{{end}}</table>
{{end}}

<h2>Samples</h2>
{{range .Samples}}
<h3>Sample {{.Index}} <span class="{{if .Success}}ok{{else}}failed{{end}}">{{if .Success}}success{{else}}failed{{end}}</span></h3>
<p><b>Input:</b> {{.UserInput}}</p>
{{if .Response}}<p><b>Response:</b> {{.Response}}</p>{{end}}
{{if .Error}}<p class="failed"><b>Error:</b> {{.Error}}</p>{{end}}
{{if .Outcomes}}
<table>
<tr><th>Metric</th><th>Score</th><th>Rationale / Error</th></tr>
{{range .Outcomes}}<tr>
<td>{{.MetricName}}</td>
<td>{{printf "%.4f" .Score}}</td>
<td>{{if .Error}}<span class="failed">{{.Error}}</span>{{else}}<span class="rationale">{{.Rationale}}</span>{{end}}</td>
</tr>
{{end}}</table>
{{end}}
{{end}}
</body>
</html>
`))

type htmlMetricRow struct {
	Name    string
	Average float64
}

type htmlSample struct {
	Index     int
	Success   bool
	UserInput string
	Response  string
	Error     string
	Outcomes  []*evalresult.MetricOutcome
}

type htmlData struct {
	RunID           string
	TotalSamples    int
	SuccessPct      float64
	OverallScore    float64
	DurationSeconds float64
	MetricRows      []htmlMetricRow
	Samples         []htmlSample
}

// Render produces the HTML document.
func (*HTML) Render(report *evalresult.EvalReport) ([]byte, error) {
	data := htmlData{
		RunID:           report.RunID,
		TotalSamples:    report.TotalSamples,
		SuccessPct:      report.SuccessRate * 100,
		OverallScore:    report.OverallScore,
		DurationSeconds: report.Duration.Seconds(),
	}
	for _, name := range metricNames(report) {
		if avg, ok := report.MetricAverages[name]; ok {
			data.MetricRows = append(data.MetricRows, htmlMetricRow{Name: name, Average: avg})
		}
	}
	for i, s := range report.Samples {
		hs := htmlSample{
			Index:     i + 1,
			Success:   s.Success(),
			UserInput: s.UserInput,
			Response:  s.Response,
			Error:     s.Error,
		}
		for _, name := range metricNames(report) {
			if o, ok := s.Outcomes[name]; ok {
				hs.Outcomes = append(hs.Outcomes, o)
			}
		}
		data.Samples = append(data.Samples, hs)
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute report template: %w", err)
	}
	return buf.Bytes(), nil
}
