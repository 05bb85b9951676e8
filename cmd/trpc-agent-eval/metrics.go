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
	"sort"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/metric"
)

func newMetricsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List supported metrics and category shorthands",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Metrics:")
			for _, name := range metric.SupportedNames() {
				kind := "local"
				if metric.IsLLMBacked(name) {
					kind = "llm-judged"
				}
				fmt.Fprintf(out, "  %-28s %s\n", name, kind)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Categories:")
			categories := make([]string, 0, len(metric.Categories))
			for name := range metric.Categories {
				categories = append(categories, name)
			}
			sort.Strings(categories)
			for _, name := range categories {
				fmt.Fprintf(out, "  %-8s %v\n", name, metric.Categories[name])
			}
		},
	}
}
