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

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-agent-eval-go/config"
	"trpc.group/trpc-go/trpc-agent-eval-go/dataset"
	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/metric"
)

func newValidateCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a config file and its dataset without calling any API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			samples, err := dataset.Load(cfg.Dataset)
			if err != nil {
				return err
			}
			expanded := metric.ExpandCategories(cfg.Metrics)
			fmt.Fprintf(cmd.OutOrStdout(), "config ok: %d samples, %d metrics (%v), formats %v\n",
				len(samples), len(expanded), expanded, cfg.Output.Formats)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yml", "path to the evaluation config file")
	return cmd
}
