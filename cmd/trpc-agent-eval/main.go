//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// trpc-agent-eval evaluates conversational agent backends against a dataset
// of test samples and a configurable metric set.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-agent-eval-go/log"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "trpc-agent-eval",
		Short:         "Evaluate conversational agent backends",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCommand())
	root.AddCommand(newValidateCommand())
	root.AddCommand(newMetricsCommand())
	return root
}
