//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package dataset loads evaluation datasets from JSON files.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"trpc.group/trpc-go/trpc-agent-eval-go/evaluation/evalsample"
	"trpc.group/trpc-go/trpc-agent-eval-go/log"
)

// reservedKeys are record fields mapped onto TestSample directly; everything
// else lands in the sample metadata.
var reservedKeys = map[string]struct{}{
	"user_input":         {},
	"query":              {},
	"reference":          {},
	"reference_answer":   {},
	"reference_contexts": {},
	"retrieved_contexts": {},
	"inputs":             {},
}

// Load reads a JSON dataset file: an array of records, each carrying a
// user_input (or query), an optional reference answer, and optional
// reference contexts under either reference_contexts or its ragas spelling
// retrieved_contexts. An empty dataset is an error.
func Load(path string) ([]*evalsample.TestSample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("dataset %s must be a JSON array of records: %w", path, err)
	}

	samples := make([]*evalsample.TestSample, 0, len(records))
	for i, record := range records {
		sample, err := parseRecord(i, record)
		if err != nil {
			return nil, fmt.Errorf("dataset %s record %d: %w", path, i+1, err)
		}
		samples = append(samples, sample)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("dataset %s is empty", path)
	}
	log.Infof("dataset: loaded %d samples from %s", len(samples), path)
	return samples, nil
}

func parseRecord(index int, record map[string]any) (*evalsample.TestSample, error) {
	query, _ := record["user_input"].(string)
	if query == "" {
		query, _ = record["query"].(string)
	}
	if query == "" {
		return nil, fmt.Errorf("missing user_input")
	}

	reference, _ := record["reference"].(string)
	if reference == "" {
		reference, _ = record["reference_answer"].(string)
	}

	contexts := stringList(record["reference_contexts"])
	if contexts == nil {
		contexts = stringList(record["retrieved_contexts"])
	}

	inputs, _ := record["inputs"].(map[string]any)

	metadata := map[string]any{"index": index}
	for k, v := range record {
		if _, reserved := reservedKeys[k]; reserved {
			continue
		}
		metadata[k] = v
	}

	return &evalsample.TestSample{
		Query:             query,
		ReferenceAnswer:   reference,
		ReferenceContexts: contexts,
		Inputs:            inputs,
		Metadata:          metadata,
	}, nil
}

func stringList(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	list := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			list = append(list, s)
		}
	}
	return list
}
