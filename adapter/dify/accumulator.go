//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

package dify

import (
	"strings"

	"trpc.group/trpc-go/trpc-agent-eval-go/adapter"
	"trpc.group/trpc-go/trpc-agent-eval-go/log"
)

// workflowContextKeys are the candidate context-bearing output field names of
// the workflow API, in priority order. The first key present wins.
var workflowContextKeys = []string{"retrieved_contexts", "contexts", "context", "retrieved_context"}

// chatContextField is the context-bearing field of the chat API.
const chatContextField = "retriever_resources"

// tokenAuthority ranks the sources a token figure can come from.
// A figure is only overwritten by an equal or higher authority.
type tokenAuthority int

const (
	tokenAuthorityNone tokenAuthority = iota
	// tokenAuthorityNodeSum is a locally computed sum over per-node usage blocks.
	tokenAuthorityNodeSum
	// tokenAuthorityAggregate is a backend-declared aggregate: a message_end
	// usage object or the workflow_finished top-level total. Aggregates rank
	// equal, so the later one overwrites the earlier.
	tokenAuthorityAggregate
	// tokenAuthorityExecution is the nested execution_metadata aggregate.
	tokenAuthorityExecution
)

// Accumulator folds a sequence of stream events into one unified response
// plus a performance record. It is owned by exactly one invocation and is
// mutated sequentially, never concurrently.
type Accumulator struct {
	answer    strings.Builder
	contexts  []string
	seen      map[string]struct{}
	toolCalls []map[string]any
	metadata  map[string]any

	firstFragmentAt    *float64
	lastFragmentAt     *float64
	fragmentTimestamps []float64
	declaredElapsed    *float64

	totalTokens  int
	inputTokens  int
	outputTokens int
	totalPrice   *float64
	currency     string

	totalAuthority tokenAuthority
	ioAuthority    tokenAuthority
}

// NewAccumulator creates an empty accumulator for one invocation.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		seen:     make(map[string]struct{}),
		metadata: make(map[string]any),
	}
}

// HasAnswer reports whether any answer text has been accumulated. Used by the
// deadline policy to decide between a partial result and a timeout error.
func (a *Accumulator) HasAnswer() bool {
	return a.answer.Len() > 0
}

// Answer returns the answer accumulated so far.
func (a *Accumulator) Answer() string {
	return a.answer.String()
}

// Contexts returns the deduplicated contexts accumulated so far.
func (a *Accumulator) Contexts() []string {
	return a.contexts
}

// Apply folds one event into the accumulator. elapsed is the time since
// request start in seconds. Apply never fails: unknown kinds are ignored and
// malformed payloads inside a recognized kind are treated as empty.
func (a *Accumulator) Apply(ev *Event, elapsed float64) {
	switch ev.Kind {
	case EventMessage, EventAgentMessage:
		a.appendFragment(stringField(ev.Raw, "answer"), elapsed)
	case EventTextChunk:
		a.appendFragment(stringField(mapField(ev.Raw, "data"), "text"), elapsed)
	case EventMessageEnd:
		a.applyMessageEnd(ev)
	case EventAgentThought:
		a.applyAgentThought(ev)
	case EventMessageFile:
		a.appendMetadataList("files", ev.Raw)
	case EventError:
		a.metadata["error"] = map[string]any{
			"code":    stringField(ev.Raw, "code"),
			"message": stringField(ev.Raw, "message"),
		}
	case EventWorkflowStarted:
		data := mapField(ev.Raw, "data")
		a.metadata["workflow"] = map[string]any{
			"workflow_id":     data["workflow_id"],
			"workflow_run_id": data["id"],
			"started_at":      data["created_at"],
		}
	case EventNodeStarted:
		data := mapField(ev.Raw, "data")
		a.appendMetadataList("nodes_started", map[string]any{
			"node_id":    data["node_id"],
			"node_type":  data["node_type"],
			"title":      data["title"],
			"index":      data["index"],
			"started_at": data["created_at"],
		})
	case EventNodeFinished:
		a.applyNodeFinished(ev)
	case EventWorkflowFinished:
		a.applyWorkflowFinished(ev)
	case EventPing:
		// Heartbeat, nothing to accumulate.
	default:
		log.Debugf("dify: ignoring unknown stream event %q", stringField(ev.Raw, "event"))
	}
}

// appendFragment appends one non-empty answer fragment and records its timing.
func (a *Accumulator) appendFragment(text string, elapsed float64) {
	if text == "" {
		return
	}
	a.answer.WriteString(text)
	if a.firstFragmentAt == nil {
		t := elapsed
		a.firstFragmentAt = &t
	}
	t := elapsed
	a.lastFragmentAt = &t
	a.fragmentTimestamps = append(a.fragmentTimestamps, elapsed)
}

func (a *Accumulator) applyMessageEnd(ev *Event) {
	meta := mapField(ev.Raw, "metadata")
	for k, v := range meta {
		a.metadata[k] = v
	}
	if usage := mapField(meta, "usage"); len(usage) > 0 {
		a.setUsageTokens(usage)
	}
	// The chat API delivers retrieval results on message_end.
	for _, res := range listField(meta, chatContextField) {
		if m, ok := res.(map[string]any); ok {
			content := stringField(m, "content")
			if content == "" {
				content = stringField(m, "chunk_content")
			}
			a.addContext(content)
			continue
		}
		a.addContext(stringify(res))
	}
}

// setUsageTokens applies an explicit usage object, overwriting all counters.
func (a *Accumulator) setUsageTokens(usage map[string]any) {
	if total, ok := intField(usage, "total_tokens"); ok && a.totalAuthority <= tokenAuthorityAggregate {
		a.totalTokens = total
		a.totalAuthority = tokenAuthorityAggregate
	}
	in, hasIn := intField(usage, "prompt_tokens")
	out, hasOut := intField(usage, "completion_tokens")
	if (hasIn || hasOut) && a.ioAuthority <= tokenAuthorityAggregate {
		a.inputTokens = in
		a.outputTokens = out
		a.ioAuthority = tokenAuthorityAggregate
	}
}

func (a *Accumulator) applyAgentThought(ev *Event) {
	tool := stringField(ev.Raw, "tool")
	if tool == "" {
		return
	}
	a.toolCalls = append(a.toolCalls, map[string]any{
		"tool":       tool,
		"tool_input": ev.Raw["tool_input"],
		"thought":    stringField(ev.Raw, "thought"),
	})
}

func (a *Accumulator) applyNodeFinished(ev *Event) {
	data := mapField(ev.Raw, "data")
	outputs := mapField(data, "outputs")

	if !a.mergeContextsFromOutputs(outputs) {
		// No top-level match: some workflow versions nest the retrieval
		// output one level down.
		for _, v := range outputs {
			if nested, ok := v.(map[string]any); ok {
				if raw, ok := nested["retrieved_contexts"]; ok {
					a.mergeContextValue(raw)
				}
			}
		}
	}

	if rawCalls, ok := outputs["tool_calls"].([]any); ok {
		for _, c := range rawCalls {
			if call, ok := c.(map[string]any); ok {
				a.toolCalls = append(a.toolCalls, call)
			}
		}
	}

	a.appendMetadataList("nodes", data)
}

func (a *Accumulator) applyWorkflowFinished(ev *Event) {
	data := mapField(ev.Raw, "data")
	for k, v := range data {
		a.metadata[k] = v
	}

	if elapsed, ok := floatField(data, "elapsed_time"); ok {
		a.declaredElapsed = &elapsed
	}
	if total, ok := intField(data, "total_tokens"); ok && a.totalAuthority <= tokenAuthorityAggregate {
		a.totalTokens = total
		a.totalAuthority = tokenAuthorityAggregate
	}

	// execution_metadata is the most specific aggregate and beats both the
	// workflow top-level figure and any locally summed value.
	if exec := mapField(data, "execution_metadata"); len(exec) > 0 {
		if total, ok := intField(exec, "total_tokens"); ok {
			a.totalTokens = total
			a.totalAuthority = tokenAuthorityExecution
		}
		if price, ok := floatField(exec, "total_price"); ok {
			a.totalPrice = &price
		}
		if cur := stringField(exec, "currency"); cur != "" {
			a.currency = cur
		}
	}

	a.sumNodeUsage(data)
	a.mergeContextsFromOutputs(mapField(data, "outputs"))
}

// sumNodeUsage sums per-node usage blocks into input/output counters, but
// only when no more authoritative aggregate already set them.
func (a *Accumulator) sumNodeUsage(data map[string]any) {
	if a.ioAuthority > tokenAuthorityNodeSum {
		return
	}
	var inSum, outSum int
	for _, n := range listField(data, "nodes") {
		node, ok := n.(map[string]any)
		if !ok {
			continue
		}
		usage := mapField(mapField(node, "process_data"), "usage")
		if len(usage) == 0 {
			usage = mapField(mapField(node, "outputs"), "usage")
		}
		if in, ok := intField(usage, "prompt_tokens"); ok {
			inSum += in
		}
		if out, ok := intField(usage, "completion_tokens"); ok {
			outSum += out
		}
	}
	if inSum > 0 {
		a.inputTokens = inSum
		a.ioAuthority = tokenAuthorityNodeSum
	}
	if outSum > 0 {
		a.outputTokens = outSum
		a.ioAuthority = tokenAuthorityNodeSum
	}
}

// mergeContextsFromOutputs scans outputs for the first context-bearing key
// and merges its entries. Returns whether a key was found.
func (a *Accumulator) mergeContextsFromOutputs(outputs map[string]any) bool {
	for _, key := range workflowContextKeys {
		raw, ok := outputs[key]
		if !ok {
			continue
		}
		a.mergeContextValue(raw)
		return true
	}
	return false
}

// mergeContextValue merges a context field value that is either a list of
// entries or a single string.
func (a *Accumulator) mergeContextValue(raw any) {
	switch v := raw.(type) {
	case []any:
		for _, item := range v {
			a.addContext(stringify(item))
		}
	default:
		a.addContext(stringify(v))
	}
}

// addContext appends one context entry, suppressing empties and duplicates.
func (a *Accumulator) addContext(ctx string) {
	if ctx == "" {
		return
	}
	if _, dup := a.seen[ctx]; dup {
		return
	}
	a.seen[ctx] = struct{}{}
	a.contexts = append(a.contexts, ctx)
}

// appendMetadataList appends v to the metadata list stored under key.
func (a *Accumulator) appendMetadataList(key string, v any) {
	list, _ := a.metadata[key].([]any)
	a.metadata[key] = append(list, v)
}

// Finalize converts the accumulated state into an immutable performance
// record and unified response. It is valid after normal termination, the
// completion sentinel, and deadline expiry alike.
func (a *Accumulator) Finalize() (*adapter.PerformanceMetrics, *adapter.Response) {
	totalTime := 0.0
	switch {
	case a.declaredElapsed != nil:
		totalTime = *a.declaredElapsed
	case a.lastFragmentAt != nil:
		totalTime = *a.lastFragmentAt
	}

	var latency []float64
	for i := 1; i < len(a.fragmentTimestamps); i++ {
		latency = append(latency, a.fragmentTimestamps[i]-a.fragmentTimestamps[i-1])
	}

	perf := &adapter.PerformanceMetrics{
		TotalTime:        totalTime,
		TimeToFirstToken: a.firstFragmentAt,
		StreamingLatency: latency,
		TotalTokens:      a.totalTokens,
		InputTokens:      a.inputTokens,
		OutputTokens:     a.outputTokens,
		TotalPrice:       a.totalPrice,
		Currency:         a.currency,
	}
	resp := &adapter.Response{
		Answer:      a.answer.String(),
		Contexts:    a.contexts,
		ToolCalls:   a.toolCalls,
		Metadata:    a.metadata,
		Performance: perf,
	}
	return perf, resp
}
