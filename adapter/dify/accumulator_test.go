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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEvent(t *testing.T, raw string) *Event {
	t.Helper()
	ev, err := parseEvent([]byte(raw))
	require.NoError(t, err)
	return ev
}

func TestParseEventKinds(t *testing.T) {
	tests := map[string]EventKind{
		`{"event":"message"}`:           EventMessage,
		`{"event":"agent_message"}`:     EventAgentMessage,
		`{"event":"text_chunk"}`:        EventTextChunk,
		`{"event":"message_end"}`:       EventMessageEnd,
		`{"event":"workflow_finished"}`: EventWorkflowFinished,
		`{"event":"node_finished"}`:     EventNodeFinished,
		`{"event":"ping"}`:              EventPing,
		`{"event":"made_up_tag"}`:       EventUnknown,
		`{"no_tag":true}`:               EventUnknown,
	}
	for raw, kind := range tests {
		assert.Equal(t, kind, mustEvent(t, raw).Kind, raw)
	}

	_, err := parseEvent([]byte(`not json`))
	assert.Error(t, err)
}

func TestAccumulatorFragmentConcatenation(t *testing.T) {
	acc := NewAccumulator()
	acc.Apply(mustEvent(t, `{"event":"message","answer":"Hel"}`), 0.1)
	acc.Apply(mustEvent(t, `{"event":"agent_message","answer":"lo "}`), 0.2)
	acc.Apply(mustEvent(t, `{"event":"text_chunk","data":{"text":"World"}}`), 0.3)
	// Empty fragments contribute neither text nor timestamps.
	acc.Apply(mustEvent(t, `{"event":"message","answer":""}`), 0.4)

	assert.Equal(t, "Hello World", acc.Answer())
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, acc.fragmentTimestamps)
	for i := 1; i < len(acc.fragmentTimestamps); i++ {
		assert.LessOrEqual(t, acc.fragmentTimestamps[i-1], acc.fragmentTimestamps[i])
	}
}

func TestAccumulatorUnknownAndMalformedEventsDoNotPanic(t *testing.T) {
	acc := NewAccumulator()
	assert.NotPanics(t, func() {
		acc.Apply(mustEvent(t, `{"event":"something_new","payload":1}`), 0.1)
		acc.Apply(mustEvent(t, `{"event":"message","answer":42}`), 0.2)
		acc.Apply(mustEvent(t, `{"event":"text_chunk","data":"not a map"}`), 0.3)
		acc.Apply(mustEvent(t, `{"event":"message_end","metadata":"not a map"}`), 0.4)
		acc.Apply(mustEvent(t, `{"event":"workflow_finished"}`), 0.5)
		acc.Apply(mustEvent(t, `{"event":"ping"}`), 0.6)
	})
	assert.Empty(t, acc.Answer())
}

func TestAccumulatorEndToEndTiming(t *testing.T) {
	acc := NewAccumulator()
	acc.Apply(mustEvent(t, `{"event":"message","answer":"Hello"}`), 0.1)
	acc.Apply(mustEvent(t, `{"event":"message","answer":" World"}`), 0.3)
	acc.Apply(mustEvent(t, `{"event":"workflow_finished","data":{"elapsed_time":0.5,"total_tokens":50}}`), 0.6)

	perf, resp := acc.Finalize()
	assert.Equal(t, "Hello World", resp.Answer)
	require.NotNil(t, perf.TimeToFirstToken)
	assert.InDelta(t, 0.1, *perf.TimeToFirstToken, 1e-9)
	assert.InDelta(t, 0.5, perf.TotalTime, 1e-9)
	require.Len(t, perf.StreamingLatency, 1)
	assert.InDelta(t, 0.2, perf.StreamingLatency[0], 1e-9)
	assert.Equal(t, 50, perf.TotalTokens)
}

func TestAccumulatorFinalizeWithoutFragments(t *testing.T) {
	acc := NewAccumulator()
	perf, resp := acc.Finalize()
	assert.Empty(t, resp.Answer)
	assert.Nil(t, perf.TimeToFirstToken)
	assert.Zero(t, perf.TotalTime)
	assert.Empty(t, perf.StreamingLatency)
}

func TestAccumulatorFinalizeFallsBackToLastFragmentTime(t *testing.T) {
	acc := NewAccumulator()
	acc.Apply(mustEvent(t, `{"event":"message","answer":"hi"}`), 0.7)
	perf, _ := acc.Finalize()
	assert.InDelta(t, 0.7, perf.TotalTime, 1e-9)
}

func TestAccumulatorContextDeduplication(t *testing.T) {
	acc := NewAccumulator()
	acc.Apply(mustEvent(t, `{"event":"node_finished","data":{"outputs":{"retrieved_contexts":["a"]}}}`), 0.1)
	acc.Apply(mustEvent(t, `{"event":"workflow_finished","data":{"outputs":{"retrieved_contexts":["a","b"]}}}`), 0.2)

	_, resp := acc.Finalize()
	assert.Equal(t, []string{"a", "b"}, resp.Contexts)
}

func TestAccumulatorContextKeyPriority(t *testing.T) {
	// retrieved_contexts wins over contexts; only the first matching key is read.
	acc := NewAccumulator()
	acc.Apply(mustEvent(t,
		`{"event":"node_finished","data":{"outputs":{"contexts":["low"],"retrieved_contexts":["high"]}}}`), 0.1)
	_, resp := acc.Finalize()
	assert.Equal(t, []string{"high"}, resp.Contexts)
}

func TestAccumulatorNestedContextFallback(t *testing.T) {
	acc := NewAccumulator()
	acc.Apply(mustEvent(t,
		`{"event":"node_finished","data":{"outputs":{"rag_node":{"retrieved_contexts":["nested"]}}}}`), 0.1)
	_, resp := acc.Finalize()
	assert.Equal(t, []string{"nested"}, resp.Contexts)
}

func TestAccumulatorEmptyContextNeverStored(t *testing.T) {
	acc := NewAccumulator()
	acc.Apply(mustEvent(t, `{"event":"node_finished","data":{"outputs":{"retrieved_contexts":["","x",""]}}}`), 0.1)
	_, resp := acc.Finalize()
	assert.Equal(t, []string{"x"}, resp.Contexts)
}

func TestAccumulatorMessageEndUsageAndContexts(t *testing.T) {
	acc := NewAccumulator()
	acc.Apply(mustEvent(t, `{
		"event":"message_end",
		"metadata":{
			"usage":{"total_tokens":30,"prompt_tokens":10,"completion_tokens":20},
			"retriever_resources":[{"content":"doc one"},{"chunk_content":"doc two"},{"content":"doc one"}]
		}
	}`), 0.4)

	perf, resp := acc.Finalize()
	assert.Equal(t, 30, perf.TotalTokens)
	assert.Equal(t, 10, perf.InputTokens)
	assert.Equal(t, 20, perf.OutputTokens)
	assert.Equal(t, []string{"doc one", "doc two"}, resp.Contexts)
}

func TestAccumulatorTokenPriorityExecutionMetadataWins(t *testing.T) {
	acc := NewAccumulator()
	acc.Apply(mustEvent(t, `{
		"event":"workflow_finished",
		"data":{
			"total_tokens":100,
			"execution_metadata":{"total_tokens":120,"total_price":0.05,"currency":"USD"},
			"nodes":[
				{"process_data":{"usage":{"prompt_tokens":40,"completion_tokens":30}}},
				{"outputs":{"usage":{"prompt_tokens":5,"completion_tokens":5}}}
			]
		}
	}`), 1.0)

	perf, _ := acc.Finalize()
	// execution_metadata beats both the workflow top-level figure and the
	// locally summed node usage.
	assert.Equal(t, 120, perf.TotalTokens)
	assert.Equal(t, 45, perf.InputTokens)
	assert.Equal(t, 35, perf.OutputTokens)
	require.NotNil(t, perf.TotalPrice)
	assert.InDelta(t, 0.05, *perf.TotalPrice, 1e-9)
	assert.Equal(t, "USD", perf.Currency)
}

func TestAccumulatorNodeSumDoesNotOverrideUsageAggregate(t *testing.T) {
	acc := NewAccumulator()
	acc.Apply(mustEvent(t, `{"event":"message_end","metadata":{"usage":{"total_tokens":30,"prompt_tokens":10,"completion_tokens":20}}}`), 0.2)
	acc.Apply(mustEvent(t, `{
		"event":"workflow_finished",
		"data":{"nodes":[{"process_data":{"usage":{"prompt_tokens":99,"completion_tokens":99}}}]}
	}`), 0.5)

	perf, _ := acc.Finalize()
	assert.Equal(t, 10, perf.InputTokens)
	assert.Equal(t, 20, perf.OutputTokens)
}

func TestAccumulatorWorkflowTotalOverridesUsageTotal(t *testing.T) {
	acc := NewAccumulator()
	acc.Apply(mustEvent(t, `{"event":"message_end","metadata":{"usage":{"total_tokens":30}}}`), 0.2)
	acc.Apply(mustEvent(t, `{"event":"workflow_finished","data":{"total_tokens":100}}`), 0.5)

	perf, _ := acc.Finalize()
	// Declared aggregates rank equal, the later one wins.
	assert.Equal(t, 100, perf.TotalTokens)
}

func TestAccumulatorUsageTotalDoesNotOverrideExecutionTotal(t *testing.T) {
	acc := NewAccumulator()
	acc.Apply(mustEvent(t, `{
		"event":"workflow_finished",
		"data":{"total_tokens":100,"execution_metadata":{"total_tokens":120}}
	}`), 0.5)
	acc.Apply(mustEvent(t, `{"event":"message_end","metadata":{"usage":{"total_tokens":30}}}`), 0.7)

	perf, _ := acc.Finalize()
	assert.Equal(t, 120, perf.TotalTokens)
}

func TestAccumulatorToolCalls(t *testing.T) {
	acc := NewAccumulator()
	acc.Apply(mustEvent(t, `{"event":"agent_thought","tool":"search","tool_input":"{\"q\":1}","thought":"looking"}`), 0.1)
	acc.Apply(mustEvent(t, `{"event":"agent_thought","thought":"no tool"}`), 0.2)
	acc.Apply(mustEvent(t, `{"event":"node_finished","data":{"outputs":{"tool_calls":[{"name":"calc"}]}}}`), 0.3)

	_, resp := acc.Finalize()
	require.Len(t, resp.ToolCalls, 2)
	assert.Equal(t, "search", resp.ToolCalls[0]["tool"])
	assert.Equal(t, "calc", resp.ToolCalls[1]["name"])
}

func TestAccumulatorStructuralBookkeeping(t *testing.T) {
	acc := NewAccumulator()
	acc.Apply(mustEvent(t, `{"event":"workflow_started","data":{"workflow_id":"wf1","id":"run1"}}`), 0.0)
	acc.Apply(mustEvent(t, `{"event":"node_started","data":{"node_id":"n1","node_type":"llm","index":1}}`), 0.1)
	acc.Apply(mustEvent(t, `{"event":"node_finished","data":{"node_id":"n1","outputs":{}}}`), 0.2)
	acc.Apply(mustEvent(t, `{"event":"error","code":"rate_limit","message":"too fast"}`), 0.3)

	_, resp := acc.Finalize()
	assert.Empty(t, resp.Answer)
	wf, ok := resp.Metadata["workflow"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "wf1", wf["workflow_id"])
	assert.Len(t, resp.Metadata["nodes_started"], 1)
	assert.Len(t, resp.Metadata["nodes"], 1)
	errInfo, ok := resp.Metadata["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "rate_limit", errInfo["code"])
}
