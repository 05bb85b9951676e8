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
	"encoding/json"
	"fmt"
)

// EventKind identifies a stream event emitted by the Dify backend.
// Unrecognized tags map to EventUnknown instead of failing the stream.
type EventKind int

// Stream event kinds, covering both the chat API and the workflow API.
const (
	EventUnknown EventKind = iota
	EventMessage
	EventAgentMessage
	EventAgentThought
	EventMessageEnd
	EventMessageFile
	EventError
	EventWorkflowStarted
	EventNodeStarted
	EventTextChunk
	EventNodeFinished
	EventWorkflowFinished
	EventPing
)

var eventKindNames = map[EventKind]string{
	EventUnknown:          "unknown",
	EventMessage:          "message",
	EventAgentMessage:     "agent_message",
	EventAgentThought:     "agent_thought",
	EventMessageEnd:       "message_end",
	EventMessageFile:      "message_file",
	EventError:            "error",
	EventWorkflowStarted:  "workflow_started",
	EventNodeStarted:      "node_started",
	EventTextChunk:        "text_chunk",
	EventNodeFinished:     "node_finished",
	EventWorkflowFinished: "workflow_finished",
	EventPing:             "ping",
}

var eventKindsByTag = map[string]EventKind{
	"message":           EventMessage,
	"agent_message":     EventAgentMessage,
	"agent_thought":     EventAgentThought,
	"message_end":       EventMessageEnd,
	"message_file":      EventMessageFile,
	"error":             EventError,
	"workflow_started":  EventWorkflowStarted,
	"node_started":      EventNodeStarted,
	"text_chunk":        EventTextChunk,
	"node_finished":     EventNodeFinished,
	"workflow_finished": EventWorkflowFinished,
	"ping":              EventPing,
}

// String returns the wire tag of the event kind.
func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is one decoded stream event. Payload fields stay loosely typed
// because the backend schema is schema-by-convention; accessors below
// treat malformed payloads as empty.
type Event struct {
	Kind EventKind
	Raw  map[string]any
}

// parseEvent decodes one SSE data payload. An untagged or unrecognized
// event decodes to EventUnknown; only invalid JSON is an error.
func parseEvent(data []byte) (*Event, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode stream event: %w", err)
	}
	tag, _ := raw["event"].(string)
	return &Event{Kind: eventKindsByTag[tag], Raw: raw}, nil
}

// stringField returns m[key] as a string, or "" when absent or not a string.
func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// mapField returns m[key] as a map, or an empty map when absent or malformed.
func mapField(m map[string]any, key string) map[string]any {
	if sub, ok := m[key].(map[string]any); ok {
		return sub
	}
	return map[string]any{}
}

// listField returns m[key] as a slice, or nil when absent or malformed.
func listField(m map[string]any, key string) []any {
	l, _ := m[key].([]any)
	return l
}

// floatField returns m[key] as a float64. JSON numbers decode to float64.
func floatField(m map[string]any, key string) (float64, bool) {
	f, ok := m[key].(float64)
	return f, ok
}

// intField returns m[key] as an int, truncating the JSON float representation.
func intField(m map[string]any, key string) (int, bool) {
	f, ok := m[key].(float64)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// stringify renders a loose context entry for accumulation. String values
// pass through; structured values keep their JSON form.
func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}
