//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package dify implements the platform adapter for the Dify agent backend,
// covering both its chat API and its workflow API in blocking and streaming
// response modes.
package dify

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trpc.group/trpc-go/trpc-agent-eval-go/adapter"
	"trpc.group/trpc-go/trpc-agent-eval-go/log"
)

const (
	defaultBaseURL = "https://api.dify.ai/v1"
	defaultPath    = "chat-messages"
	defaultTimeout = 30 * time.Second

	responseModeBlocking  = "blocking"
	responseModeStreaming = "streaming"

	// queryPlaceholder replaces the top-level query field when the structured
	// inputs already carry the query, so it is not submitted twice.
	queryPlaceholder = "-"

	streamDataPrefix   = "data: "
	streamDoneSentinel = "[DONE]"

	// maxErrorBodyBytes bounds how much of an error response is kept.
	maxErrorBodyBytes = 4 << 10
)

// workflowAnswerKeys are the candidate answer field names of a staged
// workflow response, in priority order.
var workflowAnswerKeys = []string{"text", "answer", "output", "result", "content"}

// Adapter is the Dify platform adapter. It is safe for concurrent
// invocations once opened; the underlying transport pools connections.
type Adapter struct {
	apiKey            string
	baseURL           string
	timeout           time.Duration
	showStreamContent bool
	client            *http.Client
}

// Option configures the adapter.
type Option func(*Adapter)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) Option {
	return func(a *Adapter) {
		a.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout sets the base per-call timeout. Streaming calls scale it up.
func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) {
		a.timeout = d
	}
}

// WithShowStreamingContent enables per-event debug logging of stream content.
func WithShowStreamingContent(show bool) Option {
	return func(a *Adapter) {
		a.showStreamContent = show
	}
}

// New creates a Dify adapter. The session is not open until Open is called.
func New(apiKey string, opt ...Option) *Adapter {
	a := &Adapter{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		timeout: defaultTimeout,
	}
	for _, o := range opt {
		o(a)
	}
	return a
}

// Open prepares the pooled transport session.
func (a *Adapter) Open(ctx context.Context) error {
	if a.client != nil {
		return nil
	}
	a.client = newHTTPClient()
	return nil
}

// Close releases the transport session.
func (a *Adapter) Close() error {
	if a.client != nil {
		a.client.CloseIdleConnections()
		a.client = nil
	}
	return nil
}

// Invoke sends one user input to the backend. The response mode and request
// path come from the invocation options.
func (a *Adapter) Invoke(ctx context.Context, input string, opt ...adapter.Option) (*adapter.Response, error) {
	if a.client == nil {
		return nil, adapter.ErrSessionNotOpen
	}
	opts := adapter.NewInvokeOptions(opt...)
	log.Debugf("dify: invoking, streaming=%v, input length=%d", opts.Streaming, len(input))
	if opts.Streaming {
		return a.invokeStreaming(ctx, input, opts)
	}
	return a.invokeBlocking(ctx, input, opts)
}

// buildPayload assembles the outbound request body. When the structured
// inputs already carry a query, that value is authoritative and the
// top-level query field is sent as a placeholder.
func buildPayload(input, responseMode string, opts *adapter.InvokeOptions) map[string]any {
	inputs := opts.Inputs
	if inputs == nil {
		inputs = map[string]any{}
	}
	query := input
	if _, ok := inputs["query"]; ok {
		query = queryPlaceholder
	}
	return map[string]any{
		"inputs":          inputs,
		"query":           query,
		"response_mode":   responseMode,
		"conversation_id": opts.ConversationID,
		"user":            opts.User,
	}
}

// isWorkflowPath reports whether the request path addresses the workflow API.
func isWorkflowPath(path string) bool {
	return strings.Contains(strings.ToLower(path), "workflow") || strings.HasSuffix(path, "/workflows/run")
}

func (a *Adapter) requestURL(opts *adapter.InvokeOptions) string {
	path := opts.Path
	if path == "" {
		path = defaultPath
	}
	return a.baseURL + "/" + strings.TrimLeft(path, "/")
}

// post issues one JSON request and validates the status code. The caller
// owns the response body.
func (a *Adapter) post(ctx context.Context, url string, payload map[string]any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &adapter.TransportError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		resp.Body.Close()
		return nil, &adapter.TransportError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	return resp, nil
}

func (a *Adapter) invokeBlocking(ctx context.Context, input string, opts *adapter.InvokeOptions) (*adapter.Response, error) {
	url := a.requestURL(opts)
	payload := buildPayload(input, responseModeBlocking, opts)

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	resp, err := a.post(callCtx, url, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &adapter.TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}
	totalTime := time.Since(start).Seconds()
	log.Debugf("dify: blocking call finished in %.3fs", totalTime)

	if isWorkflowPath(opts.Path) {
		return parseWorkflowResponse(data, totalTime), nil
	}
	return parseChatResponse(data, totalTime), nil
}

// parseChatResponse handles the direct response shape: a top-level answer
// plus a retrieval resource list.
func parseChatResponse(data map[string]any, totalTime float64) *adapter.Response {
	answer := stringField(data, "answer")

	var contexts []string
	seen := map[string]struct{}{}
	for _, res := range listField(data, chatContextField) {
		var content string
		if m, ok := res.(map[string]any); ok {
			content = stringField(m, "content")
			if content == "" {
				content = stringField(m, "chunk_content")
			}
		} else {
			content = stringify(res)
		}
		if content == "" {
			continue
		}
		if _, dup := seen[content]; dup {
			continue
		}
		seen[content] = struct{}{}
		contexts = append(contexts, content)
	}

	metadata := map[string]any{}
	for k, v := range data {
		metadata[k] = v
	}

	var perf *adapter.PerformanceMetrics
	if meta, ok := data["metadata"].(map[string]any); ok {
		usage := mapField(meta, "usage")
		total, _ := intField(usage, "total_tokens")
		in, _ := intField(usage, "prompt_tokens")
		out, _ := intField(usage, "completion_tokens")
		perf = &adapter.PerformanceMetrics{
			TotalTime:    totalTime,
			TotalTokens:  total,
			InputTokens:  in,
			OutputTokens: out,
		}
	}

	return &adapter.Response{
		Answer:      answer,
		Contexts:    contexts,
		Metadata:    metadata,
		Performance: perf,
	}
}

// parseWorkflowResponse handles the staged response shape: the answer lives
// inside data.outputs under one of several candidate keys.
func parseWorkflowResponse(data map[string]any, totalTime float64) *adapter.Response {
	workflowData := mapField(data, "data")
	outputs := mapField(workflowData, "outputs")

	answer := answerFromOutputs(outputs)

	var contexts []string
	for _, key := range workflowContextKeys {
		raw, ok := outputs[key]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case []any:
			for _, item := range v {
				if s := stringify(item); s != "" {
					contexts = append(contexts, s)
				}
			}
		default:
			if s := stringify(v); s != "" {
				contexts = append(contexts, s)
			}
		}
		break
	}

	metadata := map[string]any{
		"workflow_run_id": data["workflow_run_id"],
		"task_id":         data["task_id"],
		"workflow_id":     workflowData["workflow_id"],
		"status":          workflowData["status"],
		"created_at":      workflowData["created_at"],
		"finished_at":     workflowData["finished_at"],
	}
	for k, v := range data {
		metadata[k] = v
	}

	if elapsed, ok := floatField(workflowData, "elapsed_time"); ok {
		totalTime = elapsed
	}
	total, _ := intField(workflowData, "total_tokens")
	perf := &adapter.PerformanceMetrics{
		TotalTime:   totalTime,
		TotalTokens: total,
	}

	return &adapter.Response{
		Answer:      answer,
		Contexts:    contexts,
		Metadata:    metadata,
		Performance: perf,
	}
}

// answerFromOutputs extracts the free-text answer from workflow outputs,
// trying the candidate keys in priority order.
func answerFromOutputs(outputs map[string]any) string {
	for _, key := range workflowAnswerKeys {
		raw, ok := outputs[key]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case string:
			return v
		case map[string]any:
			if s := stringField(v, "text"); s != "" {
				return s
			}
			if s := stringField(v, "content"); s != "" {
				return s
			}
			return stringify(v)
		default:
			return stringify(v)
		}
	}
	if len(outputs) == 0 {
		return ""
	}
	return stringify(outputs)
}

func (a *Adapter) invokeStreaming(ctx context.Context, input string, opts *adapter.InvokeOptions) (*adapter.Response, error) {
	url := a.requestURL(opts)
	payload := buildPayload(input, responseModeStreaming, opts)
	deadline := streamingTimeout(a.timeout)

	log.Debugf("dify: streaming request to %s, deadline %s", url, deadline)
	start := time.Now()
	acc := NewAccumulator()

	streamCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	err := a.readStream(streamCtx, url, payload, acc, start)
	if err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		elapsed := time.Since(start)
		// Deadline expiry keeps whatever was accumulated; only a stream that
		// produced nothing at all is an error.
		if !acc.HasAnswer() {
			return nil, &adapter.StreamTimeoutError{Elapsed: elapsed}
		}
		log.Warnf("dify: stream deadline (%s) hit after %.2fs, returning %d accumulated characters",
			deadline, elapsed.Seconds(), len(acc.Answer()))
	}

	log.Debugf("dify: streaming call finished in %.3fs, %d fragments, %d contexts",
		time.Since(start).Seconds(), len(acc.fragmentTimestamps), len(acc.Contexts()))
	_, resp := acc.Finalize()
	return resp, nil
}

// readStream drives the SSE read loop until the terminator, EOF, or context
// expiry. One malformed line never aborts the stream.
func (a *Adapter) readStream(ctx context.Context, url string, payload map[string]any, acc *Accumulator, start time.Time) error {
	resp, err := a.post(ctx, url, payload)
	if err != nil {
		var te *adapter.TransportError
		if errors.As(err, &te) && errors.Is(te.Err, context.DeadlineExceeded) {
			return context.DeadlineExceeded
		}
		return err
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, streamDataPrefix) {
			continue
		}
		data := line[len(streamDataPrefix):]
		if data == streamDoneSentinel {
			return nil
		}
		ev, err := parseEvent([]byte(data))
		if err != nil {
			log.Debugf("dify: skipping undecodable stream line: %v", err)
			continue
		}
		elapsed := time.Since(start).Seconds()
		if a.showStreamContent {
			log.Debugf("dify: stream event %s at %.3fs", ev.Kind, elapsed)
		}
		acc.Apply(ev, elapsed)
	}
	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &adapter.TransportError{Err: fmt.Errorf("read stream: %w", err)}
	}
	return nil
}
