// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the document QA backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// Query sends a chat query and returns the complete answer (non-streaming).
func (c *Client) Query(ctx context.Context, sessionID, query string) (*QueryResponse, error) {
	body, err := json.Marshal(QueryRequest{
		SessionID: sessionID,
		Query:     query,
		TopK:      c.config.TopK,
	})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/chat/query", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer drainAndClose(resp.Body)

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var result QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return &result, nil
}

// StreamCallback is called for each decoded event of a streaming answer.
type StreamCallback func(event StreamEvent)

// QueryStream sends a chat query and calls the callback for each event of
// the server-sent stream, in arrival order. It returns when the stream is
// exhausted, the context is cancelled, or the transport fails.
func (c *Client) QueryStream(ctx context.Context, sessionID, query string, callback StreamCallback) error {
	body, err := json.Marshal(QueryRequest{
		SessionID: sessionID,
		Query:     query,
		TopK:      c.config.TopK,
	})
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	// A dedicated client without the global timeout: a stream lives as long
	// as the backend keeps generating. The context bounds it instead.
	streamClient := &http.Client{}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/chat/query", bytes.NewReader(body))
	if err != nil {
		return &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := streamClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return ErrCanceled
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrUnreachable
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	reader := NewStreamReader(resp.Body)
	return reader.Process(ctx, callback)
}

// =============================================================================
// SESSION OPERATIONS
// =============================================================================

// ListSessions retrieves all persisted conversation sessions, newest first.
func (c *Client) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	var sessions []SessionInfo
	if err := c.getJSON(ctx, "/api/chat/sessions", &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// History retrieves the full ordered message history of one session.
func (c *Client) History(ctx context.Context, sessionID string) ([]HistoryMessage, error) {
	var messages []HistoryMessage
	if err := c.getJSON(ctx, "/api/chat/history/"+sessionID, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// DeleteSession deletes all persisted history of one session.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/chat/session/"+sessionID, nil)
	if err != nil {
		return err
	}
	defer drainAndClose(resp.Body)
	return checkStatus(resp)
}
