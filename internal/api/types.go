// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the document QA backend.
package api

import "time"

// =============================================================================
// CHAT TYPES
// =============================================================================

// Source is a citation pointing back into an ingested document chunk.
// Beyond display and deep-linking into the document viewer, the client
// treats it as opaque.
type Source struct {
	Filename string  `json:"filename"`
	Page     *int    `json:"page,omitempty"`
	DocID    *int64  `json:"doc_id,omitempty"`
	ChunkID  string  `json:"chunk_id,omitempty"`
	Score    float64 `json:"score,omitempty"`
}

// QueryRequest is the body for POST /api/chat/query.
type QueryRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
	TopK      int    `json:"top_k,omitempty"`
}

// QueryResponse is the non-streaming answer shape.
type QueryResponse struct {
	Answer     string   `json:"answer"`
	Confidence string   `json:"confidence"`
	Sources    []Source `json:"sources"`
}

// StreamEvent is one decoded record from the chat answer stream.
// A record carries sources, a token fragment, or both; the zero value
// means the record held neither and should be ignored.
type StreamEvent struct {
	// Sources, when non-nil, marks the start of the answer. It is sent at
	// most once per turn by a well-behaved backend; the decoder does not
	// enforce that, the consumer does.
	Sources []Source `json:"sources"`

	// Token is an incremental fragment of the answer text.
	Token string `json:"token"`
}

// HasSources reports whether the event carries a sources payload.
// An empty-but-present array still counts: it starts the answer.
func (e StreamEvent) HasSources() bool {
	return e.Sources != nil
}

// SessionInfo identifies one persisted conversation.
type SessionInfo struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title"`
}

// HistoryMessage is one message of a persisted conversation, as returned
// by GET /api/chat/history/{id}. Role is "user" or "bot".
type HistoryMessage struct {
	Role    string   `json:"role"`
	Text    string   `json:"text"`
	Sources []Source `json:"sources,omitempty"`
}

// =============================================================================
// DOCUMENT TYPES
// =============================================================================

// Document describes one ingested document.
type Document struct {
	ID          int64                  `json:"id"`
	Filename    string                 `json:"filename"`
	ChunkCount  int                    `json:"chunk_count"`
	ProcessedAt time.Time              `json:"processed_at"`
	Metadata    map[string]interface{} `json:"document_metadata,omitempty"`
}

// Chunk is one retrieval-indexed fragment of a document.
type Chunk struct {
	ID          string                 `json:"id"`
	TextPreview string                 `json:"text_preview"`
	Page        *int                   `json:"page"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// UploadError reports a single file that failed ingestion.
type UploadError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// UploadResult is the response of POST /api/documents/upload.
type UploadResult struct {
	Success []Document    `json:"success"`
	Errors  []UploadError `json:"errors"`
}

// =============================================================================
// ANALYTICS / CONFIG TYPES
// =============================================================================

// AnalyticsOverview holds the headline counters of the backend.
type AnalyticsOverview struct {
	TotalDocuments  int     `json:"total_documents"`
	TotalChunks     int     `json:"total_chunks"`
	TotalQueries    int     `json:"total_queries"`
	AvgResponseTime float64 `json:"avg_response_time"`
}

// ModelConfig is the backend's ingestion configuration, read-only here.
type ModelConfig struct {
	EmbeddingModel string `json:"embedding_model"`
	ChunkSize      int    `json:"chunk_size"`
	ChunkOverlap   int    `json:"chunk_overlap"`
}

// backendError is the FastAPI-style error body {"detail": "..."}.
type backendError struct {
	Detail string `json:"detail"`
}
