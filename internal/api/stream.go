// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the document QA backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"
)

// =============================================================================
// STREAM READER
// =============================================================================

// dataPrefix marks an event record on the wire. Records with any other
// prefix are ignored for forward compatibility.
const dataPrefix = "data:"

// recordSeparator delimits event records in the byte stream.
var recordSeparator = []byte("\n\n")

// StreamReader decodes the chat answer stream: records separated by a blank
// line, each carrying a "data:" prefixed JSON payload.
//
// The transport may split a record, or even a single multi-byte character,
// across delivery chunks. The reader therefore accumulates raw bytes and
// only parses complete records; a trailing partial record stays buffered
// until more bytes arrive.
type StreamReader struct {
	reader     io.Reader
	buf        bytes.Buffer
	eventCount int
	tokenCount int
	firstToken bool
	startTime  time.Time
}

// NewStreamReader creates a new stream reader from an io.Reader.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{
		reader:     r,
		firstToken: true,
		startTime:  time.Now(),
	}
}

// Process reads the stream and calls the callback for each decoded event,
// in arrival order. Blocks until the stream ends, the transport fails, or
// the context is cancelled.
func (s *StreamReader) Process(ctx context.Context, callback StreamCallback) error {
	chunk := make([]byte, 4096)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := s.reader.Read(chunk)
		if n > 0 {
			s.buf.Write(chunk[:n])
			s.dispatchComplete(callback)
		}

		if err != nil {
			if err == io.EOF {
				// The final record may arrive without a trailing separator.
				s.dispatchRecord(s.buf.Bytes(), callback)
				s.buf.Reset()
				return nil
			}
			return &ClientError{Type: ErrTypeUnreachable, Message: "stream read failed", Cause: err}
		}
	}
}

// dispatchComplete parses every complete record currently buffered and
// leaves any trailing partial record in the buffer.
func (s *StreamReader) dispatchComplete(callback StreamCallback) {
	for {
		data := s.buf.Bytes()
		idx := bytes.Index(data, recordSeparator)
		if idx < 0 {
			return
		}

		record := make([]byte, idx)
		copy(record, data[:idx])
		s.buf.Next(idx + len(recordSeparator))

		s.dispatchRecord(record, callback)
	}
}

// dispatchRecord decodes a single record and invokes the callback.
// Records without the data prefix and records whose payload fails to parse
// are skipped; a bad record must never kill the stream.
func (s *StreamReader) dispatchRecord(record []byte, callback StreamCallback) {
	line := strings.TrimSpace(string(record))
	if !strings.HasPrefix(line, dataPrefix) {
		return
	}

	payload := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
	if payload == "" {
		return
	}

	var event StreamEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return
	}
	if !event.HasSources() && event.Token == "" {
		return
	}

	s.eventCount++
	if event.Token != "" {
		s.tokenCount++
		if s.firstToken {
			s.firstToken = false
		}
	}

	callback(event)
}

// EventCount returns the number of events dispatched so far.
func (s *StreamReader) EventCount() int {
	return s.eventCount
}

// TokenCount returns the number of token events dispatched so far.
func (s *StreamReader) TokenCount() int {
	return s.tokenCount
}

// =============================================================================
// STREAM STATISTICS
// =============================================================================

// StreamStats holds timing collected while consuming one answer stream.
type StreamStats struct {
	StartTime      time.Time
	FirstTokenTime time.Time
	EndTime        time.Time

	TokenCount int

	// TTFT is the time to first token, computed on first RecordFirstToken.
	TTFT time.Duration
}

// NewStreamStats creates a new StreamStats with the start time set.
func NewStreamStats() *StreamStats {
	return &StreamStats{StartTime: time.Now()}
}

// RecordFirstToken marks the time of first token arrival.
func (s *StreamStats) RecordFirstToken() {
	if s.FirstTokenTime.IsZero() {
		s.FirstTokenTime = time.Now()
		s.TTFT = s.FirstTokenTime.Sub(s.StartTime)
	}
}

// Finalize marks the end of the stream.
func (s *StreamStats) Finalize(tokenCount int) {
	s.EndTime = time.Now()
	s.TokenCount = tokenCount
}

// Elapsed returns the total stream duration.
func (s *StreamStats) Elapsed() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// =============================================================================
// STREAM ACCUMULATOR
// =============================================================================

// StreamAccumulator collects a whole streamed answer for line-mode callers
// that want the final text rather than incremental updates.
type StreamAccumulator struct {
	// strings.Builder avoids quadratic allocations while appending tokens.
	text    strings.Builder
	sources []Source
	seen    bool
	Stats   *StreamStats
}

// NewStreamAccumulator creates a new accumulator.
func NewStreamAccumulator() *StreamAccumulator {
	return &StreamAccumulator{Stats: NewStreamStats()}
}

// Add processes one stream event. The first sources payload wins; later
// ones are ignored, mirroring the at-most-once rule of the UI pipeline.
func (a *StreamAccumulator) Add(event StreamEvent) {
	if event.HasSources() && !a.seen {
		a.sources = event.Sources
		a.seen = true
	}
	if event.Token != "" {
		if a.text.Len() == 0 {
			a.Stats.RecordFirstToken()
		}
		a.text.WriteString(event.Token)
	}
}

// Text returns the accumulated answer text.
func (a *StreamAccumulator) Text() string {
	return a.text.String()
}

// Sources returns the citation list, or an empty slice if none arrived.
func (a *StreamAccumulator) Sources() []Source {
	if a.sources == nil {
		return []Source{}
	}
	return a.sources
}
