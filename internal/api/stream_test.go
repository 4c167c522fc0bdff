// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the document QA backend.
package api

import (
	"context"
	"io"
	"strings"
	"testing"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// chunkedReader delivers its payload in fixed-size pieces to exercise
// records split across transport reads.
type chunkedReader struct {
	data []byte
	size int
	pos  int
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	end := r.pos + r.size
	if end > len(r.data) {
		end = len(r.data)
	}
	n := copy(p, r.data[r.pos:end])
	r.pos += n
	return n, nil
}

func collectEvents(t *testing.T, r io.Reader) []StreamEvent {
	t.Helper()

	var events []StreamEvent
	reader := NewStreamReader(r)
	err := reader.Process(context.Background(), func(e StreamEvent) {
		events = append(events, e)
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	return events
}

// =============================================================================
// STREAM READER TESTS
// =============================================================================

func TestStreamReader_SourcesAndTokens(t *testing.T) {
	body := `data: {"sources": [{"filename": "report.pdf", "page": 3}]}` + "\n\n" +
		`data: {"token": "Hello"}` + "\n\n" +
		`data: {"token": " world"}` + "\n\n"

	events := collectEvents(t, strings.NewReader(body))

	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}

	if !events[0].HasSources() {
		t.Error("first event should carry sources")
	}
	if len(events[0].Sources) != 1 || events[0].Sources[0].Filename != "report.pdf" {
		t.Errorf("Sources = %+v, want one entry for report.pdf", events[0].Sources)
	}

	if events[1].Token != "Hello" {
		t.Errorf("events[1].Token = %q, want 'Hello'", events[1].Token)
	}
	if events[2].Token != " world" {
		t.Errorf("events[2].Token = %q, want ' world'", events[2].Token)
	}
}

func TestStreamReader_EmptySourcesStillCounts(t *testing.T) {
	body := `data: {"sources": []}` + "\n\n"

	events := collectEvents(t, strings.NewReader(body))

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if !events[0].HasSources() {
		t.Error("empty sources array should still register as a sources event")
	}
	if len(events[0].Sources) != 0 {
		t.Errorf("Sources length = %d, want 0", len(events[0].Sources))
	}
}

func TestStreamReader_RecordSplitAcrossReads(t *testing.T) {
	body := `data: {"token": "alpha"}` + "\n\n" + `data: {"token": "beta"}` + "\n\n"

	// Every split position must reassemble into the same event sequence.
	for size := 1; size <= len(body); size++ {
		events := collectEvents(t, &chunkedReader{data: []byte(body), size: size})

		if len(events) != 2 {
			t.Fatalf("chunk size %d: got %d events, want 2", size, len(events))
		}
		if events[0].Token != "alpha" || events[1].Token != "beta" {
			t.Errorf("chunk size %d: tokens = %q, %q", size, events[0].Token, events[1].Token)
		}
	}
}

func TestStreamReader_MultibyteSplitAcrossReads(t *testing.T) {
	// "héllo 世界" spans several multi-byte sequences; one-byte reads force
	// every character boundary to straddle a chunk edge.
	body := `data: {"token": "héllo 世界"}` + "\n\n"

	events := collectEvents(t, &chunkedReader{data: []byte(body), size: 1})

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Token != "héllo 世界" {
		t.Errorf("Token = %q, want 'héllo 世界'", events[0].Token)
	}
}

func TestStreamReader_SkipsMalformedJSON(t *testing.T) {
	body := `data: {"token": "good"}` + "\n\n" +
		`data: {not json` + "\n\n" +
		`data: {"token": "also good"}` + "\n\n"

	events := collectEvents(t, strings.NewReader(body))

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Token != "good" || events[1].Token != "also good" {
		t.Errorf("tokens = %q, %q", events[0].Token, events[1].Token)
	}
}

func TestStreamReader_IgnoresNonDataRecords(t *testing.T) {
	body := `event: ping` + "\n\n" +
		`: keepalive comment` + "\n\n" +
		`data: {"token": "real"}` + "\n\n"

	events := collectEvents(t, strings.NewReader(body))

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Token != "real" {
		t.Errorf("Token = %q, want 'real'", events[0].Token)
	}
}

func TestStreamReader_FinalRecordWithoutSeparator(t *testing.T) {
	body := `data: {"token": "first"}` + "\n\n" + `data: {"token": "last"}`

	events := collectEvents(t, strings.NewReader(body))

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[1].Token != "last" {
		t.Errorf("events[1].Token = %q, want 'last'", events[1].Token)
	}
}

func TestStreamReader_EmptyStream(t *testing.T) {
	events := collectEvents(t, strings.NewReader(""))

	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}

func TestStreamReader_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := NewStreamReader(strings.NewReader(`data: {"token": "x"}` + "\n\n"))
	err := reader.Process(ctx, func(StreamEvent) {})

	if err != context.Canceled {
		t.Errorf("Process() error = %v, want context.Canceled", err)
	}
}

func TestStreamReader_Counters(t *testing.T) {
	body := `data: {"sources": []}` + "\n\n" +
		`data: {"token": "a"}` + "\n\n" +
		`data: {"token": "b"}` + "\n\n"

	reader := NewStreamReader(strings.NewReader(body))
	if err := reader.Process(context.Background(), func(StreamEvent) {}); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if reader.EventCount() != 3 {
		t.Errorf("EventCount() = %d, want 3", reader.EventCount())
	}
	if reader.TokenCount() != 2 {
		t.Errorf("TokenCount() = %d, want 2", reader.TokenCount())
	}
}

// =============================================================================
// ACCUMULATOR TESTS
// =============================================================================

func TestStreamAccumulator_CollectsAnswer(t *testing.T) {
	acc := NewStreamAccumulator()
	acc.Add(StreamEvent{Sources: []Source{{Filename: "a.pdf"}}})
	acc.Add(StreamEvent{Token: "The "})
	acc.Add(StreamEvent{Token: "answer"})

	if acc.Text() != "The answer" {
		t.Errorf("Text() = %q, want 'The answer'", acc.Text())
	}
	if len(acc.Sources()) != 1 {
		t.Errorf("Sources length = %d, want 1", len(acc.Sources()))
	}
}

func TestStreamAccumulator_FirstSourcesWin(t *testing.T) {
	acc := NewStreamAccumulator()
	acc.Add(StreamEvent{Sources: []Source{{Filename: "first.pdf"}}})
	acc.Add(StreamEvent{Sources: []Source{{Filename: "second.pdf"}}})

	sources := acc.Sources()
	if len(sources) != 1 || sources[0].Filename != "first.pdf" {
		t.Errorf("Sources = %+v, want only first.pdf", sources)
	}
}

func TestStreamAccumulator_NoSources(t *testing.T) {
	acc := NewStreamAccumulator()
	acc.Add(StreamEvent{Token: "text only"})

	if acc.Sources() == nil {
		t.Error("Sources() should return an empty slice, not nil")
	}
	if len(acc.Sources()) != 0 {
		t.Errorf("Sources length = %d, want 0", len(acc.Sources()))
	}
}
