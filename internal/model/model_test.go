// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/docsage/docsage-tui/internal/api"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("Hello")

	if msg.Role != RoleUser {
		t.Errorf("Role = %q, want 'user'", msg.Role)
	}
	if msg.Text != "Hello" {
		t.Errorf("Text = %q, want 'Hello'", msg.Text)
	}
}

func TestNewBotMessage_NormalizesNilSources(t *testing.T) {
	msg := NewBotMessage("hi", nil)

	if msg.Sources == nil {
		t.Error("Sources should be an empty slice, not nil")
	}
	if len(msg.Sources) != 0 {
		t.Errorf("Sources length = %d, want 0", len(msg.Sources))
	}
}

func TestNewErrorMessage(t *testing.T) {
	msg := NewErrorMessage("backend is unreachable")

	if msg.Role != RoleBot {
		t.Errorf("Role = %q, want 'bot'", msg.Role)
	}
	if !msg.IsError {
		t.Error("IsError should be true")
	}
}

func TestMessage_WithToken_DoesNotMutate(t *testing.T) {
	original := NewBotMessage("A", nil)
	updated := original.WithToken("B")

	if original.Text != "A" {
		t.Errorf("original Text = %q, want 'A'", original.Text)
	}
	if updated.Text != "AB" {
		t.Errorf("updated Text = %q, want 'AB'", updated.Text)
	}
}

func TestRole_DisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleBot, "Docsage"},
		{Role("other"), "other"},
	}

	for _, tc := range tests {
		if got := tc.role.DisplayName(); got != tc.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tc.role, got, tc.want)
		}
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestNewConversation_SeedsGreeting(t *testing.T) {
	conv := NewConversation()

	if conv.SessionID == "" {
		t.Error("SessionID should be generated")
	}
	if len(conv.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(conv.Messages))
	}
	if conv.Messages[0].Role != RoleBot {
		t.Errorf("seed Role = %q, want 'bot'", conv.Messages[0].Role)
	}
	if conv.Messages[0].Text != GreetingText {
		t.Errorf("seed Text = %q", conv.Messages[0].Text)
	}
	if conv.IsLoading {
		t.Error("fresh conversation should not be loading")
	}
}

func TestConversation_AddMessage_PreservesOrder(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("first")
	conv.AddUserMessage("second")

	if len(conv.Messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(conv.Messages))
	}
	if conv.Messages[1].Text != "first" || conv.Messages[2].Text != "second" {
		t.Errorf("messages out of order: %q, %q", conv.Messages[1].Text, conv.Messages[2].Text)
	}
}

func TestConversation_LoadingIdempotent(t *testing.T) {
	conv := NewConversation()

	conv.StartLoading()
	conv.StartLoading()
	if !conv.IsLoading {
		t.Error("IsLoading should be true after StartLoading")
	}

	conv.StopLoading()
	conv.StopLoading()
	if conv.IsLoading {
		t.Error("IsLoading should be false after StopLoading")
	}
}

func TestConversation_BeginBotAnswer(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("question")
	conv.StartLoading()

	sources := []api.Source{{Filename: "a.pdf"}}
	conv.BeginBotAnswer(sources)

	if conv.IsLoading {
		t.Error("BeginBotAnswer should clear loading")
	}

	last, _ := conv.LastMessage()
	if last.Role != RoleBot || last.Text != "" {
		t.Errorf("last = %+v, want empty bot message", last)
	}
	if len(last.Sources) != 1 {
		t.Errorf("Sources length = %d, want 1", len(last.Sources))
	}
}

func TestConversation_AppendToLast(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("question")
	conv.BeginBotAnswer(nil)

	conv.AppendToLast("A")
	conv.AppendToLast("B")

	last, _ := conv.LastMessage()
	if last.Text != "AB" {
		t.Errorf("Text = %q, want 'AB'", last.Text)
	}
}

func TestConversation_AppendToLast_SynthesizesBotMessage(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("question")
	conv.StartLoading()

	// Token arrives before any sources event.
	conv.AppendToLast("hello")

	last, _ := conv.LastMessage()
	if last.Role != RoleBot {
		t.Fatalf("last Role = %q, want 'bot'", last.Role)
	}
	if last.Text != "hello" {
		t.Errorf("Text = %q, want 'hello'", last.Text)
	}
	if last.Sources == nil || len(last.Sources) != 0 {
		t.Errorf("Sources = %v, want empty slice", last.Sources)
	}
	if conv.IsLoading {
		t.Error("synthesized answer should clear loading")
	}
}

func TestConversation_AppendToLast_CopyOnWrite(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("question")
	conv.BeginBotAnswer(nil)
	conv.AppendToLast("A")

	// A snapshot taken by the view must not change under later appends.
	snapshot, _ := conv.LastMessage()
	conv.AppendToLast("B")

	if snapshot.Text != "A" {
		t.Errorf("snapshot Text = %q, want 'A'", snapshot.Text)
	}
}

func TestConversation_StartNewChat(t *testing.T) {
	conv := NewConversation()
	oldID := conv.SessionID
	conv.AddUserMessage("question")
	conv.StartLoading()
	conv.TriggerHistoryRefresh()

	conv.StartNewChat()

	if conv.SessionID == oldID {
		t.Error("StartNewChat should generate a new session ID")
	}
	if len(conv.Messages) != 1 || conv.Messages[0].Text != GreetingText {
		t.Errorf("messages = %+v, want only the greeting", conv.Messages)
	}
	if conv.IsLoading {
		t.Error("StartNewChat should clear loading")
	}
	if conv.HistoryRefreshTrigger != 1 {
		t.Errorf("HistoryRefreshTrigger = %d, want 1 (carried over)", conv.HistoryRefreshTrigger)
	}
}

func TestConversation_LoadConversation(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("unsaved")
	conv.StartLoading()

	history := []api.HistoryMessage{
		{Role: "user", Text: "what is docsage?"},
		{Role: "bot", Text: "a document QA tool", Sources: []api.Source{{Filename: "readme.md"}}},
	}
	conv.LoadConversation("persisted-id", history)

	if conv.SessionID != "persisted-id" {
		t.Errorf("SessionID = %q, want 'persisted-id'", conv.SessionID)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(conv.Messages))
	}
	if conv.Messages[0].Role != RoleUser || conv.Messages[1].Role != RoleBot {
		t.Errorf("roles = %q, %q", conv.Messages[0].Role, conv.Messages[1].Role)
	}
	if conv.Messages[0].Sources == nil {
		t.Error("Sources should be normalized to an empty slice")
	}
	if conv.IsLoading {
		t.Error("LoadConversation should clear loading")
	}
}

func TestConversation_TriggerHistoryRefresh(t *testing.T) {
	conv := NewConversation()

	conv.TriggerHistoryRefresh()
	conv.TriggerHistoryRefresh()

	if conv.HistoryRefreshTrigger != 2 {
		t.Errorf("HistoryRefreshTrigger = %d, want 2", conv.HistoryRefreshTrigger)
	}
}

func TestConversation_Title(t *testing.T) {
	conv := NewConversation()
	if conv.Title() != "New chat" {
		t.Errorf("Title() = %q, want 'New chat'", conv.Title())
	}

	conv.AddUserMessage("what is the refund policy?")
	if conv.Title() != "what is the refund policy?" {
		t.Errorf("Title() = %q", conv.Title())
	}
}

func TestConversation_Title_MultibyteTruncation(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage(strings.Repeat("保", 60))

	title := conv.Title()
	if !utf8.ValidString(title) {
		t.Fatalf("Title() = %q is not valid UTF-8", title)
	}
	if got := utf8.RuneCountInString(title); got != 50 {
		t.Errorf("Title() has %d runes, want 50", got)
	}
}
