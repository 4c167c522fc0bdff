// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/docsage/docsage-tui/internal/api"
)

// GreetingText seeds every fresh conversation so the chat view never opens
// onto an empty transcript.
const GreetingText = "Hello! Ask me anything about your documents."

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds the live chat state for one session.
type Conversation struct {
	// SessionID is generated client-side; the backend adopts it on the
	// first query of the session.
	SessionID string `json:"session_id"`

	Messages []Message `json:"messages"`

	// IsLoading is true between submitting a query and the first answer
	// event (or failure).
	IsLoading bool `json:"-"`

	// HistoryRefreshTrigger is a monotonic counter. The history panel
	// refetches the session list whenever it observes a change.
	HistoryRefreshTrigger int `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewConversation creates a fresh conversation with a generated session ID,
// seeded with the greeting message.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		SessionID: uuid.NewString(),
		Messages:  []Message{NewBotMessage(GreetingText, nil)},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message to the conversation.
func (c *Conversation) AddMessage(msg Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
}

// AddUserMessage creates and appends a user message.
func (c *Conversation) AddUserMessage(text string) {
	c.AddMessage(NewUserMessage(text))
}

// AddErrorMessage appends a synthetic bot message describing a failure
// and clears the loading state.
func (c *Conversation) AddErrorMessage(text string) {
	c.IsLoading = false
	c.AddMessage(NewErrorMessage(text))
}

// LastMessage returns the most recent message and true, or false if the
// conversation is empty.
func (c *Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// =============================================================================
// STREAMING
// =============================================================================

// BeginBotAnswer clears the loading indicator and appends an empty bot
// message carrying the given sources. The stream pipeline applies this at
// most once per turn.
func (c *Conversation) BeginBotAnswer(sources []api.Source) {
	c.IsLoading = false
	c.AddMessage(NewBotMessage("", sources))
}

// AppendToLast appends a token to the last message if it is a bot message,
// replacing the element with an updated copy. If the last message is not a
// bot answer (the token raced ahead of the sources event), a bot message
// with empty sources is synthesized first so the token is never lost.
func (c *Conversation) AppendToLast(token string) {
	last, ok := c.LastMessage()
	if !ok || last.Role != RoleBot {
		c.BeginBotAnswer(nil)
		last, _ = c.LastMessage()
	}
	c.Messages[len(c.Messages)-1] = last.WithToken(token)
	c.UpdatedAt = time.Now()
}

// =============================================================================
// LOADING STATE
// =============================================================================

// StartLoading marks the conversation as waiting for an answer. Idempotent.
func (c *Conversation) StartLoading() {
	c.IsLoading = true
}

// StopLoading clears the waiting state. Idempotent.
func (c *Conversation) StopLoading() {
	c.IsLoading = false
}

// =============================================================================
// SESSION MANAGEMENT
// =============================================================================

// StartNewChat resets the conversation to a fresh session: new ID, seed
// greeting, loading cleared. The refresh counter carries over so the
// history panel keeps its place.
func (c *Conversation) StartNewChat() {
	fresh := NewConversation()
	fresh.HistoryRefreshTrigger = c.HistoryRefreshTrigger
	*c = *fresh
}

// LoadConversation replaces the live state wholesale with a persisted
// session fetched from the backend.
func (c *Conversation) LoadConversation(sessionID string, history []api.HistoryMessage) {
	messages := make([]Message, 0, len(history))
	for _, h := range history {
		role := RoleBot
		if h.Role == string(RoleUser) {
			role = RoleUser
		}
		msg := Message{
			Role:      role,
			Text:      h.Text,
			Sources:   h.Sources,
			Timestamp: time.Now(),
		}
		if msg.Sources == nil {
			msg.Sources = []api.Source{}
		}
		messages = append(messages, msg)
	}

	c.SessionID = sessionID
	c.Messages = messages
	c.IsLoading = false
	c.UpdatedAt = time.Now()
}

// TriggerHistoryRefresh bumps the refresh counter, signalling the history
// panel to refetch the session list.
func (c *Conversation) TriggerHistoryRefresh() {
	c.HistoryRefreshTrigger++
}

// titleRunes caps derived session titles. Counted in runes so a
// multi-byte character is never split mid-sequence.
const titleRunes = 50

// Title derives a session title from the first user message, mirroring how
// the backend titles persisted sessions.
func (c *Conversation) Title() string {
	for _, msg := range c.Messages {
		if msg.Role == RoleUser {
			if runes := []rune(msg.Text); len(runes) > titleRunes {
				return string(runes[:titleRunes])
			}
			return msg.Text
		}
	}
	return "New chat"
}
