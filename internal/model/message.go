// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/docsage/docsage-tui/internal/api"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleBot:
		return "Docsage"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single message in a conversation. Messages are treated as
// values: streaming updates replace the last element with a modified copy
// rather than mutating in place, so a rendered snapshot never changes
// underneath the view.
type Message struct {
	Role      Role         `json:"role"`
	Text      string       `json:"text"`
	Sources   []api.Source `json:"sources,omitempty"`
	Timestamp time.Time    `json:"timestamp"`

	// IsError marks a synthetic message describing a transport failure.
	IsError bool `json:"is_error,omitempty"`
}

// NewUserMessage creates a new user message.
func NewUserMessage(text string) Message {
	return Message{
		Role:      RoleUser,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// NewBotMessage creates a new bot message with the given sources. A nil
// sources list is normalized to an empty slice so "no citations" and
// "citations not yet known" render the same way.
func NewBotMessage(text string, sources []api.Source) Message {
	if sources == nil {
		sources = []api.Source{}
	}
	return Message{
		Role:      RoleBot,
		Text:      text,
		Sources:   sources,
		Timestamp: time.Now(),
	}
}

// NewErrorMessage creates a synthetic bot message describing a failure.
func NewErrorMessage(text string) Message {
	msg := NewBotMessage(text, nil)
	msg.IsError = true
	return msg
}

// WithToken returns a copy of the message with the token appended.
func (m Message) WithToken(token string) Message {
	m.Text += token
	return m
}

// HasSources reports whether the message carries at least one citation.
func (m Message) HasSources() bool {
	return len(m.Sources) > 0
}
