// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the document QA backend.
//
// The backend exposes a REST surface for documents, sessions, analytics and
// configuration, plus a server-sent-event stream for chat answers. This
// package owns the wire types, error taxonomy and SSE decoding; everything
// above it works with decoded values only.
package api
