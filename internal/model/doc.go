// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// The store is synchronous and performs no I/O. All mutation happens on the
// UI event loop; background goroutines communicate through messages, never
// by touching the store directly, so nothing here takes a lock.
package model
