// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Concurrent access tests for the transcript cache. The TUI writes to the
// cache from stream-completion goroutines while the history panel reads.
package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docsage/docsage-tui/internal/api"
)

func TestCache_ConcurrentPutHistory(t *testing.T) {
	c := testCache(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			sid := fmt.Sprintf("session-%d", n)
			err := c.PutHistory(ctx, sid, []api.HistoryMessage{
				{Role: "user", Text: fmt.Sprintf("question %d", n)},
				{Role: "bot", Text: "answer"},
			})
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		out, err := c.History(ctx, fmt.Sprintf("session-%d", i))
		require.NoError(t, err)
		require.Len(t, out, 2)
	}
}

func TestCache_ConcurrentReadWrite(t *testing.T) {
	c := testCache(t)
	ctx := context.Background()

	require.NoError(t, c.PutSessions(ctx, []api.SessionInfo{
		{SessionID: "s1", Title: "Shared"},
	}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if n%2 == 0 {
				_, err := c.Sessions(ctx)
				require.NoError(t, err)
				return
			}
			err := c.PutHistory(ctx, "s1", []api.HistoryMessage{
				{Role: "user", Text: "hi"},
			})
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	out, err := c.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
}
