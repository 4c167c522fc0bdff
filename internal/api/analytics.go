// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "context"

// =============================================================================
// ANALYTICS OPERATIONS
// =============================================================================

// Overview returns the backend's headline counters.
func (c *Client) Overview(ctx context.Context) (*AnalyticsOverview, error) {
	var overview AnalyticsOverview
	if err := c.getJSON(ctx, "/api/analytics/overview", &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

// Latency returns the query latency histogram as bucket label to count,
// e.g. "0-0.5s" -> 12.
func (c *Client) Latency(ctx context.Context) (map[string]int, error) {
	var histogram map[string]int
	if err := c.getJSON(ctx, "/api/analytics/latency", &histogram); err != nil {
		return nil, err
	}
	if histogram == nil {
		histogram = map[string]int{}
	}
	return histogram, nil
}

// Precision returns the retrieval precision metrics keyed by cutoff,
// e.g. "p_at_5" -> 0.82.
func (c *Client) Precision(ctx context.Context) (map[string]float64, error) {
	var precision map[string]float64
	if err := c.getJSON(ctx, "/api/analytics/precision", &precision); err != nil {
		return nil, err
	}
	if precision == nil {
		precision = map[string]float64{}
	}
	return precision, nil
}

// =============================================================================
// BACKEND CONFIGURATION
// =============================================================================

// Models returns the backend's ingestion configuration.
func (c *Client) Models(ctx context.Context) (*ModelConfig, error) {
	var cfg ModelConfig
	if err := c.getJSON(ctx, "/api/config/models", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
