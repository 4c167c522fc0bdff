// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Backend status command handler.
//
// Handles "docsage status": backend reachability, corpus totals, and the
// backend's ingestion configuration in one glance.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/docsage/docsage-tui/internal/api"
	"github.com/docsage/docsage-tui/internal/ui/components"
)

// HandleStatus prints backend health and corpus statistics.
func HandleStatus(args Args) {
	client, cfg := NewAPIClient(args)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	healthy := client.Health(ctx) == nil

	if args.JSON {
		statusJSON(ctx, client, healthy)
		return
	}

	fmt.Println(TitleStyle.Render("docsage status"))
	fmt.Printf("%s%s\n", LabelStyle.Render("Backend"), ValueStyle.Render(cfg.Backend.URL))

	if !healthy {
		fmt.Printf("%s%s\n", LabelStyle.Render("Health"), ErrorStyle.Render("unreachable"))
		fmt.Println()
		fmt.Println(MetaStyle.Render("Start the document QA server and try again."))
		return
	}
	fmt.Printf("%s%s\n", LabelStyle.Render("Health"), SuccessStyle.Render("ok"))

	if overview, err := client.Overview(ctx); err == nil {
		fmt.Printf("%s%s\n", LabelStyle.Render("Documents"), ValueStyle.Render(components.FmtNumber(overview.TotalDocuments)))
		fmt.Printf("%s%s\n", LabelStyle.Render("Chunks"), ValueStyle.Render(components.FmtNumber(overview.TotalChunks)))
		fmt.Printf("%s%s\n", LabelStyle.Render("Queries"), ValueStyle.Render(components.FmtNumber(overview.TotalQueries)))
		fmt.Printf("%s%s\n", LabelStyle.Render("Avg response"), ValueStyle.Render(fmt.Sprintf("%.2fs", overview.AvgResponseTime)))
	}

	if models, err := client.Models(ctx); err == nil {
		fmt.Println(SectionStyle.Render("Ingestion"))
		fmt.Printf("%s%s\n", LabelStyle.Render("Embedding model"), ValueStyle.Render(models.EmbeddingModel))
		fmt.Printf("%s%s\n", LabelStyle.Render("Chunk size"), ValueStyle.Render(fmt.Sprintf("%d", models.ChunkSize)))
		fmt.Printf("%s%s\n", LabelStyle.Render("Chunk overlap"), ValueStyle.Render(fmt.Sprintf("%d", models.ChunkOverlap)))
	}
}

func statusJSON(ctx context.Context, client *api.Client, healthy bool) {
	payload := struct {
		Healthy  bool                   `json:"healthy"`
		Overview *api.AnalyticsOverview `json:"overview,omitempty"`
		Models   *api.ModelConfig       `json:"models,omitempty"`
	}{Healthy: healthy}

	if healthy {
		payload.Overview, _ = client.Overview(ctx)
		payload.Models, _ = client.Models(ctx)
	}

	out, _ := json.MarshalIndent(payload, "", "  ")
	fmt.Println(string(out))
}
