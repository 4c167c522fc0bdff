// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/docsage/docsage-tui/internal/api"
	"github.com/docsage/docsage-tui/internal/config"
)

// LoadConfig loads the docsage configuration with CLI overrides applied.
func LoadConfig(args Args) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.Default()
	}
	if args.Backend != "" {
		cfg.Backend.URL = args.Backend
	}
	if args.TopK > 0 {
		cfg.Query.TopK = args.TopK
	}
	return cfg
}

// NewAPIClient builds an API client from the loaded configuration.
func NewAPIClient(args Args) (*api.Client, *config.Config) {
	cfg := LoadConfig(args)
	return api.NewClientWithConfig(cfg.ClientConfig()), cfg
}

// printSources writes a source citation list to stdout.
func printSources(sources []api.Source) {
	if len(sources) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(SectionStyle.Render("Sources"))
	for _, src := range sources {
		line := "  • " + src.Filename
		if src.Page != nil {
			line += " (p. " + strconv.Itoa(*src.Page) + ")"
		}
		fmt.Println(MetaStyle.Render(line))
	}
}

// exitErr prints an error and exits with status 1.
func exitErr(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("Error:"), friendlyError(err))
	os.Exit(1)
}

// friendlyError rewrites common API failures into actionable messages.
func friendlyError(err error) string {
	switch {
	case api.IsUnreachable(err):
		return "cannot reach the backend. Is the document QA server running?"
	case api.IsTimeout(err):
		return "the backend took too long to respond."
	default:
		return err.Error()
	}
}
