// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration command handlers.
//
// Handles "docsage config" subcommands:
//
//	show          Print the effective configuration (default)
//	set KEY VAL   Set a value and save the config file
//	path          Print the config file path
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/docsage/docsage-tui/internal/config"
)

// HandleConfig routes the config subcommands.
func HandleConfig(args Args) {
	switch args.Subcommand {
	case "", "show":
		configShow(args)
	case "set":
		configSet(args)
	case "path":
		configPath()
	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand %q\n", args.Subcommand)
		fmt.Fprintln(os.Stderr, "Usage: docsage config [show|set|path]")
		os.Exit(1)
	}
}

func configShow(args Args) {
	cfg := LoadConfig(args)

	if args.JSON {
		out, _ := json.MarshalIndent(cfg, "", "  ")
		fmt.Println(string(out))
		return
	}

	fmt.Println(TitleStyle.Render("Configuration"))
	fmt.Printf("%s%s\n", LabelStyle.Render("backend.url"), ValueStyle.Render(cfg.Backend.URL))
	fmt.Printf("%s%s\n", LabelStyle.Render("backend.request_timeout_secs"), ValueStyle.Render(strconv.Itoa(cfg.Backend.RequestTimeoutSecs)))
	fmt.Printf("%s%s\n", LabelStyle.Render("backend.stream_idle_timeout_secs"), ValueStyle.Render(strconv.Itoa(cfg.Backend.StreamIdleTimeoutSecs)))
	fmt.Printf("%s%s\n", LabelStyle.Render("query.top_k"), ValueStyle.Render(strconv.Itoa(cfg.Query.TopK)))
	fmt.Printf("%s%s\n", LabelStyle.Render("cache.enabled"), ValueStyle.Render(strconv.FormatBool(cfg.Cache.Enabled)))
	fmt.Printf("%s%s\n", LabelStyle.Render("ui.theme"), ValueStyle.Render(cfg.UI.Theme))
}

func configSet(args Args) {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		fmt.Fprintln(os.Stderr, "Usage: docsage config set KEY VALUE")
		fmt.Fprintln(os.Stderr, "Keys: backend.url, backend.request_timeout_secs, query.top_k, cache.enabled, ui.theme")
		os.Exit(1)
	}

	cfg := LoadConfig(Args{})
	if err := applyConfigValue(cfg, args.ConfigKey, args.ConfigVal); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("Error:"), err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("Error:"), err)
		os.Exit(1)
	}
	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("Error:"), err)
		os.Exit(1)
	}

	fmt.Printf("%s %s = %s\n", SuccessStyle.Render("✓"), args.ConfigKey, args.ConfigVal)
}

func applyConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "backend.url":
		cfg.Backend.URL = value
	case "backend.request_timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be a number", key)
		}
		cfg.Backend.RequestTimeoutSecs = n
	case "backend.stream_idle_timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be a number", key)
		}
		cfg.Backend.StreamIdleTimeoutSecs = n
	case "query.top_k":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be a number", key)
		}
		cfg.Query.TopK = n
	case "cache.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false", key)
		}
		cfg.Cache.Enabled = b
	case "cache.path":
		cfg.Cache.Path = value
	case "cache.max_sessions":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be a number", key)
		}
		cfg.Cache.MaxSessions = n
	case "ui.theme":
		cfg.UI.Theme = value
	case "ui.show_sources":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false", key)
		}
		cfg.UI.ShowSources = b
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}

func configPath() {
	path, err := config.ConfigPathTOML()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("Error:"), err)
		os.Exit(1)
	}
	fmt.Println(path)
}
