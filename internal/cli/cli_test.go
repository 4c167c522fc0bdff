// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"testing"

	"github.com/docsage/docsage-tui/internal/config"
)

func parseArgs(t *testing.T, argv ...string) (Command, Args) {
	t.Helper()

	oldArgs := os.Args
	os.Args = append([]string{"docsage"}, argv...)
	defer func() { os.Args = oldArgs }()

	return Parse()
}

func TestParse_DefaultsToTUI(t *testing.T) {
	cmd, _ := parseArgs(t)
	if cmd != CmdTUI {
		t.Errorf("Parse() = %v, want CmdTUI", cmd)
	}
}

func TestParse_Commands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{[]string{"tui"}, CmdTUI},
		{[]string{"ask", "what", "is", "this"}, CmdAsk},
		{[]string{"chat"}, CmdChat},
		{[]string{"sessions"}, CmdSessions},
		{[]string{"session", "list"}, CmdSessions},
		{[]string{"docs"}, CmdDocs},
		{[]string{"documents", "upload", "a.pdf"}, CmdDocs},
		{[]string{"status"}, CmdStatus},
		{[]string{"s"}, CmdStatus},
		{[]string{"config"}, CmdConfig},
		{[]string{"version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
	}

	for _, tt := range tests {
		cmd, _ := parseArgs(t, tt.argv...)
		if cmd != tt.want {
			t.Errorf("Parse(%v) = %v, want %v", tt.argv, cmd, tt.want)
		}
	}
}

func TestParse_AskJoinsQuery(t *testing.T) {
	_, args := parseArgs(t, "ask", "what", "is", "the", "refund", "policy")
	if args.Query != "what is the refund policy" {
		t.Errorf("Query = %q, want joined words", args.Query)
	}
}

func TestParse_BareQuestionBecomesAsk(t *testing.T) {
	cmd, args := parseArgs(t, "what", "does", "clause", "4", "say")
	if cmd != CmdAsk {
		t.Fatalf("Parse() = %v, want CmdAsk", cmd)
	}
	if args.Query != "what does clause 4 say" {
		t.Errorf("Query = %q, want the full question", args.Query)
	}
}

func TestParse_GlobalFlags(t *testing.T) {
	cmd, args := parseArgs(t, "--backend", "http://10.0.0.5:8000", "--top-k", "8", "--json", "-q", "status")
	if cmd != CmdStatus {
		t.Fatalf("Parse() = %v, want CmdStatus", cmd)
	}
	if args.Backend != "http://10.0.0.5:8000" {
		t.Errorf("Backend = %q", args.Backend)
	}
	if args.TopK != 8 {
		t.Errorf("TopK = %d, want 8", args.TopK)
	}
	if !args.JSON || !args.Quiet {
		t.Error("JSON and Quiet flags should be set")
	}
}

func TestParse_InvalidTopKIgnored(t *testing.T) {
	_, args := parseArgs(t, "--top-k", "zero", "status")
	if args.TopK != 0 {
		t.Errorf("TopK = %d, want 0 for invalid input", args.TopK)
	}
}

func TestParse_ConfigSet(t *testing.T) {
	cmd, args := parseArgs(t, "config", "set", "query.top_k", "8")
	if cmd != CmdConfig {
		t.Fatalf("Parse() = %v, want CmdConfig", cmd)
	}
	if args.Subcommand != "set" || args.ConfigKey != "query.top_k" || args.ConfigVal != "8" {
		t.Errorf("config args = %q %q %q", args.Subcommand, args.ConfigKey, args.ConfigVal)
	}
}

func TestParse_SubcommandAndRaw(t *testing.T) {
	_, args := parseArgs(t, "docs", "delete", "12")
	if args.Subcommand != "delete" {
		t.Errorf("Subcommand = %q, want delete", args.Subcommand)
	}
	if len(args.Raw) != 1 || args.Raw[0] != "12" {
		t.Errorf("Raw = %v, want [12]", args.Raw)
	}
}

func TestApplyConfigValue(t *testing.T) {
	cfg := config.Default()

	if err := applyConfigValue(cfg, "query.top_k", "9"); err != nil {
		t.Fatalf("applyConfigValue: %v", err)
	}
	if cfg.Query.TopK != 9 {
		t.Errorf("TopK = %d, want 9", cfg.Query.TopK)
	}

	if err := applyConfigValue(cfg, "cache.enabled", "false"); err != nil {
		t.Fatalf("applyConfigValue: %v", err)
	}
	if cfg.Cache.Enabled {
		t.Error("cache.enabled should be false")
	}

	if err := applyConfigValue(cfg, "query.top_k", "lots"); err == nil {
		t.Error("non-numeric top_k should error")
	}
	if err := applyConfigValue(cfg, "no.such.key", "x"); err == nil {
		t.Error("unknown key should error")
	}
}

func TestLoadConfig_AppliesOverrides(t *testing.T) {
	cfg := LoadConfig(Args{Backend: "http://override:8000", TopK: 3})
	if cfg.Backend.URL != "http://override:8000" {
		t.Errorf("Backend.URL = %q, want CLI override", cfg.Backend.URL)
	}
	if cfg.Query.TopK != 3 {
		t.Errorf("TopK = %d, want 3", cfg.Query.TopK)
	}
}
