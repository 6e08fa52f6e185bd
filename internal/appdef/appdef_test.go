// ABOUTME: Tests for app definition loading and validation
// ABOUTME: Covers TOML parsing, env expansion, transport rules, and directory loading

package appdef

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDef(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing definition: %v", err)
	}
	return path
}

func TestLoad_StdioApp(t *testing.T) {
	path := writeDef(t, t.TempDir(), "github.toml", `
name = "github"
description = "GitHub tools"
transport = "stdio"
command = "mcp-github"
args = ["--readonly"]
max_sessions = 4

[env]
MODE = "strict"
`)

	def, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if def.Name != "github" {
		t.Errorf("Name = %q", def.Name)
	}
	if def.Transport != "stdio" {
		t.Errorf("Transport = %q", def.Transport)
	}
	if def.Command != "mcp-github" {
		t.Errorf("Command = %q", def.Command)
	}
	if len(def.Args) != 1 || def.Args[0] != "--readonly" {
		t.Errorf("Args = %v", def.Args)
	}
	if def.Env["MODE"] != "strict" {
		t.Errorf("Env = %v", def.Env)
	}
	if def.MaxSessions != 4 {
		t.Errorf("MaxSessions = %d", def.MaxSessions)
	}
}

func TestLoad_HTTPApp(t *testing.T) {
	path := writeDef(t, t.TempDir(), "search.toml", `
name = "search"
transport = "http"
url = "https://search.internal.example.com/mcp"
`)

	def, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if def.URL != "https://search.internal.example.com/mcp" {
		t.Errorf("URL = %q", def.URL)
	}
	if def.Command != "" {
		t.Errorf("Command = %q, want empty", def.Command)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("SIGIL_TEST_SECRET", "hunter2")

	path := writeDef(t, t.TempDir(), "app.toml", `
name = "app"
transport = "stdio"
command = "mcp-app"

[env]
TOKEN = "${SIGIL_TEST_SECRET}"
`)

	def, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if def.Env["TOKEN"] != "hunter2" {
		t.Errorf("Env[TOKEN] = %q, want expanded secret", def.Env["TOKEN"])
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			"missing name",
			"transport = \"stdio\"\ncommand = \"x\"\n",
		},
		{
			"unknown transport",
			"name = \"a\"\ntransport = \"grpc\"\ncommand = \"x\"\n",
		},
		{
			"stdio without command",
			"name = \"a\"\ntransport = \"stdio\"\n",
		},
		{
			"http without url",
			"name = \"a\"\ntransport = \"http\"\n",
		},
		{
			"stdio with url",
			"name = \"a\"\ntransport = \"stdio\"\ncommand = \"x\"\nurl = \"https://x.example.com\"\n",
		},
		{
			"http with command",
			"name = \"a\"\ntransport = \"http\"\nurl = \"https://x.example.com\"\ncommand = \"x\"\n",
		},
		{
			"negative max_sessions",
			"name = \"a\"\ntransport = \"stdio\"\ncommand = \"x\"\nmax_sessions = -1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDef(t, t.TempDir(), "app.toml", tt.content)
			if _, err := Load(path); err == nil {
				t.Error("Load() error = nil, want validation error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("Load() error = nil, want error")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeDef(t, t.TempDir(), "bad.toml", "name = [unclosed")
	if _, err := Load(path); err == nil {
		t.Fatal("Load() error = nil, want parse error")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "zz-search.toml", "name = \"search\"\ntransport = \"http\"\nurl = \"https://s.example.com\"\n")
	writeDef(t, dir, "aa-github.toml", "name = \"github\"\ntransport = \"stdio\"\ncommand = \"mcp-github\"\n")
	writeDef(t, dir, "notes.txt", "ignored")

	defs, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("LoadDir() returned %d definitions, want 2", len(defs))
	}
	// Sorted by app name, not file name.
	if defs[0].Name != "github" || defs[1].Name != "search" {
		t.Errorf("order = [%s, %s], want [github, search]", defs[0].Name, defs[1].Name)
	}
}

func TestLoadDir_DuplicateName(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "one.toml", "name = \"dup\"\ntransport = \"stdio\"\ncommand = \"a\"\n")
	writeDef(t, dir, "two.toml", "name = \"dup\"\ntransport = \"stdio\"\ncommand = \"b\"\n")

	_, err := LoadDir(dir)
	if err == nil {
		t.Fatal("LoadDir() error = nil, want duplicate error")
	}
	if !strings.Contains(err.Error(), "dup") {
		t.Errorf("error %q should name the duplicate app", err)
	}
}

func TestDefinition_AppConfig(t *testing.T) {
	def := &Definition{
		Name:        "github",
		Description: "GitHub tools",
		Transport:   "stdio",
		Command:     "mcp-github",
		Args:        []string{"--readonly"},
		Env:         map[string]string{"MODE": "strict"},
		MaxSessions: 2,
	}

	cfg := def.AppConfig()
	if cfg.Name != def.Name || cfg.Transport != def.Transport || cfg.Command != def.Command {
		t.Errorf("AppConfig() = %+v", cfg)
	}
	if cfg.MaxSessions != 2 {
		t.Errorf("MaxSessions = %d", cfg.MaxSessions)
	}
}
