package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileWritesTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Storage.Backend != BackendFile {
		t.Errorf("backend = %q, want file", cfg.Storage.Backend)
	}
	if cfg.Storage.DataDir != filepath.Join(dir, "data") {
		t.Errorf("data dir = %q", cfg.Storage.DataDir)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("template not written: %v", err)
	}

	// The template itself must parse to the same defaults.
	again, err := LoadFile(path)
	if err != nil {
		t.Fatalf("parsing written template: %v", err)
	}
	if again.Outlook.Collection != DefaultOutlookCollection || again.Storage.DefaultCollection != DefaultCollection {
		t.Errorf("template config = %+v", again)
	}
	if again.Storage.DataDir != filepath.Join(dir, "data") {
		t.Errorf("template data dir = %q, want default", again.Storage.DataDir)
	}
	if want := filepath.Join(dir, "auth", "msgraph_tokens.json"); again.Outlook.TokenFile != want {
		t.Errorf("token file = %q, want %q", again.Outlook.TokenFile, want)
	}
}

func TestLoadFileTokenFileOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data := `{ "outlook": { "token_file": "/var/lib/nexus/graph.json" } }`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Outlook.TokenFile != "/var/lib/nexus/graph.json" {
		t.Errorf("token file = %q", cfg.Outlook.TokenFile)
	}
	if cfg.Outlook.Collection != DefaultOutlookCollection {
		t.Errorf("collection = %q, want default", cfg.Outlook.Collection)
	}
}

func TestLoadFilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `// only the backend
{
  "storage": { "backend": "sqlite" }
}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Backend != BackendSQLite {
		t.Errorf("backend = %q, want sqlite", cfg.Storage.Backend)
	}
	if cfg.Outlook.TenantID != DefaultTenantID || cfg.LogLevel != DefaultLogLevel {
		t.Errorf("defaults not filled: %+v", cfg)
	}
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg.Storage.Backend != BackendFile {
		t.Errorf("fallback backend = %q, want file", cfg.Storage.Backend)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"NEXUS_BACKEND":     "redis",
		"REDIS_ADDR":        "cache:6380",
		"REDIS_DB":          "2",
		"NEXUS_ASSISTANT":   "claude",
		"ANTHROPIC_API_KEY": "sk-test",
		"GEMINI_API_KEY":    "ignored",
	}
	cfg := defaultConfig(t.TempDir())
	applyEnv(&cfg, func(k string) string { return env[k] })

	if cfg.Storage.Backend != BackendRedis || cfg.Storage.RedisAddr != "cache:6380" || cfg.Storage.RedisDB != 2 {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Assistant.Provider != ProviderClaude || cfg.Assistant.APIKey != "sk-test" {
		t.Errorf("assistant = %+v", cfg.Assistant)
	}
}

func TestStripLineComments(t *testing.T) {
	in := []byte("// a\n{\n  // b\n  \"x\": 1 // kept\n}")
	got := string(stripLineComments(in))
	want := "{\n  \"x\": 1 // kept\n}\n"
	if got != want {
		t.Errorf("stripLineComments = %q, want %q", got, want)
	}
}
