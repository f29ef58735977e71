package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the root configuration for nexus, stored in ~/.nexus/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Storage   StorageConfig   `json:"storage"`
	Assistant AssistantConfig `json:"assistant"`
	Outlook   OutlookConfig   `json:"outlook"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	// Backend is "file", "sqlite", "redis" or "postgres".
	Backend string `json:"backend"`
	// DataDir holds the JSON files of the file backend.
	DataDir string `json:"data_dir"`
	// SQLitePath is the database file of the sqlite backend.
	SQLitePath    string `json:"sqlite_path"`
	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`
	PostgresURL   string `json:"postgres_url"`
	// DefaultCollection receives items created without a collection.
	DefaultCollection string `json:"default_collection"`
}

// AssistantConfig configures the optional remote classifier.
type AssistantConfig struct {
	// Provider is "", "gemini" or "claude". Empty disables the assistant.
	Provider string `json:"provider"`
	Model    string `json:"model"`
	// APIKey is read from the environment only, never from the file.
	APIKey string `json:"-"`
}

// OutlookConfig holds Microsoft Graph / Outlook calendar import settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `json:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `json:"client_id"`
	// Collection is the collection id imported events are saved to.
	Collection string `json:"collection"`
	// Timezone is the IANA timezone for event times (e.g. "Europe/Berlin"). Empty = UTC.
	Timezone string `json:"timezone"`
	// TokenFile caches the OAuth2 token between runs.
	TokenFile string `json:"token_file"`
}

const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"

	ProviderGemini = "gemini"
	ProviderClaude = "claude"

	// DefaultTenantID is the Microsoft "common" tenant.
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID. It supports
	// device code flow without a client secret or app registration.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
	// DefaultOutlookCollection is the seeded "Work Calendar" collection.
	DefaultOutlookCollection = "4"
	DefaultCollection        = "1"
	DefaultRedisAddr         = "localhost:6379"
	DefaultLogLevel          = "warn"
)

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing.
const configTemplate = `// nexus configuration – ~/.nexus/config.json
//
// All settings are optional. Secrets (API keys, passwords in URLs) are best
// kept in the environment or in a .env file in the working directory.
{
  // ── Storage ─────────────────────────────────────────────────────────────
  "storage": {
    // "file" (JSON files), "sqlite", "redis" or "postgres".
    // Override with NEXUS_BACKEND.
    "backend": "file",

    // Directory of the file backend. Empty = ~/.nexus/data. Override with NEXUS_DATA_DIR.
    "data_dir": "",

    // Database file of the sqlite backend. Empty = ~/.nexus/nexus.db. Override with NEXUS_SQLITE_PATH.
    "sqlite_path": "",

    // Redis server of the redis backend. Override with REDIS_ADDR.
    "redis_addr": "localhost:6379",
    "redis_db": 0,

    // Connection URL of the postgres backend. Override with NEXUS_POSTGRES_URL.
    "postgres_url": "",

    // Collection that receives new items ("1" = My Research).
    "default_collection": "1"
  },

  // ── Assistant ───────────────────────────────────────────────────────────
  "assistant": {
    // "" (off), "gemini" or "claude". The key comes from GEMINI_API_KEY /
    // GOOGLE_API_KEY or ANTHROPIC_API_KEY.
    "provider": "",
    // Empty = provider default.
    "model": ""
  },

  // ── Microsoft Graph / Outlook calendar import ───────────────────────────
  "outlook": {
    // Azure AD tenant ID: "common" or your organisation's tenant GUID.
    "tenant_id": "common",

    // Azure application (client) ID used for the OAuth2 device code flow.
    // The built-in value is the public Azure CLI app – no app registration needed.
    "client_id": "04b07795-8542-4c4a-95af-30b2c573d5ab",

    // Collection imported events are saved to ("4" = Work Calendar).
    "collection": "4",

    // IANA timezone for event times, e.g. "Europe/Berlin". Empty = UTC.
    "timezone": "",

    // Where the sign-in token is cached. Empty = ~/.nexus/auth/msgraph_tokens.json.
    "token_file": ""
  },

  // debug, info, warn or error. Override with NEXUS_LOG_LEVEL.
  "log_level": "warn"
}
`

// HomeDir returns ~/.nexus.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".nexus"), nil
}

// defaultConfig returns a Config pre-filled with defaults rooted at dir.
func defaultConfig(dir string) Config {
	return Config{
		Storage: StorageConfig{
			Backend:           BackendFile,
			DataDir:           filepath.Join(dir, "data"),
			SQLitePath:        filepath.Join(dir, "nexus.db"),
			RedisAddr:         DefaultRedisAddr,
			DefaultCollection: DefaultCollection,
		},
		Outlook: OutlookConfig{
			TenantID:   DefaultTenantID,
			ClientID:   DefaultClientID,
			Collection: DefaultOutlookCollection,
			TokenFile:  filepath.Join(dir, "auth", "msgraph_tokens.json"),
		},
		LogLevel: DefaultLogLevel,
	}
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load loads .env from the working directory, then ~/.nexus/config.json
// (writing the annotated template on first run), then applies environment
// overrides.
func Load() (Config, error) {
	_ = godotenv.Load()

	dir, err := HomeDir()
	if err != nil {
		return defaultConfig("."), err
	}
	cfg, err := LoadFile(filepath.Join(dir, "config.json"))
	applyEnv(&cfg, os.Getenv)
	return cfg, err
}

// LoadFile reads the config at path. Missing files are created from the
// template; zero fields are filled with defaults rooted at the file's directory.
func LoadFile(path string) (Config, error) {
	defaults := defaultConfig(filepath.Dir(path))

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaults, nil
	}
	if err != nil {
		return defaults, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
		return defaults, fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	fillDefaults(&cfg, defaults)
	return cfg, nil
}

func fillDefaults(cfg *Config, d Config) {
	setIfEmpty(&cfg.Storage.Backend, d.Storage.Backend)
	setIfEmpty(&cfg.Storage.DataDir, d.Storage.DataDir)
	setIfEmpty(&cfg.Storage.SQLitePath, d.Storage.SQLitePath)
	setIfEmpty(&cfg.Storage.RedisAddr, d.Storage.RedisAddr)
	setIfEmpty(&cfg.Storage.DefaultCollection, d.Storage.DefaultCollection)
	setIfEmpty(&cfg.Outlook.TenantID, d.Outlook.TenantID)
	setIfEmpty(&cfg.Outlook.ClientID, d.Outlook.ClientID)
	setIfEmpty(&cfg.Outlook.Collection, d.Outlook.Collection)
	setIfEmpty(&cfg.Outlook.TokenFile, d.Outlook.TokenFile)
	setIfEmpty(&cfg.LogLevel, d.LogLevel)
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// applyEnv overrides cfg from environment variables read through getenv.
func applyEnv(cfg *Config, getenv func(string) string) {
	override := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	override(&cfg.Storage.Backend, "NEXUS_BACKEND")
	override(&cfg.Storage.DataDir, "NEXUS_DATA_DIR")
	override(&cfg.Storage.SQLitePath, "NEXUS_SQLITE_PATH")
	override(&cfg.Storage.RedisAddr, "REDIS_ADDR")
	override(&cfg.Storage.RedisPassword, "REDIS_PASSWORD")
	override(&cfg.Storage.PostgresURL, "NEXUS_POSTGRES_URL")
	override(&cfg.Assistant.Provider, "NEXUS_ASSISTANT")
	override(&cfg.Assistant.Model, "NEXUS_ASSISTANT_MODEL")
	override(&cfg.LogLevel, "NEXUS_LOG_LEVEL")
	if v := getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Storage.RedisDB = n
		}
	}

	switch cfg.Assistant.Provider {
	case ProviderGemini:
		override(&cfg.Assistant.APIKey, "GOOGLE_API_KEY")
		override(&cfg.Assistant.APIKey, "GEMINI_API_KEY")
	case ProviderClaude:
		override(&cfg.Assistant.APIKey, "ANTHROPIC_API_KEY")
	}
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
