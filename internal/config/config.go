package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingAPIKey aborts startup when a hosted provider has no key.
var ErrMissingAPIKey = errors.New("missing API key")

const EnvPrefix = "TESSA"

type Provider string

const (
	ProviderGroq   Provider = "groq"
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderVertex Provider = "vertex"
	ProviderMock   Provider = "mock"
)

type StorageBackend string

const (
	StorageJSON      StorageBackend = "json"
	StorageSQLite    StorageBackend = "sqlite"
	StorageFirestore StorageBackend = "firestore"
	StorageMemory    StorageBackend = "memory"
)

type Config struct {
	Provider Provider
	APIKey   string
	Model    string
	BaseURL  string

	GCPProject  string
	GCPLocation string

	StorageBackend      StorageBackend
	StorePath           string
	SQLitePath          string
	FirestoreCollection string
	MaxConversations    int
	Timezone            string

	Port string

	UnlockPassphrase    string
	OperatorName        string
	OperatorProfileFile string
	AssetsDir           string

	FlirtyGreetingChance float64
	RateLimitRPS         float64
	RateLimitBurst       int

	LogLevel string
}

// New returns a viper instance reading TESSA_* variables, with defaults set.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	// GROQ_API_KEY is accepted as a fallback for the key.
	_ = v.BindEnv("api_key", EnvPrefix+"_API_KEY", "GROQ_API_KEY")

	SetDefaults(v)
	return v
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("provider", string(ProviderGroq))
	v.SetDefault("gcp_location", "us-central1")
	v.SetDefault("storage_backend", string(StorageJSON))
	v.SetDefault("store_path", "tessa_conversations.json")
	v.SetDefault("sqlite_path", "tessa.db")
	v.SetDefault("firestore_collection", "tessa_conversations")
	v.SetDefault("max_conversations", 50)
	v.SetDefault("timezone", "Local")
	v.SetDefault("port", "8080")
	v.SetDefault("operator_name", "the operator")
	v.SetDefault("assets_dir", "assets")
	v.SetDefault("flirty_greeting_chance", 0.4)
	v.SetDefault("rate_limit_rps", 1.0)
	v.SetDefault("rate_limit_burst", 3)
	v.SetDefault("log_level", "info")
}

// ReadFile merges an optional config file (yaml, json or toml) into v.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Load builds and validates the configuration.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Provider: Provider(strings.ToLower(v.GetString("provider"))),
		APIKey:   strings.TrimSpace(v.GetString("api_key")),
		Model:    v.GetString("model"),
		BaseURL:  v.GetString("base_url"),

		GCPProject:  v.GetString("gcp_project"),
		GCPLocation: v.GetString("gcp_location"),

		StorageBackend:      StorageBackend(strings.ToLower(v.GetString("storage_backend"))),
		StorePath:           v.GetString("store_path"),
		SQLitePath:          v.GetString("sqlite_path"),
		FirestoreCollection: v.GetString("firestore_collection"),
		MaxConversations:    v.GetInt("max_conversations"),
		Timezone:            v.GetString("timezone"),

		Port: v.GetString("port"),

		UnlockPassphrase:    v.GetString("unlock_passphrase"),
		OperatorName:        v.GetString("operator_name"),
		OperatorProfileFile: v.GetString("operator_profile_file"),
		AssetsDir:           v.GetString("assets_dir"),

		FlirtyGreetingChance: v.GetFloat64("flirty_greeting_chance"),
		RateLimitRPS:         v.GetFloat64("rate_limit_rps"),
		RateLimitBurst:       v.GetInt("rate_limit_burst"),

		LogLevel: v.GetString("log_level"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGroq, ProviderOpenAI, ProviderGemini:
		if c.APIKey == "" {
			return fmt.Errorf("%w: set %s_API_KEY for provider %q", ErrMissingAPIKey, EnvPrefix, c.Provider)
		}
	case ProviderVertex:
		if c.GCPProject == "" {
			return fmt.Errorf("%s_GCP_PROJECT must be set for provider vertex", EnvPrefix)
		}
	case ProviderMock:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}

	switch c.StorageBackend {
	case StorageJSON, StorageSQLite, StorageMemory:
	case StorageFirestore:
		if c.GCPProject == "" {
			return fmt.Errorf("%s_GCP_PROJECT is required for firestore storage", EnvPrefix)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}

	if c.MaxConversations < 0 {
		return fmt.Errorf("max_conversations must be >= 0, got %d", c.MaxConversations)
	}
	if c.FlirtyGreetingChance < 0 || c.FlirtyGreetingChance > 1 {
		return fmt.Errorf("flirty_greeting_chance must be within [0, 1], got %v", c.FlirtyGreetingChance)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone; "Local" and "" mean the host zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// OperatorProfile returns the contents of OperatorProfileFile, or "" when unset.
func (c *Config) OperatorProfile() (string, error) {
	if c.OperatorProfileFile == "" {
		return "", nil
	}
	b, err := os.ReadFile(c.OperatorProfileFile)
	if err != nil {
		return "", fmt.Errorf("read operator profile: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}
