package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TESSA_PROVIDER", "mock")

	cfg, err := config.Load(config.New())
	require.NoError(t, err)

	assert.Equal(t, config.ProviderMock, cfg.Provider)
	assert.Equal(t, config.StorageJSON, cfg.StorageBackend)
	assert.Equal(t, 50, cfg.MaxConversations)
	assert.Equal(t, "8080", cfg.Port)
	assert.InDelta(t, 0.4, cfg.FlirtyGreetingChance, 1e-9)
	assert.Empty(t, cfg.UnlockPassphrase)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("TESSA_PROVIDER", "groq")
	t.Setenv("TESSA_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "")

	_, err := config.Load(config.New())
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestLoad_GroqKeyFallback(t *testing.T) {
	t.Setenv("TESSA_PROVIDER", "groq")
	t.Setenv("TESSA_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "gsk-test")

	cfg, err := config.Load(config.New())
	require.NoError(t, err)
	assert.Equal(t, "gsk-test", cfg.APIKey)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown provider", env: map[string]string{"TESSA_PROVIDER": "claude"}},
		{name: "vertex without project", env: map[string]string{"TESSA_PROVIDER": "vertex"}},
		{name: "firestore without project", env: map[string]string{"TESSA_PROVIDER": "mock", "TESSA_STORAGE_BACKEND": "firestore"}},
		{name: "unknown backend", env: map[string]string{"TESSA_PROVIDER": "mock", "TESSA_STORAGE_BACKEND": "s3"}},
		{name: "bad timezone", env: map[string]string{"TESSA_PROVIDER": "mock", "TESSA_TIMEZONE": "Mars/Olympus"}},
		{name: "bad chance", env: map[string]string{"TESSA_PROVIDER": "mock", "TESSA_FLIRTY_GREETING_CHANCE": "1.5"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := config.Load(config.New())
			assert.Error(t, err)
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tessa.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: mock\nstorage_backend: sqlite\nmax_conversations: 10\n"), 0o600))

	v := config.New()
	require.NoError(t, config.ReadFile(v, path))

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, config.StorageSQLite, cfg.StorageBackend)
	assert.Equal(t, 10, cfg.MaxConversations)
}

func TestOperatorProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.txt")
	require.NoError(t, os.WriteFile(path, []byte("  Loves chess.\n"), 0o600))

	cfg := &config.Config{OperatorProfileFile: path}
	profile, err := cfg.OperatorProfile()
	require.NoError(t, err)
	assert.Equal(t, "Loves chess.", profile)

	empty, err := (&config.Config{}).OperatorProfile()
	require.NoError(t, err)
	assert.Empty(t, empty)
}
