package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedKeys = []string{
	"PORT", "DATABASE_URL", "SSL_CERT_PATH", "REQUEST_TIMEOUT", "AI_PROVIDER",
	"OPENAI_API_KEY", "GEMINI_API_KEY", "AZURE_OPENAI_API_KEY", "AZURE_OPENAI_ENDPOINT",
	"EMBED_MODEL", "EMBED_DIM", "GEN_MODEL", "TEMPERATURE", "EMBED_BATCH_SIZE",
	"CHUNK_SIZE", "CHUNK_OVERLAP", "HTML_READABILITY", "MATCH_THRESHOLD", "MATCH_COUNT",
	"AWS_ACCESS_KEY", "AWS_SECRET_KEY", "AWS_REGION", "BUCKET_NAME",
	"JWT_SECRET", "CORS_ORIGINS", "WEB_DIR", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv unsets every variable the loader reads and restores them after
// the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range managedKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/documind")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadConfig(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ProviderOpenAI, cfg.AIProvider)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbedModel)
	assert.Equal(t, 1536, cfg.EmbedDim)
	assert.Equal(t, "gpt-4o-mini", cfg.GenModel)
	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, 200, cfg.ChunkOverlap)
	assert.False(t, cfg.HTMLReadability)
	assert.Equal(t, 10, cfg.EmbedBatchSize)
	assert.Equal(t, 0.5, cfg.MatchThreshold)
	assert.Equal(t, 5, cfg.MatchCount)
	assert.Equal(t, 0.3, cfg.Temperature)
	assert.Equal(t, 2*time.Minute, cfg.RequestTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CorsOrigins)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestLoadConfig_GeminiDefaultsAndOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/documind")
	t.Setenv("AI_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "g-test")
	t.Setenv("MATCH_COUNT", "8")
	t.Setenv("CHUNK_SIZE", "not-a-number")
	t.Setenv("BUCKET_NAME", "uploads")
	t.Setenv("HTML_READABILITY", "true")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := LoadConfig(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.AIProvider)
	assert.Equal(t, "text-embedding-004", cfg.EmbedModel)
	assert.Equal(t, 768, cfg.EmbedDim)
	assert.Equal(t, 8, cfg.MatchCount)
	assert.Equal(t, 1000, cfg.ChunkSize, "bad ints fall back to the default")
	assert.True(t, cfg.ArchiveEnabled())
	assert.True(t, cfg.HTMLReadability)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CorsOrigins)
}

func TestLoadConfig_ReadsEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DATABASE_URL=postgres://file/db\nOPENAI_API_KEY=sk-file\nPORT=9090\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://file/db", cfg.DatabaseURL)
	assert.Equal(t, "9090", cfg.Port)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DatabaseURL:    "postgres://x",
			AIProvider:     ProviderOpenAI,
			OpenAIAPIKey:   "sk",
			EmbedDim:       1536,
			ChunkSize:      1000,
			ChunkOverlap:   200,
			EmbedBatchSize: 10,
			MatchCount:     5,
		}
	}
	require.NoError(t, valid().Validate())

	tests := map[string]func(c *Config){
		"missing database":   func(c *Config) { c.DatabaseURL = "" },
		"missing openai key": func(c *Config) { c.OpenAIAPIKey = "" },
		"gemini without key": func(c *Config) { c.AIProvider = ProviderGemini },
		"azure without url":  func(c *Config) { c.AIProvider = ProviderAzure; c.AzureAPIKey = "k" },
		"unknown provider":   func(c *Config) { c.AIProvider = "llama" },
		"zero dimension":     func(c *Config) { c.EmbedDim = 0 },
		"overlap too large":  func(c *Config) { c.ChunkOverlap = 1000 },
		"zero batch":         func(c *Config) { c.EmbedBatchSize = 0 },
		"zero match count":   func(c *Config) { c.MatchCount = 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
