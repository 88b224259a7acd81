package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderAzure  = "azure"
)

type Config struct {
	Port           string
	DatabaseURL    string
	SslCertPath    string
	RequestTimeout time.Duration

	AIProvider     string
	OpenAIAPIKey   string
	GeminiAPIKey   string
	AzureAPIKey    string
	AzureEndpoint  string
	EmbedModel     string
	EmbedDim       int
	GenModel       string
	Temperature    float64
	EmbedBatchSize int

	ChunkSize       int
	ChunkOverlap    int
	HTMLReadability bool
	MatchThreshold  float64
	MatchCount      int

	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string

	JWTSecret   string
	CorsOrigins []string
	WebDir      string

	LogLevel  string
	LogFormat string
}

// LoadConfig loads the environment variables (and an optional .env file) and
// returns a validated config.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	provider := strings.ToLower(getEnv("AI_PROVIDER", ProviderOpenAI))

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SslCertPath:    getEnv("SSL_CERT_PATH", ""),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 2*time.Minute),

		AIProvider:     provider,
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		AzureAPIKey:    getEnv("AZURE_OPENAI_API_KEY", ""),
		AzureEndpoint:  getEnv("AZURE_OPENAI_ENDPOINT", ""),
		EmbedModel:     getEnv("EMBED_MODEL", defaultEmbedModel(provider)),
		EmbedDim:       getEnvInt("EMBED_DIM", defaultEmbedDim(provider)),
		GenModel:       getEnv("GEN_MODEL", defaultGenModel(provider)),
		Temperature:    getEnvFloat("TEMPERATURE", 0.3),
		EmbedBatchSize: getEnvInt("EMBED_BATCH_SIZE", 10),

		ChunkSize:       getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap:    getEnvInt("CHUNK_OVERLAP", 200),
		HTMLReadability: getEnvBool("HTML_READABILITY", false),
		MatchThreshold:  getEnvFloat("MATCH_THRESHOLD", 0.5),
		MatchCount:      getEnvInt("MATCH_COUNT", 5),

		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),
		BucketName:   getEnv("BUCKET_NAME", ""),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		CorsOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		WebDir:      getEnv("WEB_DIR", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values every process needs before wiring components.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL not set")
	}
	switch c.AIProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY not set")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY not set")
		}
	case ProviderAzure:
		if c.AzureAPIKey == "" || c.AzureEndpoint == "" {
			return errors.New("AZURE_OPENAI_API_KEY and AZURE_OPENAI_ENDPOINT must be set")
		}
	default:
		return fmt.Errorf("unknown AI_PROVIDER %q", c.AIProvider)
	}
	if c.EmbedDim <= 0 {
		return fmt.Errorf("EMBED_DIM must be positive, got %d", c.EmbedDim)
	}
	if c.ChunkSize <= 0 || c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("invalid chunking: CHUNK_SIZE=%d CHUNK_OVERLAP=%d", c.ChunkSize, c.ChunkOverlap)
	}
	if c.EmbedBatchSize <= 0 {
		return fmt.Errorf("EMBED_BATCH_SIZE must be positive, got %d", c.EmbedBatchSize)
	}
	if c.MatchCount <= 0 {
		return fmt.Errorf("MATCH_COUNT must be positive, got %d", c.MatchCount)
	}
	return nil
}

// ArchiveEnabled reports whether uploads should be copied to S3.
func (c *Config) ArchiveEnabled() bool {
	return c.BucketName != ""
}

func defaultEmbedModel(provider string) string {
	switch provider {
	case ProviderGemini:
		return "text-embedding-004"
	default:
		return "text-embedding-3-small"
	}
}

func defaultEmbedDim(provider string) int {
	if provider == ProviderGemini {
		return 768
	}
	return 1536
}

func defaultGenModel(provider string) string {
	if provider == ProviderGemini {
		return "gemini-1.5-flash"
	}
	return "gpt-4o-mini"
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("env value is not an int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("env value is not a float, using default", "key", key, "value", v, "default", def)
		return def
	}
	return f
}

func getEnvBool(key string, def bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("env value is not a bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("env value is not a duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
