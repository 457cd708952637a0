package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// AI collaborator (Gemini)
	GeminiAPIKey        string
	GeminiModel         string
	AIRequestsPerMinute int
	AIMaxAttempts       int
	CategoriseBatchSize int
	CancellationBatch   int
	EnrichmentCacheSize int
	EnrichmentCacheTTL  time.Duration
	MinCachedConfidence float64

	// Background jobs
	JobQueueSize   int
	JobMaxAttempts int

	// Upload rate limiting, e.g. "10-M" for 10 uploads per minute per IP.
	UploadRateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	viper.SetDefault("AI_REQUESTS_PER_MINUTE", 50)
	viper.SetDefault("AI_MAX_ATTEMPTS", 3)
	viper.SetDefault("CATEGORISE_BATCH_SIZE", 30)
	viper.SetDefault("CANCELLATION_BATCH_SIZE", 20)
	viper.SetDefault("ENRICHMENT_CACHE_SIZE", 2048)
	viper.SetDefault("ENRICHMENT_CACHE_TTL", "720h")
	viper.SetDefault("MIN_CACHED_CONFIDENCE", 0.9)
	viper.SetDefault("JOB_QUEUE_SIZE", 256)
	viper.SetDefault("JOB_MAX_ATTEMPTS", 3)
	viper.SetDefault("UPLOAD_RATE_LIMIT", "10-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.GeminiAPIKey = viper.GetString("GEMINI_API_KEY")
	if cfg.GeminiAPIKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set. AI enrichment will run in degraded mode.")
	}
	cfg.GeminiModel = viper.GetString("GEMINI_MODEL")
	cfg.AIRequestsPerMinute = viper.GetInt("AI_REQUESTS_PER_MINUTE")
	if cfg.AIRequestsPerMinute <= 0 {
		cfg.AIRequestsPerMinute = 50
	}
	cfg.AIMaxAttempts = viper.GetInt("AI_MAX_ATTEMPTS")
	if cfg.AIMaxAttempts <= 0 {
		cfg.AIMaxAttempts = 3
	}
	cfg.CategoriseBatchSize = viper.GetInt("CATEGORISE_BATCH_SIZE")
	if cfg.CategoriseBatchSize <= 0 {
		cfg.CategoriseBatchSize = 30
	}
	cfg.CancellationBatch = viper.GetInt("CANCELLATION_BATCH_SIZE")
	if cfg.CancellationBatch <= 0 {
		cfg.CancellationBatch = 20
	}
	cfg.EnrichmentCacheSize = viper.GetInt("ENRICHMENT_CACHE_SIZE")
	if cfg.EnrichmentCacheSize <= 0 {
		cfg.EnrichmentCacheSize = 2048
	}

	cacheTTLStr := viper.GetString("ENRICHMENT_CACHE_TTL")
	cacheTTL, err := time.ParseDuration(cacheTTLStr)
	if err != nil {
		cacheTTL = time.Hour * 24 * 30
		if cacheTTLStr != "" {
			log.Printf("Warning: Invalid value for ENRICHMENT_CACHE_TTL ('%s'). Defaulting to %s.\n", cacheTTLStr, cacheTTL.String())
		}
	}
	cfg.EnrichmentCacheTTL = cacheTTL

	cfg.MinCachedConfidence = viper.GetFloat64("MIN_CACHED_CONFIDENCE")
	if cfg.MinCachedConfidence <= 0 || cfg.MinCachedConfidence > 1 {
		cfg.MinCachedConfidence = 0.9
	}

	cfg.JobQueueSize = viper.GetInt("JOB_QUEUE_SIZE")
	if cfg.JobQueueSize <= 0 {
		cfg.JobQueueSize = 256
	}
	cfg.JobMaxAttempts = viper.GetInt("JOB_MAX_ATTEMPTS")
	if cfg.JobMaxAttempts <= 0 {
		cfg.JobMaxAttempts = 3
	}

	cfg.UploadRateLimit = viper.GetString("UPLOAD_RATE_LIMIT")
	if cfg.UploadRateLimit == "" {
		cfg.UploadRateLimit = "10-M"
	}

	return cfg, nil
}
