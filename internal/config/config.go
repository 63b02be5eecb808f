package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/scrapbox-rag/internal/pkg/retry"
	"github.com/joho/godotenv"
)

const DefaultScrapboxURL = "https://scrapbox.io"

// BatchConfig holds the ingestion batch configuration
type BatchConfig struct {
	// Source wiki configuration
	ScrapboxCfg ScrapboxConnectorConfig `envPrefix:"SCRAPBOX_"`

	// Collaborator configurations
	EmbeddingCfg EmbeddingConnectorConfig `envPrefix:"EMBEDDING_"`
	SearchCfg    SearchConnectorConfig    `envPrefix:"SEARCH_"`

	IngestCfg    IngestConfig    `envPrefix:"INGEST_"`
	ReadinessCfg ReadinessConfig `envPrefix:"READINESS_"`

	// Ingestion run journal (optional)
	DatabaseCfg DatabaseConfig

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

// APIConfig holds the search and answer API configuration
type APIConfig struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8002"`

	// OpenAPI document served under /docs
	DocsSpecPath string `env:"DOCS_SPEC_PATH" envDefault:"docs/swagger.yaml"`

	ElasticCfg   ElasticConnectorConfig   `envPrefix:"ELASTICSEARCH_"`
	EmbeddingCfg EmbeddingConnectorConfig `envPrefix:"EMBEDDING_"`
	LLMCfg       LLMConnectorConfig       `envPrefix:"LLM_"`
	SearchCfg    SearchConfig             `envPrefix:"SEARCH_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type ScrapboxConnectorConfig struct {
	HTTPClientConfig
	Project   string               `env:"PROJECT"`
	SessionID string               `env:"SID"`
	PageLimit int                  `env:"PAGE_LIMIT" envDefault:"1000"`
	RateLimit float64              `env:"RATE_LIMIT" envDefault:"0"` // requests per second, 0 disables
	Retry     pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type EmbeddingConnectorConfig struct {
	HTTPClientConfig
	EmbedEndpoint  string `env:"EMBED_ENDPOINT" envDefault:"/embed"`
	HealthEndpoint string `env:"HEALTH_ENDPOINT" envDefault:"/health"`
}

type SearchConnectorConfig struct {
	HTTPClientConfig
	IndexEndpoint  string `env:"INDEX_ENDPOINT" envDefault:"/index"`
	HealthEndpoint string `env:"HEALTH_ENDPOINT" envDefault:"/health"`
}

type ElasticConnectorConfig struct {
	HTTPClientConfig
	Index     string          `env:"INDEX" envDefault:"scrapbox-chunks"`
	Analyzer  string          `env:"ANALYZER" envDefault:"kuromoji"`
	Readiness ReadinessConfig `envPrefix:"READINESS_"`
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	GenerateEndpoint string  `env:"GENERATE_ENDPOINT" envDefault:"/api/generate"`
	TagsEndpoint     string  `env:"TAGS_ENDPOINT" envDefault:"/api/tags"`
	Model            string  `env:"MODEL" envDefault:"gemma3:4b"`
	Temperature      float64 `env:"TEMPERATURE" envDefault:"0.1"`
}

type SearchConfig struct {
	DefaultTopK   int           `env:"DEFAULT_TOP_K" envDefault:"5"`
	MaxTopK       int           `env:"MAX_TOP_K" envDefault:"50"`
	QueryCacheTTL time.Duration `env:"QUERY_CACHE_TTL" envDefault:"10m"`
}

type IngestConfig struct {
	Concurrency    int `env:"CONCURRENCY" envDefault:"10"`
	ChunkMaxChars  int `env:"CHUNK_MAX_CHARS" envDefault:"1000"`
	DedentMinLines int `env:"DEDENT_MIN_LINES" envDefault:"5"`
}

// ReadinessConfig bounds how long a dependency is polled before it is
// declared unavailable.
type ReadinessConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"30"`
	Delay    time.Duration `env:"DELAY" envDefault:"2s"`
}

func (r ReadinessConfig) RetryConfig() *pkgRetry.RetryConfig {
	return &pkgRetry.RetryConfig{
		Attempts: r.Attempts,
		Delay:    r.Delay,
	}
}

type DatabaseConfig struct {
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"4"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"0"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"30s"`
	MaxIdleConnsPerHost   int           `env:"MAX_IDLE_CONNS_PER_HOST" envDefault:"10"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

// LoadBatchConfig loads the batch configuration. The -project flag overrides
// SCRAPBOX_PROJECT.
func LoadBatchConfig(args []string) (*BatchConfig, error) {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	envFlag := fs.String("env", "local", "Environment to run (local, prod, or custom)")
	projectFlag := fs.String("project", "", "Scrapbox project to ingest (overrides SCRAPBOX_PROJECT)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	loadEnvFile(*envFlag)

	cfg := &BatchConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag
	if *projectFlag != "" {
		cfg.ScrapboxCfg.Project = *projectFlag
	}
	if cfg.ScrapboxCfg.Url == "" {
		cfg.ScrapboxCfg.Url = DefaultScrapboxURL
	}

	if err := validateBatchConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadAPIConfig loads the search and answer API configuration.
func LoadAPIConfig(args []string) (*APIConfig, error) {
	fs := flag.NewFlagSet("rag-api", flag.ContinueOnError)
	envFlag := fs.String("env", "local", "Environment to run (local, prod, or custom)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	loadEnvFile(*envFlag)

	cfg := &APIConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateAPIConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func loadEnvFile(environment string) {
	envFile := getEnvFile(environment)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}
}

func validateBatchConfig(cfg *BatchConfig) error {
	var errors []string

	if strings.TrimSpace(cfg.ScrapboxCfg.Project) == "" {
		errors = append(errors, "SCRAPBOX_PROJECT is not set")
	}

	if cfg.EmbeddingCfg.Url == "" && !cfg.EnableMocks {
		errors = append(errors, "EMBEDDING_SERVICE_URL is not set")
	}

	if cfg.SearchCfg.Url == "" {
		errors = append(errors, "SEARCH_SERVICE_URL is not set")
	}

	if cfg.ScrapboxCfg.PageLimit < 1 {
		errors = append(errors, fmt.Sprintf("SCRAPBOX_PAGE_LIMIT must be positive, got %d", cfg.ScrapboxCfg.PageLimit))
	}

	if cfg.ScrapboxCfg.RateLimit < 0 {
		errors = append(errors, fmt.Sprintf("SCRAPBOX_RATE_LIMIT must not be negative, got %g", cfg.ScrapboxCfg.RateLimit))
	}

	if cfg.ScrapboxCfg.Retry.Attempts < 1 {
		errors = append(errors, "SCRAPBOX_RETRY_ATTEMPTS must be at least 1")
	}

	if cfg.IngestCfg.Concurrency < 1 || cfg.IngestCfg.Concurrency > 256 {
		errors = append(errors, fmt.Sprintf("INGEST_CONCURRENCY must be between 1 and 256, got %d", cfg.IngestCfg.Concurrency))
	}

	if cfg.IngestCfg.ChunkMaxChars < 1 {
		errors = append(errors, fmt.Sprintf("INGEST_CHUNK_MAX_CHARS must be positive, got %d", cfg.IngestCfg.ChunkMaxChars))
	}

	if cfg.IngestCfg.DedentMinLines < 0 {
		errors = append(errors, fmt.Sprintf("INGEST_DEDENT_MIN_LINES must not be negative, got %d", cfg.IngestCfg.DedentMinLines))
	}

	if cfg.ReadinessCfg.Attempts < 1 {
		errors = append(errors, "READINESS_ATTEMPTS must be at least 1")
	}

	return joinErrors(errors)
}

func validateAPIConfig(cfg *APIConfig) error {
	var errors []string

	if cfg.SearchCfg.DefaultTopK < 1 {
		errors = append(errors, fmt.Sprintf("SEARCH_DEFAULT_TOP_K must be positive, got %d", cfg.SearchCfg.DefaultTopK))
	}

	if cfg.SearchCfg.MaxTopK < cfg.SearchCfg.DefaultTopK {
		errors = append(errors, fmt.Sprintf("SEARCH_MAX_TOP_K (%d) must not be below SEARCH_DEFAULT_TOP_K (%d)", cfg.SearchCfg.MaxTopK, cfg.SearchCfg.DefaultTopK))
	}

	if cfg.ElasticCfg.Url == "" {
		errors = append(errors, "ELASTICSEARCH_SERVICE_URL is not set")
	}

	if cfg.EmbeddingCfg.Url == "" && !cfg.EnableMocks {
		errors = append(errors, "EMBEDDING_SERVICE_URL is not set")
	}

	if cfg.LLMCfg.Url == "" && !cfg.EnableMocks {
		errors = append(errors, "LLM_SERVICE_URL is not set")
	}

	if cfg.ElasticCfg.Index == "" {
		errors = append(errors, "ELASTICSEARCH_INDEX is not set")
	}

	if cfg.ElasticCfg.Readiness.Attempts < 1 {
		errors = append(errors, "ELASTICSEARCH_READINESS_ATTEMPTS must be at least 1")
	}

	return joinErrors(errors)
}

func joinErrors(errors []string) error {
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
