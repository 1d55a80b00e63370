// Package config provides configuration management for the pokebay service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
	Market   MarketConfig
	Cache    CacheConfig
	Planner  PlannerConfig
	Export   ExportConfig
	Database DatabaseConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string
	RateLimit   int
	RateWindow  time.Duration
	CORSOrigins []string
}

// AuthConfig holds bearer-token authentication configuration.
type AuthConfig struct {
	Enabled      bool
	JWTSecretKey string
}

// CatalogConfig holds catalog provider configuration.
type CatalogConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// MarketConfig holds marketplace offer provider configuration.
type MarketConfig struct {
	BaseURL     string
	APIKey      string
	Marketplace string
	ResultLimit int
	Timeout     time.Duration
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// CacheConfig holds offer cache configuration.
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// PlannerConfig holds optimization run configuration.
type PlannerConfig struct {
	FetchConcurrency    int
	ShippingPolicy      string
	UnsatisfiablePolicy string
	CostTolerance       float64
	SolveTimeout        time.Duration
}

// ExportConfig holds CSV artifact configuration.
type ExportConfig struct {
	Dir    string
	Prefix string
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	RunsTTL      time.Duration
	Enabled      bool
}

// Load creates a Config from environment variables.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			RateLimit:   getEnvInt("RATE_LIMIT", 100),
			RateWindow:  getEnvDuration("RATE_WINDOW", time.Minute),
			CORSOrigins: parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
		},
		Auth: AuthConfig{
			Enabled:      getEnvBool("AUTH_ENABLED", false),
			JWTSecretKey: getEnv("JWT_SECRET_KEY", ""),
		},
		Catalog: CatalogConfig{
			BaseURL: getEnv("CATALOG_BASE_URL", "https://api.pokemontcg.io/v2"),
			APIKey:  getEnv("CATALOG_API_KEY", ""),
			Timeout: getEnvDuration("CATALOG_TIMEOUT", 10*time.Second),
		},
		Market: MarketConfig{
			BaseURL:                        getEnv("MARKET_BASE_URL", "https://api.ebay.com/buy/browse/v1"),
			APIKey:                         getEnv("MARKET_API_KEY", ""),
			Marketplace:                    getEnv("MARKET_MARKETPLACE", "EBAY_DE"),
			ResultLimit:                    getEnvInt("MARKET_RESULT_LIMIT", 25),
			Timeout:                        getEnvDuration("MARKET_TIMEOUT", 10*time.Second),
			CircuitBreakerFailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
		Cache: CacheConfig{
			Size: getEnvInt("CACHE_SIZE", 1000),
			TTL:  getEnvDuration("CACHE_TTL", 15*time.Minute),
		},
		Planner: PlannerConfig{
			FetchConcurrency:    getEnvInt("FETCH_CONCURRENCY", 4),
			ShippingPolicy:      getEnv("SHIPPING_POLICY", "consolidated"),
			UnsatisfiablePolicy: getEnv("UNSATISFIABLE_POLICY", "exclude"),
			CostTolerance:       getEnvFloat("COST_TOLERANCE", 1e-6),
			SolveTimeout:        getEnvDuration("SOLVE_TIMEOUT", 30*time.Second),
		},
		Export: ExportConfig{
			Dir:    getEnv("EXPORT_DIR", "."),
			Prefix: getEnv("EXPORT_PREFIX", "purchase-plan"),
		},
		Database: DatabaseConfig{
			URI:          getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName: getEnv("MONGODB_DATABASE", "pokebay"),
			RunsTTL:      getEnvDuration("MONGODB_RUNS_TTL", 30*24*time.Hour),
			Enabled:      getEnvBool("MONGODB_ENABLED", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseCORSOrigins(s string) []string {
	// Default origins for local development
	defaults := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(defaults))
	result = append(result, defaults...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
