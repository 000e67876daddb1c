// Package twelvedata provides a client for the Twelve Data stock market API.
package twelvedata

import (
	"os"
	"time"

	"stock_portfolio/internal/shared/envconfig"
)

const (
	DefaultBaseURL  = "https://api.twelvedata.com"
	DefaultExchange = "XJPX" // 東京証券取引所
)

// Config holds configuration for the Twelve Data API client.
type Config struct {
	TwelveDataAPIKey string        // API key for authentication
	BaseURL          string        // Base URL for the API (e.g., "https://api.twelvedata.com")
	Exchange         string        // MIC code appended to every quote request
	Timeout          time.Duration // HTTP request timeout
	RateLimit        int           // requests per minute
}

// LoadConfig loads Twelve Data configuration from environment variables.
func LoadConfig() Config {
	return Config{
		TwelveDataAPIKey: os.Getenv("TWELVE_DATA_API_KEY"),
		BaseURL:          envconfig.String("TWELVE_DATA_BASE_URL", DefaultBaseURL),
		Exchange:         envconfig.String("TWELVE_DATA_EXCHANGE", DefaultExchange),
		Timeout:          10 * time.Second,
		RateLimit:        envconfig.Int("QUOTE_RATE_LIMIT", 8),
	}
}
