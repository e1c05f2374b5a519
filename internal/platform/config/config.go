package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string
	JWTIssuer     string

	// RateLimit is a ulule limiter formatted rate, e.g. "100-M".
	RateLimit          string
	CORSAllowedOrigins []string
	// RedisAddr shares rate limit counters between instances; empty keeps them in memory.
	RedisAddr string

	PosthogAPIKey   string
	PosthogEndpoint string

	// Closing engine
	ClosingEpsilon                  decimal.Decimal
	ClosingChargeExcludedPartsTwice bool
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_ISSUER", "")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	viper.SetDefault("CLOSING_EPSILON", "0.01")
	viper.SetDefault("CLOSING_CHARGE_EXCLUDED_PARTS_TWICE", true)

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:                     viper.GetString("PGSQL_URL"),
		Port:                            viper.GetString("PORT"),
		IsProduction:                    viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:                   viper.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:                       viper.GetString("JWT_SECRET"),
		JWTIssuer:                       viper.GetString("JWT_ISSUER"),
		RateLimit:                       viper.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:              splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		RedisAddr:                       viper.GetString("REDIS_ADDR"),
		PosthogAPIKey:                   viper.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:                 viper.GetString("POSTHOG_ENDPOINT"),
		ClosingChargeExcludedPartsTwice: viper.GetBool("CLOSING_CHARGE_EXCLUDED_PARTS_TWICE"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	epsilonStr := viper.GetString("CLOSING_EPSILON")
	epsilon, err := decimal.NewFromString(epsilonStr)
	if err != nil || !epsilon.IsPositive() {
		return nil, fmt.Errorf("invalid value for CLOSING_EPSILON ('%s'): must be a positive decimal", epsilonStr)
	}
	cfg.ClosingEpsilon = epsilon

	return cfg, nil
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
