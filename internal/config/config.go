// Package config loads the Castify application settings from the
// environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	JWTSecret       []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	CatalogBaseURL     string
	CatalogCacheTTLSec int

	RateLimitPerSecond float64
	RateLimitBurst     int
}

func Load() (Config, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return Config{
		JWTSecret:          []byte(secret),
		AccessTokenTTL:     parseDurationWithDefault(os.Getenv("ACCESS_TOKEN_TTL"), 15*time.Minute),
		RefreshTokenTTL:    parseDurationWithDefault(os.Getenv("REFRESH_TOKEN_TTL"), 30*24*time.Hour),
		CatalogBaseURL:     strings.TrimSpace(os.Getenv("CATALOG_BASE_URL")),
		CatalogCacheTTLSec: parseIntWithDefault(os.Getenv("CATALOG_CACHE_TTL_SEC"), 300),
		RateLimitPerSecond: parseFloatWithDefault(os.Getenv("RATE_LIMIT_RPS"), 20),
		RateLimitBurst:     parseIntWithDefault(os.Getenv("RATE_LIMIT_BURST"), 40),
	}, nil
}

func parseDurationWithDefault(v string, def time.Duration) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func parseIntWithDefault(v string, def int) int {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func parseFloatWithDefault(v string, def float64) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return def
	}
	return f
}
