package utils

import (
	"os"
	"strconv"
	"time"
)

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("RAIDRELAY_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("RAIDRELAY_JWT_ISSUER")
	if issuer == "" {
		issuer = "raidrelay"
	}

	duration := 24 * time.Hour
	if ttl := os.Getenv("RAIDRELAY_JWT_TTL_HOURS"); ttl != "" {
		if hours, err := strconv.Atoi(ttl); err == nil && hours > 0 {
			duration = time.Duration(hours) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: duration,
	}
}

type ServerConfig struct {
	HTTPAddr        string
	RelayAddr       string
	BossFeedURL     string
	RefreshInterval time.Duration
}

func LoadServerConfig() ServerConfig {
	cfg := ServerConfig{
		HTTPAddr:        ":8080",
		RelayAddr:       ":7070",
		RefreshInterval: 30 * time.Minute,
	}

	if addr := os.Getenv("RAIDRELAY_HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	}
	if addr := os.Getenv("RAIDRELAY_RELAY_ADDR"); addr != "" {
		cfg.RelayAddr = addr
	}
	// empty means: load the name dictionary from the local boss_names table
	cfg.BossFeedURL = os.Getenv("RAIDRELAY_BOSS_FEED_URL")

	if raw := os.Getenv("RAIDRELAY_REFRESH_MINUTES"); raw != "" {
		if minutes, err := strconv.Atoi(raw); err == nil && minutes > 0 {
			cfg.RefreshInterval = time.Duration(minutes) * time.Minute
		}
	}

	return cfg
}
