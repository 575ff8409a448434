package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAddr    = ":8080"
	defaultDBPath  = "data/youtube-server.db"
	defaultTimeout = 15 // seconds
)

// Config carries everything the server needs from the environment.
type Config struct {
	Addr            string
	YouTubeAPIKey   string
	AccessToken     string
	DatabasePath    string
	UpstreamTimeout time.Duration
}

// Load reads configuration from a .env file (if present) and the environment.
// YOUTUBE_API_KEY and ACCESS_TOKEN are required.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:            getenv("LISTEN_ADDR", defaultAddr),
		YouTubeAPIKey:   os.Getenv("YOUTUBE_API_KEY"),
		AccessToken:     os.Getenv("ACCESS_TOKEN"),
		DatabasePath:    getenv("DATABASE_PATH", defaultDBPath),
		UpstreamTimeout: time.Duration(getenvInt("UPSTREAM_TIMEOUT", defaultTimeout)) * time.Second,
	}

	if cfg.YouTubeAPIKey == "" {
		return Config{}, fmt.Errorf("config: YOUTUBE_API_KEY not set")
	}
	if cfg.AccessToken == "" {
		return Config{}, fmt.Errorf("config: ACCESS_TOKEN not set")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
