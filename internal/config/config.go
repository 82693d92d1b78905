package config

import (
	"os"
	"strconv"
)

// Config collects every environment knob the server reads. Values come from
// the process environment; a .env file is loaded by godotenv at startup.
type Config struct {
	Port       int
	CORSOrigin string

	RedisAddr     string
	RedisPassword string

	OpenAIAPIKey string
	OpenAIModel  string

	// Requests per second allowed per client IP on the generate endpoint,
	// with the matching burst size.
	GenerateRateLimit float64
	GenerateRateBurst int
}

func Load() Config {
	return Config{
		Port:              envInt("PORT", 8000),
		CORSOrigin:        envOr("CORS_ORIGIN", "http://localhost:3000"),
		RedisAddr:         envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       os.Getenv("OPENAI_MODEL"),
		GenerateRateLimit: envFloat("GENERATE_RATE_LIMIT", 5),
		GenerateRateBurst: envInt("GENERATE_RATE_BURST", 10),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
