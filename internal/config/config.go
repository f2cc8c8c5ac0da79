package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is everything the server reads from the environment. A .env file
// in the working directory is honored when present.
type Config struct {
	// TCPAddr is the plaintext line-protocol listener address.
	TCPAddr string
	// HTTPAddr serves /healthz and the WebSocket bridge.
	HTTPAddr string
	// BotDelay is the pause before an automated player acts.
	BotDelay time.Duration
	// Dev switches the logger to the development encoder.
	Dev bool
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		TCPAddr:  getEnv("SKIPBO_TCP_ADDR", ":7777"),
		HTTPAddr: getEnv("SKIPBO_HTTP_ADDR", ":8080"),
		BotDelay: time.Duration(getEnvInt("SKIPBO_BOT_DELAY_MS", 500)) * time.Millisecond,
		Dev:      getEnvBool("SKIPBO_DEV", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
