package config

import (
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	WorldLabsAPIKey  string
	WorldLabsBaseURL string

	// Operation polling defaults for the binaries.
	PollInterval time.Duration
	PollTimeout  time.Duration

	TelegramBotToken string
	WebhookURL       string

	GeminiAPIKey string
	GeminiModel  string
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env %s", k)
	}
	return v
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvSeconds(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Fatalf("bad %s: %q (want seconds)", k, v)
	}
	return time.Duration(n) * time.Second
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		WorldLabsAPIKey:  mustEnv("WORLDLABS_API_KEY"),
		WorldLabsBaseURL: getEnv("WORLDLABS_BASE_URL", ""),

		PollInterval: getEnvSeconds("MARBLE_POLL_INTERVAL_SEC", 5*time.Second),
		PollTimeout:  getEnvSeconds("MARBLE_POLL_TIMEOUT_SEC", 10*time.Minute),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookURL:       getEnv("WEBHOOK_URL", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
	}
}

// ResolveDSN returns the Postgres DSN for the bot's world cache, or "" when
// no database is configured. DATABASE_URL wins; otherwise the DSN is built
// from POSTGRES_* / PG* vars.
func ResolveDSN() string {
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		return v
	}
	host := strings.TrimSpace(os.Getenv("PGHOST"))
	if host == "" {
		return ""
	}
	user := getEnv("POSTGRES_USER", "marble")
	pass := os.Getenv("POSTGRES_PASSWORD")
	port := getEnv("PGPORT", "5432")
	db := getEnv("POSTGRES_DB", "marble")

	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, pass),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + db,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
