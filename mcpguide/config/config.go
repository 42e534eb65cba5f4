package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	AllowedOrigins []string
	LogDir         string
}

// LoadConfig reads .env (when present) and then the process environment.
// Values already set in the environment win over .env.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		Port:           getEnv("PORT", "8000"),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  strings.TrimRight(getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"), "/"),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogDir:         getEnv("LOG_DIR", "./logs"),
	}
}

// HasProviderKey reports whether the completion provider credential is configured.
func (c Config) HasProviderKey() bool {
	return strings.TrimSpace(c.OpenAIAPIKey) != ""
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
