package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Version  string
	Port     string
	RootPath string // URL prefix the API is mounted under (behind a gateway)

	SysLogLevel slog.Level // runtime/framework logging
	AppLogLevel slog.Level // application logging

	MongoURI string
	DBName   string

	ACSEndpoint          string
	ACSKey               string
	ACSSeverityThreshold int

	QdrantHost string
	QdrantPort int

	// Deployment identifiers for the language-model backends. Only surfaced
	// in config for now; embedding generation itself lives outside this API.
	AdaDeployID string
	GPTDeployID string

	TokenURL     string
	ClientID     string
	ClientSecret string
	TokenScope   string

	RedisURI string

	ResendAPIKey string
	FromEmail    string
	NotifyEmail  string
}

func Load() *Config {
	return &Config{
		Version:  getEnv("VERSION", "dev"),
		Port:     getEnv("PORT", "8080"),
		RootPath: normalizeRootPath(getEnv("MS_ROOT_PATH", "")),

		SysLogLevel: parseLevel(getEnv("MS_LOGGING_SYS_LEVEL", "warn"), slog.LevelWarn),
		AppLogLevel: parseLevel(getEnv("MS_LOGGING_APP_LEVEL", "info"), slog.LevelInfo),

		MongoURI: getEnv("MS_MONGODB_URI", ""),
		DBName:   getEnv("MS_DB_NAME", "feedback-fountain"),

		ACSEndpoint:          getEnv("MS_ACS_API_BASE", ""),
		ACSKey:               getEnv("MS_ACS_API_TOKEN", ""),
		ACSSeverityThreshold: getEnvInt("MS_ACS_SEVERITY_THRESHOLD", 2),

		QdrantHost: getEnv("MS_QD_HOST", ""),
		QdrantPort: getEnvInt("MS_QD_PORT", 6334),

		AdaDeployID: getEnv("MS_OAI_ADA_DEPLOY_ID", ""),
		GPTDeployID: getEnv("MS_OAI_GPT_DEPLOY_ID", ""),

		TokenURL:     getEnv("MS_TOKEN_URL", ""),
		ClientID:     getEnv("MS_CLIENT_ID", ""),
		ClientSecret: getEnv("MS_CLIENT_SECRET", ""),
		TokenScope:   getEnv("MS_TOKEN_SCOPE", "https://cognitiveservices.azure.com/.default"),

		RedisURI: getEnv("MS_REDIS_URI", ""),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		FromEmail:    getEnv("FROM_EMAIL", ""),
		NotifyEmail:  getEnv("NOTIFY_EMAIL", ""),
	}
}

// normalizeRootPath makes sure a non-empty prefix starts with "/" and does
// not end with one, which is what chi expects from Route.
func normalizeRootPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimRight(p, "/")
}

func parseLevel(s string, fallback slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
