package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	DatabaseDriver    string
	DatabaseURL       string
	JWTSecret         string
	JWTIssuer         string
	AccessTTLSeconds  int64
	UploadDir         string
	MaxUploadBytes    int64
	CorsOrigins       []string
	Port              string
	SeedReferenceData bool
	LogDir            string
	LogRetentionDays  int
}

func Load() Config {
	return Config{
		DatabaseDriver:    strings.ToLower(envOr("DATABASE_DRIVER", "postgres")),
		DatabaseURL:       mustEnv("DATABASE_URL"),
		JWTSecret:         mustEnv("JWT_SECRET"),
		JWTIssuer:         envOr("JWT_ISSUER", "kaizen"),
		AccessTTLSeconds:  int64(envOrInt("ACCESS_TTL_SECONDS", 14400)),
		UploadDir:         envOr("UPLOAD_DIR", "storage/uploads"),
		MaxUploadBytes:    int64(envOrInt("MAX_UPLOAD_MB", 10)) << 20,
		CorsOrigins:       parseCSV(envOr("CORS_ORIGINS", "")),
		Port:              envOr("PORT", "8080"),
		SeedReferenceData: envOrBool("SEED_REFERENCE_DATA", false),
		LogDir:            envOr("LOG_DIR", "storage/logs"),
		LogRetentionDays:  envOrInt("LOG_RETENTION_DAYS", 7),
	}
}

func mustEnv(key string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		panic("missing env var: " + key)
	}
	return value
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
