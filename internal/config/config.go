package config

import (
	"os"
	"strings"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	TicketSecret  string
	GinMode       string
	Port          string

	// Role gating for signup. PartnerDomain is the single domain that
	// may enroll as a partner; ClientDomains is the allowlist for the
	// general signup; AdminEmails are promoted to admin on signup.
	PartnerDomain string
	ClientDomains []string
	AdminEmails   []string

	AllowedOrigins []string
}

func Load() *Config {
	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "web24"),
		DBPassword:    getEnv("DB_PASSWORD", "web24password"),
		DBName:        getEnv("DB_NAME", "web24_kanban"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		TicketSecret:  getEnv("TICKET_SECRET", "default-ticket-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		Port:          getEnv("PORT", "8080"),

		PartnerDomain: getEnv("PARTNER_DOMAIN", "web24partner.com"),
		ClientDomains: getEnvList("CLIENT_DOMAINS", []string{"gmail.com", "web24.com"}),
		AdminEmails:   getEnvList("ADMIN_EMAILS", nil),

		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
