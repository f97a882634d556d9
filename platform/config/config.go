// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides HTTP server settings.
type HTTPConfig interface {
	GetEnv() string
	GetHTTPAddr() string
	GetCORSOrigins() []string
	GetCORSAllowAll() bool
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
	GetAccessTokenTTL() time.Duration
}

// RedisConfig provides settings for asynq and the SMS dedup cache.
type RedisConfig interface {
	GetRedisURL() string
	GetSweepInterval() time.Duration
}

// SMSConfig provides settings for the Twilio-shaped SMS integration.
type SMSConfig interface {
	GetSMSEnabled() bool
	GetTwilioAccountSID() string
	GetTwilioAuthToken() string
	GetTwilioFromNumber() string
	GetSMSTemplatePath() string
}

// EmailConfig provides SMTP settings for transactional notices.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUser() string
	GetSMTPPassword() string
	GetEmailFromAddress() string
}

// AgentConfig provides settings for the LLM feature-evaluation agent.
type AgentConfig interface {
	GetGeminiAPIKey() string
	GetAgentModel() string
}

// StorageConfig provides MinIO settings for listing photos.
type StorageConfig interface {
	GetMinioEndpoint() string
	GetMinioAccessKey() string
	GetMinioSecretKey() string
	GetMinioUseSSL() bool
	GetMinioBucketListingPhotos() string
}

// Config is the concrete configuration backing all interfaces above.
type Config struct {
	Env             string
	HTTPAddr        string
	DatabaseURL     string
	JWTAccessSecret string
	AccessTokenTTL  time.Duration
	CORSAllowAll    bool
	CORSOrigins     []string

	RedisURL      string
	SweepInterval time.Duration

	SMSEnabled       bool
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	SMSTemplatePath  string

	EmailEnabled     bool
	SMTPHost         string
	SMTPPort         int
	SMTPUser         string
	SMTPPassword     string
	EmailFromAddress string

	GeminiAPIKey string
	AgentModel   string

	MinioEndpoint            string
	MinioAccessKey           string
	MinioSecretKey           string
	MinioUseSSL              bool
	MinioBucketListingPhotos string
}

// Load reads configuration from the environment (with .env support) and
// validates the values the process cannot run without.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	smsEnabled := strings.EqualFold(getEnv("SMS_ENABLED", "true"), "true")
	twilioSID := getEnv("TWILIO_ACCOUNT_SID", "")

	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		JWTAccessSecret: getEnv("JWT_ACCESS_SECRET", ""),
		AccessTokenTTL:  mustDuration(getEnv("JWT_ACCESS_TTL", "15m")),
		CORSAllowAll:    corsAllowAll,
		CORSOrigins:     corsOrigins,

		RedisURL:      getEnv("REDIS_URL", ""),
		SweepInterval: mustDuration(getEnv("DEADLINE_SWEEP_INTERVAL", "5m")),

		SMSEnabled:       smsEnabled && twilioSID != "",
		TwilioAccountSID: twilioSID,
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: getEnv("TWILIO_FROM_NUMBER", ""),
		SMSTemplatePath:  getEnv("SMS_TEMPLATE_PATH", "sms_templates.yaml"),

		EmailEnabled:     strings.EqualFold(getEnv("EMAIL_ENABLED", "false"), "true"),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUser:         getEnv("SMTP_USER", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		AgentModel:   getEnv("AGENT_MODEL", "gemini-2.0-flash"),

		MinioEndpoint:            getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey:           getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:           getEnv("MINIO_SECRET_KEY", ""),
		MinioUseSSL:              strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketListingPhotos: getEnv("MINIO_BUCKET_LISTING_PHOTOS", "listing-photos"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.SMSEnabled && (cfg.TwilioAuthToken == "" || cfg.TwilioFromNumber == "") {
		return nil, fmt.Errorf("TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER are required when SMS is enabled")
	}
	if cfg.EmailEnabled && (cfg.SMTPHost == "" || cfg.EmailFromAddress == "") {
		return nil, fmt.Errorf("SMTP_HOST and EMAIL_FROM_ADDRESS are required when email is enabled")
	}

	return cfg, nil
}

// Interface implementations.

func (c *Config) GetEnv() string                    { return c.Env }
func (c *Config) GetHTTPAddr() string               { return c.HTTPAddr }
func (c *Config) GetCORSOrigins() []string          { return c.CORSOrigins }
func (c *Config) GetCORSAllowAll() bool             { return c.CORSAllowAll }
func (c *Config) GetDatabaseURL() string            { return c.DatabaseURL }
func (c *Config) GetJWTAccessSecret() string        { return c.JWTAccessSecret }
func (c *Config) GetAccessTokenTTL() time.Duration  { return c.AccessTokenTTL }
func (c *Config) GetRedisURL() string               { return c.RedisURL }
func (c *Config) GetSweepInterval() time.Duration   { return c.SweepInterval }
func (c *Config) GetSMSEnabled() bool               { return c.SMSEnabled }
func (c *Config) GetTwilioAccountSID() string       { return c.TwilioAccountSID }
func (c *Config) GetTwilioAuthToken() string        { return c.TwilioAuthToken }
func (c *Config) GetTwilioFromNumber() string       { return c.TwilioFromNumber }
func (c *Config) GetSMSTemplatePath() string        { return c.SMSTemplatePath }
func (c *Config) GetEmailEnabled() bool             { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string               { return c.SMTPHost }
func (c *Config) GetSMTPPort() int                  { return c.SMTPPort }
func (c *Config) GetSMTPUser() string               { return c.SMTPUser }
func (c *Config) GetSMTPPassword() string           { return c.SMTPPassword }
func (c *Config) GetEmailFromAddress() string       { return c.EmailFromAddress }
func (c *Config) GetGeminiAPIKey() string           { return c.GeminiAPIKey }
func (c *Config) GetAgentModel() string             { return c.AgentModel }
func (c *Config) GetMinioEndpoint() string          { return c.MinioEndpoint }
func (c *Config) GetMinioAccessKey() string         { return c.MinioAccessKey }
func (c *Config) GetMinioSecretKey() string         { return c.MinioSecretKey }
func (c *Config) GetMinioUseSSL() bool              { return c.MinioUseSSL }
func (c *Config) GetMinioBucketListingPhotos() string { return c.MinioBucketListingPhotos }

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
