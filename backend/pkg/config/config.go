package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Neo4j
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Agent backend (openai-compatible endpoint)
	AgentBaseURL string
	AgentAPIKey  string
	AgentModelID string

	// Translation service
	TranslateURL string

	// Meta platform credentials
	FacebookPageAccessToken  string
	InstagramPageAccessToken string
	WhatsAppAccessToken      string
	WhatsAppPhoneNumberID    string
	WebhookVerifyToken       string

	// Platforms routed through the language/translation workflow
	TranslationPlatforms []string

	// Billing export endpoints for the cost aggregator
	AWSBillingURL string
	GCPBillingURL string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:                     getEnv("PORT", "8080"),
		Env:                      getEnv("ENV", "development"),
		Neo4jURI:                 getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:                getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:            getEnv("NEO4J_PASSWORD", "password"),
		AgentBaseURL:             getEnv("AGENT_BASE_URL", "http://localhost:4000"),
		AgentAPIKey:              getEnv("AGENT_API_KEY", ""),
		AgentModelID:             getEnv("AGENT_MODEL_ID", ""),
		TranslateURL:             getEnv("TRANSLATE_URL", "http://localhost:5000"),
		FacebookPageAccessToken:  getEnv("FACEBOOK_PAGE_ACCESS_TOKEN", ""),
		InstagramPageAccessToken: getEnv("INSTAGRAM_PAGE_ACCESS_TOKEN", ""),
		WhatsAppAccessToken:      getEnv("WHATSAPP_ACCESS_TOKEN", ""),
		WhatsAppPhoneNumberID:    getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		WebhookVerifyToken:       getEnv("WEBHOOK_VERIFY_TOKEN", ""),
		TranslationPlatforms:     getEnvList("TRANSLATION_PLATFORMS", []string{"facebook", "instagram", "whatsapp"}),
		AWSBillingURL:            getEnv("AWS_BILLING_URL", ""),
		GCPBillingURL:            getEnv("GCP_BILLING_URL", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Neo4jURI == "" {
		return fmt.Errorf("NEO4J_URI is required")
	}
	if c.Neo4jUser == "" {
		return fmt.Errorf("NEO4J_USER is required")
	}
	if c.Neo4jPassword == "" {
		return fmt.Errorf("NEO4J_PASSWORD is required")
	}
	if c.AgentBaseURL == "" {
		return fmt.Errorf("AGENT_BASE_URL is required")
	}
	// AGENT_MODEL_ID is checked at invoke time so a misconfigured agent degrades
	// to a localized error response instead of blocking startup.
	return nil
}

// TranslationEnabled reports whether a platform routes through the language workflow
func (c *Config) TranslationEnabled(platform string) bool {
	for _, p := range c.TranslationPlatforms {
		if p == platform {
			return true
		}
	}
	return false
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
