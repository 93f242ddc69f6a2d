package global

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

func GetIntOrDefault(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// Config is the process configuration, read once from the environment at startup.
type Config struct {
	Port        string
	Environment string
	LogLevel    string
	LogFormat   string
	CORSOrigins []string

	DatabaseURL   string
	MongoURI      string
	MongoDatabase string
	RedisAddress  string
	RedisPassword string
	CartTTL       time.Duration

	AdminUser         string
	AdminPasswordHash string
	AdminPassword     string

	VonageAPIKey    string
	VonageAPISecret string
	SMSFrom         string
	CountryCode     string

	AWSRegion    string
	S3BucketName string

	RazorpayKeyID string
	Currency      string

	AIEndpoint   string
	AIAPIKey     string
	AIDeployment string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        GetEnvOrDefault("PORT", "8000"),
		Environment: GetEnvOrDefault("ENV", "development"),
		LogLevel:    GetEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:   GetEnvOrDefault("LOG_FORMAT", "json"),
		CORSOrigins: splitList(GetEnvOrDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: GetEnvOrDefault("MONGODB_DATABASE", "swiftbites"),
		RedisAddress:  GetEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword: GetEnvOrDefault("REDIS_PASSWORD", ""),
		CartTTL:       GetDurationOrDefault("CART_TTL", 24*time.Hour),

		AdminUser:         GetEnvOrDefault("ADMIN_USER", "admin@site.com"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),

		VonageAPIKey:    os.Getenv("VONAGE_API_KEY"),
		VonageAPISecret: os.Getenv("VONAGE_API_SECRET"),
		SMSFrom:         GetEnvOrDefault("SMS_FROM", "SwiftBites"),
		CountryCode:     GetEnvOrDefault("COUNTRY_CODE", "+91"),

		AWSRegion:    os.Getenv("AWS_REGION"),
		S3BucketName: os.Getenv("S3_BUCKET_NAME"),

		RazorpayKeyID: os.Getenv("RAZORPAY_KEY_ID"),
		Currency:      GetEnvOrDefault("CURRENCY", "INR"),

		AIEndpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
		AIAPIKey:     os.Getenv("AZURE_OPENAI_API_KEY"),
		AIDeployment: GetEnvOrDefault("AZURE_OPENAI_DEPLOYMENT_NAME", "gpt-35-turbo"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set in environment variables")
	}
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is not set in environment variables")
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
