package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DatabaseURL        string // Consolidated DB Connection URL
	RedisURL           string
	SupabaseURL        string // Identity provider base URL (public)
	SupabaseAnonKey    string // Public key, safe to hand to clients
	SupabaseServiceKey string // Server-side only, never sent to clients
	OpenAIAPIKey       string
	Port               string
}

// LoadConfig reads configuration from environment variables (.env file)
func LoadConfig() (*Config, error) {
	// Load .env file. In production, env variables are often set directly.
	if err := godotenv.Load(); err != nil {
		// Don't fail if .env is not present, just log it
		// log.Printf("Warning: .env file not found, reading from environment")
	}

	return &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:    getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		Port:               getEnv("PORT", "8080"),
	}, nil
}

// Helper function to get env var or return default
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
