package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL  string
	JWTSecret    string
	Port         string
	UploadDir    string
	ChatProvider string

	OpenRouterKey string
	GroqKey       string
	GeminiKey     string
	TextModel     string
	VisionModel   string

	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string

	MaxDocumentChars int
	ReapInterval     time.Duration
	RetentionWindow  time.Duration
}

// LoadConfig loads the environment variables and returns config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		Port:         getEnv("PORT", "8080"),
		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		ChatProvider: getEnv("CHAT_PROVIDER", "openrouter"),

		OpenRouterKey: getEnv("OPENROUTER_API_KEY", ""),
		GroqKey:       getEnv("GROQ_API_KEY", ""),
		GeminiKey:     getEnv("GEMINI_API_KEY", ""),
		TextModel:     getEnv("TEXT_MODEL", "meta-llama/llama-3.1-8b-instruct"),
		VisionModel:   getEnv("VISION_MODEL", "meta-llama/llama-3.2-11b-vision-instruct"),

		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),
		BucketName:   getEnv("BUCKET_NAME", "medistaff-avatars"),

		MaxDocumentChars: getEnvInt("MAX_DOC_CHARS", 2000),
		ReapInterval:     getEnvDuration("REAP_INTERVAL", 12*time.Hour),
		RetentionWindow:  getEnvDuration("RETENTION_WINDOW", 24*time.Hour),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("WARN: %s=%q not a duration, using default %s", key, v, def)
		return def
	}
	return d
}
