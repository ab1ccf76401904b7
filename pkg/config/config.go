package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Gemini   GeminiConfig
	Groq     GroqConfig
	OCR      OCRConfig
	Storage  StorageConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	RefreshExp time.Duration
}

// GeminiConfig configures the vision analysis vendor. An empty APIKey
// disables the vision call; analyses then run on the OCR-only fallback.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// GroqConfig configures the chat-completion vendor (OpenAI-compatible API).
type GroqConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxRetries int
	Timeout    time.Duration
}

type OCRConfig struct {
	// Tesseract language codes, comma separated (receipts are Brazilian).
	Languages string
	// Tolerated percentage difference between declared and extracted values.
	TolerancePercent float64
}

type StorageConfig struct {
	UploadDir string
}

func Load() (*Config, error) {
	// Try to load .env from the current directory or the project root.
	// Plain environment variables win when no file is found (Docker/K8s).
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	refreshExp, _ := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168"))
	tolerance, err := strconv.ParseFloat(getEnv("OCR_TOLERANCE_PERCENT", "5.0"), 64)
	if err != nil || tolerance < 0 {
		tolerance = 5.0
	}
	chatRetries, _ := strconv.Atoi(getEnv("GROQ_MAX_RETRIES", "2"))
	chatTimeout, _ := strconv.Atoi(getEnv("GROQ_TIMEOUT_SECONDS", "30"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "sispar"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
			RefreshExp: time.Duration(refreshExp) * time.Hour,
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
		},
		Groq: GroqConfig{
			APIKey:     getEnv("GROQ_API_KEY", ""),
			BaseURL:    getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:      getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
			MaxRetries: chatRetries,
			Timeout:    time.Duration(chatTimeout) * time.Second,
		},
		OCR: OCRConfig{
			Languages:        getEnv("OCR_LANGUAGES", "por,eng"),
			TolerancePercent: tolerance,
		},
		Storage: StorageConfig{
			UploadDir: getEnv("UPLOAD_DIR", "uploads"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
