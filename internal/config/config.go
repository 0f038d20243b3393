package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBUser         string
	DBPassword     string
	DBName         string
	DBHost         string
	DBPort         string
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	BotToken       string
	GeminiAPIKey   string
	GeminiBaseURL  string
	GeminiModel    string
	YookassaShopID string
	YookassaKey    string
	WebhookAddr    string
	CheckoutReturn string
	AllowedYooIp   []string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "biblia_viva"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		BotToken:       getEnv("TELEGRAM_BOT_TOKEN", ""),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiBaseURL:  getEnv("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
		YookassaShopID: getEnv("YOOKASSA_SHOP_ID", ""),
		YookassaKey:    getEnv("YOOKASSA_SECRET_KEY", ""),
		WebhookAddr:    getEnv("WEBHOOK_ADDR", ":8080"),
		CheckoutReturn: getEnv("CHECKOUT_RETURN_URL", "https://t.me/BibliaVivaBot"),
		AllowedYooIp: []string{
			"185.71.76.0/27",
			"185.71.77.0/27",
			"77.75.153.0/25",
			"77.75.156.224/28",
			"77.75.154.128/25",
			"2a02:5180::/32",
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
