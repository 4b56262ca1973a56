package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBTimezone        string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	JWTSecret   string
	CORSOrigins []string

	MaxPhotoBytes int64

	PredictionURL     string
	ExplanationURL    string
	ExplanationAPIKey string
	HTTPClientTimeout time.Duration

	KafkaBrokers []string
	KafkaTopic   string
}

var (
	cfg  *Config
	once sync.Once
)

// LoadConfig membaca .env (kalau ada) lalu environment variable, dengan default yang masuk akal
// untuk pengembangan lokal. Hasilnya di-cache untuk seluruh proses.
func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: .env file not found. Relying on environment variables.")
		}
		cfg = fromEnv()
	})
	return cfg
}

func fromEnv() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "3001")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_NAME", "hospital")
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_TIMEZONE", "Local")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("MAX_PHOTO_BYTES", 5*1024*1024)
	v.SetDefault("HTTP_CLIENT_TIMEOUT", "15s")
	v.SetDefault("KAFKA_TOPIC", "hospital-eventos")

	return &Config{
		AppEnv:            v.GetString("APP_ENV"),
		Port:              v.GetString("PORT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		DBUser:            v.GetString("DB_USER"),
		DBPassword:        v.GetString("DB_PASSWORD"),
		DBHost:            v.GetString("DB_HOST"),
		DBPort:            v.GetString("DB_PORT"),
		DBName:            v.GetString("DB_NAME"),
		DBTimezone:        v.GetString("DB_TIMEZONE"),
		DBMaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		CORSOrigins:       splitList(v.GetString("CORS_ORIGINS")),
		MaxPhotoBytes:     v.GetInt64("MAX_PHOTO_BYTES"),
		PredictionURL:     v.GetString("PREDICTION_URL"),
		ExplanationURL:    v.GetString("EXPLANATION_URL"),
		ExplanationAPIKey: v.GetString("EXPLANATION_API_KEY"),
		HTTPClientTimeout: v.GetDuration("HTTP_CLIENT_TIMEOUT"),
		KafkaBrokers:      splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:        v.GetString("KAFKA_TOPIC"),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.AppEnv == "development"
}

// AuthEnabled bernilai true bila JWT_SECRET diisi; tanpa secret, /api terbuka seperti sistem lama.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// Validate memastikan konfigurasi minimum untuk koneksi database dan listener HTTP.
func (c *Config) Validate() error {
	if c.DBName == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.DBUser == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if err := validPort("PORT", c.Port); err != nil {
		return err
	}
	if err := validPort("DB_PORT", c.DBPort); err != nil {
		return err
	}
	if c.MaxPhotoBytes <= 0 {
		return fmt.Errorf("MAX_PHOTO_BYTES must be positive, got %d", c.MaxPhotoBytes)
	}
	return nil
}

func validPort(name, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("%s must be a valid TCP port, got %q", name, value)
	}
	return nil
}
