package config

import (
	"os"
	"strconv"
	"time"
)

// DefaultStoreURL is the published remote store script.
const DefaultStoreURL = "https://script.google.com/macros/s/AKfycbxvV2UKyCjQR6EvGQH7-TIX3fsj8mxW6K31trv_VrWJK-bxxQ2H86PGCo8vY7nVf8_i/exec"

const defaultMandatoryContent = "🏨 Prestige Travel - Apec Mandala Cham Bay Mũi Né\n☎️ Hotline/Zalo: 093.888.xxxx (Booking 24/7)\n✨ Giá chỉ từ 400k/người - Bao vé hồ bơi & xe điện"

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Store struct {
	URL     string
	Timeout time.Duration
}

type Gemini struct {
	APIKey string
	Model  string
}

type Config struct {
	ListenAddr        string
	Store             Store
	Gemini            Gemini
	Timezone          string
	MediaBackend      string
	UploadConcurrency int
	R2                R2
	RedisURI          string
	PostgresURI       string
	RefreshSchedule   string
	MandatoryContent  string
	LogLevel          string
	LogFormat         string
}

func LoadConfig() *Config {
	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":3000"),
		Store: Store{
			URL:     getEnv("STORE_URL", DefaultStoreURL),
			Timeout: getDuration("STORE_TIMEOUT", 60*time.Second),
		},
		Gemini: Gemini{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Timezone:          getEnv("TIMEZONE", "Asia/Ho_Chi_Minh"),
		MediaBackend:      getEnv("MEDIA_BACKEND", "store"),
		UploadConcurrency: getInt("UPLOAD_CONCURRENCY", 10),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		RedisURI:         getEnv("REDIS_URI", ""),
		PostgresURI:      getEnv("POSTGRES_URI", ""),
		RefreshSchedule:  getEnv("REFRESH_EVERY", "@every 30s"),
		MandatoryContent: getEnv("MANDATORY_CONTENT", defaultMandatoryContent),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}
}

// Location resolves Timezone, falling back to the host zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}
