package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bilgisen/chronos/internal/logger"
	"github.com/bilgisen/chronos/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Location lookup modes
const (
	LocationNone   = "none"
	LocationStatic = "static"
	LocationIP     = "ip"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port" validate:"required,numeric"`
	Env             string        `json:"env"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" validate:"gt=0"`
	HTTPTimeout     time.Duration `json:"http_timeout" validate:"gt=0"`

	// AI Configuration
	AIApiKey    string        `json:"-"`
	AIModel     string        `json:"ai_model" validate:"required"`
	AIBaseURL   string        `json:"ai_base_url" validate:"required,url"`
	AITimeout   time.Duration `json:"ai_timeout" validate:"gt=0"`
	AIGrounding bool          `json:"ai_grounding"`

	// Desk defaults
	Topic                 string `json:"topic" validate:"oneof='General News' 'Technology' 'Business' 'Sports' 'Science' 'Entertainment' 'Crypto & Web3'"`
	UpdateIntervalMinutes int    `json:"update_interval_minutes" validate:"oneof=1 15 60 240"`
	AutoPostToX           bool   `json:"auto_post_to_x"`
	LocalMode             bool   `json:"local_mode"`
	ImageBaseURL          string `json:"image_base_url" validate:"omitempty,url"`

	// Syndication simulation
	SyndicationDelay time.Duration `json:"syndication_delay" validate:"gte=0"`
	AuthDelay        time.Duration `json:"auth_delay" validate:"gte=0"`

	// Location
	LocationMode string  `json:"location_mode" validate:"oneof=none static ip"`
	LocationLat  float64 `json:"location_lat" validate:"gte=-90,lte=90"`
	LocationLng  float64 `json:"location_lng" validate:"gte=-180,lte=180"`
	GeoIPURL     string  `json:"geoip_url" validate:"omitempty,url"`

	// Logging
	LogLevel  string `json:"log_level"`
	LogFile   string `json:"log_file"`
	LogPretty bool   `json:"log_pretty"`
}

// Load loads configuration from environment variables and validates it
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := FromEnv()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// FromEnv reads the configuration from the process environment without validating it
func FromEnv() *Config {
	return &Config{
		// Server configuration
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		// AI Configuration
		AIApiKey:    getEnv("AI_API_KEY", ""),
		AIModel:     getEnv("AI_MODEL", "gemini-2.5-flash"),
		AIBaseURL:   getEnv("AI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models"),
		AITimeout:   getEnvAsDuration("AI_TIMEOUT", 60*time.Second),
		AIGrounding: getEnvAsBool("AI_GROUNDING", true),

		// Desk defaults
		Topic:                 getEnv("NEWS_TOPIC", string(models.TopicTech)),
		UpdateIntervalMinutes: getEnvAsInt("UPDATE_INTERVAL_MINUTES", 60),
		AutoPostToX:           getEnvAsBool("AUTO_POST_TO_X", true),
		LocalMode:             getEnvAsBool("LOCAL_MODE", false),
		ImageBaseURL:          getEnv("IMAGE_BASE_URL", "https://images.unsplash.com/photo-1585829365234-78d9b8184481"),

		// Syndication simulation
		SyndicationDelay: getEnvAsDuration("SYNDICATION_DELAY", 1200*time.Millisecond),
		AuthDelay:        getEnvAsDuration("AUTH_DELAY", 2*time.Second),

		// Location
		LocationMode: strings.ToLower(getEnv("LOCATION_MODE", LocationNone)),
		LocationLat:  getEnvAsFloat("LOCATION_LAT", 0),
		LocationLng:  getEnvAsFloat("LOCATION_LNG", 0),
		GeoIPURL:     getEnv("GEOIP_URL", "http://ip-api.com/json"),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", logger.InfoLevel),
		LogFile:   getEnv("LOG_FILE", ""),
		LogPretty: getEnvAsBool("LOG_PRETTY", true),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Settings returns the startup desk settings described by the configuration
func (c *Config) Settings() models.Settings {
	s := models.DefaultSettings()
	if topic, err := models.ParseTopic(c.Topic); err == nil {
		s.Topic = topic
	}
	if models.ValidInterval(c.UpdateIntervalMinutes) {
		s.UpdateIntervalMinutes = c.UpdateIntervalMinutes
	}
	s.AutoPostToX = c.AutoPostToX
	s.LocalMode = c.LocalMode
	return s
}

// LogOutput picks the logger destination
func (c *Config) LogOutput() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return "stdout"
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsFloat(name string, defaultVal float64) float64 {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %t", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
