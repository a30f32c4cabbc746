package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration (auth-session cache).
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`

	// Reminder scheduler.
	EventNotifyURL            string `mapstructure:"EVENT_NOTIFY_URL"`
	EventNotifyTimeoutSeconds int    `mapstructure:"EVENT_NOTIFY_TIMEOUT_SECONDS"`
	SchedulerIntervalSeconds  int    `mapstructure:"SCHEDULER_INTERVAL_SECONDS"`
	SchedulerBatchLimit       int64  `mapstructure:"SCHEDULER_BATCH_LIMIT"`

	// Optional Firebase Cloud Messaging credentials for the secondary
	// push path; empty disables FCM entirely.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "evently")
	viper.SetDefault("EVENT_NOTIFY_URL", "")
	viper.SetDefault("EVENT_NOTIFY_TIMEOUT_SECONDS", 10)
	viper.SetDefault("SCHEDULER_INTERVAL_SECONDS", 60)
	viper.SetDefault("SCHEDULER_BATCH_LIMIT", 50)
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// SchedulerInterval returns the scheduler tick interval as a duration.
func SchedulerInterval() time.Duration {
	return time.Duration(AppConfig.SchedulerIntervalSeconds) * time.Second
}

// EventNotifyTimeout bounds the outbound callback HTTP call.
func EventNotifyTimeout() time.Duration {
	return time.Duration(AppConfig.EventNotifyTimeoutSeconds) * time.Second
}
