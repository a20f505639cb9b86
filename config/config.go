package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSOrigins       string `mapstructure:"CORS_ORIGINS"`

	// Admin authentication. AuthProvider is "jwt" (local login) or
	// "firebase" (verify Firebase ID tokens carrying an admin claim).
	AuthProvider        string `mapstructure:"AUTH_PROVIDER"`
	JWTSecret           string `mapstructure:"JWT_SECRET"`
	AdminEmail          string `mapstructure:"ADMIN_EMAIL"`
	AdminPasswordHash   string `mapstructure:"ADMIN_PASSWORD_HASH"` // bcrypt
	FirebaseCredentials string `mapstructure:"FIREBASE_CREDENTIALS"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Terminal booking requests are archived this many days after leaving
	// the pending state.
	RequestRetentionDays int `mapstructure:"REQUEST_RETENTION_DAYS"`

	// Default schedule used until an admin saves one.
	ScheduleMode         string `mapstructure:"SCHEDULE_MODE"`
	ScheduleOpenMinutes  int    `mapstructure:"SCHEDULE_OPEN_MINUTES"`
	ScheduleCloseMinutes int    `mapstructure:"SCHEDULE_CLOSE_MINUTES"`
	ScheduleStepMinutes  int    `mapstructure:"SCHEDULE_STEP_MINUTES"`
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
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "salonbook")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 60)
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("AUTH_PROVIDER", "jwt")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("ADMIN_EMAIL", "admin@salonbook.local")
	viper.SetDefault("ADMIN_PASSWORD_HASH", "")
	viper.SetDefault("FIREBASE_CREDENTIALS", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("REQUEST_RETENTION_DAYS", 30)
	viper.SetDefault("SCHEDULE_MODE", "week")
	viper.SetDefault("SCHEDULE_OPEN_MINUTES", 8*60)
	viper.SetDefault("SCHEDULE_CLOSE_MINUTES", 18*60)
	viper.SetDefault("SCHEDULE_STEP_MINUTES", 30)

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
