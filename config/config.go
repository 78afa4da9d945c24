package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Storage.
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	StoreDriver       string `mapstructure:"STORE_DRIVER"`       // "mongo" or "memory"
	SubscriptionStore string `mapstructure:"SUBSCRIPTION_STORE"` // "memory" or "mongo"

	// Booking admission.
	LockDriver  string        `mapstructure:"LOCK_DRIVER"` // "local" or "redis"
	LockTTL     time.Duration `mapstructure:"LOCK_TTL"`
	PasskeyCost int           `mapstructure:"PASSKEY_COST"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisLockDB   int    `mapstructure:"REDIS_LOCK_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Push notifications.
	BroadcastQueue          bool          `mapstructure:"BROADCAST_QUEUE"`
	DeliveryTimeout         time.Duration `mapstructure:"DELIVERY_TIMEOUT"`
	VAPIDPublicKey          string        `mapstructure:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey         string        `mapstructure:"VAPID_PRIVATE_KEY"`
	VAPIDSubscriber         string        `mapstructure:"VAPID_SUBSCRIBER"`
	FirebaseCredentialsFile string        `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env file is optional; real deployments use the process environment.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, continuing")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "5000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "carbooking")
	viper.SetDefault("STORE_DRIVER", "mongo")
	viper.SetDefault("SUBSCRIPTION_STORE", "memory")
	viper.SetDefault("LOCK_DRIVER", "local")
	// Above the booking store's 5s lookup + 5s insert timeouts.
	viper.SetDefault("LOCK_TTL", "15s")
	viper.SetDefault("PASSKEY_COST", 10)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_LOCK_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("BROADCAST_QUEUE", false)
	viper.SetDefault("DELIVERY_TIMEOUT", "10s")
	viper.SetDefault("VAPID_PUBLIC_KEY", "")
	viper.SetDefault("VAPID_PRIVATE_KEY", "")
	viper.SetDefault("VAPID_SUBSCRIBER", "")
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// WebPushEnabled reports whether VAPID credentials were supplied.
func WebPushEnabled() bool {
	return AppConfig.VAPIDPublicKey != "" && AppConfig.VAPIDPrivateKey != ""
}
