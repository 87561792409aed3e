package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Store backends understood by STORE_BACKEND.
const (
	BackendFirestore = "firestore"
	BackendMongo     = "mongo"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string   `mapstructure:"APP_PORT"`
	Env               string   `mapstructure:"ENV"`
	LogLevel          string   `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int      `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSOrigins       []string `mapstructure:"CORS_ORIGINS"`

	// Firebase (identity, Firestore, FCM).
	FirebaseServiceAccount string `mapstructure:"FIREBASE_SERVICE_ACCOUNT"`
	FirebaseProjectID      string `mapstructure:"FIREBASE_PROJECT_ID"`
	CheckRevoked           bool   `mapstructure:"CHECK_REVOKED"`
	NotifyProviders        bool   `mapstructure:"NOTIFY_PROVIDERS"`

	// Document store.
	StoreBackend string `mapstructure:"STORE_BACKEND"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Razorpay.
	RazorpayKeyID     string `mapstructure:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret string `mapstructure:"RAZORPAY_KEY_SECRET"`
	DoctorFee         int64  `mapstructure:"DOCTOR_FEE"`
	PaymentCurrency   string `mapstructure:"PAYMENT_CURRENCY"`

	EnforceAppointmentOwnership bool `mapstructure:"ENFORCE_APPOINTMENT_OWNERSHIP"`

	// Redis configuration. An empty address disables every Redis-backed cache.
	RedisAddr         string        `mapstructure:"REDIS_ADDR"`
	RedisPassword     string        `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB      int           `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB       int           `mapstructure:"REDIS_AUTH_DB"`
	RedisQueueDB      int           `mapstructure:"REDIS_QUEUE_DB"`
	AuthCacheTTL      time.Duration `mapstructure:"AUTH_CACHE_TTL"`
	ProvidersCacheTTL time.Duration `mapstructure:"PROVIDERS_CACHE_TTL"`
}

// LoadConfig reads config.yaml (from "." or "./config") and the environment.
// Environment variables win over the file.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	// Every key needs a default so that Unmarshal sees env overrides.
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("CORS_ORIGINS", []string{"*"})
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT", "serviceAccountKey.json")
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("CHECK_REVOKED", false)
	v.SetDefault("NOTIFY_PROVIDERS", false)
	v.SetDefault("STORE_BACKEND", BackendFirestore)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "medibook")
	v.SetDefault("RAZORPAY_KEY_ID", "")
	v.SetDefault("RAZORPAY_KEY_SECRET", "")
	v.SetDefault("DOCTOR_FEE", 500)
	v.SetDefault("PAYMENT_CURRENCY", "INR")
	v.SetDefault("ENFORCE_APPOINTMENT_OWNERSHIP", false)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_AUTH_DB", 1)
	v.SetDefault("REDIS_QUEUE_DB", 2)
	v.SetDefault("AUTH_CACHE_TTL", "10m")
	v.SetDefault("PROVIDERS_CACHE_TTL", "1m")

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

// Validate checks the values the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	switch c.StoreBackend {
	case BackendFirestore, BackendMongo:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}
	if _, err := os.Stat(c.FirebaseServiceAccount); err != nil {
		errs = append(errs, fmt.Errorf("firebase service account JSON file not found at %q: set FIREBASE_SERVICE_ACCOUNT", c.FirebaseServiceAccount))
	}
	if c.RazorpayKeyID == "" || c.RazorpayKeySecret == "" {
		errs = append(errs, errors.New("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required"))
	}
	if c.DoctorFee <= 0 {
		errs = append(errs, fmt.Errorf("DOCTOR_FEE must be positive, got %d", c.DoctorFee))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// RedisEnabled reports whether a Redis address was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}
