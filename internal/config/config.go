package config

import (
	"time"

	"github.com/Zethembe177/Job-Portal/internal/platform/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all configuration for the service.
type Config struct {
	ServiceName           string        `mapstructure:"SERVICE_NAME"`
	HTTPPort              string        `mapstructure:"HTTP_PORT"`
	MongoURI              string        `mapstructure:"MONGO_URI"`
	MongoDatabase         string        `mapstructure:"MONGO_DATABASE"`
	JWTSecret             string        `mapstructure:"JWT_SECRET"`
	NATSURL               string        `mapstructure:"NATS_URL"`
	RedisAddress          string        `mapstructure:"REDIS_ADDRESS"`
	MinIOEndpoint         string        `mapstructure:"MINIO_ENDPOINT"`
	MinIOAccessKey        string        `mapstructure:"MINIO_ACCESS_KEY"`
	MinIOSecretKey        string        `mapstructure:"MINIO_SECRET_KEY"`
	MinIOBucket           string        `mapstructure:"MINIO_BUCKET"`
	MinIOUseSSL           bool          `mapstructure:"MINIO_USE_SSL"`
	UploadDir             string        `mapstructure:"UPLOAD_DIR"`
	GeocoderBaseURL       string        `mapstructure:"GEOCODER_BASE_URL"`
	GeocoderTimeout       time.Duration `mapstructure:"GEOCODER_TIMEOUT"`
	PrometheusMetricsPort string        `mapstructure:"PROMETHEUS_METRICS_PORT"`
	LogLevel              string        `mapstructure:"LOG_LEVEL"`
	LogFormat             string        `mapstructure:"LOG_FORMAT"`
	SMTPHost              string        `mapstructure:"SMTP_HOST"`
	SMTPPort              int           `mapstructure:"SMTP_PORT"`
	SMTPEmail             string        `mapstructure:"SMTP_EMAIL"`
	SMTPPassword          string        `mapstructure:"SMTP_PASSWORD"`
}

// Load reads configuration from environment variables. A .env file, if any,
// is loaded by main before this runs.
func Load(appLogger *logger.Logger) (*Config, error) {
	viper.SetDefault("SERVICE_NAME", "job-portal")
	viper.SetDefault("HTTP_PORT", "5000")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "job_portal")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("NATS_URL", "nats://localhost:4222")
	viper.SetDefault("REDIS_ADDRESS", "localhost:6379")
	viper.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	viper.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	viper.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	viper.SetDefault("MINIO_BUCKET", "job-listings")
	viper.SetDefault("MINIO_USE_SSL", false)
	viper.SetDefault("UPLOAD_DIR", "./uploads")
	viper.SetDefault("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org")
	viper.SetDefault("GEOCODER_TIMEOUT", "10s")
	viper.SetDefault("PROMETHEUS_METRICS_PORT", "9091")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("SMTP_HOST", "smtp.gmail.com")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_EMAIL", "")
	viper.SetDefault("SMTP_PASSWORD", "")

	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		appLogger.Error("Failed to unmarshal configuration", zap.Error(err))
		return nil, err
	}

	if cfg.JWTSecret == "" {
		appLogger.Fatal("JWT_SECRET is not set. This is required for security.")
	}
	if cfg.MongoURI == "" {
		appLogger.Fatal("MONGO_URI is not set. This is required.")
	}
	if cfg.MongoDatabase == "" {
		appLogger.Fatal("MONGO_DATABASE is not set. This is required.")
	}

	appLogger.Debug("Configuration loaded",
		zap.String("service_name", cfg.ServiceName),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("mongo_database", cfg.MongoDatabase),
		zap.String("nats_url", cfg.NATSURL),
		zap.String("redis_address", cfg.RedisAddress),
		zap.String("minio_endpoint", cfg.MinIOEndpoint),
		zap.String("geocoder_base_url", cfg.GeocoderBaseURL),
		zap.String("prometheus_port", cfg.PrometheusMetricsPort),
	)

	return &cfg, nil
}
