package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"

	MediaLocal  = "local"
	MediaGridFS = "gridfs"
	MediaS3     = "s3"

	defaultTokenSecret = "connectly-dev-secret-change-me"
)

// Config holds application configuration values loaded from .env and the environment.
type Config struct {
	Port                    string        `mapstructure:"PORT"`
	Env                     string        `mapstructure:"ENV"`
	StoreDriver             string        `mapstructure:"STORE_DRIVER"`
	MongoURI                string        `mapstructure:"MONGO_URI"`
	MongoDatabase           string        `mapstructure:"MONGO_DATABASE"`
	PostgresURL             string        `mapstructure:"POSTGRES_URL"`
	RedisURL                string        `mapstructure:"REDIS_URL"`
	TokenSecret             string        `mapstructure:"TOKEN_SECRET"`
	TokenTTL                time.Duration `mapstructure:"TOKEN_TTL"`
	MediaBackend            string        `mapstructure:"MEDIA_BACKEND"`
	UploadsDir              string        `mapstructure:"UPLOADS_DIR"`
	MaxUploadBytes          int64         `mapstructure:"MAX_UPLOAD_BYTES"`
	S3Bucket                string        `mapstructure:"S3_BUCKET"`
	S3Region                string        `mapstructure:"S3_REGION"`
	S3Endpoint              string        `mapstructure:"S3_ENDPOINT"`
	S3AccessKeyID           string        `mapstructure:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey       string        `mapstructure:"S3_SECRET_ACCESS_KEY"`
	FirebaseCredentialsPath string        `mapstructure:"FIREBASE_CREDENTIALS_PATH"`
	MetricsPort             string        `mapstructure:"METRICS_PORT"`
}

// Load reads .env when present, overlays the environment on the defaults and
// validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, assuming environment variables are set.")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "connectly")
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("TOKEN_SECRET", defaultTokenSecret)
	v.SetDefault("TOKEN_TTL", "0s")
	v.SetDefault("MEDIA_BACKEND", MediaLocal)
	v.SetDefault("UPLOADS_DIR", "uploads")
	v.SetDefault("MAX_UPLOAD_BYTES", 5<<20)
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")
	v.SetDefault("FIREBASE_CREDENTIALS_PATH", "")
	v.SetDefault("METRICS_PORT", "9090")
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate ensures that required configuration values are present and consistent.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.TokenSecret == "" {
		return errors.New("TOKEN_SECRET is required")
	}
	if c.IsProduction() && c.TokenSecret == defaultTokenSecret {
		return errors.New("TOKEN_SECRET must be changed from the default value in production")
	}
	if c.TokenTTL < 0 {
		return errors.New("TOKEN_TTL must not be negative")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}

	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required for the mongo store")
		}
	case DriverPostgres:
		if c.PostgresURL == "" {
			return errors.New("POSTGRES_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.MediaBackend {
	case MediaLocal:
		if c.UploadsDir == "" {
			return errors.New("UPLOADS_DIR is required for local media")
		}
	case MediaGridFS:
		if c.StoreDriver != DriverMongo {
			return errors.New("MEDIA_BACKEND=gridfs requires STORE_DRIVER=mongo")
		}
	case MediaS3:
		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET is required for s3 media")
		}
	default:
		return fmt.Errorf("unknown MEDIA_BACKEND %q", c.MediaBackend)
	}
	return nil
}
