package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	HTTPPort    string `envconfig:"HTTP_PORT"    default:":8000"`
	GrpcPort    string `envconfig:"GRPC_PORT"    default:":50051"` // health service only
	LogLevel    string `envconfig:"LOG_LEVEL"    default:"info"`

	JWTSecret       string        `envconfig:"JWT_SECRET"        required:"true"`
	JWTIssuer       string        `envconfig:"JWT_ISSUER"        default:"legerity"`
	AccessTokenTTL  time.Duration `envconfig:"ACCESS_TOKEN_TTL"  default:"15m"`
	RefreshTokenTTL time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"168h"`

	CORSAllowOrigins []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`
	RunMigrations    bool          `envconfig:"RUN_MIGRATIONS"     default:"true"`
	ShutdownTimeout  time.Duration `envconfig:"SHUTDOWN_TIMEOUT"   default:"30s"`

	AboutNumberOfPersonals   int `envconfig:"ABOUT_NUMBER_OF_PERSONALS"  default:"0"`
	AboutSatisfactionPercent int `envconfig:"ABOUT_SATISFACTION_PERCENT" default:"0"`
}

// Load reads an optional .env file and then the process environment.
func Load(logger *logrus.Logger) (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		logger.Warnf("Error loading .env file (but continuing): %v", err)
	} else if err == nil {
		logger.Info("Loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration from environment variables: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger.Infof("Configuration loaded: HTTP Port=%s, GRPC Port=%s, LogLevel=%s", cfg.HTTPPort, cfg.GrpcPort, cfg.LogLevel)
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.DatabaseURL == "":
		return errors.New("configuration error: DATABASE_URL is not set")
	case c.JWTSecret == "":
		return errors.New("configuration error: JWT_SECRET is not set")
	case c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0:
		return errors.New("configuration error: token lifetimes must be positive")
	case c.AboutSatisfactionPercent < 0 || c.AboutSatisfactionPercent > 100:
		return fmt.Errorf("configuration error: ABOUT_SATISFACTION_PERCENT must be between 0 and 100, got %d", c.AboutSatisfactionPercent)
	case c.AboutNumberOfPersonals < 0:
		return errors.New("configuration error: ABOUT_NUMBER_OF_PERSONALS must not be negative")
	}
	return nil
}
