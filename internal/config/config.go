package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	AuthModeDev  = "dev"
	AuthModeJWT  = "jwt"
	AuthModeOdin = "odin"
)

type Config struct {
	App struct {
		Name         string        `envconfig:"APP_NAME" default:"adopta-api"`
		Env          string        `envconfig:"APP_ENV" default:"development"`
		Port         string        `envconfig:"PORT" default:"8080"`
		ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"5s"`
		WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
		CORSOrigins  []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Log struct {
		Level string `envconfig:"LOG_LEVEL" default:"info"`
	}

	DB struct {
		// Vacío => repos in-memory.
		DSN         string `envconfig:"DB_DSN"`
		AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	}

	Auth struct {
		Mode string `envconfig:"AUTH_MODE" default:"dev"`

		JWTSecret string        `envconfig:"JWT_SECRET"`
		JWTIssuer string        `envconfig:"JWT_ISSUER" default:"adopta-api"`
		JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

		OdinBaseURL      string        `envconfig:"ODIN_BASE_URL"`
		OdinAPIKey       string        `envconfig:"ODIN_API_KEY"`
		OdinAPIKeyHeader string        `envconfig:"ODIN_API_KEY_HEADER"`
		OdinTimeout      time.Duration `envconfig:"ODIN_TIMEOUT" default:"5s"`
	}

	Media struct {
		// Vacío => uploads deshabilitados (UploadError).
		Bucket        string `envconfig:"S3_BUCKET"`
		Region        string `envconfig:"S3_REGION" default:"eu-west-1"`
		Endpoint      string `envconfig:"S3_ENDPOINT"`
		PathStyle     bool   `envconfig:"S3_PATH_STYLE"`
		Prefix        string `envconfig:"S3_PREFIX" default:"animals"`
		PublicBaseURL string `envconfig:"MEDIA_PUBLIC_BASE_URL"`
	}

	Notify struct {
		// Vacío => las notificaciones solo se loguean.
		WebhookURL string        `envconfig:"NOTIFY_WEBHOOK_URL"`
		Timeout    time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"5s"`
	}
}

func (c *Config) Addr() string {
	if strings.HasPrefix(c.App.Port, ":") {
		return c.App.Port
	}
	return ":" + c.App.Port
}

func (c *Config) Validate() error {
	switch c.Auth.Mode {
	case AuthModeDev:
	case AuthModeJWT:
		if strings.TrimSpace(c.Auth.JWTSecret) == "" {
			return errors.New("JWT_SECRET is required when AUTH_MODE=jwt")
		}
	case AuthModeOdin:
		if strings.TrimSpace(c.Auth.OdinBaseURL) == "" || strings.TrimSpace(c.Auth.OdinAPIKey) == "" {
			return errors.New("ODIN_BASE_URL and ODIN_API_KEY are required when AUTH_MODE=odin")
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.Auth.Mode)
	}
	return nil
}

// Load lee un .env opcional y luego el entorno.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
