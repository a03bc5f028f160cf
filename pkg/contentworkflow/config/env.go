package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig mirrors the environment variables the server understands.
type envConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	DatabaseType string `env:"DATABASE_TYPE" env-default:"memory"`
	DatabaseURL  string `env:"DATABASE_URL"`

	StorageBackend string `env:"STORAGE_BACKEND" env-default:"memory"`

	S3Region          string `env:"S3_REGION"`
	S3Bucket          string `env:"S3_BUCKET"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" env-default:"false"`

	JWTSecret string `env:"JWT_SECRET" env-default:"dev-secret"`

	EnableEventLogging bool `env:"ENABLE_EVENT_LOGGING" env-default:"true"`
	EnableAuditLogging bool `env:"ENABLE_AUDIT_LOGGING" env-default:"true"`
}

// LoadServerConfig builds a ServerConfig from environment variables.
func LoadServerConfig() (*ServerConfig, error) {
	var env envConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg := &ServerConfig{
		Port:                  env.Port,
		Environment:           env.Environment,
		DatabaseType:          env.DatabaseType,
		DatabaseURL:           env.DatabaseURL,
		DefaultStorageBackend: env.StorageBackend,
		JWTSecret:             env.JWTSecret,
		EnableEventLogging:    env.EnableEventLogging,
		EnableAuditLogging:    env.EnableAuditLogging,
	}

	switch env.StorageBackend {
	case "s3":
		cfg.StorageBackends = []StorageBackendConfig{{
			Name:            "s3",
			Type:            "s3",
			Region:          env.S3Region,
			Bucket:          env.S3Bucket,
			AccessKeyID:     env.S3AccessKeyID,
			SecretAccessKey: env.S3SecretAccessKey,
			Endpoint:        env.S3Endpoint,
			UsePathStyle:    env.S3UsePathStyle,
		}}
	default:
		cfg.StorageBackends = []StorageBackendConfig{{
			Name: "memory",
			Type: "memory",
		}}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
