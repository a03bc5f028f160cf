// Package config assembles a contentworkflow.Workflow from server
// configuration, wiring the repository, storage backends and sinks.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/content-workflow/pkg/contentworkflow"
	"github.com/tendant/content-workflow/pkg/contentworkflow/repo/memory"
	repopg "github.com/tendant/content-workflow/pkg/contentworkflow/repo/postgres"
	memorystorage "github.com/tendant/content-workflow/pkg/contentworkflow/storage/memory"
	s3storage "github.com/tendant/content-workflow/pkg/contentworkflow/storage/s3"
)

// ServerConfig represents server configuration for the content-workflow service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Storage configuration
	DefaultStorageBackend string
	StorageBackends       []StorageBackendConfig

	// Auth configuration
	JWTSecret string

	// Server options
	EnableEventLogging bool
	EnableAuditLogging bool
}

// StorageBackendConfig represents configuration for a storage backend
type StorageBackendConfig struct {
	Name string
	Type string // "memory", "s3"

	// S3 options
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	UsePathStyle    bool
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}
	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}
	if len(c.StorageBackends) == 0 {
		return errors.New("at least one storage backend is required")
	}
	return nil
}

// BuildWorkflow constructs the workflow with repository, storage backends
// and sinks per the configuration.
func (c *ServerConfig) BuildWorkflow(ctx context.Context) (contentworkflow.Workflow, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	options := []contentworkflow.Option{}

	switch c.DatabaseType {
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create database pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		// production schemas are managed by migrations run out of band
		if c.Environment != "production" {
			if err := repopg.EnsureSchema(ctx, pool); err != nil {
				return nil, fmt.Errorf("failed to ensure database schema: %w", err)
			}
		}
		options = append(options, contentworkflow.WithRepository(repopg.NewWithPool(pool)))
	default:
		options = append(options, contentworkflow.WithRepository(memory.New()))
	}

	for _, backendCfg := range c.StorageBackends {
		backend, err := buildStorageBackend(backendCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to build storage backend %s: %w", backendCfg.Name, err)
		}
		options = append(options, contentworkflow.WithBlobStore(backendCfg.Name, backend))
	}
	if c.DefaultStorageBackend != "" {
		options = append(options, contentworkflow.WithDefaultBackend(c.DefaultStorageBackend))
	}

	if c.EnableEventLogging {
		options = append(options, contentworkflow.WithEventSink(contentworkflow.NewLoggingEventSink(slog.Default())))
	}
	if c.EnableAuditLogging {
		options = append(options, contentworkflow.WithAuditSink(contentworkflow.NewLoggingAuditSink(slog.Default())))
	}

	return contentworkflow.New(options...)
}

func buildStorageBackend(cfg StorageBackendConfig) (contentworkflow.BlobStore, error) {
	switch cfg.Type {
	case "memory":
		return memorystorage.New(), nil
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:          cfg.Region,
			Bucket:          cfg.Bucket,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			Endpoint:        cfg.Endpoint,
			UsePathStyle:    cfg.UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend type: %s", cfg.Type)
	}
}
