// Package config loads and validates server configuration and builds the
// configured service with its document and attachment stores.
package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/vereda-ong/vereda-api/pkg/ongcms"
	memoryrepo "github.com/vereda-ong/vereda-api/pkg/ongcms/repo/memory"
	mongorepo "github.com/vereda-ong/vereda-api/pkg/ongcms/repo/mongo"
	memorystorage "github.com/vereda-ong/vereda-api/pkg/ongcms/storage/memory"
	s3storage "github.com/vereda-ong/vereda-api/pkg/ongcms/storage/s3"
)

// ServerConfig represents server configuration for the CMS API
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	// Document store configuration
	DatabaseType  string `env:"DATABASE_TYPE" env-default:"memory"` // "memory", "mongo"
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" env-default:"vereda"`

	// Attachment store configuration
	StorageType string `env:"STORAGE_TYPE" env-default:"memory"` // "memory", "s3"
	S3          S3Config

	// Auth
	JWTSecret string `env:"JWT_SECRET"`
}

// S3Config configures the S3-compatible attachment store
type S3Config struct {
	Region          string `env:"S3_REGION"`
	Bucket          string `env:"S3_BUCKET"`
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	Endpoint        string `env:"S3_ENDPOINT"`
	UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" env-default:"false"`
	PublicBaseURL   string `env:"S3_PUBLIC_BASE_URL"`
}

// Load reads the configuration from the environment and validates it
func Load() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate validates the server configuration. Misconfiguration of the
// attachment store is a startup failure, not a first-use failure.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "mongo" {
		return errors.New("database_type must be 'memory' or 'mongo'")
	}
	if c.DatabaseType == "mongo" && c.MongoURI == "" {
		return errors.New("mongo_uri is required when using mongo")
	}

	if c.StorageType != "memory" && c.StorageType != "s3" {
		return errors.New("storage_type must be 'memory' or 's3'")
	}
	if c.StorageType == "s3" && c.S3.Bucket == "" {
		return errors.New("s3_bucket is required when using s3")
	}

	if c.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}

	return nil
}

// BuildService creates a Service instance from the server configuration.
// The returned cleanup function releases store connections and is safe to
// call once on shutdown.
func (c *ServerConfig) BuildService(ctx context.Context) (ongcms.Service, func(context.Context) error, error) {
	cleanup := func(context.Context) error { return nil }

	var store ongcms.DocumentStore
	switch c.DatabaseType {
	case "mongo":
		mongoStore, client, err := mongorepo.Connect(ctx, c.MongoURI, c.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		store = mongoStore
		cleanup = client.Disconnect
	default:
		store = memoryrepo.New()
	}

	var attachments ongcms.AttachmentStore
	switch c.StorageType {
	case "s3":
		backend, err := s3storage.New(s3storage.Config{
			Region:          c.S3.Region,
			Bucket:          c.S3.Bucket,
			AccessKeyID:     c.S3.AccessKeyID,
			SecretAccessKey: c.S3.SecretAccessKey,
			Endpoint:        c.S3.Endpoint,
			UsePathStyle:    c.S3.UsePathStyle,
			PublicBaseURL:   c.S3.PublicBaseURL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to configure s3 storage: %w", err)
		}
		attachments = backend
	default:
		attachments = memorystorage.New()
	}

	svc, err := ongcms.New(
		ongcms.WithDocumentStore(store),
		ongcms.WithAttachmentStore(attachments),
	)
	if err != nil {
		return nil, nil, err
	}

	return svc, cleanup, nil
}
