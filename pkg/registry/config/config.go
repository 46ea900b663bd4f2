// Package config loads server configuration from the environment and
// builds the service with its repository and blob store.
package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/registrylabs/content-registry/pkg/registry"
	"github.com/registrylabs/content-registry/pkg/registry/auth"
	repomemory "github.com/registrylabs/content-registry/pkg/registry/repo/memory"
	repopg "github.com/registrylabs/content-registry/pkg/registry/repo/postgres"
	fsstorage "github.com/registrylabs/content-registry/pkg/registry/storage/fs"
	memorystorage "github.com/registrylabs/content-registry/pkg/registry/storage/memory"
	s3storage "github.com/registrylabs/content-registry/pkg/registry/storage/s3"
)

// ServerConfig represents server configuration for the content registry
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"` // development, production, testing

	// Auth
	JWTSecret     string `env:"JWT_SECRET"`
	TokenTTLHours int    `env:"TOKEN_TTL_HOURS" env-default:"168"`

	// Uploads
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" env-default:"5242880"`

	// Database; empty means the in-memory repository
	DatabaseURL string `env:"DATABASE_URL"`

	// Storage backend selector:
	//   memory://           in-memory store
	//   file://./data?prefix=/uploads
	//   s3://bucket?region=us-west-2
	StorageURL string `env:"STORAGE_URL" env-default:"memory://"`

	S3 S3Config
}

// S3Config holds the credentials and addressing knobs for the s3 backend
type S3Config struct {
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	Endpoint        string `env:"S3_ENDPOINT"`
	UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" env-default:"false"`
	PresignDuration int    `env:"S3_PRESIGN_DURATION" env-default:"3600"`
	PublicBaseURL   string `env:"S3_PUBLIC_BASE_URL"`
	CreateBucket    bool   `env:"S3_CREATE_BUCKET" env-default:"false"`
}

// Load reads configuration from the environment
func Load() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.TokenTTLHours <= 0 {
		return errors.New("TOKEN_TTL_HOURS must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// TokenTTL returns the configured token lifetime
func (c *ServerConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// BuildTokenService creates the token service from the configuration
func (c *ServerConfig) BuildTokenService() *auth.TokenService {
	return auth.NewTokenService(c.JWTSecret, c.TokenTTL())
}

// BuildRepository creates a Repository based on the configuration
func (c *ServerConfig) BuildRepository(ctx context.Context) (registry.Repository, error) {
	if c.DatabaseURL == "" {
		return repomemory.New(), nil
	}

	cfg, err := pgxpool.ParseConfig(c.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return repopg.NewWithPool(pool), nil
}

// BuildBlobStore creates a BlobStore based on the storage URL
func (c *ServerConfig) BuildBlobStore() (registry.BlobStore, error) {
	u, err := url.Parse(c.StorageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse STORAGE_URL: %w", err)
	}

	switch u.Scheme {
	case "memory", "":
		return memorystorage.New(), nil

	case "file":
		baseDir := u.Host + u.Path
		if baseDir == "" {
			baseDir = "./data/storage"
		}
		return fsstorage.New(fsstorage.Config{
			BaseDir:   baseDir,
			URLPrefix: u.Query().Get("prefix"),
		})

	case "s3":
		region := u.Query().Get("region")
		return s3storage.New(s3storage.Config{
			Region:                 region,
			Bucket:                 u.Host,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			PresignDuration:        c.S3.PresignDuration,
			PublicBaseURL:          c.S3.PublicBaseURL,
			CreateBucketIfNotExist: c.S3.CreateBucket,
		})

	default:
		return nil, fmt.Errorf("unsupported storage scheme: %s", u.Scheme)
	}
}

// BuildService wires the repository and blob store into a service
func (c *ServerConfig) BuildService(ctx context.Context) (registry.Service, registry.BlobStore, error) {
	repo, err := c.BuildRepository(ctx)
	if err != nil {
		return nil, nil, err
	}

	store, err := c.BuildBlobStore()
	if err != nil {
		return nil, nil, err
	}

	svc, err := registry.New(
		registry.WithRepository(repo),
		registry.WithBlobStore(store),
	)
	if err != nil {
		return nil, nil, err
	}

	return svc, store, nil
}

// IsDevelopment reports whether the server runs in development mode
func (c *ServerConfig) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}
