package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL string // AUDIT_DATABASE_URL (required)
	HTTPAddr    string // AUDIT_HTTP_ADDR (default ":8081")
	GRPCAddr    string // AUDIT_GRPC_ADDR (default ":9091"; empty = no gRPC health server)
	NATSURL     string // AUDIT_NATS_URL (optional, empty = pub/sub registration is a no-op)
	AuthToken   string // AUDIT_AUTH_TOKEN (optional, empty = auth disabled)
	LogLevel    slog.Level

	PubSubTimeout time.Duration // AUDIT_PUBSUB_TIMEOUT (default 10s)

	// Sample source settings. Samples are read from the binary unless a bucket is set.
	SamplesS3Bucket   string // AUDIT_SAMPLES_S3_BUCKET
	SamplesS3Prefix   string // AUDIT_SAMPLES_S3_PREFIX
	SamplesS3Region   string // AUDIT_SAMPLES_S3_REGION (default "us-east-1")
	SamplesS3Endpoint string // AUDIT_SAMPLES_S3_ENDPOINT (custom endpoint for MinIO)

	ModuleArgsFile string // AUDIT_MODULE_ARGS_FILE (optional TOML file)
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:       os.Getenv("AUDIT_DATABASE_URL"),
		HTTPAddr:          envOrDefault("AUDIT_HTTP_ADDR", ":8081"),
		GRPCAddr:          envOrDefault("AUDIT_GRPC_ADDR", ":9091"),
		NATSURL:           os.Getenv("AUDIT_NATS_URL"),
		AuthToken:         os.Getenv("AUDIT_AUTH_TOKEN"),
		SamplesS3Bucket:   os.Getenv("AUDIT_SAMPLES_S3_BUCKET"),
		SamplesS3Prefix:   os.Getenv("AUDIT_SAMPLES_S3_PREFIX"),
		SamplesS3Region:   envOrDefault("AUDIT_SAMPLES_S3_REGION", "us-east-1"),
		SamplesS3Endpoint: os.Getenv("AUDIT_SAMPLES_S3_ENDPOINT"),
		ModuleArgsFile:    os.Getenv("AUDIT_MODULE_ARGS_FILE"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("AUDIT_DATABASE_URL is required")
	}

	d, err := time.ParseDuration(envOrDefault("AUDIT_PUBSUB_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("AUDIT_PUBSUB_TIMEOUT: %w", err)
	}
	if d <= 0 {
		return nil, fmt.Errorf("AUDIT_PUBSUB_TIMEOUT must be positive, got %s", d)
	}
	c.PubSubTimeout = d

	if err := c.LogLevel.UnmarshalText([]byte(envOrDefault("AUDIT_LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("AUDIT_LOG_LEVEL: %w", err)
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
