package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL   string // BAZAAR_DATABASE_URL (required)
	HTTPAddr      string // BAZAAR_HTTP_ADDR (default ":8080")
	NATSURL       string // BAZAAR_NATS_URL (optional, empty = no events)
	AuthToken     string // BAZAAR_AUTH_TOKEN (optional, empty = auth disabled)
	ResourcesFile string // BAZAAR_RESOURCES_FILE (optional TOML overrides)

	// Snapshot settings
	SnapshotInterval   time.Duration // BAZAAR_SNAPSHOT_INTERVAL (default 3m; 0 = disabled)
	SnapshotS3Bucket   string        // BAZAAR_SNAPSHOT_S3_BUCKET (enables S3 when set)
	SnapshotS3Endpoint string        // BAZAAR_SNAPSHOT_S3_ENDPOINT (custom endpoint for MinIO)
	SnapshotS3Region   string        // BAZAAR_SNAPSHOT_S3_REGION (default "us-east-1")
	SnapshotS3Key      string        // BAZAAR_SNAPSHOT_S3_KEY (default "bazaar/backup.jsonl")
	SnapshotFile       string        // BAZAAR_SNAPSHOT_FILE (enables local file when set)
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:        os.Getenv("BAZAAR_DATABASE_URL"),
		HTTPAddr:           envOrDefault("BAZAAR_HTTP_ADDR", ":8080"),
		NATSURL:            os.Getenv("BAZAAR_NATS_URL"),
		AuthToken:          os.Getenv("BAZAAR_AUTH_TOKEN"),
		ResourcesFile:      os.Getenv("BAZAAR_RESOURCES_FILE"),
		SnapshotS3Bucket:   os.Getenv("BAZAAR_SNAPSHOT_S3_BUCKET"),
		SnapshotS3Endpoint: os.Getenv("BAZAAR_SNAPSHOT_S3_ENDPOINT"),
		SnapshotS3Region:   envOrDefault("BAZAAR_SNAPSHOT_S3_REGION", "us-east-1"),
		SnapshotS3Key:      envOrDefault("BAZAAR_SNAPSHOT_S3_KEY", "bazaar/backup.jsonl"),
		SnapshotFile:       os.Getenv("BAZAAR_SNAPSHOT_FILE"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("BAZAAR_DATABASE_URL is required")
	}

	intervalStr := envOrDefault("BAZAAR_SNAPSHOT_INTERVAL", "3m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("BAZAAR_SNAPSHOT_INTERVAL: %w", err)
		}
		c.SnapshotInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
