package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL string // TRACKER_DATABASE_URL (required)
	GRPCAddr    string // TRACKER_GRPC_ADDR (default ":9090")
	HTTPAddr    string // TRACKER_HTTP_ADDR (default ":8080")
	NATSURL     string // TRACKER_NATS_URL (optional, empty = no events)
	AuthToken   string // TRACKER_AUTH_TOKEN (optional, empty = no bearer access)
	ServiceUser string // TRACKER_SERVICE_USER (default "service")

	// Attachment storage
	AttachmentS3Bucket string // TRACKER_ATTACHMENT_S3_BUCKET (empty = store inline)
	AttachmentS3Prefix string // TRACKER_ATTACHMENT_S3_PREFIX (default "attachments/")
	S3Endpoint         string // TRACKER_S3_ENDPOINT (custom endpoint for MinIO)
	S3Region           string // TRACKER_S3_REGION (default "us-east-1")

	MaxCategoryDepth int    // TRACKER_MAX_CATEGORY_DEPTH (default 64)
	WikiBaseURL      string // TRACKER_WIKI_BASE_URL (default "/")

	// Sync settings
	SyncInterval  time.Duration // TRACKER_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket  string        // TRACKER_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Key     string        // TRACKER_SYNC_S3_KEY (default "tracker/backup.jsonl")
	SyncGitRepo   string        // TRACKER_SYNC_GIT_REPO (enables git when set; path to clone)
	SyncGitFile   string        // TRACKER_SYNC_GIT_FILE (default "tracker.jsonl")
	SyncGitBranch string        // TRACKER_SYNC_GIT_BRANCH (default "main")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:        os.Getenv("TRACKER_DATABASE_URL"),
		GRPCAddr:           envOrDefault("TRACKER_GRPC_ADDR", ":9090"),
		HTTPAddr:           envOrDefault("TRACKER_HTTP_ADDR", ":8080"),
		NATSURL:            os.Getenv("TRACKER_NATS_URL"),
		AuthToken:          os.Getenv("TRACKER_AUTH_TOKEN"),
		ServiceUser:        envOrDefault("TRACKER_SERVICE_USER", "service"),
		AttachmentS3Bucket: os.Getenv("TRACKER_ATTACHMENT_S3_BUCKET"),
		AttachmentS3Prefix: envOrDefault("TRACKER_ATTACHMENT_S3_PREFIX", "attachments/"),
		S3Endpoint:         os.Getenv("TRACKER_S3_ENDPOINT"),
		S3Region:           envOrDefault("TRACKER_S3_REGION", "us-east-1"),
		WikiBaseURL:        envOrDefault("TRACKER_WIKI_BASE_URL", "/"),
		SyncS3Bucket:       os.Getenv("TRACKER_SYNC_S3_BUCKET"),
		SyncS3Key:          envOrDefault("TRACKER_SYNC_S3_KEY", "tracker/backup.jsonl"),
		SyncGitRepo:        os.Getenv("TRACKER_SYNC_GIT_REPO"),
		SyncGitFile:        envOrDefault("TRACKER_SYNC_GIT_FILE", "tracker.jsonl"),
		SyncGitBranch:      envOrDefault("TRACKER_SYNC_GIT_BRANCH", "main"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("TRACKER_DATABASE_URL is required")
	}

	depth, err := strconv.Atoi(envOrDefault("TRACKER_MAX_CATEGORY_DEPTH", "64"))
	if err != nil {
		return nil, fmt.Errorf("TRACKER_MAX_CATEGORY_DEPTH: %w", err)
	}
	if depth < 1 {
		return nil, fmt.Errorf("TRACKER_MAX_CATEGORY_DEPTH must be positive, got %d", depth)
	}
	c.MaxCategoryDepth = depth

	d, err := time.ParseDuration(envOrDefault("TRACKER_SYNC_INTERVAL", "3m"))
	if err != nil {
		return nil, fmt.Errorf("TRACKER_SYNC_INTERVAL: %w", err)
	}
	c.SyncInterval = d

	return c, nil
}

// SyncEnabled reports whether at least one sync destination is configured
// and the interval is positive.
func (c *Config) SyncEnabled() bool {
	return c.SyncInterval > 0 && (c.SyncS3Bucket != "" || c.SyncGitRepo != "")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
