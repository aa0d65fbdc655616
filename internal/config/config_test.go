package config

import (
	"testing"
	"time"
)

// allEnvVars lists every variable Load reads; each test starts with them cleared.
var allEnvVars = []string{
	"TRACKER_DATABASE_URL", "TRACKER_GRPC_ADDR", "TRACKER_HTTP_ADDR", "TRACKER_NATS_URL",
	"TRACKER_AUTH_TOKEN", "TRACKER_SERVICE_USER",
	"TRACKER_ATTACHMENT_S3_BUCKET", "TRACKER_ATTACHMENT_S3_PREFIX", "TRACKER_S3_ENDPOINT", "TRACKER_S3_REGION",
	"TRACKER_MAX_CATEGORY_DEPTH", "TRACKER_WIKI_BASE_URL",
	"TRACKER_SYNC_INTERVAL", "TRACKER_SYNC_S3_BUCKET", "TRACKER_SYNC_S3_KEY",
	"TRACKER_SYNC_GIT_REPO", "TRACKER_SYNC_GIT_FILE", "TRACKER_SYNC_GIT_BRANCH",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name         string
		env          map[string]string
		wantErr      bool
		wantGRPCAddr string
		wantHTTPAddr string
		wantNATSURL  string
	}{
		{
			name:    "MissingDatabaseURL",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name:         "DefaultAddresses",
			env:          map[string]string{"TRACKER_DATABASE_URL": "postgres://localhost/tracker"},
			wantGRPCAddr: ":9090",
			wantHTTPAddr: ":8080",
		},
		{
			name: "CustomAddresses",
			env: map[string]string{
				"TRACKER_DATABASE_URL": "postgres://db:5432/tracker",
				"TRACKER_GRPC_ADDR":    ":5050",
				"TRACKER_HTTP_ADDR":    ":3000",
				"TRACKER_NATS_URL":     "nats://localhost:4222",
			},
			wantGRPCAddr: ":5050",
			wantHTTPAddr: ":3000",
			wantNATSURL:  "nats://localhost:4222",
		},
		{
			name: "BadDepth",
			env: map[string]string{
				"TRACKER_DATABASE_URL":       "postgres://localhost/tracker",
				"TRACKER_MAX_CATEGORY_DEPTH": "deep",
			},
			wantErr: true,
		},
		{
			name: "ZeroDepth",
			env: map[string]string{
				"TRACKER_DATABASE_URL":       "postgres://localhost/tracker",
				"TRACKER_MAX_CATEGORY_DEPTH": "0",
			},
			wantErr: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.DatabaseURL != tc.env["TRACKER_DATABASE_URL"] {
				t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, tc.env["TRACKER_DATABASE_URL"])
			}
			if cfg.GRPCAddr != tc.wantGRPCAddr {
				t.Errorf("GRPCAddr = %q, want %q", cfg.GRPCAddr, tc.wantGRPCAddr)
			}
			if cfg.HTTPAddr != tc.wantHTTPAddr {
				t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, tc.wantHTTPAddr)
			}
			if cfg.NATSURL != tc.wantNATSURL {
				t.Errorf("NATSURL = %q, want %q", cfg.NATSURL, tc.wantNATSURL)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("TRACKER_DATABASE_URL", "postgres://localhost/tracker")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range []struct{ name, got, want string }{
		{"ServiceUser", cfg.ServiceUser, "service"},
		{"AttachmentS3Prefix", cfg.AttachmentS3Prefix, "attachments/"},
		{"S3Region", cfg.S3Region, "us-east-1"},
		{"WikiBaseURL", cfg.WikiBaseURL, "/"},
		{"SyncS3Key", cfg.SyncS3Key, "tracker/backup.jsonl"},
		{"SyncGitFile", cfg.SyncGitFile, "tracker.jsonl"},
		{"SyncGitBranch", cfg.SyncGitBranch, "main"},
	} {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.name, c.got, c.want)
		}
	}
	if cfg.MaxCategoryDepth != 64 {
		t.Errorf("MaxCategoryDepth = %d, want 64", cfg.MaxCategoryDepth)
	}
	if cfg.SyncInterval != 3*time.Minute {
		t.Errorf("SyncInterval = %v, want 3m", cfg.SyncInterval)
	}
	if cfg.SyncEnabled() {
		t.Error("sync should be disabled without destinations")
	}
}

func TestLoadCustom(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("TRACKER_DATABASE_URL", "postgres://localhost/tracker")
	t.Setenv("TRACKER_AUTH_TOKEN", "secret")
	t.Setenv("TRACKER_SERVICE_USER", "ci-bot")
	t.Setenv("TRACKER_ATTACHMENT_S3_BUCKET", "files")
	t.Setenv("TRACKER_S3_ENDPOINT", "http://minio:9000")
	t.Setenv("TRACKER_S3_REGION", "eu-west-1")
	t.Setenv("TRACKER_MAX_CATEGORY_DEPTH", "8")
	t.Setenv("TRACKER_WIKI_BASE_URL", "https://bugs.example.com/")
	t.Setenv("TRACKER_SYNC_INTERVAL", "10m")
	t.Setenv("TRACKER_SYNC_S3_BUCKET", "my-bucket")
	t.Setenv("TRACKER_SYNC_S3_KEY", "custom/key.jsonl.zst")
	t.Setenv("TRACKER_SYNC_GIT_REPO", "/tmp/repo")
	t.Setenv("TRACKER_SYNC_GIT_FILE", "custom.jsonl")
	t.Setenv("TRACKER_SYNC_GIT_BRANCH", "backup")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AuthToken != "secret" || cfg.ServiceUser != "ci-bot" {
		t.Errorf("auth = %q/%q", cfg.AuthToken, cfg.ServiceUser)
	}
	if cfg.AttachmentS3Bucket != "files" || cfg.S3Endpoint != "http://minio:9000" || cfg.S3Region != "eu-west-1" {
		t.Errorf("unexpected attachment storage %+v", cfg)
	}
	if cfg.MaxCategoryDepth != 8 {
		t.Errorf("MaxCategoryDepth = %d", cfg.MaxCategoryDepth)
	}
	if cfg.WikiBaseURL != "https://bugs.example.com/" {
		t.Errorf("WikiBaseURL = %q", cfg.WikiBaseURL)
	}
	if cfg.SyncInterval != 10*time.Minute {
		t.Errorf("SyncInterval = %v, want 10m", cfg.SyncInterval)
	}
	if cfg.SyncS3Bucket != "my-bucket" || cfg.SyncS3Key != "custom/key.jsonl.zst" {
		t.Errorf("sync s3 = %q %q", cfg.SyncS3Bucket, cfg.SyncS3Key)
	}
	if cfg.SyncGitRepo != "/tmp/repo" || cfg.SyncGitFile != "custom.jsonl" || cfg.SyncGitBranch != "backup" {
		t.Errorf("sync git = %q %q %q", cfg.SyncGitRepo, cfg.SyncGitFile, cfg.SyncGitBranch)
	}
	if !cfg.SyncEnabled() {
		t.Error("expected sync enabled")
	}
}

func TestLoadSyncInvalidInterval(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("TRACKER_DATABASE_URL", "postgres://localhost/tracker")
	t.Setenv("TRACKER_SYNC_INTERVAL", "not-a-duration")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid TRACKER_SYNC_INTERVAL")
	}
}

func TestLoadSyncDisabled(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("TRACKER_DATABASE_URL", "postgres://localhost/tracker")
	t.Setenv("TRACKER_SYNC_INTERVAL", "0s")
	t.Setenv("TRACKER_SYNC_GIT_REPO", "/tmp/repo")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SyncInterval != 0 {
		t.Errorf("SyncInterval = %v, want 0 (disabled)", cfg.SyncInterval)
	}
	if cfg.SyncEnabled() {
		t.Error("zero interval must disable sync")
	}
}

func TestEnvOrDefault(t *testing.T) {
	for _, tc := range []struct {
		name     string
		key      string
		envVal   string
		fallback string
		want     string
	}{
		{"EmptyUsesDefault", "TEST_ENVDEFAULT_EMPTY", "", "default-val", "default-val"},
		{"SetUsesEnv", "TEST_ENVDEFAULT_SET", "custom", "default-val", "custom"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envVal)
			got := envOrDefault(tc.key, tc.fallback)
			if got != tc.want {
				t.Errorf("envOrDefault(%q, %q) = %q, want %q", tc.key, tc.fallback, got, tc.want)
			}
		})
	}
}
