package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/tracker/internal/blob"
	"github.com/alfredjeanlab/tracker/internal/config"
	"github.com/alfredjeanlab/tracker/internal/events"
	"github.com/alfredjeanlab/tracker/internal/server"
	"github.com/alfredjeanlab/tracker/internal/store/postgres"
	trackersync "github.com/alfredjeanlab/tracker/internal/sync"
	"github.com/alfredjeanlab/tracker/internal/wiki"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the tracker gRPC and HTTP servers",
	GroupID: "system",
	// Override PersistentPreRunE so we don't create a client connection.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		slog.SetDefault(logger)

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				store.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (TRACKER_NATS_URL not set)")
		}

		var blobs blob.Store
		if cfg.AttachmentS3Bucket != "" {
			s3Store, err := blob.NewS3Store(context.Background(), cfg.AttachmentS3Bucket, cfg.AttachmentS3Prefix, cfg.S3Region, cfg.S3Endpoint)
			if err != nil {
				publisher.Close()
				store.Close()
				return err
			}
			blobs = s3Store
			logger.Info("attachment storage", "bucket", cfg.AttachmentS3Bucket, "prefix", cfg.AttachmentS3Prefix)
		} else {
			logger.Info("attachment storage inline (TRACKER_ATTACHMENT_S3_BUCKET not set)")
		}

		if cfg.AuthToken == "" {
			logger.Warn("TRACKER_AUTH_TOKEN not set; bearer access disabled")
		}

		trackerServer := server.NewTrackerServer(store, server.Options{
			Publisher:        publisher,
			Blobs:            blobs,
			Formatter:        wiki.DefaultFormatter(cfg.WikiBaseURL),
			AuthToken:        cfg.AuthToken,
			ServiceUser:      cfg.ServiceUser,
			MaxCategoryDepth: cfg.MaxCategoryDepth,
		})
		grpcServer := server.NewGRPCServer(trackerServer)

		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			publisher.Close()
			store.Close()
			return err
		}

		go func() {
			logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("gRPC server error", "err", err)
			}
		}()

		httpServer := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           trackerServer.NewHTTPHandler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		scheduler := startSync(cfg, store, logger)

		logger.Info("tracker server started",
			"grpc_addr", cfg.GRPCAddr,
			"http_addr", cfg.HTTPAddr,
		)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("sync scheduler stopped")
		}

		grpcServer.GracefulStop()
		logger.Info("gRPC server stopped")

		// SSE streams stay open until their clients leave, so bound the wait.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := store.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}

// startSync starts the export scheduler when a destination is configured.
// It returns nil when sync is disabled.
func startSync(cfg *config.Config, src trackersync.Source, logger *slog.Logger) *trackersync.Scheduler {
	if !cfg.SyncEnabled() {
		return nil
	}

	var dests []trackersync.Destination
	if cfg.SyncS3Bucket != "" {
		s3Dest, err := trackersync.NewS3Destination(context.Background(), cfg.SyncS3Bucket, cfg.SyncS3Key, cfg.S3Region, cfg.S3Endpoint)
		if err != nil {
			logger.Error("failed to create S3 sync destination", "err", err)
		} else {
			dests = append(dests, s3Dest)
			logger.Info("sync S3 destination enabled", "bucket", cfg.SyncS3Bucket, "key", cfg.SyncS3Key, "zstd", s3Dest.Compressed())
		}
	}
	if cfg.SyncGitRepo != "" {
		dests = append(dests, trackersync.NewGitDestination(cfg.SyncGitRepo, cfg.SyncGitFile, cfg.SyncGitBranch))
		logger.Info("sync git destination enabled", "repo", cfg.SyncGitRepo, "file", cfg.SyncGitFile)
	}
	if len(dests) == 0 {
		return nil
	}

	scheduler := trackersync.NewScheduler(src, dests, cfg.SyncInterval, logger)
	scheduler.Start()
	logger.Info("sync scheduler started", "interval", cfg.SyncInterval)
	return scheduler
}
