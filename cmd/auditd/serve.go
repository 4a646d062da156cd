package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/health"

	"github.com/alfredjeanlab/audit/internal/config"
	"github.com/alfredjeanlab/audit/internal/pubsub"
	"github.com/alfredjeanlab/audit/internal/samples"
	"github.com/alfredjeanlab/audit/internal/server"
	"github.com/alfredjeanlab/audit/internal/store/postgres"
	"github.com/alfredjeanlab/audit/internal/tenant"
)

var serveCmd = &cobra.Command{
	Use:     "serve [key=value ...]",
	Short:   "Start the audit module server",
	Long:    "Start the audit module server. Positional key=value arguments are module arguments\n(for example loadSample=true) and override AUDIT_MODULE_ARGS_FILE and AUDIT_LOAD_SAMPLE.",
	GroupID: "system",
	// Override PersistentPreRunE so we don't create an HTTP client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
		slog.SetDefault(logger)

		moduleArgs, err := config.LoadModuleArgs(cfg.ModuleArgsFile, args)
		if err != nil {
			return err
		}

		// Connect to Postgres.
		schemas, err := postgres.New(cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		clients := postgres.NewClients(cfg.DatabaseURL)

		// Create pub/sub client.
		var bus pubsub.Client
		if cfg.NATSURL != "" {
			nc, err := pubsub.NewNATSClient(cfg.NATSURL, cfg.PubSubTimeout)
			if err != nil {
				schemas.Close()
				return err
			}
			bus = nc
			logger.Info("pub/sub registration enabled", "nats_url", cfg.NATSURL)
		} else {
			bus = pubsub.NoopClient{}
			logger.Info("pub/sub registration disabled (AUDIT_NATS_URL not set)")
		}

		// Pick the sample source.
		var src samples.Source = samples.Embedded()
		if cfg.SamplesS3Bucket != "" {
			s3src, err := samples.NewS3Source(context.Background(),
				cfg.SamplesS3Bucket,
				cfg.SamplesS3Prefix,
				cfg.SamplesS3Region,
				cfg.SamplesS3Endpoint,
			)
			if err != nil {
				bus.Close()
				schemas.Close()
				return err
			}
			src = s3src
			logger.Info("samples served from S3", "bucket", cfg.SamplesS3Bucket, "prefix", cfg.SamplesS3Prefix)
		}

		// Create server components.
		svc := tenant.NewService(
			schemas,
			clients,
			pubsub.NewRegistrar(bus, logger),
			samples.NewLoader(src, logger),
			moduleArgs,
			logger,
		)
		tenantServer := server.NewTenantServer(svc, logger)
		healthServer := health.NewServer()
		grpcServer := server.NewGRPCServer(healthServer, logger)

		// Start gRPC listener.
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			bus.Close()
			schemas.Close()
			return err
		}

		go func() {
			logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("gRPC server error", "err", err)
			}
		}()

		// Start HTTP server.
		httpServer := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           tenantServer.NewHTTPHandler(cfg.AuthToken),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		logger.Info("audit server started",
			"grpc_addr", cfg.GRPCAddr,
			"http_addr", cfg.HTTPAddr,
			"load_sample", moduleArgs.GetOrDefault(config.KeyLoadSample, "false"),
		)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Graceful shutdown.
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		logger.Info("gRPC server stopped")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := bus.Close(); err != nil {
			logger.Error("error closing pub/sub client", "err", err)
		}
		if err := clients.Close(); err != nil {
			logger.Error("error closing tenant clients", "err", err)
		}
		if err := schemas.Close(); err != nil {
			logger.Error("error closing schema manager", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
