package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/flipwell/compintel/internal/cache"
	"github.com/flipwell/compintel/internal/httpapi"
	"github.com/flipwell/compintel/internal/persistence"
	"github.com/flipwell/compintel/internal/persistence/postgres"
	"github.com/flipwell/compintel/internal/pipeline"
	"github.com/flipwell/compintel/internal/sources"
	"github.com/flipwell/compintel/internal/telemetry"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis HTTP server",
		Long: `Serves the batch analysis endpoint plus health and Prometheus metrics.
The report cache and run archive come up only when their config sections
carry an address; without them the server still analyzes, it just recomputes
every request and keeps no history.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	table, err := resolveVocab(cfg)
	if err != nil {
		return err
	}

	tel := telemetry.NewRegistry()
	analyzer := pipeline.NewAnalyzer(cfg.Analyzer, table, tel)

	var reportCache *cache.ReportCache
	if cfg.Cache.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Cache.RedisAddr,
			DB:   cfg.Cache.DB,
		})
		if err := client.Ping(cmd.Context()).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Cache.RedisAddr).
				Msg("redis unreachable, running without report cache")
		} else {
			reportCache = cache.New(client, cfg.CacheTTL(), tel)
			defer client.Close()
			log.Info().Str("addr", cfg.Cache.RedisAddr).Msg("report cache enabled")
		}
	}

	var archive persistence.RunArchive
	if cfg.Archive.PostgresDSN != "" {
		pg, err := postgres.NewArchive(cfg.Archive.PostgresDSN, cfg.ArchiveTimeout())
		if err != nil {
			return err
		}
		defer pg.Close()
		archive = pg
		log.Info().Msg("run archive enabled")
	}

	var fetcher *sources.Client
	if cfg.Sources.BaseURL != "" {
		fetcher = sources.NewClient(sources.Config{
			BaseURL:           cfg.Sources.BaseURL,
			RequestsPerSecond: cfg.Sources.RequestsPerSecond,
			Timeout:           cfg.SourcesTimeout(),
		})
		log.Info().Str("base_url", cfg.Sources.BaseURL).Msg("sources collaborator enabled")
	}

	server := httpapi.NewServer(cfg, analyzer, reportCache, archive, fetcher, tel)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
