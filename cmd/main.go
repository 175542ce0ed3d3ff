package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/albrektsson/gw2-guild-leaderboard/internal/adapters/gw2"
	"github.com/albrektsson/gw2-guild-leaderboard/internal/adapters/http/api"
	"github.com/albrektsson/gw2-guild-leaderboard/internal/adapters/pricing"
	"github.com/albrektsson/gw2-guild-leaderboard/internal/adapters/snapshot"
	"github.com/albrektsson/gw2-guild-leaderboard/internal/app"
	"github.com/albrektsson/gw2-guild-leaderboard/internal/config"
	"github.com/albrektsson/gw2-guild-leaderboard/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Disable default Go metrics collection; the custom registry carries
	// only pipeline metrics.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	command := "run"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	store := snapshot.NewStore(cfg.DataDir)
	client := gw2.NewClient(cfg.GuildID, cfg.APIKey,
		gw2.WithTimeout(time.Duration(cfg.HTTPTimeoutSeconds)*time.Second),
	)
	oracle := pricing.NewOracle(client, pricing.WithBatchSize(cfg.PriceBatchSize))

	svc := app.New(
		app.WithLogger(log),
		app.WithGuildAPI(client),
		app.WithOracle(oracle),
		app.WithStore(store),
		app.WithRetentionDays(cfg.RetentionDays),
		app.WithLeaderboardLimit(cfg.LeaderboardLimit),
	)

	switch command {
	case "fetch":
		requireGuildConfig(cfg)
		if err := svc.Fetch(ctx); err != nil {
			log.Error(ctx, "fetch failed", logger.Error(err))
			os.Exit(1)
		}
	case "compute":
		if _, err := svc.Compute(ctx); err != nil {
			log.Error(ctx, "compute failed", logger.Error(err))
			os.Exit(1)
		}
	case "run":
		requireGuildConfig(cfg)
		if err := svc.Run(ctx); err != nil {
			log.Error(ctx, "run failed", logger.Error(err))
			os.Exit(1)
		}
	case "serve":
		serve(ctx, cfg, svc)
	default:
		os.Stderr.WriteString("usage: guildboard [fetch|compute|run|serve]\n")
		os.Exit(2)
	}
}

// requireGuildConfig exits when the authenticated endpoints cannot be used.
func requireGuildConfig(cfg *config.Config) {
	if cfg.GuildID == "" || cfg.APIKey == "" {
		os.Stderr.WriteString("guild_id and api_key are required; set GWLB_GUILD_ID/GWLB_API_KEY (or GW2_GUILD_ID/GW2_API_KEY)\n")
		os.Exit(2)
	}
}

// serve exposes the persisted outputs over HTTP until the context ends.
func serve(ctx context.Context, cfg *config.Config, svc *app.Service) {
	log := logger.Get()

	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}
