// ocrlayoutd serves the layout engine over HTTP.
//
// Routes:
//
//	POST /v1/pages      one page payload in, one page result out
//	POST /v1/documents  {"pages": [...]} in, results in page order out
//	GET  /healthz       liveness, and Redis reachability when a cache is configured
//
// Thresholds can be overridden per request with the line_tolerance,
// paragraph_gap, column_tolerance, header_max_chars and heuristic_tables
// query parameters. Results are cached in Redis when redis.addr is set.
//
// Usage:
//
//	ocrlayoutd -config config.yml
//	CONFIG_PATH=config.yml ocrlayoutd
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gardar/ocrlayout/internal/cache"
	"github.com/gardar/ocrlayout/internal/config"
	"github.com/gardar/ocrlayout/internal/logging"
	"github.com/gardar/ocrlayout/internal/server"
	"github.com/gardar/ocrlayout/pkg/layout"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintln(flag.CommandLine.Output())
		config.Usage(flag.CommandLine.Output())
	}
	flag.Parse()

	cfg, err := config.Load(config.Path(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Env, os.Stdout)

	engine, err := layout.New(cfg.Layout,
		layout.WithLogger(logger),
		layout.WithWorkers(cfg.Workers),
		layout.WithPageTimeout(cfg.PageTimeout),
	)
	if err != nil {
		logger.Error("invalid layout config", "err", err)
		os.Exit(1)
	}

	var resultCache cache.Cache = cache.Nop{}
	if cfg.Redis.Addr != "" {
		rc := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL, logger)
		defer rc.Close()
		if err := rc.Ping(context.Background()); err != nil {
			logger.Warn("redis not reachable, continuing", "addr", cfg.Redis.Addr, "err", err)
		}
		resultCache = rc
	}

	handler := server.NewHandler(engine, resultCache, logger, cfg.Server.MaxBodyBytes)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.NewRouter(handler),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "addr", cfg.Server.Addr, "workers", cfg.Workers, "cache", cfg.Redis.Addr != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server error", "err", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdown(srv, logger)
	}
}

func shutdown(srv *http.Server, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "err", err)
		return
	}
	logger.Info("HTTP server closed")
}
