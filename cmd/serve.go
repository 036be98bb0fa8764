package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"mailsched/internal/config"
	"mailsched/internal/db"
	httpSrv "mailsched/internal/http"
	"mailsched/internal/logger"
	"mailsched/internal/metrics"
	"mailsched/internal/notifier"
	"mailsched/internal/scanner"
	"mailsched/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP server and delivery scanner",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger.Init(cfg.Log.Level)
		defer func() { _ = logger.Log.Sync() }()

		metrics.MustRegister(prometheus.DefaultRegisterer)

		// redis is optional: without it the rate limiter is a pass-through
		var rds *redis.Client
		if cfg.Redis.Addr != "" {
			rds, err = db.NewRedisClient(db.RedisOpts{
				Addr:        cfg.Redis.Addr,
				Password:    cfg.Redis.Password,
				DB:          cfg.Redis.DB,
				DialTimeout: cfg.Redis.DialTimeout,
			})
			if err != nil {
				return fmt.Errorf("redis connect: %w", err)
			}
			defer func() { _ = rds.Close() }()
		}

		// providers -> dispatcher
		var provs []notifier.Provider
		for _, pc := range cfg.Providers {
			if !pc.Enabled {
				continue
			}
			provs = append(provs,
				notifier.NewHTTPProvider(
					pc.Name,
					strings.TrimRight(pc.BaseURL, "/"),
					pc.SendPath,
					pc.APIKey,
					pc.From,
					pc.TimeoutMs,
					pc.Breaker.FailThreshold,
					pc.Breaker.OpenForMs,
				),
			)
		}
		if len(provs) == 0 {
			return fmt.Errorf("no providers enabled in config")
		}
		disp := notifier.NewDispatcher(provs)

		st := store.New()

		scn := scanner.New(st, disp, cfg.Scanner.Interval, cfg.Scanner.Subject, cfg.Scanner.AttemptRetention)

		server := httpSrv.NewServer(cfg, st, disp, rds)

		scanCtx, stopScan := context.WithCancel(context.Background())
		defer stopScan()
		go func() { _ = scn.Run(scanCtx) }()

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(cfg.HTTP.Addr)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			log.Printf("signal received: %s, shutting down...", sig)
		case err := <-errCh:
			if err != nil {
				log.Printf("http server exited: %v", err)
			}
		}

		stopScan()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)

		return nil
	},
}
