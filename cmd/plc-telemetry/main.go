// cmd/plc-telemetry/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"

	"github.com/tamzrod/plc-telemetry/internal/config"
	"github.com/tamzrod/plc-telemetry/internal/eventlog"
	"github.com/tamzrod/plc-telemetry/internal/poller"
	"github.com/tamzrod/plc-telemetry/internal/status"
)

func main() {
	cfgPath := pflag.StringP("config", "c", "config.yaml", "path to the YAML configuration file")
	validateOnly := pflag.Bool("validate", false, "validate the configuration and exit")
	console := pflag.Bool("console", true, "also log to stderr")
	pflag.Parse()

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	config.Normalize(cfg)

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	if *validateOnly {
		fmt.Printf("config ok: device=%s driver=%s values=%d interval=%s\n",
			cfg.Device.Name, cfg.Device.Driver, cfg.Layout.Count(), cfg.Poll.Interval())
		return
	}

	if err := run(cfg, *console); err != nil {
		log.Fatalf("plc-telemetry: %v", err)
	}
}

func run(cfg *config.Config, console bool) error {
	logger, closeLog, err := eventlog.New(eventlog.Config{
		Path:       cfg.Log.Path,
		Verbose:    cfg.Log.Verbose,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Console:    console,
	})
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()

	// --------------------
	// Status + metrics
	// --------------------

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	tracker, err := status.NewTracker(reg, cfg.Device.Name)
	if err != nil {
		return fmt.Errorf("status tracker: %w", err)
	}

	// --------------------
	// Poller
	// --------------------

	p, err := poller.Build(cfg, logger, poller.WithTracker(tracker))
	if err != nil {
		return fmt.Errorf("poller build failed (device=%s): %w", cfg.Device.Name, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Addr != "" {
		srv := status.NewServer(cfg.Metrics.Addr, reg, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorw("metrics server exited", "addr", cfg.Metrics.Addr, "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// Blocks until SIGINT/SIGTERM; cycle errors never end the loop.
	if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Infow("shutdown complete", "device", cfg.Device.Name)
	return nil
}
