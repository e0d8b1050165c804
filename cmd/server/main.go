package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"statsboard/internal/api"
	"statsboard/internal/config"
	"statsboard/internal/engine"
	"statsboard/internal/logging"
	"statsboard/internal/metrics"
	"statsboard/internal/models"
)

func main() {
	printFlag := flag.Bool("print", false, "Run the pipeline once, print the report as JSON and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.New()
	fsys := afero.NewOsFs()

	if *printFlag {
		if err := printReport(ctx, os.Stdout, fsys, cfg, logger, collector); err != nil {
			logger.Fatal("pipeline failed", zap.Error(err))
		}
		return
	}

	// 1. Start the API with no data; /api answers 503 until the pipeline is done
	h, err := api.NewHandler(nil)
	if err != nil {
		logger.Fatal("handler", zap.Error(err))
	}
	e := api.NewServer(h, collector, logger, api.Options{RateLimitRPS: cfg.RateLimitRPS})

	// 2. Load and compute in the background
	go func() {
		logger.Info("BACKGROUND: starting pipeline")
		t0 := time.Now()

		report, err := run(ctx, fsys, cfg, logger, collector)
		if err != nil {
			logger.Error("BACKGROUND: pipeline failed", zap.Error(err))
			h.SetFailed(err)
			return
		}
		if err := h.SetData(report); err != nil {
			logger.Error("BACKGROUND: publish report", zap.Error(err))
			h.SetFailed(err)
			return
		}
		logger.Info("BACKGROUND: pipeline complete, API is fully ready",
			zap.Duration("took", time.Since(t0)))
	}()

	// 3. Serve until interrupted
	go func() {
		logger.Info("server ready", zap.String("addr", cfg.Addr()))
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

// printReport runs the pipeline once and writes the report as indented JSON.
func printReport(ctx context.Context, w io.Writer, fsys afero.Fs, cfg *config.Config, logger *zap.Logger, m *metrics.Collector) error {
	report, err := run(ctx, fsys, cfg, logger, m)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// run loads both input files and executes the pipeline.
func run(ctx context.Context, fsys afero.Fs, cfg *config.Config, logger *zap.Logger, m *metrics.Collector) (*models.Report, error) {
	ds, err := engine.LoadDataset(fsys, cfg.DatasetPath, logger)
	if err != nil {
		return nil, err
	}
	rules, err := engine.LoadRules(fsys, cfg.RulesPath, logger)
	if err != nil {
		return nil, err
	}
	return engine.NewPipeline(logger, m).Run(ctx, ds, rules)
}
