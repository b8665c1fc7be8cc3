package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/deusflow/digest/internal/app"
	"github.com/deusflow/digest/internal/config"
	"github.com/deusflow/digest/internal/logger"
	"github.com/deusflow/digest/internal/metrics"
)

func main() {
	// Local runs keep secrets in .env; in CI the variables are injected.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Init(false)
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}
	logger.Init(cfg.Debug)

	if cfg.MonitoringPort != "" {
		go startMonitoringServer(cfg.MonitoringPort)
	}

	ctx := context.Background()

	if cfg.CronExpression != "" {
		runScheduled(ctx, cfg)
		return
	}

	if err := app.Run(ctx, cfg); err != nil {
		logger.Error("digest run failed", "error", err)
		os.Exit(1)
	}
}

func runScheduled(ctx context.Context, cfg *config.Config) {
	c := cron.New()
	_, err := c.AddFunc(cfg.CronExpression, func() {
		if err := app.Run(ctx, cfg); err != nil {
			logger.Error("scheduled digest run failed", "error", err)
		}
	})
	if err != nil {
		logger.Error("invalid cron expression", "expr", cfg.CronExpression, "error", err)
		os.Exit(1)
	}

	logger.Info("running on schedule", "expr", cfg.CronExpression)
	c.Run()
}

func startMonitoringServer(port string) {
	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/metrics", metricsHandler)

	logger.Info("starting monitoring server", "port", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		logger.Error("monitoring server error", "error", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	// Headers must be set before the status line goes out.
	w.Header().Set("Content-Type", "application/json")

	status := "ok"
	if !stats["is_healthy"].(bool) {
		status = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	response := map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	}

	json.NewEncoder(w).Encode(response)
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
