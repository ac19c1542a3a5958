package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/engineop/analyzer"
	"github.com/engineop/analyzer/api"
	"github.com/engineop/analyzer/crawler"
	"github.com/engineop/analyzer/llm"
	"github.com/engineop/analyzer/storage"
	"github.com/engineop/analyzer/tracing"

	dbpkg "github.com/engineop/analyzer/db"
)

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	// Setup structured logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("engineop service initializing", "version", "1.0.0")

	// Initialize tracing
	tp, err := tracing.InitTracer("engineop-analyzer")
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error("error shutting down tracer", "error", err)
			}
		}()
		logger.Info("tracing initialized successfully")
	}

	// Default values
	defaultPort := getEnv("PORT", "8080")
	defaultDBPath := getEnv("DB_PATH", "./engineop.db")
	defaultStoragePath := getEnv("STORAGE_BASE_PATH", "./storage")
	defaultProvider := getEnv("LLM_PROVIDER", "anthropic")
	defaultModel := getEnv("LLM_MODEL", llm.DefaultConfig().Model)
	defaultBaseURL := getEnv("LLM_BASE_URL", "")
	defaultRateLimit := getEnv("RATE_LIMIT", "10")

	rateLimit, err := strconv.Atoi(defaultRateLimit)
	if err != nil || rateLimit < 1 {
		logger.Warn("invalid RATE_LIMIT value, using default", "provided", defaultRateLimit, "default", 10)
		rateLimit = 10
	}

	// Command-line flags (override environment variables)
	port := flag.String("port", defaultPort, "Server port")
	dbPath := flag.String("db-path", defaultDBPath, "SQLite database file path")
	storagePath := flag.String("storage-path", defaultStoragePath, "Base directory for archived reports")
	provider := flag.String("llm-provider", defaultProvider, "LLM provider (anthropic or openai)")
	model := flag.String("llm-model", defaultModel, "LLM model identifier")
	baseURL := flag.String("llm-base-url", defaultBaseURL, "Override LLM API base URL")
	maxConcurrentLLM := flag.Int("max-concurrent-llm", 3, "Maximum pages analyzed by the LLM concurrently")
	disableCORS := flag.Bool("disable-cors", false, "Disable CORS")
	flag.Parse()

	config := api.Config{
		Addr:     ":" + *port,
		DBConfig: dbpkg.Config{Path: *dbPath},
		AnalyzerConfig: analyzer.Config{
			Crawler: crawler.DefaultConfig(),
			LLM: llm.Config{
				Provider: *provider,
				Model:    *model,
				BaseURL:  *baseURL,
				Timeout:  180 * time.Second,
			},
			MaxConcurrentLLM: *maxConcurrentLLM,
		},
		StorageConfig: storage.Config{BasePath: *storagePath},
		RateLimit:     rateLimit,
		RateWindow:    time.Hour,
		CORSEnabled:   !*disableCORS,
	}

	server, err := api.NewServer(config)
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	// Periodically drop stale rate limiter entries
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			server.CleanupRateLimiter()
		}
	}()

	// Start server in a goroutine
	go func() {
		logger.Info("engineop service starting",
			"port", *port,
			"db_path", *dbPath,
			"storage_path", *storagePath,
			"llm_provider", *provider,
			"llm_model", *model,
			"rate_limit", rateLimit,
		)

		if err := server.Start(); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logger.Info("shutting down gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
