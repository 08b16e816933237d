package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daehan-lim/slack-digest/internal/domain/repository"
	"github.com/daehan-lim/slack-digest/internal/infrastructure/config"
	"github.com/daehan-lim/slack-digest/internal/infrastructure/llm"
	"github.com/daehan-lim/slack-digest/internal/infrastructure/observability"
	"github.com/daehan-lim/slack-digest/internal/infrastructure/persistence/memory"
	"github.com/daehan-lim/slack-digest/internal/infrastructure/persistence/mysql"
	"github.com/daehan-lim/slack-digest/internal/infrastructure/persistence/sqlite"
	infraslack "github.com/daehan-lim/slack-digest/internal/infrastructure/slack"
	"github.com/daehan-lim/slack-digest/internal/usecase/digest"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Logging.Level, cfg.Logging.Format)

	logger.Info("configuration loaded",
		"llm_enabled", cfg.LLM.Enabled,
		"storage_type", cfg.Storage.Type,
		"metrics_enabled", cfg.Metrics.Enabled,
		"skip_mark_as_read", cfg.Fetch.SkipMarkAsRead,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize the run-history repository based on storage type
	var runRepo repository.DigestRunRepository
	var sqliteDB *sqlite.DB
	var mysqlDB *mysql.DB

	switch cfg.Storage.Type {
	case "mysql":
		mysqlDB, err = mysql.NewDB(&cfg.Storage.MySQL)
		if err != nil {
			logger.Error("failed to initialize MySQL database", "error", err)
			os.Exit(1)
		}
		if err := mysqlDB.Migrate(ctx); err != nil {
			logger.Error("failed to run database migrations", "error", err)
			mysqlDB.Close()
			os.Exit(1)
		}
		runRepo = mysql.NewDigestRunRepository(mysqlDB.DB)
		logger.Info("MySQL storage initialized",
			"host", cfg.Storage.MySQL.Host,
			"database", cfg.Storage.MySQL.Database,
		)

	case "sqlite":
		sqliteDB, err = sqlite.NewDB(cfg.Storage.SQLite.Path)
		if err != nil {
			logger.Error("failed to initialize SQLite database", "error", err, "path", cfg.Storage.SQLite.Path)
			os.Exit(1)
		}
		if err := sqliteDB.Migrate(ctx); err != nil {
			logger.Error("failed to run database migrations", "error", err)
			sqliteDB.Close()
			os.Exit(1)
		}
		runRepo = sqlite.NewDigestRunRepository(sqliteDB.DB)
		logger.Info("SQLite storage initialized", "path", cfg.Storage.SQLite.Path)

	default:
		runRepo = memory.NewDigestRunRepository()
		logger.Info("in-memory storage initialized")
	}

	// Optional telemetry with a Prometheus endpoint
	var telemetry *observability.Telemetry
	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		telemetry, err = observability.NewTelemetry(observability.ServiceName, "")
		if err != nil {
			logger.Error("failed to initialize telemetry", "error", err)
			os.Exit(1)
		}
		metrics = telemetry.Metrics

		go func() {
			if err := telemetry.Serve(ctx, cfg.Metrics.ListenAddr); err != nil {
				logger.Error("metrics server error", "error", err)
			}
		}()
		logger.Info("metrics endpoint enabled", "addr", cfg.Metrics.ListenAddr)
	}

	// Slack clients behind the rate-limited transport
	transport := infraslack.NewRateLimitedTransport(infraslack.RetryPolicy{
		Delay:             cfg.RateLimit.Delay,
		MaxRetries:        cfg.RateLimit.MaxRetries,
		BackoffMultiplier: cfg.RateLimit.BackoffMultiplier,
		MaxBackoff:        cfg.RateLimit.MaxBackoff,
	}, logger, metrics)
	slackClient := infraslack.NewClient(cfg.Slack.UserToken, cfg.Slack.BotToken, transport, logger)
	notifier := infraslack.NewDMNotifier(slackClient, cfg.Slack.UserID)

	// Optional LLM summarizer; nil means every summary falls back to a preview
	var summarizer digest.Summarizer
	if cfg.LLM.Enabled {
		summarizer = llm.NewClient(
			cfg.LLM.BaseURL,
			cfg.LLM.APIKey,
			cfg.LLM.Model,
			cfg.LLM.MaxOutputTokens,
			cfg.LLM.Timeout,
		)
		logger.Info("LLM summarizer enabled", "model", cfg.LLM.Model)
	}

	// Wire the pipeline
	useCaseLogger := &slogAdapter{logger: logger}
	detector := digest.NewUnreadDetector(useCaseLogger)
	fetcher := digest.NewFetcher(slackClient, detector, digest.FetchConfig{
		ConversationTypes: cfg.Fetch.ConversationTypes,
		MaxMessages:       cfg.Fetch.MaxMessagesPerConversation,
		MaxThreadReplies:  cfg.Fetch.MaxThreadReplies,
	}, useCaseLogger)
	enricher := digest.NewEnricher(slackClient, digest.EnrichConfig{
		MaxMessageLength: cfg.Fetch.MaxMessageLength,
		MaxThreadReplies: cfg.Fetch.MaxThreadReplies,
	}, useCaseLogger)

	runner := digest.NewRunner(
		fetcher,
		enricher,
		digest.NewPrioritizer(),
		digest.NewSummaryWriter(summarizer, useCaseLogger),
		digest.NewMarkReader(slackClient, useCaseLogger),
		notifier,
		runRepo,
		cfg.Fetch.SkipMarkAsRead,
		useCaseLogger,
	)

	run, runErr := runner.Run(ctx)
	if run != nil {
		metrics.RecordRun(ctx, string(run.Status), run.Duration(),
			run.Conversations, run.Messages, run.Threads, run.MarkedRead)
	}

	if telemetry != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down telemetry", "error", err)
		}
		cancel()
	}

	if mysqlDB != nil {
		if err := mysqlDB.Close(); err != nil {
			logger.Error("failed to close MySQL database", "error", err)
		}
	}
	if sqliteDB != nil {
		if err := sqliteDB.Close(); err != nil {
			logger.Error("failed to close SQLite database", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("digest run failed", "error", runErr)
		os.Exit(1)
	}
	logger.Info("slack-digest finished")
}

// setupLogger creates and configures the logger.
func setupLogger(level, format string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// slogAdapter adapts slog.Logger to the digest.Logger interface.
type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Debug(msg string, keysAndValues ...any) {
	a.logger.Debug(msg, keysAndValues...)
}

func (a *slogAdapter) Info(msg string, keysAndValues ...any) {
	a.logger.Info(msg, keysAndValues...)
}

func (a *slogAdapter) Warn(msg string, keysAndValues ...any) {
	a.logger.Warn(msg, keysAndValues...)
}

func (a *slogAdapter) Error(msg string, keysAndValues ...any) {
	a.logger.Error(msg, keysAndValues...)
}
