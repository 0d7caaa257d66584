package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"ProductScanner/internal/classify"
	"ProductScanner/internal/config"
	"ProductScanner/internal/infrastructure/fetch"
	"ProductScanner/internal/infrastructure/scheduler"
	"ProductScanner/internal/infrastructure/storage"
	"ProductScanner/internal/infrastructure/telegram"
	"ProductScanner/internal/logging"
	"ProductScanner/internal/ports"
	"ProductScanner/internal/source"
	"ProductScanner/internal/usecase"
)

// Application wires configuration into the pipeline and its schedule.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	logger   *slog.Logger
	db       *sql.DB
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	registry := source.NewRegistry()
	registry.Register(fetch.NewGraphQLFetcher(nil, cfg.Source.APIURL, cfg.Source.Token))
	registry.Register(fetch.NewFeedFetcher(cfg.Source.FeedURL))

	productSource := fetch.NewStrategySource(
		registry,
		cfg.Source.Strategy,
		cfg.Source.PageSize,
		baseLogger.With("component", "source"),
	)

	store := storage.NewFileStore(cfg.Output.DataDir)

	var (
		archive ports.ProductArchive
		db      *sql.DB
	)
	if cfg.Archive.DSN != "" {
		opened, err := sql.Open("postgres", cfg.Archive.DSN)
		if err != nil {
			return nil, fmt.Errorf("open archive db: %w", err)
		}
		db = opened
		archive = storage.NewPostgresArchive(db)
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:   productSource,
		Batches:  store,
		Summary:  store,
		Archive:  archive,
		Notifier: notifier,
		Rules:    buildRuleset(cfg.Filter),
		Logger:   baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, pipeline: pipeline, logger: baseLogger, db: db}, nil
}

// Run executes one scan immediately or keeps the schedule alive until ctx is
// cancelled, depending on configuration.
func (a *Application) Run(ctx context.Context) error {
	defer a.closeDB()

	if a.cfg.Scheduler.RunOnce {
		return a.pipeline.ProcessRun(ctx, time.Now())
	}

	driver := scheduler.NewIntervalScheduler(a.cfg.Scheduler.IntervalDuration())
	runner := usecase.NewScheduler(driver, a.pipeline, a.logger.With("component", "scheduler"))

	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()

	if err := runner.Stop(context.Background()); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	return nil
}

func (a *Application) closeDB() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// buildRuleset applies the built-in rules wherever the config does not
// override them. An explicitly empty list disables that rule stage.
func buildRuleset(filter config.FilterConfig) classify.Ruleset {
	categories := filter.ExcludedCategories
	if categories == nil {
		categories = classify.DefaultExcludedCategories
	}

	keywords := filter.ExcludedKeywords
	if keywords == nil {
		keywords = classify.DefaultExcludedKeywords
	}

	return classify.NewRuleset(categories, keywords)
}
