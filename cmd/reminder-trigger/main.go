// Package main is the entrypoint for the reminder-trigger Lambda function.
//
// The function runs every minute via an EventBridge schedule rule. Each
// invocation is one tick: scan upcoming confirmed events, evaluate their
// reminder rules, fan out in-app notifications to owner plus non-declined
// attendees, and record trigger state so overlapping ticks cannot deliver
// the same reminder twice within an hour.
//
// This file handles dependency wiring (cold start) and delegates all
// business logic to internal/trigger (Engine.Run).
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/jackc/pgx/v5/pgxpool"

	"agendapulse/internal/config"
	"agendapulse/internal/db"
	"agendapulse/internal/notify"
	"agendapulse/internal/trigger"
	"agendapulse/internal/types"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet; the config error is the only thing worth printing.
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	logger.Info("reminder-trigger initializing (cold start)", "config", cfg.Describe())

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL.Unmask())
	if err != nil {
		logger.Error("failed to create store pool", "error", err)
		os.Exit(1)
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to ping store", "error", err)
		os.Exit(1)
	}

	eventRepo := db.NewEventRepository(pool)
	reminderRepo := db.NewReminderRepository(pool)
	attendeeRepo := db.NewAttendeeRepository(pool)
	profileRepo := db.NewProfileRepository(pool)
	notificationRepo := db.NewNotificationRepository(pool)

	dispatcher := notify.NewDispatcher(logger,
		notify.NewInAppChannel(profileRepo, notificationRepo, logger),
		notify.NewStubChannel(types.ChannelPush, logger),
		notify.NewStubChannel(types.ChannelEmail, logger),
	)

	var metrics trigger.Emitter = trigger.NoopEmitter{}
	if cfg.MetricsNamespace != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			logger.Error("failed to load AWS SDK config", "error", err)
			os.Exit(1)
		}
		metrics = trigger.NewCloudWatchEmitter(cloudwatch.NewFromConfig(awsCfg), cfg.MetricsNamespace, logger)
	}

	engine := trigger.NewEngine(trigger.EngineConfig{
		Events:     eventRepo,
		Reminders:  reminderRepo,
		Attendees:  attendeeRepo,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		BatchSize:  cfg.BatchSize,
		LookAhead:  cfg.LookAhead(),
		Logger:     logger,
	})

	logger.Info("reminder-trigger initialized")

	lambda.Start(newHandler(engine, cfg, logger))
}

// newHandler wraps Engine.Run for Lambda invocation. The handler shortens
// the context deadline by the configured margin so the engine aborts with
// partial counts early enough for the report to be returned before the host
// kills the execution.
func newHandler(engine *trigger.Engine, cfg *config.Config, logger *slog.Logger) func(ctx context.Context, input trigger.TriggerInput) (types.RunReport, error) {
	return func(ctx context.Context, input trigger.TriggerInput) (types.RunReport, error) {
		if deadline, ok := ctx.Deadline(); ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithDeadline(ctx, deadline.Add(-cfg.RunDeadlineMargin))
			defer cancel()
		}

		report := engine.Run(ctx, input)
		if !report.OK {
			logger.ErrorContext(ctx, "tick finished with failure",
				"error", report.Error,
				"events_processed", report.EventsProcessed,
			)
		}

		// The report itself carries ok/error; returning a Go error would
		// make Lambda retry the whole tick and discard the partial counts.
		return report, nil
	}
}

// logLevel maps the config string to a slog level, defaulting to info.
func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
