package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/manasakl/cowin-notify/internal/app"
	"github.com/manasakl/cowin-notify/internal/config"
	"github.com/manasakl/cowin-notify/internal/entities"
	"github.com/manasakl/cowin-notify/internal/logger"
)

type checkRunner interface {
	NewInvocation(query entities.Query, source entities.Source) entities.Invocation
	Run(ctx context.Context, inv entities.Invocation) (*entities.RunSummary, error)
}

// watcher repeats the same query on a schedule, one fresh invocation per tick
type watcher struct {
	runner checkRunner
	query  entities.Query
	logger *zap.Logger
}

func (w *watcher) tick(ctx context.Context) *entities.RunSummary {
	inv := w.runner.NewInvocation(w.query, entities.SourceCron)
	summary, err := w.runner.Run(ctx, inv)
	if err != nil {
		w.logger.Error("Scheduled check failed", zap.String("run_id", inv.RunID), zap.Error(err))
		return nil
	}
	w.logger.Info("Scheduled check finished",
		zap.String("run_id", inv.RunID),
		zap.Int("rows", len(summary.Table)),
		zap.Bool("no_data", summary.NoData),
	)
	return summary
}

// schedule registers the tick on c
func (w *watcher) schedule(ctx context.Context, c *cron.Cron, spec string) error {
	_, err := c.AddFunc(spec, func() {
		w.tick(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck
	log.Info("Starting slot watcher")

	a, err := app.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer a.Close()

	w := &watcher{
		runner: a.UseCase,
		query:  entities.Query{Days: cfg.Watch.Days, Pincode: cfg.Watch.Pincode},
		logger: log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Run once immediately on startup
	w.tick(ctx)

	c := cron.New()
	if err := w.schedule(ctx, c, cfg.Watch.Schedule); err != nil {
		log.Fatal("Failed to set up cron job", zap.Error(err))
	}

	log.Info("Watcher scheduled", zap.String("schedule", cfg.Watch.Schedule))
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	log.Info("Watcher stopped")
}
