package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/manasakl/cowin-notify/internal/app"
	"github.com/manasakl/cowin-notify/internal/config"
	"github.com/manasakl/cowin-notify/internal/entities"
	"github.com/manasakl/cowin-notify/internal/input"
	"github.com/manasakl/cowin-notify/internal/logger"
	"github.com/manasakl/cowin-notify/internal/presenter"
)

func main() {
	history := flag.Int("history", 0, "list the last N audited runs and exit")
	flag.Parse()

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

	a, err := app.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *history > 0 {
		if err := printHistory(ctx, a, *history); err != nil {
			log.Error("Failed to read run history", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	query, err := input.NewPrompter(os.Stdin, os.Stdout).Collect(entities.DefaultQuery())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	inv := a.UseCase.NewInvocation(query, entities.SourceCLI)
	summary, err := a.UseCase.Run(ctx, inv)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidQuery) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		log.Error("Availability check failed", zap.String("run_id", inv.RunID), zap.Error(err))
		os.Exit(1)
	}

	if err := presenter.NewTextPresenter().Render(os.Stdout, summary); err != nil {
		log.Error("Failed to render results", zap.Error(err))
		os.Exit(1)
	}
	if summary.Dispatch != nil && len(summary.Dispatch.Failed()) > 0 {
		os.Exit(3)
	}
}

func printHistory(ctx context.Context, a *app.App, limit int) error {
	runs, err := a.UseCase.RecentRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%s  %-5s  pincode=%s days=%d  dates ok/empty/failed=%d/%d/%d  rows=%d  sent=%d failed=%d  [%s]\n",
			r.StartedAt.Format("2006-01-02 15:04:05"), r.Source, r.Pincode, r.Days,
			r.DatesOK, r.DatesEmpty, r.DatesFailed, r.Rows, r.Sent, r.Failed,
			strings.Join(r.Facilities, ", "))
	}
	return nil
}
