// Package app wires configuration into a ready-to-run availability use case
package app

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/manasakl/cowin-notify/internal/config"
	"github.com/manasakl/cowin-notify/internal/integration"
	"github.com/manasakl/cowin-notify/internal/integration/notify"
	"github.com/manasakl/cowin-notify/internal/metrics"
	"github.com/manasakl/cowin-notify/internal/repository"
	"github.com/manasakl/cowin-notify/internal/usecases"
)

type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	UseCase *usecases.AvailabilityUseCase

	repo repository.RunRepository
}

func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	repo, err := newRunRepository(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	channels, err := notify.FromConfig(cfg, logger)
	switch {
	case errors.Is(err, notify.ErrNoChannels):
		logger.Warn("No notification channel configured; results will only be displayed")
	case err != nil:
		repo.Close()
		return nil, err
	}

	m := metrics.New()
	client := integration.NewCowinClient(cfg.Cowin.BaseURL, cfg.Cowin.UserAgent, logger)
	dispatcher := notify.NewDispatcher(logger, channels...)
	useCase := usecases.NewAvailabilityUseCase(client, dispatcher, repo, m, logger)

	logger.Info("Application initialized", zap.Strings("channels", dispatcher.Channels()))

	return &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: m,
		UseCase: useCase,
		repo:    repo,
	}, nil
}

func newRunRepository(dbPath string) (repository.RunRepository, error) {
	if dbPath == config.DBDisabled {
		return repository.NopRunRepository{}, nil
	}
	repo, err := repository.NewSQLiteRunRepository(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repository: %w", err)
	}
	return repo, nil
}

func (a *App) Close() error {
	return a.repo.Close()
}
