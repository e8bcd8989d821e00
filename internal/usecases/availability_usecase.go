// Package usecases contains the application's business logic
package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/manasakl/cowin-notify/internal/entities"
	"github.com/manasakl/cowin-notify/internal/integration/notify"
	"github.com/manasakl/cowin-notify/internal/repository"
)

// SlotFetcher queries the availability service for a whole window
type SlotFetcher interface {
	FetchWindow(ctx context.Context, query entities.Query, start time.Time) *entities.FetchReport
}

// Notifier announces the surviving rows
type Notifier interface {
	Dispatch(ctx context.Context, inv entities.Invocation, rows []entities.AvailabilityRecord) *entities.DispatchReport
}

// RunObserver receives every finished run, e.g. for metrics
type RunObserver interface {
	ObserveRun(summary *entities.RunSummary)
}

// AvailabilityUseCase runs the fetch, normalize, filter, notify pipeline
type AvailabilityUseCase struct {
	fetcher  SlotFetcher
	notifier Notifier
	repo     repository.RunRepository
	observer RunObserver
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewAvailabilityUseCase creates a new availability use case. repo and observer may be nil.
func NewAvailabilityUseCase(fetcher SlotFetcher, notifier Notifier, repo repository.RunRepository, observer RunObserver, logger *zap.Logger) *AvailabilityUseCase {
	if repo == nil {
		repo = repository.NopRunRepository{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityUseCase{
		fetcher:  fetcher,
		notifier: notifier,
		repo:     repo,
		observer: observer,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// NewInvocation builds the per-run context object
func (uc *AvailabilityUseCase) NewInvocation(query entities.Query, source entities.Source) entities.Invocation {
	return entities.Invocation{
		RunID:     uuid.NewString(),
		Query:     query,
		Source:    source,
		StartedAt: uc.now(),
	}
}

// Validate checks the user inputs. The returned error wraps entities.ErrInvalidQuery.
func (uc *AvailabilityUseCase) Validate(query entities.Query) error {
	err := uc.validate.Struct(query)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", entities.ErrInvalidQuery, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeField(fe))
	}
	return fmt.Errorf("%w: %s", entities.ErrInvalidQuery, strings.Join(msgs, "; "))
}

func describeField(fe validator.FieldError) string {
	switch fe.Field() {
	case "Days":
		return "day count must be between 0 and 100"
	case "Pincode":
		if fe.Tag() == "required" {
			return "pincode is required"
		}
		return "pincode must contain digits only"
	}
	return fe.Error()
}

// Run executes the pipeline once. Fetch and delivery failures are reported in
// the summary; an error is returned only for invalid input.
func (uc *AvailabilityUseCase) Run(ctx context.Context, inv entities.Invocation) (*entities.RunSummary, error) {
	if err := uc.Validate(inv.Query); err != nil {
		return nil, err
	}
	log := uc.logger.With(zap.String("run_id", inv.RunID), zap.String("source", string(inv.Source)))
	log.Info("Starting availability check",
		zap.String("pincode", inv.Query.Pincode),
		zap.Int("days", inv.Query.Days),
	)

	report := uc.fetcher.FetchWindow(ctx, inv.Query, inv.StartedAt)
	for _, res := range report.Results {
		if res.Status == entities.DateError {
			log.Warn("Availability query failed, treating date as empty",
				zap.String("date", res.Date.Format(entities.DateLayout)),
				zap.Error(res.Err),
			)
		}
	}

	summary := &entities.RunSummary{
		Invocation: inv,
		Counts:     report.Counts(),
	}

	rows, ok := Normalize(report)
	if !ok {
		summary.NoData = true
		log.Info("No Data Found")
		uc.finish(ctx, log, summary)
		return summary, nil
	}

	rows = FilterMinAge(rows, EligibleAge)
	rows = FilterInStock(rows)
	summary.Table = rows
	log.Info("Filtered availability", zap.Int("rows", len(rows)))

	if len(rows) > 0 {
		summary.Facilities = notify.FacilityNames(rows)
		summary.Dispatch = uc.notifier.Dispatch(ctx, inv, rows)
	} else {
		log.Info("Nothing eligible, no notification sent")
	}

	uc.finish(ctx, log, summary)
	return summary, nil
}

// RecentRuns exposes the audit trail
func (uc *AvailabilityUseCase) RecentRuns(ctx context.Context, limit int) ([]repository.RunRecord, error) {
	return uc.repo.RecentRuns(ctx, limit)
}

func (uc *AvailabilityUseCase) finish(ctx context.Context, log *zap.Logger, summary *entities.RunSummary) {
	if uc.observer != nil {
		uc.observer.ObserveRun(summary)
	}
	if err := uc.repo.SaveRun(ctx, summary); err != nil {
		log.Warn("Failed to record run", zap.Error(err))
	}
}
