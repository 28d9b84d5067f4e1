package scheduler

import (
	"context"
	"sync"
	"time"

	apprecurrence "github.com/coupleledger/backend/internal/application/recurrence"
	"go.uber.org/zap"
)

// QuotaResetter resets free-spending quotas for couples whose reset day
// matches the given date.
type QuotaResetter interface {
	ResetQuotasForDate(ctx context.Context, currentDate time.Time) (int, error)
}

// RecurrenceRunner materializes due recurring transactions up to the given date.
type RecurrenceRunner interface {
	RunOnce(ctx context.Context, currentDate time.Time) (*apprecurrence.RunReport, error)
}

// DailyTriggerConfig holds configuration for the daily trigger
type DailyTriggerConfig struct {
	// RunHour and RunMinute set the daily run time in 24h local time
	RunHour   int
	RunMinute int

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration
}

// DefaultDailyTriggerConfig returns default daily trigger configuration
func DefaultDailyTriggerConfig() DailyTriggerConfig {
	return DailyTriggerConfig{
		RunHour:       2, // 2am
		RunMinute:     0,
		CheckInterval: time.Minute,
	}
}

// DailyTrigger fires the two daily ledger jobs: quota reset first, then
// recurring transaction generation. Reset runs first so occurrences
// generated on a member's reset day draw on the fresh monthly budget.
type DailyTrigger struct {
	config  DailyTriggerConfig
	resets  QuotaResetter
	runner  RecurrenceRunner
	logger  *zap.Logger
	nowFunc func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string // date we last ran for, "2006-01-02"
}

// NewDailyTrigger creates a new daily trigger
func NewDailyTrigger(
	config DailyTriggerConfig,
	resets QuotaResetter,
	runner RecurrenceRunner,
	logger *zap.Logger,
) *DailyTrigger {
	return &DailyTrigger{
		config:  config,
		resets:  resets,
		runner:  runner,
		logger:  logger,
		nowFunc: time.Now,
	}
}

// Start starts the daily trigger
func (d *DailyTrigger) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.isRunning {
		d.mu.Unlock()
		return nil
	}
	d.isRunning = true
	d.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.wg.Add(1)
	go d.runLoop(ctx)

	d.logger.Info("Daily trigger started",
		zap.Int("run_hour", d.config.RunHour),
		zap.Int("run_minute", d.config.RunMinute),
		zap.Duration("check_interval", d.config.CheckInterval),
	)

	return nil
}

// Stop stops the daily trigger
func (d *DailyTrigger) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.isRunning {
		d.mu.Unlock()
		return nil
	}
	d.isRunning = false
	d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("Daily trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop checks periodically if it's time to run the daily jobs
func (d *DailyTrigger) runLoop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.checkAndTrigger(ctx)
		}
	}
}

// checkAndTrigger runs the daily jobs once per calendar day at the
// configured time
func (d *DailyTrigger) checkAndTrigger(ctx context.Context) {
	now := d.nowFunc()
	currentDate := now.Format("2006-01-02")

	d.mu.Lock()
	alreadyRan := d.lastRunDate == currentDate
	d.mu.Unlock()
	if alreadyRan {
		return
	}

	if now.Hour() != d.config.RunHour || now.Minute() != d.config.RunMinute {
		return
	}

	d.mu.Lock()
	d.lastRunDate = currentDate
	d.mu.Unlock()

	d.TriggerNow(ctx, now)
}

// TriggerNow runs both daily jobs immediately for the given date. Exposed
// so operators can fire a catch-up run after downtime.
func (d *DailyTrigger) TriggerNow(ctx context.Context, currentDate time.Time) {
	d.logger.Info("Running daily ledger jobs",
		zap.String("date", currentDate.Format("2006-01-02")),
	)

	resetCount, err := d.resets.ResetQuotasForDate(ctx, currentDate)
	if err != nil {
		d.logger.Error("Quota reset failed", zap.Error(err))
	} else if resetCount > 0 {
		d.logger.Info("Reset free-spending quotas", zap.Int("couples", resetCount))
	}

	report, err := d.runner.RunOnce(ctx, currentDate)
	if err != nil {
		d.logger.Error("Recurring transaction generation failed", zap.Error(err))
		return
	}
	d.logger.Info("Recurring transaction generation finished",
		zap.Int("templates_processed", report.TemplatesProcessed),
		zap.Int("generated", report.GeneratedCount),
		zap.Int("failed_templates", len(report.FailedTemplates)),
	)
}
