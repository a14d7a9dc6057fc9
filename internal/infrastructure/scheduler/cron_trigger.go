package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CronTriggerConfig holds configuration for the cron trigger
type CronTriggerConfig struct {
	// DailySyncHour/DailySyncMinute is when the full product and customer
	// sync runs (24h clock)
	DailySyncHour   int
	DailySyncMinute int

	// StockIntervalHours is how often the stock refresh runs
	StockIntervalHours int

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration
}

// DefaultCronTriggerConfig returns default cron trigger configuration
func DefaultCronTriggerConfig() CronTriggerConfig {
	return CronTriggerConfig{
		DailySyncHour:      2, // 2am, before the storefront's morning traffic
		DailySyncMinute:    0,
		StockIntervalHours: 1,
		CheckInterval:      time.Minute,
	}
}

// CronTrigger submits the recurring sync jobs: product and customer sync
// once a day, stock refresh every few hours.
type CronTrigger struct {
	config    CronTriggerConfig
	scheduler *Scheduler
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastDailyDate string // date of the last daily run
	lastStockRun  time.Time
}

// NewCronTrigger creates a new cron trigger
func NewCronTrigger(config CronTriggerConfig, scheduler *Scheduler, logger *zap.Logger) *CronTrigger {
	defaults := DefaultCronTriggerConfig()
	if config.DailySyncHour == 0 {
		config.DailySyncHour = defaults.DailySyncHour
	}
	if config.StockIntervalHours <= 0 {
		config.StockIntervalHours = defaults.StockIntervalHours
	}
	if config.CheckInterval <= 0 {
		config.CheckInterval = defaults.CheckInterval
	}
	return &CronTrigger{
		config:    config,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Start starts the cron trigger
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	// A fresh start counts as a stock run so restarts don't pile up an
	// immediate refresh.
	c.lastStockRun = time.Now()
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Cron trigger started",
		zap.Int("daily_hour", c.config.DailySyncHour),
		zap.Int("daily_minute", c.config.DailySyncMinute),
		zap.Int("stock_interval_hours", c.config.StockIntervalHours),
		zap.Duration("check_interval", c.config.CheckInterval),
	)

	return nil
}

// Stop stops the cron trigger
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop checks periodically if a scheduled sync is due
func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkAndTrigger(time.Now())
		}
	}
}

// checkAndTrigger submits whatever syncs are due at the given instant
func (c *CronTrigger) checkAndTrigger(now time.Time) {
	c.checkDaily(now)
	c.checkStock(now)
}

func (c *CronTrigger) checkDaily(now time.Time) {
	currentDate := now.Format("2006-01-02")

	c.mu.Lock()
	alreadyRan := c.lastDailyDate == currentDate
	c.mu.Unlock()
	if alreadyRan {
		return
	}

	if now.Hour() != c.config.DailySyncHour || now.Minute() != c.config.DailySyncMinute {
		return
	}

	c.mu.Lock()
	c.lastDailyDate = currentDate
	c.mu.Unlock()

	c.logger.Info("Triggering daily sync")
	if err := c.scheduler.ScheduleSync(JobTypeProductSync, ""); err != nil {
		c.logger.Error("Failed to schedule product sync", zap.Error(err))
	}
	if err := c.scheduler.ScheduleSync(JobTypeCustomerSync, ""); err != nil {
		c.logger.Error("Failed to schedule customer sync", zap.Error(err))
	}
}

func (c *CronTrigger) checkStock(now time.Time) {
	interval := time.Duration(c.config.StockIntervalHours) * time.Hour
	if interval <= 0 {
		return
	}

	c.mu.Lock()
	due := now.Sub(c.lastStockRun) >= interval
	if due {
		c.lastStockRun = now
	}
	c.mu.Unlock()
	if !due {
		return
	}

	c.logger.Info("Triggering stock sync")
	if err := c.scheduler.ScheduleSync(JobTypeStockSync, ""); err != nil {
		c.logger.Error("Failed to schedule stock sync", zap.Error(err))
	}
}

// TriggerManual submits a sync job outside the schedule
func (c *CronTrigger) TriggerManual(jobType JobType, since string) error {
	return c.scheduler.ScheduleSync(jobType, since)
}
