package outbox

import (
	"context"
	"sync"
	"time"
)

// Scheduler drives the three periodic outbox activities: the retry sweep,
// the retention cleanup, and the statistics report. Each runs on its own
// timer; within a sweep, records are processed sequentially so a
// rate-sensitive transport is never hit in parallel.
type Scheduler struct {
	service *Service
	sender  Sender
	cfg     Config
}

// SweepResult summarizes one retry sweep.
type SweepResult struct {
	// Sent is the number of records delivered during the sweep.
	Sent int
	// Failed is the number of attempts that failed (retry scheduled or
	// permanent).
	Failed int
	// Skipped is the number of due records lost to a concurrent claim.
	Skipped int
}

// NewScheduler constructs a Scheduler with defaults and optional settings.
// Options that affect policy (retry budget, retention) belong on the Service;
// pass the same options to both when constructing them together.
func NewScheduler(service *Service, sender Sender, opts ...Option) (*Scheduler, error) {
	if service == nil {
		return nil, ErrServiceRequired
	}
	if sender == nil {
		return nil, ErrSenderRequired
	}

	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.withDefaults()

	return &Scheduler{service: service, sender: sender, cfg: cfg}, nil
}

// Run starts the sweep, cleanup, and statistics loops and blocks until the
// context is canceled. Failures inside any loop are logged and retried on
// the next tick; they never stop the other loops.
func (s *Scheduler) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	loops := []struct {
		interval time.Duration
		step     func(context.Context)
	}{
		{s.cfg.SweepInterval, func(ctx context.Context) { s.sweepStep(ctx) }},
		{s.cfg.CleanupInterval, func(ctx context.Context) { s.cleanupStep(ctx) }},
		{s.cfg.StatsInterval, func(ctx context.Context) { s.statsStep(ctx) }},
	}

	for _, loop := range loops {
		wg.Add(1)
		go func(interval time.Duration, step func(context.Context)) {
			defer wg.Done()
			s.runLoop(ctx, interval, step)
		}(loop.interval, loop.step)
	}

	wg.Wait()

	return ctx.Err()
}

func (s *Scheduler) runLoop(ctx context.Context, interval time.Duration, step func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			step(ctx)
		}
	}
}

// SweepOnce performs a single retry sweep: it selects every due record and
// sequentially claims, sends, and resolves each one. A failure on one record
// never aborts the rest of the sweep.
func (s *Scheduler) SweepOnce(ctx context.Context) (SweepResult, error) {
	start := time.Now()
	defer func() {
		s.cfg.Metrics.ObserveSweepDuration(time.Since(start))
	}()

	var result SweepResult

	due, err := s.service.Due(ctx)
	if err != nil {
		return result, err
	}
	if len(due) == 0 {
		return result, nil
	}

	s.cfg.Logger.Info("outbox retry sweep started", "due", len(due))

	var retried, dead int
	for _, rec := range due {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		claimed, err := s.service.BeginProcessing(ctx, rec)
		if err != nil {
			s.cfg.Logger.Error("outbox claim failed", "id", rec.ID, "err", err)
			result.Failed++

			continue
		}
		if !claimed {
			result.Skipped++

			continue
		}

		if err := s.attempt(ctx, rec); err != nil {
			if failErr := s.service.RecordFailure(ctx, rec, err); failErr != nil {
				s.cfg.Logger.Error("outbox failure update failed", "id", rec.ID, "err", failErr)
			}
			if rec.Status == StatusFailed {
				dead++
			} else {
				retried++
			}
			result.Failed++

			continue
		}

		if err := s.service.MarkSent(ctx, rec); err != nil {
			s.cfg.Logger.Error("outbox sent update failed", "id", rec.ID, "err", err)
		}
		result.Sent++
	}

	s.cfg.Metrics.AddSent(result.Sent)
	s.cfg.Metrics.AddRetried(retried)
	s.cfg.Metrics.AddFailed(dead)

	if result.Sent > 0 || result.Failed > 0 {
		s.cfg.Logger.Info("outbox retry sweep finished",
			"sent", result.Sent, "failed", result.Failed, "skipped", result.Skipped)
	}

	return result, nil
}

// attempt calls the Sender for one record, bounded by the configured send
// timeout when one is set.
func (s *Scheduler) attempt(ctx context.Context, rec *Record) error {
	sendCtx := ctx
	cancel := func() {}
	if s.cfg.SendTimeout > 0 {
		sendCtx, cancel = context.WithTimeout(ctx, s.cfg.SendTimeout)
	}
	defer cancel()

	return s.sender.Send(sendCtx, rec.Message())
}

// CleanupOnce performs a single retention cleanup pass.
func (s *Scheduler) CleanupOnce(ctx context.Context) (int64, error) {
	return s.service.Cleanup(ctx)
}

// ReportStatistics samples per-status counts, feeds the backlog gauge, and
// logs a summary when the outbox is non-empty.
func (s *Scheduler) ReportStatistics(ctx context.Context) (Statistics, error) {
	stats, err := s.service.Statistics(ctx)
	if err != nil {
		return Statistics{}, err
	}

	s.cfg.Metrics.SetBacklog(int(stats.Pending))

	if stats.Total() > 0 {
		s.cfg.Logger.Info("outbox statistics",
			"pending", stats.Pending, "processing", stats.Processing,
			"sent", stats.Sent, "failed", stats.Failed, "total", stats.Total())
	}

	return stats, nil
}

func (s *Scheduler) sweepStep(ctx context.Context) {
	if _, err := s.SweepOnce(ctx); err != nil && ctx.Err() == nil {
		s.cfg.Logger.Error("outbox retry sweep failed", "err", err)
	}
}

func (s *Scheduler) cleanupStep(ctx context.Context) {
	if _, err := s.CleanupOnce(ctx); err != nil && ctx.Err() == nil {
		s.cfg.Logger.Error("outbox cleanup failed", "err", err)
	}
}

func (s *Scheduler) statsStep(ctx context.Context) {
	if _, err := s.ReportStatistics(ctx); err != nil && ctx.Err() == nil {
		s.cfg.Logger.Error("outbox statistics report failed", "err", err)
	}
}
