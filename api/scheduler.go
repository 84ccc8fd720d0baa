/*
scheduler.go - Background pay run scheduler

PURPOSE:
  Runs payroll automatically for each completed fortnight. A background
  goroutine wakes on a ticker, derives the most recently completed
  fortnight, and triggers a run for it unless one already exists.

FORTNIGHT DERIVATION:
  Fortnights are anchored on a fixed epoch Monday so every instance of
  the service agrees on period boundaries. The scheduler only ever pays
  a period whose end date has passed.

LIFECYCLE:
  Start() launches the goroutine, Stop() signals it and waits for it to
  finish. RunNow() forces an immediate check, used by tests and ops.

SEE ALSO:
  - handlers.go: executeRun, shared with the HTTP run endpoint
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warp/payroll-engine/engine"
)

// fortnightEpoch is a Monday; all scheduled fortnights start a whole
// number of fortnights after it.
var fortnightEpoch = time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)

// PayRunScheduler triggers payroll runs for completed fortnights.
type PayRunScheduler struct {
	Handler       *Handler
	Log           logrus.FieldLogger
	CheckInterval time.Duration
	Enabled       bool

	mu      sync.Mutex
	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
	running bool
}

// NewPayRunScheduler creates a scheduler with the given check interval.
func NewPayRunScheduler(h *Handler, log logrus.FieldLogger, interval time.Duration) *PayRunScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &PayRunScheduler{
		Handler:       h,
		Log:           log,
		CheckInterval: interval,
		Enabled:       true,
	}
}

// Start launches the background loop. Calling Start on a running or
// disabled scheduler is a no-op.
func (s *PayRunScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || !s.Enabled {
		return
	}
	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})
	s.running = true

	s.wg.Add(1)
	go s.loop()

	s.Log.WithField("interval", s.CheckInterval).Info("Pay run scheduler started")
}

// Stop signals the loop and waits for it to exit.
func (s *PayRunScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
	s.Log.Info("Pay run scheduler stopped")
}

func (s *PayRunScheduler) loop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ticker.C:
			s.checkAndRun(context.Background())
		case <-s.stop:
			return
		}
	}
}

// RunNow forces an immediate check outside the ticker cadence.
func (s *PayRunScheduler) RunNow(ctx context.Context) error {
	return s.checkAndRun(ctx)
}

// checkAndRun pays the last completed fortnight if no run covers it yet.
func (s *PayRunScheduler) checkAndRun(ctx context.Context) error {
	period := lastCompletedFortnight(time.Now().UTC())

	runs, err := s.Handler.Store.ListRuns(ctx)
	if err != nil {
		s.Log.WithError(err).Error("Scheduler failed to list runs")
		return err
	}
	for _, r := range runs {
		if r.PeriodStart.Equal(period.Start) && r.PeriodEnd.Equal(period.End) {
			return nil // already paid
		}
	}

	employees, err := s.Handler.Store.ActiveEmployeeIDs(ctx)
	if err != nil {
		s.Log.WithError(err).Error("Scheduler failed to list employees")
		return err
	}
	if len(employees) == 0 {
		return nil
	}

	s.Log.WithFields(logrus.Fields{
		"period_start": period.Start.String(),
		"period_end":   period.End.String(),
		"employees":    len(employees),
	}).Info("Scheduler starting pay run")

	report, runID, err := s.Handler.executeRun(ctx, employees, period)
	if err != nil {
		s.Log.WithError(err).Error("Scheduled pay run failed")
		return err
	}
	s.Log.WithFields(logrus.Fields{
		"run_id": runID,
		"status": string(report.Status),
	}).Info("Scheduled pay run finished")
	return nil
}

// lastCompletedFortnight returns the most recent epoch-aligned fortnight
// whose end date is strictly before now's calendar day.
func lastCompletedFortnight(now time.Time) engine.PayPeriod {
	days := int(now.Sub(fortnightEpoch).Hours() / 24)
	start := fortnightEpoch.AddDate(0, 0, (days/14-1)*14)
	return engine.PayPeriod{
		Start: engine.DateOf(start),
		End:   engine.DateOf(start.AddDate(0, 0, 13)),
	}
}
