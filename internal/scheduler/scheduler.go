package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"FxPulse/internal/usecase"
	applogger "FxPulse/pkg/logger"
)

// Scheduler runs the daily rate refresh. A failed run is logged and retried
// on the next cycle; nothing here may take the process down.
type Scheduler struct {
	cron  *cron.Cron
	rates *usecase.RatesUseCase
	l     *applogger.Logger
}

func New(rates *usecase.RatesUseCase, timezone string, l *applogger.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		rates: rates,
		l:     l,
	}, nil
}

// Register wires the refresh job under the given 6-field cron spec.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.cron.AddFunc(refreshCron, s.refresh); err != nil {
		return fmt.Errorf("register refresh job: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.l.Info("scheduler started")
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.l.Info("scheduler stopped")
}

func (s *Scheduler) refresh() {
	defer func() {
		if r := recover(); r != nil {
			s.l.Error("refresh job panicked", applogger.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.rates.RefreshToday(ctx); err != nil {
		s.l.Warn("daily refresh failed, retrying next cycle", applogger.Error(err))
	}
}
