// Package scheduler runs the nightly overdue sweep on a cron schedule.
package scheduler

import (
	"context"
	"fmt"

	sweepUC "defi-credit-backend/internal/usecase/sweep"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

type Scheduler struct {
	cron  *cron.Cron
	sweep *sweepUC.Usecase
	ctx   context.Context
}

func New(ctx context.Context, sweep *sweepUC.Usecase) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		sweep: sweep,
		ctx:   ctx,
	}
}

// Register installs the sweep job. Cron expressions use the six-field form
// (seconds first), e.g. "0 15 2 * * *" for 02:15 every night.
func (s *Scheduler) Register(sweepSpec string) error {
	if _, err := s.cron.AddFunc(sweepSpec, s.runSweep); err != nil {
		return fmt.Errorf("register sweep job: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Msg("scheduler started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) runSweep() {
	res, err := s.sweep.SweepAll(s.ctx)
	if err != nil {
		log.Error().Err(err).Msg("overdue sweep failed")
		return
	}
	log.Info().Int("scanned", res.Scanned).Int("updated", res.Updated).Msg("overdue sweep complete")
}
