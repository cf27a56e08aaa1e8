package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gdlpessoa/telegram-cti-monitoring/internal/biz/repo"
)

// StatsReporter periodically logs storage totals so operators can see the
// monitor is alive and collecting.
type StatsReporter struct {
	store    repo.MessageStore
	interval time.Duration
	log      zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewStatsReporter creates a new stats reporter. A non-positive interval
// disables it.
func NewStatsReporter(store repo.MessageStore, interval time.Duration, log zerolog.Logger) *StatsReporter {
	return &StatsReporter{
		store:    store,
		interval: interval,
		log:      log.With().Str("component", "stats").Logger(),
	}
}

// Start starts the reporter loop
func (s *StatsReporter) Start(ctx context.Context) {
	if s.interval <= 0 {
		return
	}
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.loop()

	s.log.Info().Dur("interval", s.interval).Msg("stats reporter started")
}

// Stop stops the reporter and waits for the loop to exit.
func (s *StatsReporter) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *StatsReporter) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.report()
		}
	}
}

func (s *StatsReporter) report() {
	messages, err := s.store.CountMessages(s.ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to count messages")
		return
	}
	alerts, err := s.store.CountAlerts(s.ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to count alerts")
		return
	}
	s.log.Info().Int64("messages", messages).Int64("alerts", alerts).Msg("storage totals")
}
