package sweeper

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SweepFunc performs one sweep pass at the given instant and returns how many
// windows it locked.
type SweepFunc func(ctx context.Context, now time.Time) int

// Config configures sweep cadence.
type Config struct {
	Interval time.Duration
	Logger   *zap.Logger
}

// Sweeper runs a SweepFunc on a fixed ticker until stopped. A pass runs
// immediately on start so a restart never leaves expired windows open for a
// full interval.
type Sweeper struct {
	sweep    SweepFunc
	interval time.Duration
	logger   *zap.Logger

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// New builds a sweeper for the provided sweep function.
func New(sweep SweepFunc, cfg Config) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Sweeper{sweep: sweep, interval: cfg.Interval, logger: cfg.Logger}
}

// Start launches the background loop. Safe to call once.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.loop(ctx)
	s.started = true
	s.logger.Info("schedule sweeper started", zap.Duration("interval", s.interval))
}

// Stop cancels the loop and waits for the in-flight pass to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()
	s.logger.Info("schedule sweeper stopped")
}

func (s *Sweeper) loop(ctx context.Context) {
	defer s.wg.Done()

	s.run(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

func (s *Sweeper) run(ctx context.Context) {
	now := time.Now().UTC()
	locked := s.sweep(ctx, now)
	if locked > 0 {
		s.logger.Info("sweep pass locked windows", zap.Int("locked", locked))
	}
}
