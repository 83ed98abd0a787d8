package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// SessionSweeper discards sessions idle for longer than a timeout
type SessionSweeper interface {
	SweepIdle(timeout time.Duration) int
}

// HealthProber checks the model backend
type HealthProber interface {
	BackendName() string
	Health(ctx context.Context) error
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	scheduler gocron.Scheduler
	sessions  SessionSweeper
	llm       HealthProber
	logger    *zap.Logger
	cfg       Config
}

// Config holds scheduler configuration
type Config struct {
	Timezone       string
	IdleTimeout    time.Duration
	SweepInterval  time.Duration
	HealthInterval time.Duration
}

// New creates a new scheduler
func New(sessions SessionSweeper, llm HealthProber, logger *zap.Logger, cfg Config) (*Scheduler, error) {
	tz, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		tz = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s, err := gocron.NewScheduler(gocron.WithLocation(tz))
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		scheduler: s,
		sessions:  sessions,
		llm:       llm,
		logger:    logger,
		cfg:       cfg,
	}, nil
}

// Start starts the scheduler and registers all jobs
func (s *Scheduler) Start() error {
	// Discard abandoned sessions
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.cfg.SweepInterval),
		gocron.NewTask(s.sweepSessions),
		gocron.WithName("sweep-idle-sessions"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	// Health check the model backend
	if s.llm != nil {
		_, err = s.scheduler.NewJob(
			gocron.DurationJob(s.cfg.HealthInterval),
			gocron.NewTask(s.healthCheck),
			gocron.WithName("llm-health-check"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return err
		}
	}

	s.scheduler.Start()
	s.logger.Info("scheduler started",
		zap.Duration("sweep_interval", s.cfg.SweepInterval),
		zap.Duration("idle_timeout", s.cfg.IdleTimeout),
		zap.Duration("health_interval", s.cfg.HealthInterval),
	)
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *Scheduler) sweepSessions() {
	if n := s.sessions.SweepIdle(s.cfg.IdleTimeout); n > 0 {
		s.logger.Debug("sweep removed sessions", zap.Int("count", n))
	}
}

func (s *Scheduler) healthCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.llm.Health(ctx); err != nil {
		s.logger.Warn("model backend health check failed",
			zap.String("backend", s.llm.BackendName()),
			zap.Error(err),
		)
		return
	}
	s.logger.Debug("model backend healthy", zap.String("backend", s.llm.BackendName()))
}
