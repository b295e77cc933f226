package scheduler

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/delcain/drawsync/pkg/engine"
)

// Syncer is the minimal engine surface the scheduler drives.
type Syncer interface {
	Sync(ctx context.Context) (*engine.Summary, error)
}

// Service defines the public interface for the scheduler
type Service interface {
	// Start registers the cron entry and begins scheduling
	Start(ctx context.Context) error

	// Stop gracefully shuts down the scheduler, waiting for a running sync
	Stop() error
}

type service struct {
	log    logrus.FieldLogger
	cfg    *Config
	syncer Syncer
	lock   RunLock

	cron *cron.Cron
	wg   sync.WaitGroup
}

// NewService creates a new scheduler service
func NewService(log logrus.FieldLogger, cfg *Config, syncer Syncer) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lock, err := NewRunLock(log, cfg)
	if err != nil {
		return nil, err
	}

	return &service{
		log:    log.WithField("service", "scheduler"),
		cfg:    cfg,
		syncer: syncer,
		lock:   lock,
		cron:   cron.New(),
	}, nil
}

func (s *service) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.Schedule, func() { s.runSync(ctx) }); err != nil {
		return err
	}

	s.cron.Start()

	s.log.WithField("schedule", s.cfg.Schedule).Info("Scheduler started")

	if s.cfg.SyncOnStart {
		s.wg.Add(1)

		go func() {
			defer s.wg.Done()
			s.runSync(ctx)
		}()
	}

	return nil
}

func (s *service) Stop() error {
	// cron.Stop returns a context that is done once running jobs finish.
	<-s.cron.Stop().Done()
	s.wg.Wait()

	if err := s.lock.Close(); err != nil {
		s.log.WithError(err).Warn("Failed to close run lock")
	}

	s.log.Info("Scheduler stopped")

	return nil
}

func (s *service) runSync(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	acquired, err := s.lock.Acquire(ctx)
	if err != nil {
		s.log.WithError(err).Error("Failed to acquire sync lock")

		return
	}

	if !acquired {
		s.log.Info("Skipping sync run, another instance holds the lock")

		return
	}

	defer func() {
		if err := s.lock.Release(context.Background()); err != nil {
			s.log.WithError(err).Warn("Failed to release sync lock")
		}
	}()

	summary, err := s.syncer.Sync(ctx)
	if err != nil {
		s.log.WithError(err).Error("Scheduled sync failed")

		return
	}

	s.log.WithFields(logrus.Fields{
		"mode":     summary.Mode,
		"acquired": summary.Acquired,
		"missing":  len(summary.Missing),
		"duration": summary.Duration.String(),
	}).Info("Scheduled sync finished")
}

var _ Service = (*service)(nil)
