package services

import (
	"context"
	"time"

	"familybank/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CronService runs the scheduled ledger maintenance jobs
type CronService struct {
	cron             *cron.Cron
	loanService      *LoanService
	refreshTokenRepo repositories.RefreshTokenRepository
	log              *logrus.Logger
}

// NewCronService creates a new cron service
func NewCronService(
	loanService *LoanService,
	refreshTokenRepo repositories.RefreshTokenRepository,
	log *logrus.Logger,
) *CronService {
	return &CronService{
		cron:             cron.New(),
		loanService:      loanService,
		refreshTokenRepo: refreshTokenRepo,
		log:              log,
	}
}

// Start registers the schedules and starts the scheduler.
// Penalty sweep runs daily after midnight; token cleanup daily at 03:00.
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc("5 0 * * *", s.runPenaltySweep); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 3 * * *", s.runTokenCleanup); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("⏰ Cron scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("⏰ Cron scheduler stopped")
}

func (s *CronService) runPenaltySweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	applied, err := s.loanService.ScanOverdue(ctx, time.Now())
	if err != nil {
		s.log.WithError(err).Error("overdue penalty sweep failed")
		return
	}
	s.log.WithField("applied", applied).Info("overdue penalty sweep finished")
}

func (s *CronService) runTokenCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.refreshTokenRepo.DeleteExpired(ctx); err != nil {
		s.log.WithError(err).Error("expired token cleanup failed")
		return
	}
	s.log.Info("expired refresh tokens cleaned up")
}
