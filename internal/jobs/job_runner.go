package jobs

import (
	"toolshare-reservation-backend/internal/config"
	"toolshare-reservation-backend/internal/logger"
	"toolshare-reservation-backend/internal/repository"
)

// JobRunner coordinates the scheduled reservation sweeps
type JobRunner struct {
	reservationRepo repository.ReservationRepository
	noteRepo        repository.NotificationRepository
	config          *config.Config
}

func NewJobRunner(
	reservationRepo repository.ReservationRepository,
	noteRepo repository.NotificationRepository,
	cfg *config.Config,
) *JobRunner {
	return &JobRunner{
		reservationRepo: reservationRepo,
		noteRepo:        noteRepo,
		config:          cfg,
	}
}

// Config exposes the loaded configuration for schedule registration
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.CancelLapsedRequests()
	jr.SendReturnReminders()
}
