package datasets

import (
	"context"
	"time"
)

// reloadTimeout caps one scheduled reload
const reloadTimeout = 5 * time.Minute

// ReloadJob refreshes the dataset snapshot on a schedule
type ReloadJob struct {
	service *Service
}

// NewReloadJob creates a new reload job
func NewReloadJob(service *Service) *ReloadJob {
	return &ReloadJob{service: service}
}

// Name returns the job name
func (j *ReloadJob) Name() string {
	return "dataset_reload"
}

// Run executes the job
func (j *ReloadJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()

	_, err := j.service.Reload(ctx)
	return err
}
