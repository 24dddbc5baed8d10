// Package di provides dependency injection for scheduler jobs.
package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/subsidywatch/internal/config"
	"github.com/aristath/subsidywatch/internal/modules/datasets"
)

// RegisterJobs registers all jobs with the scheduler
// Returns JobInstances for manual triggering
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	instances := &JobInstances{
		DatasetReload: datasets.NewReloadJob(container.DatasetService),
	}

	if cfg.ReloadSchedule == "" {
		log.Info().Msg("Scheduled dataset reload disabled")
		return instances, nil
	}

	if err := container.Scheduler.AddJob(cfg.ReloadSchedule, instances.DatasetReload); err != nil {
		return nil, fmt.Errorf("failed to register dataset reload job: %w", err)
	}

	return instances, nil
}
