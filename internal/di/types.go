/**
 * Package di provides dependency injection type definitions.
 *
 * This package defines the Container type which holds all application dependencies.
 * The Container is the single source of truth for all service instances and is
 * passed to handlers for access to services.
 */
package di

import (
	"github.com/aristath/subsidywatch/internal/modules/datasets"
	"github.com/aristath/subsidywatch/internal/modules/reporting"
	"github.com/aristath/subsidywatch/internal/scheduler"
)

// Container holds all application dependencies
type Container struct {
	// Ingestion
	Source         datasets.Source
	Loader         *datasets.Loader
	DatasetService *datasets.Service

	// Reporting
	Categories []reporting.Category

	// Background jobs
	Scheduler *scheduler.Scheduler
}

// JobInstances holds job instances for manual triggering
type JobInstances struct {
	DatasetReload scheduler.Job
}
