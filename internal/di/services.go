package di

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/subsidywatch/internal/config"
	"github.com/aristath/subsidywatch/internal/modules/datasets"
	"github.com/aristath/subsidywatch/internal/modules/reporting"
	"github.com/aristath/subsidywatch/internal/scheduler"
)

// s3SetupTimeout bounds resolving S3 credentials and region
const s3SetupTimeout = 30 * time.Second

// NewSource builds the dataset source selected by configuration
func NewSource(cfg *config.Config) (datasets.Source, error) {
	switch cfg.Source {
	case config.SourceDir:
		return datasets.NewDirSource(cfg.DataDir), nil
	case config.SourceS3:
		ctx, cancel := context.WithTimeout(context.Background(), s3SetupTimeout)
		defer cancel()
		return datasets.NewS3SourceFromConfig(ctx, datasets.S3Config{
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.Source)
	}
}

// InitializeServices creates the source, loader, dataset service and scheduler
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	source, err := NewSource(cfg)
	if err != nil {
		return fmt.Errorf("failed to create dataset source: %w", err)
	}
	container.Source = source
	container.Loader = datasets.NewLoader(source, log)
	container.DatasetService = datasets.NewService(container.Loader, log)

	categories, err := reporting.LoadCategories(cfg.CategoriesFile)
	if err != nil {
		return err
	}
	container.Categories = categories

	container.Scheduler = scheduler.New(log)

	log.Info().
		Str("source", source.Describe()).
		Int("categories", len(categories)).
		Msg("Services initialized")

	return nil
}
