package datasets

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aristath/subsidywatch/internal/domain"
)

// defaultFetchConcurrency bounds parallel downloads from the source
const defaultFetchConcurrency = 4

// FileInfo describes one loaded record file
type FileInfo struct {
	Name    string `json:"name" msgpack:"name"`
	Format  string `json:"format" msgpack:"format"`
	Year    int    `json:"year" msgpack:"year"`
	Records int    `json:"records" msgpack:"records"`
}

// LoadResult is the concatenated content of every record file
type LoadResult struct {
	Records []domain.SubsidyRecord
	Files   []FileInfo
}

// Loader reads every record file of a Source and concatenates them in file
// name order, so the same storage content always yields the same sequence.
type Loader struct {
	source      Source
	concurrency int
	log         zerolog.Logger
}

// NewLoader creates a new loader
func NewLoader(source Source, log zerolog.Logger) *Loader {
	return &Loader{
		source:      source,
		concurrency: defaultFetchConcurrency,
		log:         log.With().Str("service", "dataset_loader").Logger(),
	}
}

// SetConcurrency changes the number of files fetched in parallel
func (l *Loader) SetConcurrency(n int) {
	if n < 1 {
		n = 1
	}
	l.concurrency = n
}

// Source returns the underlying source
func (l *Loader) Source() Source {
	return l.source
}

type loadedFile struct {
	info    FileInfo
	records []domain.SubsidyRecord
}

// Load fetches and decodes every record file.
// Any unreadable or malformed file fails the whole load.
func (l *Loader) Load(ctx context.Context) (*LoadResult, error) {
	start := time.Now()

	names, err := l.source.List(ctx)
	if err != nil {
		return nil, err
	}

	files := make([]loadedFile, len(names))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(l.concurrency)
	for i, name := range names {
		eg.Go(func() error {
			f, err := l.loadFile(egCtx, name)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := &LoadResult{Files: make([]FileInfo, 0, len(files))}
	for _, f := range files {
		result.Records = append(result.Records, f.records...)
		result.Files = append(result.Files, f.info)
	}

	l.log.Info().
		Str("source", l.source.Describe()).
		Int("files", len(result.Files)).
		Int("records", len(result.Records)).
		Dur("duration_ms", time.Since(start)).
		Msg("Loaded subsidy records")

	return result, nil
}

func (l *Loader) loadFile(ctx context.Context, name string) (loadedFile, error) {
	format := formatOf(name)
	if format == "" {
		return loadedFile{}, fmt.Errorf("unsupported data file: %s", name)
	}

	rc, err := l.source.Open(ctx, name)
	if err != nil {
		return loadedFile{}, err
	}
	defer rc.Close()

	raws, err := decodeRecords(rc, format)
	if err != nil {
		return loadedFile{}, fmt.Errorf("failed to load %s: %w", name, err)
	}

	year := yearFromName(name)
	records := make([]domain.SubsidyRecord, len(raws))
	for i, raw := range raws {
		records[i] = toRecord(raw, year, name)
	}

	l.log.Debug().
		Str("file", name).
		Int("year", year).
		Int("records", len(records)).
		Msg("Decoded data file")

	return loadedFile{
		info: FileInfo{
			Name:    name,
			Format:  format,
			Year:    year,
			Records: len(records),
		},
		records: records,
	}, nil
}
