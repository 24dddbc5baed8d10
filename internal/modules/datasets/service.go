package datasets

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/subsidywatch/internal/domain"
	"github.com/aristath/subsidywatch/internal/modules/grouping"
)

// ErrNoSnapshot is returned before the first successful load
var ErrNoSnapshot = errors.New("no dataset loaded yet")

// Snapshot is one immutable grouping pass over the full record set.
// Both grouping views are always built from the same records.
type Snapshot struct {
	ID             string
	LoadedAt       time.Time
	Source         string
	Files          []FileInfo
	Records        []domain.SubsidyRecord
	ByName         *grouping.Groups
	ByRegistration *grouping.Groups
}

// NewSnapshot groups records under both strategies
func NewSnapshot(records []domain.SubsidyRecord, files []FileInfo, source string, loadedAt time.Time) *Snapshot {
	return &Snapshot{
		ID:             uuid.NewString(),
		LoadedAt:       loadedAt,
		Source:         source,
		Files:          files,
		Records:        records,
		ByName:         grouping.GroupByNormalizedName(records),
		ByRegistration: grouping.GroupByRegistrationID(records),
	}
}

// Groups returns the view for a strategy
func (s *Snapshot) Groups(strategy grouping.Strategy) *grouping.Groups {
	if strategy == grouping.StrategyRegistration {
		return s.ByRegistration
	}
	return s.ByName
}

// Info is the serialized snapshot metadata
type Info struct {
	ID                  string     `json:"id" msgpack:"id"`
	LoadedAt            time.Time  `json:"loaded_at" msgpack:"loaded_at"`
	Source              string     `json:"source" msgpack:"source"`
	Files               []FileInfo `json:"files" msgpack:"files"`
	RecordCount         int        `json:"record_count" msgpack:"record_count"`
	NameGroups          int        `json:"name_groups" msgpack:"name_groups"`
	RegistrationGroups  int        `json:"registration_groups" msgpack:"registration_groups"`
	UnnamedRecords      int        `json:"unnamed_records" msgpack:"unnamed_records"`           // Excluded from name grouping
	UnregisteredRecords int        `json:"unregistered_records" msgpack:"unregistered_records"` // Excluded from registration grouping
}

// Info returns snapshot metadata
func (s *Snapshot) Info() Info {
	return Info{
		ID:                  s.ID,
		LoadedAt:            s.LoadedAt,
		Source:              s.Source,
		Files:               s.Files,
		RecordCount:         len(s.Records),
		NameGroups:          s.ByName.Len(),
		RegistrationGroups:  s.ByRegistration.Len(),
		UnnamedRecords:      len(s.Records) - s.ByName.RecordCount(),
		UnregisteredRecords: len(s.Records) - s.ByRegistration.RecordCount(),
	}
}

// Service owns the current snapshot. Reloads recompute everything from the
// full record set; there is no incremental merge.
type Service struct {
	loader   *Loader
	log      zerolog.Logger
	now      func() time.Time
	mu       sync.RWMutex
	reloadMu sync.Mutex
	current  *Snapshot
}

// NewService creates a new dataset service
func NewService(loader *Loader, log zerolog.Logger) *Service {
	return &Service{
		loader: loader,
		log:    log.With().Str("service", "datasets").Logger(),
		now:    time.Now,
	}
}

// Reload loads every record file and swaps in a new snapshot.
// On failure the previous snapshot stays current.
func (s *Service) Reload(ctx context.Context) (*Snapshot, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	result, err := s.loader.Load(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Dataset reload failed, keeping previous snapshot")
		return nil, err
	}

	snapshot := NewSnapshot(result.Records, result.Files, s.loader.Source().Describe(), s.now())

	s.mu.Lock()
	s.current = snapshot
	s.mu.Unlock()

	s.log.Info().
		Str("snapshot_id", snapshot.ID).
		Int("records", len(snapshot.Records)).
		Int("name_groups", snapshot.ByName.Len()).
		Int("registration_groups", snapshot.ByRegistration.Len()).
		Msg("Dataset snapshot refreshed")

	return snapshot, nil
}

// Current returns the current snapshot or ErrNoSnapshot
func (s *Service) Current() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, ErrNoSnapshot
	}
	return s.current, nil
}
