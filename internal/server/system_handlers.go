package server

import (
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/subsidywatch/internal/modules/datasets"
	"github.com/aristath/subsidywatch/internal/utils"
)

// SnapshotProvider returns the current grouped dataset
type SnapshotProvider interface {
	Current() (*datasets.Snapshot, error)
}

// JobLister lists the names of scheduled jobs
type JobLister interface {
	Jobs() []string
}

// SystemHandlers contains system-related HTTP handlers
type SystemHandlers struct {
	log         zerolog.Logger
	snapshots   SnapshotProvider
	jobs        JobLister
	startupTime time.Time
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, snapshots SnapshotProvider, jobs JobLister) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("handler", "system").Logger(),
		snapshots:   snapshots,
		jobs:        jobs,
		startupTime: time.Now(),
	}
}

// SystemStatusResponse represents the system status
type SystemStatusResponse struct {
	Status           string     `json:"status" msgpack:"status"` // healthy, loading, degraded
	UptimeSeconds    int64      `json:"uptime_seconds" msgpack:"uptime_seconds"`
	SnapshotID       string     `json:"snapshot_id,omitempty" msgpack:"snapshot_id,omitempty"`
	SnapshotLoadedAt *time.Time `json:"snapshot_loaded_at,omitempty" msgpack:"snapshot_loaded_at,omitempty"`
	RecordCount      int        `json:"record_count" msgpack:"record_count"`
	CPUPercent       float64    `json:"cpu_percent" msgpack:"cpu_percent"`
	RAMPercent       float64    `json:"ram_percent" msgpack:"ram_percent"`
	Goroutines       int        `json:"goroutines" msgpack:"goroutines"`
	GoVersion        string     `json:"go_version" msgpack:"go_version"`
	ScheduledJobs    []string   `json:"scheduled_jobs" msgpack:"scheduled_jobs"`
	Timestamp        string     `json:"timestamp" msgpack:"timestamp"`
}

// HandleSystemStatus returns uptime, snapshot and resource figures
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	cpuPercent, ramPercent := h.getSystemStats()

	response := SystemStatusResponse{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(h.startupTime).Seconds()),
		CPUPercent:    cpuPercent,
		RAMPercent:    ramPercent,
		Goroutines:    runtime.NumGoroutine(),
		GoVersion:     runtime.Version(),
		ScheduledJobs: []string{},
		Timestamp:     time.Now().Format(time.RFC3339),
	}

	if h.jobs != nil {
		response.ScheduledJobs = append(response.ScheduledJobs, h.jobs.Jobs()...)
	}

	snapshot, err := h.snapshots.Current()
	switch {
	case err == nil:
		loadedAt := snapshot.LoadedAt
		response.SnapshotID = snapshot.ID
		response.SnapshotLoadedAt = &loadedAt
		response.RecordCount = len(snapshot.Records)
	case errors.Is(err, datasets.ErrNoSnapshot):
		response.Status = "loading"
	default:
		h.log.Warn().Err(err).Msg("Failed to get current snapshot")
		response.Status = "degraded"
	}

	if err := utils.WriteResponse(w, r, http.StatusOK, response); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode system status")
	}
}

// getSystemStats calculates CPU and RAM usage percentages
// Uses a short interval (100ms) to keep the endpoint responsive
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
