package server

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/aristath/cryptorisk/internal/api"
	"github.com/aristath/cryptorisk/internal/database"
	"github.com/aristath/cryptorisk/internal/scheduler"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemHandlers serves process, database and job status
type SystemHandlers struct {
	log       zerolog.Logger
	db        *database.DB
	scheduler *scheduler.Scheduler
	workers   int
	startedAt time.Time
}

// SystemStatusResponse is the data of GET /api/system/status
type SystemStatusResponse struct {
	Status        string          `json:"status" msgpack:"status"`
	UptimeSeconds float64         `json:"uptime_seconds" msgpack:"uptime_seconds"`
	CPUPercent    float64         `json:"cpu_percent" msgpack:"cpu_percent"`
	MemoryPercent float64         `json:"memory_percent" msgpack:"memory_percent"`
	Goroutines    int             `json:"goroutines" msgpack:"goroutines"`
	Workers       int             `json:"workers" msgpack:"workers"`
	Database      *database.Stats `json:"database,omitempty" msgpack:"database,omitempty"`
	DatabaseOK    bool            `json:"database_ok" msgpack:"database_ok"`
	Jobs          []string        `json:"jobs" msgpack:"jobs"`
}

// NewSystemHandlers creates system handlers. db and sched may be nil.
func NewSystemHandlers(log zerolog.Logger, db *database.DB, sched *scheduler.Scheduler, workers int) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("handler", "system").Logger(),
		db:        db,
		scheduler: sched,
		workers:   workers,
		startedAt: time.Now(),
	}
}

// GetSystemStatusSnapshot gathers the status report
func (h *SystemHandlers) GetSystemStatusSnapshot(ctx context.Context) SystemStatusResponse {
	cpuPercent, memPercent := h.getSystemStats()

	resp := SystemStatusResponse{
		Status:        "healthy",
		UptimeSeconds: time.Since(h.startedAt).Seconds(),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		Goroutines:    runtime.NumGoroutine(),
		Workers:       h.workers,
		Jobs:          h.jobNames(),
	}

	if h.db != nil {
		checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := h.db.QuickCheck(checkCtx); err != nil {
			h.log.Warn().Err(err).Msg("Database ping failed")
			resp.Status = "degraded"
		} else {
			resp.DatabaseOK = true
		}
		if stats, err := h.db.GetStats(); err == nil {
			resp.Database = stats
		}
	}

	return resp
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	api.WriteData(w, r, http.StatusOK, h.GetSystemStatusSnapshot(r.Context()), h.log)
}

// HandleDatabaseStats handles GET /api/system/database/stats
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		api.WriteStatusError(w, r, http.StatusServiceUnavailable, "database not configured", h.log)
		return
	}
	stats, err := h.db.GetStats()
	if err != nil {
		api.WriteError(w, r, err, h.log)
		return
	}
	api.WriteData(w, r, http.StatusOK, map[string]interface{}{
		"name":  h.db.Name(),
		"path":  h.db.Path(),
		"stats": stats,
	}, h.log)
}

// HandleJobsStatus handles GET /api/system/jobs
func (h *SystemHandlers) HandleJobsStatus(w http.ResponseWriter, r *http.Request) {
	api.WriteData(w, r, http.StatusOK, map[string]interface{}{
		"jobs":      h.jobNames(),
		"scheduled": h.scheduler != nil,
	}, h.log)
}

// HandleRunJob handles POST /api/system/jobs/{name}/run
func (h *SystemHandlers) HandleRunJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if h.scheduler == nil {
		api.WriteStatusError(w, r, http.StatusNotFound, "scheduler not running", h.log)
		return
	}
	job, ok := h.scheduler.Lookup(name)
	if !ok {
		api.WriteStatusError(w, r, http.StatusNotFound, fmt.Sprintf("unknown job %q", name), h.log)
		return
	}

	if err := h.scheduler.RunNow(job); err != nil {
		api.WriteStatusError(w, r, http.StatusInternalServerError, err.Error(), h.log)
		return
	}
	api.WriteData(w, r, http.StatusOK, map[string]string{"job": name, "status": "completed"}, h.log)
}

func (h *SystemHandlers) jobNames() []string {
	if h.scheduler == nil {
		return []string{}
	}
	return h.scheduler.Jobs()
}

// getSystemStats returns CPU and RAM usage percentages.
// The CPU sample is kept short so the status call stays fast.
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
