package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/tradecal/internal/scheduler"
)

// SystemHandlers serves process and host health information.
type SystemHandlers struct {
	log       zerolog.Logger
	scheduler *scheduler.Scheduler
	startedAt time.Time
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, sched *scheduler.Scheduler) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("component", "system").Logger(),
		scheduler: sched,
		startedAt: time.Now(),
	}
}

// SystemStatusResponse is the system status payload
type SystemStatusResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Goroutines    int     `json:"goroutines"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemUsedMB     float64 `json:"mem_used_mb"`
	MemTotalMB    float64 `json:"mem_total_mb"`
	MemPercent    float64 `json:"mem_percent"`
	SchedulerOn   bool    `json:"scheduler_on"`
}

// HandleSystemStatus returns process and host status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	resp := SystemStatusResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(h.startedAt).Seconds(),
		Goroutines:    runtime.NumGoroutine(),
		SchedulerOn:   h.scheduler != nil,
	}

	if cpuPercent, err := cpu.Percent(100*time.Millisecond, false); err == nil && len(cpuPercent) > 0 {
		resp.CPUPercent = cpuPercent[0]
	} else if err != nil {
		h.log.Debug().Err(err).Msg("failed to read CPU usage")
	}

	if memStat, err := mem.VirtualMemory(); err == nil {
		resp.MemUsedMB = float64(memStat.Used) / 1024 / 1024
		resp.MemTotalMB = float64(memStat.Total) / 1024 / 1024
		resp.MemPercent = memStat.UsedPercent
	} else {
		h.log.Debug().Err(err).Msg("failed to read memory usage")
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
