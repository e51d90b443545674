package httptransport

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"imgproc-server-go/internal/platform/logging"
)

// HealthHandler reports process liveness. It keeps no request-derived state,
// so its answer is independent of whatever earlier requests did.
type HealthHandler struct {
	logger  *logging.Logger
	started time.Time
	proc    *process.Process
}

// NewHealthHandler creates the liveness handler.
func NewHealthHandler(logger *logging.Logger) *HealthHandler {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		// Stats become best-effort; liveness itself never depends on them.
		proc = nil
	}

	return &HealthHandler{
		logger:  logger,
		started: time.Now(),
		proc:    proc,
	}
}

// RegisterRoutes mounts the health endpoint on both the root and the API
// group.
func (h *HealthHandler) RegisterRoutes(router *Router) {
	router.Engine.GET("/health", h.Handle)
	router.API.GET("/health", h.Handle)
}

type healthPayload struct {
	Status    string  `json:"status"`
	Service   string  `json:"service"`
	Timestamp float64 `json:"timestamp"`
	UptimeSec float64 `json:"uptime_seconds"`
	PID       int     `json:"pid"`
	Goroutine int     `json:"goroutines"`
	CPUCount  int     `json:"cpu_count"`

	MemoryRSSBytes uint64  `json:"memory_rss_bytes,omitempty"`
	HostMemUsedPct float64 `json:"host_memory_used_percent,omitempty"`
}

// Handle answers with a fixed healthy status plus best-effort process stats.
func (h *HealthHandler) Handle(c *gin.Context) {
	now := time.Now()
	payload := healthPayload{
		Status:    "healthy",
		Service:   "image-processor",
		Timestamp: float64(now.UnixNano()) / float64(time.Second),
		UptimeSec: now.Sub(h.started).Seconds(),
		PID:       os.Getpid(),
		Goroutine: runtime.NumGoroutine(),
		CPUCount:  runtime.NumCPU(),
	}

	if h.proc != nil {
		if memInfo, err := h.proc.MemoryInfo(); err == nil && memInfo != nil {
			payload.MemoryRSSBytes = memInfo.RSS
		}
	}
	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		payload.HostMemUsedPct = vm.UsedPercent
	}

	c.JSON(http.StatusOK, payload)
}
