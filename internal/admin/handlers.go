package admin

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/fenwick-dns/dnsd/internal/cache"
)

type handler struct {
	startTime time.Time
	cache     *cache.Cache
	upstreams []string
}

// healthzResponse is the body of GET /healthz.
type healthzResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// Healthz reports process liveness and uptime. It never touches the
// catalog, cache, or network — a 200 here means only that the process is
// alive and serving HTTP.
func (h *handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, healthzResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	})
}

type cacheStats struct {
	Entries   int    `json:"entries"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

type hostStats struct {
	NumCPU         int     `json:"num_cpu"`
	CPUUsedPercent float64 `json:"cpu_used_percent"`
	MemTotalMB     float64 `json:"mem_total_mb"`
	MemUsedMB      float64 `json:"mem_used_mb"`
	MemUsedPercent float64 `json:"mem_used_percent"`
}

type statsResponse struct {
	UptimeSeconds int64     `json:"uptime_seconds"`
	Cache         cacheStats `json:"cache"`
	Upstreams     []string  `json:"upstreams"`
	Host          hostStats `json:"host"`
}

// Stats reports cache hit/miss/eviction counters, the configured upstream
// list, and host CPU/memory figures. Any gopsutil read failure degrades to
// a zero-valued field rather than failing the whole response.
func (h *handler) Stats(c *gin.Context) {
	cs := h.cache.Stats()

	resp := statsResponse{
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Cache: cacheStats{
			Entries:   cs.Entries,
			Hits:      cs.Hits,
			Misses:    cs.Misses,
			Evictions: cs.Evictions,
		},
		Upstreams: h.upstreams,
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		resp.Host.MemTotalMB = float64(vm.Total) / 1024 / 1024
		resp.Host.MemUsedMB = float64(vm.Used) / 1024 / 1024
		resp.Host.MemUsedPercent = vm.UsedPercent
	}
	if pct, err := cpu.Percent(200*time.Millisecond, false); err == nil && len(pct) > 0 {
		resp.Host.CPUUsedPercent = pct[0]
	}
	resp.Host.NumCPU = runtime.NumCPU()

	c.JSON(http.StatusOK, resp)
}
