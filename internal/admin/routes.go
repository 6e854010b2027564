package admin

import "github.com/gin-gonic/gin"

// RegisterRoutes wires the two read-only admin endpoints. There is no
// mutation surface here: the catalog is immutable after load, and cache
// counters are observed, not reset, through this API.
func RegisterRoutes(r *gin.Engine, h *handler) {
	r.GET("/healthz", h.Healthz)
	r.GET("/stats", h.Stats)
}
