package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kreuzberg-io/kreuzberg/internal/domain"
	"github.com/kreuzberg-io/kreuzberg/internal/store"
)

// HealthHandler reports service and per-target health.
type HealthHandler struct {
	stores *store.Set
}

// NewHealthHandler creates a new health handler.
// Parameters:
//   - stores: configured store adapters.
// Returns:
//   - *HealthHandler: handler instance.
func NewHealthHandler(stores *store.Set) *HealthHandler {
	return &HealthHandler{stores: stores}
}

type targetHealth struct {
	Target       domain.TargetName   `json:"target"`
	Healthy      bool                `json:"healthy"`
	Required     bool                `json:"required"`
	Capabilities domain.Capabilities `json:"capabilities"`
}

// Health returns the health status of the service and every configured
// store target. The service is degraded when any target is down and
// unhealthy when a required one is.
func (h *HealthHandler) Health(c *gin.Context) {
	checkCtx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := "ok"
	targets := make([]targetHealth, 0, len(h.stores.Stores))
	for _, st := range h.stores.Stores {
		healthy := st.Healthy(checkCtx)
		if !healthy {
			if h.stores.Required[st.Name()] {
				status = "unhealthy"
			} else if status == "ok" {
				status = "degraded"
			}
		}
		targets = append(targets, targetHealth{
			Target:       st.Name(),
			Healthy:      healthy,
			Required:     h.stores.Required[st.Name()],
			Capabilities: st.Capabilities(),
		})
	}

	code := http.StatusOK
	if status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":  status,
		"targets": targets,
	})
}

type targetInfo struct {
	Target       domain.TargetName   `json:"target"`
	Configured   bool                `json:"configured"`
	Required     bool                `json:"required"`
	Capabilities domain.Capabilities `json:"capabilities"`
}

// Targets lists every supported store target with its capabilities,
// marking which ones this deployment has configured.
func (h *HealthHandler) Targets(c *gin.Context) {
	configured := make(map[domain.TargetName]bool, len(h.stores.Stores))
	for _, st := range h.stores.Stores {
		configured[st.Name()] = true
	}

	known := domain.KnownTargets()
	targets := make([]targetInfo, 0, len(known))
	for _, name := range known {
		targets = append(targets, targetInfo{
			Target:       name,
			Configured:   configured[name],
			Required:     h.stores.Required[name],
			Capabilities: domain.CapabilitiesFor(name),
		})
	}
	c.JSON(http.StatusOK, gin.H{"targets": targets})
}
