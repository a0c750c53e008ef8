package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	depUp   = "up"
	depDown = "down"
)

// Dependency is a backing service probed by the readiness check.
type Dependency struct {
	Name string
	Ping func(ctx context.Context) error
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    time.Time         `json:"timestamp"`
	Service      string            `json:"service"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

type HealthHandler struct {
	serviceName string
	version     string
	deps        []Dependency
	timeout     time.Duration
}

func NewHealthHandler(serviceName, version string, deps ...Dependency) *HealthHandler {
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		deps:        deps,
		timeout:     time.Second,
	}
}

// Liveness reports that the process serves requests. It never touches dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, h.response("healthy", nil))
}

// Readiness pings every dependency and answers 503 when one of them is down.
func (h *HealthHandler) Readiness(c *gin.Context) {
	status := make(map[string]string, len(h.deps))
	ready := true

	for _, d := range h.deps {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		err := d.Ping(ctx)
		cancel()

		if err != nil {
			status[d.Name] = depDown
			ready = false
			continue
		}
		status[d.Name] = depUp
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, h.response("degraded", status))
		return
	}
	c.JSON(http.StatusOK, h.response("healthy", status))
}

func (h *HealthHandler) response(status string, deps map[string]string) HealthResponse {
	return HealthResponse{
		Status:       status,
		Timestamp:    time.Now().UTC(),
		Service:      h.serviceName,
		Version:      h.version,
		Dependencies: deps,
	}
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Liveness)
	r.GET("/healthz", h.Readiness)
}
