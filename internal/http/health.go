package http

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"

	checkOK            = "ok"
	checkNotConfigured = "not configured"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController reports database connectivity and whether the asset
// directory is reachable. A missing asset directory only degrades the
// service: books still load and fall back to remote cover URLs.
type HealthController struct {
	db        Pinger
	assetsDir string
	version   string
}

func NewHealthController(db Pinger, assetsDir, version string) *HealthController {
	return &HealthController{db: db, assetsDir: assetsDir, version: version}
}

// GET /health
func (h *HealthController) Status(c *gin.Context) {
	resp := HealthResponse{
		Status:  statusHealthy,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks: map[string]string{
			"database": h.checkDatabase(),
			"assets":   h.checkAssets(),
		},
	}

	code := http.StatusOK
	switch {
	case resp.Checks["database"] != checkOK && resp.Checks["database"] != checkNotConfigured:
		resp.Status = statusUnhealthy
		code = http.StatusServiceUnavailable
	case resp.Checks["assets"] != checkOK && resp.Checks["assets"] != checkNotConfigured:
		resp.Status = statusDegraded
	}
	c.IndentedJSON(code, resp)
}

func (h *HealthController) checkDatabase() string {
	if h.db == nil {
		return checkNotConfigured
	}
	if err := h.db.Ping(); err != nil {
		return "error: " + err.Error()
	}
	return checkOK
}

func (h *HealthController) checkAssets() string {
	if h.assetsDir == "" {
		return checkNotConfigured
	}
	info, err := os.Stat(h.assetsDir)
	if err != nil {
		return "error: " + err.Error()
	}
	if !info.IsDir() {
		return "error: not a directory"
	}
	return checkOK
}
