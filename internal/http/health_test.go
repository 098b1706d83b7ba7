package http

import (
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type failingPinger struct{}

func (failingPinger) Ping() error { return errors.New("database is closed") }

func healthRouter(db Pinger, assetsDir string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", NewHealthController(db, assetsDir, "1.0.0").Status)
	return router
}

func TestHealthController_Status(t *testing.T) {
	store, _ := setupTestStore(t)

	tests := []struct {
		name      string
		db        Pinger
		assetsDir string
		code      int
		status    string
		database  string
		assets    string
	}{
		{
			name:      "database and assets available",
			db:        store,
			assetsDir: t.TempDir(),
			code:      http.StatusOK,
			status:    statusHealthy,
			database:  checkOK,
			assets:    checkOK,
		},
		{
			name:     "nothing configured",
			code:     http.StatusOK,
			status:   statusHealthy,
			database: checkNotConfigured,
			assets:   checkNotConfigured,
		},
		{
			name:      "asset directory gone",
			db:        store,
			assetsDir: filepath.Join(t.TempDir(), "removed"),
			code:      http.StatusOK,
			status:    statusDegraded,
			database:  checkOK,
		},
		{
			name:   "ping fails",
			db:     failingPinger{},
			code:   http.StatusServiceUnavailable,
			status: statusUnhealthy,
			assets: checkNotConfigured,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, healthRouter(tt.db, tt.assetsDir), http.MethodGet, "/health", nil)

			assert.Equal(t, tt.code, w.Code)
			resp := decode[HealthResponse](t, w)
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, "1.0.0", resp.Version)
			assert.NotEmpty(t, resp.Time)
			if tt.database != "" {
				assert.Equal(t, tt.database, resp.Checks["database"])
			} else {
				assert.Contains(t, resp.Checks["database"], "error")
			}
			if tt.assets != "" {
				assert.Equal(t, tt.assets, resp.Checks["assets"])
			} else {
				assert.Contains(t, resp.Checks["assets"], "error")
			}
		})
	}
}
