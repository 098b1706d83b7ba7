package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type ExportController struct {
	exporter Exporter
	backups  BackupRunner
}

func NewExportController(exporter Exporter, backups BackupRunner) *ExportController {
	return &ExportController{exporter: exporter, backups: backups}
}

// Export streams the full library as a JSON attachment.
// GET /api/export
func (ec *ExportController) Export(c *gin.Context) {
	data, err := ec.exporter.ExportJSON()
	if err != nil {
		respondInternalError(c, err, "export")
		return
	}
	filename := fmt.Sprintf("library-%s.json", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// Backup writes a backup file right away.
// POST /api/maintenance/backup
func (ec *ExportController) Backup(c *gin.Context) {
	if ec.backups == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "backups are not configured"})
		return
	}
	result, err := ec.backups.RunNow()
	if err != nil {
		respondInternalError(c, err, "backup")
		return
	}
	c.JSON(http.StatusOK, result)
}
