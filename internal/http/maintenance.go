package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/bearthen/library/internal/tasks"
)

// TaskQueue is the part of the task client the API uses.
type TaskQueue interface {
	Enqueue(task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

var _ TaskQueue = (*tasks.Client)(nil)

// MaintenanceController exposes asset verification and orphan pruning.
// With a task queue the work is enqueued and the request returns 202;
// without one it runs inline.
type MaintenanceController struct {
	store Maintainer
	queue TaskQueue
}

func NewMaintenanceController(store Maintainer, queue TaskQueue) *MaintenanceController {
	return &MaintenanceController{store: store, queue: queue}
}

// POST /api/maintenance/verify-assets
func (mc *MaintenanceController) VerifyAssets(c *gin.Context) {
	if mc.queue != nil {
		mc.enqueue(c, tasks.VerifyAssetsTask{Reason: "api"})
		return
	}

	result, err := mc.store.VerifyAssets(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "verify assets")
		return
	}
	c.JSON(http.StatusOK, result)
}

// POST /api/maintenance/prune
func (mc *MaintenanceController) PruneOrphans(c *gin.Context) {
	if mc.queue != nil {
		mc.enqueue(c, tasks.PruneOrphansTask{})
		return
	}

	result, err := mc.store.PruneOrphans()
	if err != nil {
		respondInternalError(c, err, "prune orphans")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetTaskStatus handles GET /api/tasks/:id
func (mc *MaintenanceController) GetTaskStatus(c *gin.Context) {
	if mc.queue == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "task queue is disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	taskID := c.Param("id")
	status, err := mc.queue.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}
	if status == backlite.TaskStatusNotFound {
		respondNotFound(c, "task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": taskID, "status": taskStatusToString(status)})
}

func (mc *MaintenanceController) enqueue(c *gin.Context, task backlite.Task) {
	id, err := mc.queue.Enqueue(task)
	if err != nil {
		respondInternalError(c, err, "enqueue "+task.Config().Name)
		return
	}
	respondAccepted(c, "task enqueued", gin.H{"task_id": id, "type": task.Config().Name})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
