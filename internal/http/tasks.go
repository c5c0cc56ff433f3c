package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ivanzak/bookden/internal/scheduler"
	"github.com/ivanzak/bookden/internal/tasks"
)

// TasksController exposes background maintenance operations.
type TasksController struct {
	taskClient *tasks.Client
	linkRepair *scheduler.LinkRepairScheduler
}

// NewTasksController creates a new TasksController.
func NewTasksController(taskClient *tasks.Client, linkRepair *scheduler.LinkRepairScheduler) *TasksController {
	return &TasksController{
		taskClient: taskClient,
		linkRepair: linkRepair,
	}
}

// Status reports a queued task's state.
// GET /api/tasks/:id
func (tc *TasksController) Status(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, "task id is required")
		return
	}

	status, err := tc.taskClient.Status(c.Request.Context(), taskID)
	if err != nil {
		respondNotFound(c, "task")
		return
	}

	c.JSON(http.StatusOK, status)
}

// EnrichAll queues a bulk metadata enrichment run.
// POST /api/tasks/enrich-all
func (tc *TasksController) EnrichAll(c *gin.Context) {
	ids, err := tc.taskClient.Add(tasks.EnrichAllBooksTask{}).Save()
	if err != nil {
		respondInternalError(c, err, "enqueue bulk enrichment")
		return
	}

	respondAccepted(c, "bulk enrichment queued", gin.H{"task_id": ids[0]})
}

// CleanupLinks queues an orphan link sweep.
// POST /api/tasks/cleanup-links
func (tc *TasksController) CleanupLinks(c *gin.Context) {
	ids, err := tc.taskClient.Add(tasks.CleanupOrphanLinksTask{}).Save()
	if err != nil {
		respondInternalError(c, err, "enqueue link cleanup")
		return
	}

	respondAccepted(c, "link cleanup queued", gin.H{"task_id": ids[0]})
}

// LinkRepairStatus reports the scheduler's last sweep.
// GET /api/tasks/link-repair
func (tc *TasksController) LinkRepairStatus(c *gin.Context) {
	if tc.linkRepair == nil {
		respondNotFound(c, "link repair scheduler")
		return
	}

	lastRun, lastResult := tc.linkRepair.Status()
	c.JSON(http.StatusOK, gin.H{
		"running":     tc.linkRepair.IsRunning(),
		"next_run":    tc.linkRepair.GetNextRunTime(),
		"last_run":    lastRun,
		"last_result": lastResult,
	})
}
