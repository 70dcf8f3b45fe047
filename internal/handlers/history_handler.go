package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskdesk/internal/pdf"
	"taskdesk/internal/services"
)

type HistoryHandler struct {
	service services.HistoryService
	report  pdf.Generator
}

func NewHistoryHandler(service services.HistoryService, report pdf.Generator) *HistoryHandler {
	return &HistoryHandler{service: service, report: report}
}

// @Summary      Task history
// @Description  Paginated history of one task, newest first
// @Tags         History
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      int  true   "Task ID"
// @Param        page   query     int  false  "1-based page"
// @Param        limit  query     int  false  "page size"
// @Success      200  {object}  models.HistoryPage
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id}/history [get]
func (h *HistoryHandler) ListForTask(c *gin.Context) {
	actor, ok := callerIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", services.DefaultHistoryLimit)

	result, err := h.service.ListForTask(c.Request.Context(), actor, id, page, limit)
	if err != nil {
		respondError(c, "[history][task]", err)
		return
	}
	log.Printf("[history][task][ok] taskID=%d page=%d count=%d", id, page, len(result.Items))
	c.JSON(http.StatusOK, result)
}

// @Summary      History feed
// @Description  Paginated history across tasks; TEAM callers only see their assigned tasks
// @Tags         History
// @Produce      json
// @Security     BearerAuth
// @Param        taskId  query     int  false  "filter to one task"
// @Param        page    query     int  false  "1-based page"
// @Param        limit   query     int  false  "page size"
// @Success      200  {object}  models.HistoryPage
// @Router       /history [get]
func (h *HistoryHandler) ListGlobal(c *gin.Context) {
	actor, ok := callerIdentity(c)
	if !ok {
		return
	}

	var taskID *int64
	if v, ok := c.GetQuery("taskId"); ok && v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid taskId"})
			return
		}
		taskID = &id
	}
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", services.DefaultHistoryLimit)

	result, err := h.service.ListGlobal(c.Request.Context(), actor, taskID, page, limit)
	if err != nil {
		respondError(c, "[history][feed]", err)
		return
	}
	log.Printf("[history][feed][ok] userID=%d page=%d count=%d", actor.ID, page, len(result.Items))
	c.JSON(http.StatusOK, result)
}

// @Summary      Export task history
// @Description  Streams the full history of a task as a PDF report
// @Tags         History
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path  int  true  "Task ID"
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id}/history/export [get]
func (h *HistoryHandler) Export(c *gin.Context) {
	actor, ok := callerIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	task, entries, err := h.service.AllForTask(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, "[history][export]", err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="task_%d_history.pdf"`, task.ID))
	if err := h.report.WriteHistoryReport(c.Writer, task, entries); err != nil {
		// headers may be gone already; log and drop the connection
		log.Printf("[history][export][err] taskID=%d: %v", id, err)
		c.Abort()
		return
	}
	log.Printf("[history][export][ok] taskID=%d entries=%d", id, len(entries))
}
