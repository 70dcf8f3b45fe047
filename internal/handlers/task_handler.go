package handlers

import (
	"encoding/json"
	"html"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskdesk/internal/models"
	"taskdesk/internal/repositories"
	"taskdesk/internal/services"
)

type TaskHandler struct {
	service services.TaskService

	// assignee Telegram notifications, optional
	tg    *services.TelegramService
	users repositories.UserRepository
}

func NewTaskHandler(service services.TaskService, tg *services.TelegramService, users repositories.UserRepository) *TaskHandler {
	return &TaskHandler{service: service, tg: tg, users: users}
}

// optionalID distinguishes an absent assignedToId from an explicit null.
// Both "present" cases count as supplying the field.
type optionalID struct {
	Set   bool
	Value *int64
}

func (o *optionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// @Summary      Create task
// @Description  Creates a task with an optional assignee (LEAD only)
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  models.Task
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	actor, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req struct {
		Title        string `json:"title" binding:"required"`
		Description  string `json:"description" binding:"required"`
		AssignedToID *int64 `json:"assignedToId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[task][create] by userID=%d title=%q", actor.ID, req.Title)

	task, err := h.service.Create(c.Request.Context(), actor, services.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		respondError(c, "[task][create]", err)
		return
	}

	log.Printf("[task][create][ok] id=%d", task.ID)
	c.JSON(http.StatusCreated, task)

	h.notifyAssignee(c, task, "📌 New task assigned to you")
}

// @Summary      List tasks
// @Description  LEAD sees all tasks; TEAM sees tasks assigned to them
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.Task
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	actor, ok := callerIdentity(c)
	if !ok {
		return
	}

	tasks, err := h.service.List(c.Request.Context(), actor)
	if err != nil {
		respondError(c, "[task][list]", err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	log.Printf("[task][list][ok] userID=%d count=%d", actor.ID, len(tasks))
	c.JSON(http.StatusOK, tasks)
}

// @Summary      Get task
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  models.Task
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	actor, ok := callerIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	task, err := h.service.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, "[task][get]", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// @Summary      Update task
// @Description  LEAD updates any field; the assignee updates status/description
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  models.Task
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	actor, ok := callerIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Title        *string            `json:"title"`
		Description  *string            `json:"description"`
		Status       *models.TaskStatus `json:"status"`
		AssignedToID optionalID         `json:"assignedToId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][update][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[task][update] id=%d by userID=%d", id, actor.ID)

	task, err := h.service.Update(c.Request.Context(), actor, id, services.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		AssigneeSet:  req.AssignedToID.Set,
		AssignedToID: req.AssignedToID.Value,
	})
	if err != nil {
		respondError(c, "[task][update]", err)
		return
	}

	log.Printf("[task][update][ok] id=%d", id)
	c.JSON(http.StatusOK, task)

	h.notifyAssignee(c, task, "✏️ Task updated")
}

// @Summary      Delete task
// @Description  Deletes a task and purges its history (LEAD only)
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	actor, ok := callerIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	log.Printf("[task][delete] id=%d by userID=%d", id, actor.ID)

	// fetched before deletion so the notification still knows the assignee
	current, _ := h.service.GetByID(c.Request.Context(), actor, id)

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, "[task][delete]", err)
		return
	}

	log.Printf("[task][delete][ok] id=%d", id)
	c.JSON(http.StatusOK, gin.H{"message": "task deleted successfully"})

	if current != nil {
		h.notifyAssignee(c, current, "🗑️ Task deleted")
	}
}

func (h *TaskHandler) notifyAssignee(c *gin.Context, t *models.Task, prefix string) {
	if h.tg == nil || h.users == nil || t == nil || t.AssignedToID == nil {
		return
	}
	chatID, err := h.users.GetTelegramChatID(c.Request.Context(), *t.AssignedToID)
	if err != nil {
		log.Printf("[task][notify] telegram lookup failed: assignee=%d err=%v", *t.AssignedToID, err)
		return
	}
	if chatID == nil {
		return
	}
	msg := prefix + "\n" +
		"• <b>" + html.EscapeString(t.Title) + "</b>\n" +
		"• Status: <code>" + string(t.Status) + "</code>"
	_ = h.tg.SendMessage(*chatID, msg)
}
