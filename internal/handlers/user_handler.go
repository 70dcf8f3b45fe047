package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskdesk/internal/models"
	"taskdesk/internal/services"
)

type UserHandler struct {
	service services.UserService
}

func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// @Summary      List users
// @Description  LEAD sees full details; TEAM sees names and roles only
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.UserSummary
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	actor, ok := callerIdentity(c)
	if !ok {
		return
	}

	users, err := h.service.List(c.Request.Context(), actor)
	if err != nil {
		respondError(c, "[user][list]", err)
		return
	}
	if users == nil {
		users = []models.UserSummary{}
	}
	log.Printf("[user][list][ok] userID=%d count=%d", actor.ID, len(users))
	c.JSON(http.StatusOK, users)
}
