package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskdesk/internal/apperrors"
	"taskdesk/internal/authz"
	"taskdesk/internal/middleware"
)

// callerIdentity aborts with 401 when no identity was put in the context.
func callerIdentity(c *gin.Context) (authz.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return authz.Identity{}, false
	}
	return identity, true
}

// respondError maps a service error to its HTTP status. Internal detail stays
// in the log; the client gets the short message only.
func respondError(c *gin.Context, tag string, err error) {
	status := apperrors.StatusCode(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s[err] %v", tag, err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	log.Printf("%s[deny] status=%d %v", tag, status, err)
	c.JSON(status, gin.H{"error": apperrors.ClientMessage(err)})
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// queryInt returns the query parameter as an int, or def when absent. A
// malformed value comes back as -1 so the service layer rejects it.
func queryInt(c *gin.Context, key string, def int) int {
	v, ok := c.GetQuery(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}
