package routes

import (
	"github.com/gin-gonic/gin"

	"taskdesk/internal/handlers"
	"taskdesk/internal/middleware"
	"taskdesk/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	authService services.AuthService,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	taskHandler *handlers.TaskHandler,
	historyHandler *handlers.HistoryHandler,
) *gin.Engine {

	// ---- public
	r.GET("/healthz", handlers.Health)
	auth := r.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
	}

	// ---- protected
	api := r.Group("/", middleware.AuthMiddleware(authService))

	users := api.Group("/users")
	{
		users.GET("", userHandler.List)
	}

	tasks := api.Group("/tasks")
	{
		tasks.POST("", taskHandler.Create)
		tasks.GET("", taskHandler.List)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.DELETE("/:id", taskHandler.Delete)
		tasks.GET("/:id/history", historyHandler.ListForTask)
		tasks.GET("/:id/history/export", historyHandler.Export)
	}

	api.GET("/history", historyHandler.ListGlobal)

	return r
}
