package employee

import (
	"go-ems/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.Engine, handler *Handler, rdb *redis.Client, logger *zap.Logger) {
	employees := r.Group("/employees")
	employees.Use(middleware.RequestID())
	employees.Use(middleware.ContextLogger(logger))
	{
		create := []gin.HandlerFunc{middleware.RateLimitByIP(5, 10)}
		if rdb != nil {
			create = append(create, middleware.Idempotency(rdb))
		}
		employees.POST("", append(create, handler.Create)...)

		employees.GET("", handler.List)
		employees.GET("/without-tasks", handler.ListWithoutTasks)
		employees.GET("/:id", handler.GetByID)

		employees.PUT("/:id",
			middleware.RateLimitByIP(5, 10),
			handler.Update,
		)
		employees.DELETE("/:id",
			middleware.RateLimitByIP(5, 10),
			handler.Delete,
		)

		employees.POST("/:id/tasks",
			middleware.RateLimitByIP(5, 10),
			handler.AddTask,
		)
		employees.PUT("/:id/tasks",
			middleware.RateLimitByIP(5, 10),
			handler.UpdateTasks,
		)

		employees.GET("/tasks/:id", handler.GetTasks)
		employees.GET("/tasks/:id/:status", handler.GetTasksByStatus)
		employees.GET("/tasks-without-ids/:id", handler.GetTasksWithoutIDs)

		employees.GET("/document/:id", handler.GetDocument)
	}
}
