package timesheet

import (
	"go-ems/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.Engine, handler *Handler, logger *zap.Logger) {
	timesheets := r.Group("/api/timesheets")
	timesheets.Use(middleware.RequestID())
	timesheets.Use(middleware.ContextLogger(logger))
	{
		timesheets.POST("/:id",
			middleware.RateLimitByIP(5, 10),
			handler.Create,
		)

		timesheets.GET("", handler.List)
		timesheets.GET("/:id", handler.GetByID)
		timesheets.GET("/from/:fromDate/to/:toDate", handler.GetByDateRange)
		timesheets.GET("/employee/:id", handler.GetByEmployee)

		timesheets.PUT("/:id",
			middleware.RateLimitByIP(5, 10),
			handler.Update,
		)
		timesheets.DELETE("/:id",
			middleware.RateLimitByIP(5, 10),
			handler.Delete,
		)
	}
}
