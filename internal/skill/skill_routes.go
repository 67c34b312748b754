package skill

import (
	"go-ems/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.Engine, handler *Handler, logger *zap.Logger) {
	skills := r.Group("/skills")
	skills.Use(middleware.RequestID())
	skills.Use(middleware.ContextLogger(logger))
	{
		skills.POST("/createSkills",
			middleware.RateLimitByIP(5, 10),
			handler.CreateSkills,
		)

		skills.GET("/all", handler.GetAll)

		skills.GET("/:employeeId", handler.GetByEmployee)

		skills.PUT("/update",
			middleware.RateLimitByIP(5, 10),
			handler.UpdateSkills,
		)

		skills.DELETE("/delete/:skillId",
			middleware.RateLimitByIP(5, 10),
			handler.DeleteSkill,
		)
	}
}
