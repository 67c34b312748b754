package app

import (
	"database/sql"

	"go-ems/internal/employee"
	"go-ems/internal/task"
	"go-ems/internal/timesheet"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerTimesheetModule(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	employeeRepo employee.Repository,
	taskRepo task.Repository,
	logger *zap.Logger,
) {
	timesheetRepo := timesheet.NewRepository(gormDB)
	timesheetService := timesheet.NewService(db, timesheetRepo, taskRepo, employeeRepo, logger)
	timesheetHandler := timesheet.NewHandler(timesheetService, logger)
	timesheet.RegisterRoutes(router, timesheetHandler, logger)
}
