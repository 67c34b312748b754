package app

import (
	"log"
	"time"

	"go-ems/internal/config"
	"go-ems/internal/employee"
	"go-ems/internal/messaging/kafka"
	"go-ems/internal/shared/connection"
	"go-ems/internal/skillclient"
	"go-ems/internal/task"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BuildEmployeeAPI wires the employee-service binary: employee and
// timesheet modules over one Postgres database. When a Kafka broker is
// configured, skill sync goes through the outbox; otherwise the service
// calls the skills API directly.
func BuildEmployeeAPI(router *gin.Engine, cfg config.Config) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.Port,
		cfg.Database.SSLMode,
		5,
	)
	if err != nil {
		return err
	}
	log.Println("✅ Database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.Redis.Addr, 5)
		if err != nil {
			return err
		}
		log.Println("✅ Redis connection established")
	}

	logger := zap.L().Named("employee-api")

	employeeRepo := employee.NewRepository(gormDB)
	taskRepo := task.NewRepository(gormDB)

	var outboxRepo kafka.OutboxRepository
	if cfg.Kafka.Broker != "" {
		outboxRepo = kafka.NewOutboxRepository(sqlDB)
	}

	skillClient := skillclient.New(cfg.SkillServiceURL, 5*time.Second)

	employeeService := employee.NewServiceWithOutbox(
		sqlDB, employeeRepo, taskRepo, skillClient, outboxRepo, logger,
	)
	employeeHandler := employee.NewHandlerWithRedis(employeeService, rdb, logger)
	employee.RegisterRoutes(router, employeeHandler, rdb, logger)

	registerTimesheetModule(router, sqlDB, gormDB, employeeRepo, taskRepo, logger)

	return nil
}
