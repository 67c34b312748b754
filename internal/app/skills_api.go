package app

import (
	"log"

	"go-ems/internal/config"
	"go-ems/internal/shared/connection"
	"go-ems/internal/skill"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BuildSkillsAPI wires the skills-service binary. Redis is optional: the
// all-skills cache degrades to a singleflight-guarded query without it.
func BuildSkillsAPI(router *gin.Engine, cfg config.Config) error {
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

	logger := zap.L().Named("skills-api")

	skillRepo := skill.NewRepository(gormDB)
	skillService := skill.NewService(sqlDB, skillRepo, rdb, logger)
	skillHandler := skill.NewHandler(skillService, logger)
	skill.RegisterRoutes(router, skillHandler, logger)

	return nil
}
