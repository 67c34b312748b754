package skill

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-ems/internal/shared/contextutil"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const allSkillsCacheKey = "skills:all"

//go:generate mockgen -source=skill_service.go -destination=mock/skill_service_mock.go -package=mock
type Service interface {
	CreateSkills(ctx context.Context, dtos []SkillDTO) ([]SkillDTO, error)
	GetAll(ctx context.Context) ([]SkillDTO, error)
	GetByEmployee(ctx context.Context, employeeID int64) ([]SkillDTO, error)
	UpdateSkills(ctx context.Context, dtos []SkillDTO) ([]SkillDTO, error)
	DeleteSkill(ctx context.Context, id int64) error
	DeleteByEmployee(ctx context.Context, employeeID int64) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("skill.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("skill.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

// CreateSkills persists the whole batch in one transaction and returns the
// created rows with their generated ids. Duplicate names are allowed: each
// entry becomes its own row.
func (s *service) CreateSkills(ctx context.Context, dtos []SkillDTO) ([]SkillDTO, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create skills requested",
		zap.String("request_id", rid),
		zap.Int("count", len(dtos)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create skills begin tx failed", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	created := make([]SkillDTO, 0, len(dtos))
	for _, dto := range dtos {
		entity := toEntity(dto)
		entity.ID = 0
		if err := qtx.Create(ctx, &entity); err != nil {
			s.logger.Error("create skill persist failed",
				zap.String("skill_name", dto.SkillName),
				zap.Error(err),
			)
			return nil, err
		}
		created = append(created, fromEntity(entity))
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create skills commit failed", zap.Error(err))
		return nil, err
	}

	s.invalidateCache(ctx)
	s.logger.Info("create skills success", zap.Int("count", len(created)))

	return created, nil
}

func (s *service) GetAll(ctx context.Context) ([]SkillDTO, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, allSkillsCacheKey).Result(); err == nil {
			var resp []SkillDTO
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(allSkillsCacheKey, func() (interface{}, error) {
		skills, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}

		resp := fromEntities(skills)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, allSkillsCacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]SkillDTO), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID int64) ([]SkillDTO, error) {
	s.logger.Debug("get skills by employee requested", zap.Int64("employee_id", employeeID))
	skills, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("get skills by employee failed", zap.Error(err))
		return nil, err
	}
	return fromEntities(skills), nil
}

// UpdateSkills overwrites employee id and name for every dto whose id
// exists. Unknown ids are skipped without error; only the rows actually
// updated are returned.
func (s *service) UpdateSkills(ctx context.Context, dtos []SkillDTO) ([]SkillDTO, error) {
	s.logger.Debug("update skills requested", zap.Int("count", len(dtos)))

	updated := make([]SkillDTO, 0, len(dtos))
	for _, dto := range dtos {
		existing, err := s.repo.FindByID(ctx, dto.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Warn("update skill skipped, id not found", zap.Int64("skill_id", dto.ID))
				continue
			}
			s.logger.Error("update skill lookup failed", zap.Int64("skill_id", dto.ID), zap.Error(err))
			return nil, err
		}

		existing.EmployeeID = dto.EmployeeID
		existing.SkillName = dto.SkillName
		if err := s.repo.Save(ctx, existing); err != nil {
			s.logger.Error("update skill persist failed", zap.Int64("skill_id", dto.ID), zap.Error(err))
			return nil, err
		}
		updated = append(updated, fromEntity(*existing))
	}

	s.invalidateCache(ctx)
	s.logger.Info("update skills success", zap.Int("count", len(updated)))

	return updated, nil
}

// DeleteSkill is an unconditional delete-by-id: removing an id that does
// not exist is a successful no-op.
func (s *service) DeleteSkill(ctx context.Context, id int64) error {
	s.logger.Debug("delete skill requested", zap.Int64("skill_id", id))

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		s.logger.Error("delete skill failed", zap.Int64("skill_id", id), zap.Error(err))
		return err
	}

	s.invalidateCache(ctx)
	s.logger.Info("delete skill success", zap.Int64("skill_id", id))
	return nil
}

// DeleteByEmployee removes every skill pointing at the employee. Driven by
// employee-deleted events from the employee service.
func (s *service) DeleteByEmployee(ctx context.Context, employeeID int64) error {
	s.logger.Debug("delete skills by employee requested", zap.Int64("employee_id", employeeID))

	if err := s.repo.DeleteAllByEmployee(ctx, employeeID); err != nil {
		s.logger.Error("delete skills by employee failed", zap.Int64("employee_id", employeeID), zap.Error(err))
		return err
	}

	s.invalidateCache(ctx)
	s.logger.Info("delete skills by employee success", zap.Int64("employee_id", employeeID))
	return nil
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, allSkillsCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate skills cache",
			zap.Error(err),
			zap.String("key", allSkillsCacheKey),
		)
	}
}
