package timesheet

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-ems/internal/employee"
	"go-ems/internal/shared/apperror"
	"go-ems/internal/task"
	timesheeterrors "go-ems/internal/timesheet/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=timesheet_service.go -destination=mock/timesheet_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, employeeID int64, dto TimesheetDTO) (TimesheetDTO, error)
	GetByID(ctx context.Context, id int64) (TimesheetDTO, error)
	GetPage(ctx context.Context, page, pageSize int) ([]TimesheetDTO, int64, error)
	Update(ctx context.Context, id int64, dto TimesheetDTO) (TimesheetDTO, error)
	Delete(ctx context.Context, id int64) error
	GetByCreatedDateRange(ctx context.Context, fromDate, toDate string, page, pageSize int) ([]TimesheetDTO, int64, error)
	GetAllByEmployee(ctx context.Context, employeeID int64) ([]TimesheetDTO, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	tasks     task.Repository
	employees employee.Repository
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(
	db *sql.DB,
	repo Repository,
	tasks task.Repository,
	employees employee.Repository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("timesheet.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timesheet.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		tasks:     tasks,
		employees: employees,
		logger:    l,
		now:       time.Now,
	}
}

func (s *service) Create(ctx context.Context, employeeID int64, dto TimesheetDTO) (TimesheetDTO, error) {
	s.logger.Debug("create timesheet requested",
		zap.Int64("employee_id", employeeID),
		zap.Int("task_ids", len(dto.TaskIDs)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create timesheet begin tx failed", zap.Error(err))
		return TimesheetDTO{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qtxTasks := s.tasks.WithTx(tx)

	if _, err := s.employees.WithTx(tx).FindByID(ctx, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimesheetDTO{}, apperror.NotFound("Employee", "id", employeeID)
		}
		s.logger.Error("create timesheet fetch employee failed", zap.Error(err))
		return TimesheetDTO{}, err
	}

	// Every referenced task must exist before anything is written; a
	// single unknown id aborts the whole request.
	if err := s.resolveTaskIDs(ctx, qtxTasks, dto.TaskIDs); err != nil {
		return TimesheetDTO{}, err
	}

	now := s.now()
	entity := Timesheet{
		Description: dto.Description,
		Hours:       dto.Hours,
		WorkStatus:  dto.WorkStatus,
		CreatedBy:   dto.CreatedBy,
		UpdatedBy:   dto.UpdatedBy,
		CreatedDate: now,
		UpdatedDate: now,
		EmployeeID:  &employeeID,
	}

	if err := qtx.Create(ctx, &entity); err != nil {
		s.logger.Error("create timesheet persist failed", zap.Error(err))
		return TimesheetDTO{}, err
	}

	if err := qtxTasks.AssignTimesheet(ctx, dto.TaskIDs, entity.ID); err != nil {
		s.logger.Error("create timesheet assign tasks failed", zap.Error(err))
		return TimesheetDTO{}, err
	}

	assigned, err := qtxTasks.FindAllByTimesheet(ctx, entity.ID)
	if err != nil {
		s.logger.Error("create timesheet reload tasks failed", zap.Error(err))
		return TimesheetDTO{}, err
	}
	entity.Tasks = assigned

	if err := tx.Commit(); err != nil {
		s.logger.Error("create timesheet commit failed", zap.Error(err))
		return TimesheetDTO{}, err
	}

	s.logger.Info("create timesheet success",
		zap.Int64("timesheet_id", entity.ID),
		zap.Int64("employee_id", employeeID),
	)

	return mapToResponse(entity), nil
}

func (s *service) GetByID(ctx context.Context, id int64) (TimesheetDTO, error) {
	s.logger.Debug("get timesheet by id requested", zap.Int64("timesheet_id", id))

	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimesheetDTO{}, apperror.NotFound("Timesheet", "id", id)
		}
		s.logger.Error("get timesheet by id failed", zap.Error(err))
		return TimesheetDTO{}, err
	}

	return mapToResponse(*entity), nil
}

func (s *service) GetPage(ctx context.Context, page, pageSize int) ([]TimesheetDTO, int64, error) {
	timesheets, total, err := s.repo.FindPage(ctx, page, pageSize)
	if err != nil {
		s.logger.Error("get timesheets page failed", zap.Error(err))
		return nil, 0, err
	}

	return mapToListResponse(timesheets), total, nil
}

func (s *service) Update(ctx context.Context, id int64, dto TimesheetDTO) (TimesheetDTO, error) {
	s.logger.Debug("update timesheet requested",
		zap.Int64("timesheet_id", id),
		zap.Int("task_ids", len(dto.TaskIDs)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update timesheet begin tx failed", zap.Error(err))
		return TimesheetDTO{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qtxTasks := s.tasks.WithTx(tx)

	existing, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimesheetDTO{}, apperror.NotFound("Timesheet", "id", id)
		}
		s.logger.Error("update timesheet fetch existing failed", zap.Error(err))
		return TimesheetDTO{}, err
	}

	if err := s.resolveTaskIDs(ctx, qtxTasks, dto.TaskIDs); err != nil {
		return TimesheetDTO{}, err
	}

	// Replace semantics: the incoming id list is the new task set. Tasks
	// dropped from the list get their back-reference cleared, so they do
	// not keep pointing at this timesheet.
	desired := make(map[int64]struct{}, len(dto.TaskIDs))
	for _, taskID := range dto.TaskIDs {
		desired[taskID] = struct{}{}
	}
	var stale []int64
	for _, t := range existing.Tasks {
		if _, keep := desired[t.ID]; !keep {
			stale = append(stale, t.ID)
		}
	}
	if err := qtxTasks.ClearTimesheet(ctx, stale); err != nil {
		s.logger.Error("update timesheet clear stale tasks failed", zap.Error(err))
		return TimesheetDTO{}, err
	}
	if err := qtxTasks.AssignTimesheet(ctx, dto.TaskIDs, id); err != nil {
		s.logger.Error("update timesheet assign tasks failed", zap.Error(err))
		return TimesheetDTO{}, err
	}

	existing.Description = dto.Description
	existing.Hours = dto.Hours
	existing.WorkStatus = dto.WorkStatus
	existing.CreatedBy = dto.CreatedBy
	existing.UpdatedBy = dto.UpdatedBy
	existing.UpdatedDate = s.now()

	existing.Tasks = nil
	if err := qtx.Save(ctx, existing); err != nil {
		s.logger.Error("update timesheet persist failed", zap.Error(err))
		return TimesheetDTO{}, err
	}

	assigned, err := qtxTasks.FindAllByTimesheet(ctx, id)
	if err != nil {
		s.logger.Error("update timesheet reload tasks failed", zap.Error(err))
		return TimesheetDTO{}, err
	}
	existing.Tasks = assigned

	if err := tx.Commit(); err != nil {
		s.logger.Error("update timesheet commit failed", zap.Error(err))
		return TimesheetDTO{}, err
	}

	s.logger.Info("update timesheet success", zap.Int64("timesheet_id", id))

	return mapToResponse(*existing), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	s.logger.Debug("delete timesheet requested", zap.Int64("timesheet_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete timesheet begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qtxTasks := s.tasks.WithTx(tx)

	existing, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Timesheet", "id", id)
		}
		s.logger.Error("delete timesheet fetch existing failed", zap.Error(err))
		return err
	}

	// Detach before delete: tasks outlive the timesheet.
	taskIDs := make([]int64, len(existing.Tasks))
	for i, t := range existing.Tasks {
		taskIDs[i] = t.ID
	}
	if err := qtxTasks.ClearTimesheet(ctx, taskIDs); err != nil {
		s.logger.Error("delete timesheet clear tasks failed", zap.Error(err))
		return err
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete timesheet failed", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete timesheet commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("delete timesheet success", zap.Int64("timesheet_id", id))
	return nil
}

// GetByCreatedDateRange is inclusive on both ends: from the first instant
// of fromDate to the last second of toDate.
func (s *service) GetByCreatedDateRange(ctx context.Context, fromDate, toDate string, page, pageSize int) ([]TimesheetDTO, int64, error) {
	from, err := time.Parse(task.DateLayout, fromDate)
	if err != nil {
		return nil, 0, timesheeterrors.ErrInvalidDateFormat
	}
	to, err := time.Parse(task.DateLayout, toDate)
	if err != nil {
		return nil, 0, timesheeterrors.ErrInvalidDateFormat
	}
	to = to.Add(23*time.Hour + 59*time.Minute + 59*time.Second)

	timesheets, total, err := s.repo.FindByCreatedDateBetween(ctx, from, to, page, pageSize)
	if err != nil {
		s.logger.Error("get timesheets by date range failed", zap.Error(err))
		return nil, 0, err
	}

	return mapToListResponse(timesheets), total, nil
}

func (s *service) GetAllByEmployee(ctx context.Context, employeeID int64) ([]TimesheetDTO, error) {
	timesheets, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("get timesheets by employee failed", zap.Error(err))
		return nil, err
	}
	if len(timesheets) == 0 {
		return nil, apperror.NotFound("Timesheets", "employeeId", employeeID)
	}

	return mapToListResponse(timesheets), nil
}

func (s *service) resolveTaskIDs(ctx context.Context, taskRepo task.Repository, taskIDs []int64) error {
	for _, taskID := range taskIDs {
		if _, err := taskRepo.FindByID(ctx, taskID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("Task", "id", taskID)
			}
			s.logger.Error("resolve task id failed", zap.Int64("task_id", taskID), zap.Error(err))
			return err
		}
	}
	return nil
}
