package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	employeeerrors "go-ems/internal/employee/errors"
	"go-ems/internal/events"
	"go-ems/internal/messaging/kafka"
	"go-ems/internal/shared/apperror"
	"go-ems/internal/shared/contextutil"
	"go-ems/internal/skillclient"
	"go-ems/internal/task"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Add(ctx context.Context, dto EmployeeDTO, skills []string, doc *Document) (EmployeeDTO, error)
	GetByID(ctx context.Context, id int64) (EmployeeDTO, error)
	GetPage(ctx context.Context, page, pageSize int) ([]EmployeeDTO, int64, error)
	GetPageWithoutTasks(ctx context.Context, page, pageSize int) ([]EmployeeDTOWithoutTasks, int64, error)
	Update(ctx context.Context, id int64, dto EmployeeDTO, skills []string, doc *Document) (EmployeeDTO, error)
	Delete(ctx context.Context, id int64) error
	AddTask(ctx context.Context, employeeID int64, dto task.TaskDTO) (task.TaskDTO, error)
	GetTasks(ctx context.Context, employeeID int64, page, pageSize int) ([]task.TaskDTO, int64, error)
	GetTasksByStatus(ctx context.Context, employeeID int64, status string, page, pageSize int) ([]task.TaskDTO, int64, error)
	GetTasksWithoutIDs(ctx context.Context, employeeID int64, page, pageSize int) ([]task.TaskDTO, int64, error)
	UpdateTasks(ctx context.Context, employeeID int64, dtos []task.TaskDTO) (EmployeeDTO, error)
	GetDocument(ctx context.Context, employeeID int64) (*Document, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	tasks       task.Repository
	outbox      kafka.OutboxRepository
	skillClient skillclient.Client
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	tasks task.Repository,
	skillClient skillclient.Client,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, tasks, skillClient, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	tasks task.Repository,
	skillClient skillclient.Client,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		tasks:       tasks,
		outbox:      outboxRepo,
		skillClient: skillClient,
		logger:      l,
	}
}

func (s *service) Add(
	ctx context.Context,
	dto EmployeeDTO,
	skills []string,
	doc *Document,
) (EmployeeDTO, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("add employee requested",
		zap.String("request_id", rid),
		zap.String("name", dto.Name),
		zap.String("email", dto.Email),
		zap.Int("skills", len(skills)),
	)

	if dto.HireDate != "" {
		if _, err := time.Parse(task.DateLayout, dto.HireDate); err != nil {
			s.logger.Warn("add employee invalid hire date",
				zap.String("hire_date", dto.HireDate),
				zap.Error(err),
			)
			return EmployeeDTO{}, employeeerrors.ErrInvalidHireDate
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("add employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeDTO{}, err
	}
	defer tx.Rollback()

	empl := toEntity(dto)
	empl.ID = 0
	for i := range empl.Tasks {
		// New employee: incoming task ids are client noise, let the store
		// assign them and parent every task to the new row on save.
		empl.Tasks[i].ID = 0
	}
	if doc != nil {
		empl.UploadDocument = doc.Content
		empl.FileName = doc.FileName
		empl.FileType = doc.FileType
	}

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, &empl); err != nil {
		s.logger.Error("add employee persist failed", zap.Error(err))
		return EmployeeDTO{}, mapRepositoryError(err)
	}

	if err := s.enqueueSkillSync(ctx, tx, rid, empl.ID, skills); err != nil {
		return EmployeeDTO{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("add employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeDTO{}, err
	}

	if err := s.syncSkillsDirect(ctx, empl.ID, skills); err != nil {
		// The employee row is already committed; the sync failure
		// surfaces but nothing is rolled back.
		return EmployeeDTO{}, err
	}

	s.logger.Info("add employee success",
		zap.String("request_id", rid),
		zap.Int64("employee_id", empl.ID),
	)

	return mapToResponse(empl), nil
}

func (s *service) GetByID(ctx context.Context, id int64) (EmployeeDTO, error) {
	s.logger.Debug("get employee by id requested", zap.Int64("employee_id", id))

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeDTO{}, apperror.NotFound("Employee", "id", id)
		}
		s.logger.Error("get employee by id failed", zap.Error(err))
		return EmployeeDTO{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) GetPage(ctx context.Context, page, pageSize int) ([]EmployeeDTO, int64, error) {
	s.logger.Debug("get employees page requested", zap.Int("page", page), zap.Int("page_size", pageSize))

	employees, total, err := s.repo.FindPage(ctx, page, pageSize)
	if err != nil {
		s.logger.Error("get employees page failed", zap.Error(err))
		return nil, 0, mapRepositoryError(err)
	}

	return mapToListResponse(employees), total, nil
}

// GetPageWithoutTasks runs the same query as GetPage and discards the task
// sub-list in the projection.
func (s *service) GetPageWithoutTasks(ctx context.Context, page, pageSize int) ([]EmployeeDTOWithoutTasks, int64, error) {
	employees, total, err := s.repo.FindPage(ctx, page, pageSize)
	if err != nil {
		s.logger.Error("get employees without tasks failed", zap.Error(err))
		return nil, 0, mapRepositoryError(err)
	}

	res := make([]EmployeeDTOWithoutTasks, len(employees))
	for i, e := range employees {
		res[i] = mapToResponseWithoutTasks(e)
	}
	return res, total, nil
}

func (s *service) Update(
	ctx context.Context,
	id int64,
	dto EmployeeDTO,
	skills []string,
	doc *Document,
) (EmployeeDTO, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update employee requested",
		zap.String("request_id", rid),
		zap.Int64("employee_id", id),
	)

	if dto.HireDate != "" {
		if _, err := time.Parse(task.DateLayout, dto.HireDate); err != nil {
			return EmployeeDTO{}, employeeerrors.ErrInvalidHireDate
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeDTO{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qtxTasks := s.tasks.WithTx(tx)

	existing, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeDTO{}, apperror.NotFound("Employee", "id", id)
		}
		s.logger.Error("update employee fetch existing failed", zap.Error(err))
		return EmployeeDTO{}, mapRepositoryError(err)
	}

	// Every scalar field is overwritten unconditionally, including the
	// document columns when no file was sent.
	existing.Name = dto.Name
	existing.Designation = dto.Designation
	existing.Email = dto.Email
	existing.Department = dto.Department
	existing.HireDate = nil
	if dto.HireDate != "" {
		parsed, _ := time.Parse(task.DateLayout, dto.HireDate)
		existing.HireDate = &parsed
	}
	existing.UploadDocument = nil
	existing.FileName = ""
	existing.FileType = ""
	if doc != nil {
		existing.UploadDocument = doc.Content
		existing.FileName = doc.FileName
		existing.FileType = doc.FileType
	}

	if err := s.applyTaskReconciliation(ctx, qtxTasks, id, existing.Tasks, dto.Tasks); err != nil {
		return EmployeeDTO{}, err
	}

	// Task mutations were persisted explicitly above; detach the
	// association so the save touches only the employee row.
	existing.Tasks = nil
	if err := qtx.Save(ctx, existing); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeDTO{}, mapRepositoryError(err)
	}

	reloaded, err := qtxTasks.FindAllByEmployee(ctx, id)
	if err != nil {
		s.logger.Error("update employee reload tasks failed", zap.Error(err))
		return EmployeeDTO{}, mapRepositoryError(err)
	}
	existing.Tasks = reloaded

	if err := s.enqueueSkillSync(ctx, tx, rid, id, skills); err != nil {
		return EmployeeDTO{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeDTO{}, err
	}

	if err := s.syncSkillsDirect(ctx, id, skills); err != nil {
		return EmployeeDTO{}, err
	}

	s.logger.Info("update employee success", zap.Int64("employee_id", id))

	return mapToResponse(*existing), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("delete employee requested",
		zap.String("request_id", rid),
		zap.Int64("employee_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Employee", "id", id)
		}
		s.logger.Error("delete employee fetch existing failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	// Dependent task rows go first, then the employee row, in one tx.
	if err := s.tasks.WithTx(tx).DeleteAllByEmployee(ctx, id); err != nil {
		s.logger.Error("delete employee tasks failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.EmployeeDeletedEvent{
			EventType:  "employee_deleted",
			RequestID:  rid,
			EmployeeID: id,
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal employee_deleted event failed", zap.Error(err))
			return err
		}

		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "employee",
			AggregateID:   strconv.FormatInt(id, 10),
			EventType:     event.EventType,
			Topic:         events.EmployeeLifecycleTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("delete employee outbox persist failed", zap.Error(err))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("delete employee success", zap.Int64("employee_id", id))
	return nil
}

func (s *service) AddTask(ctx context.Context, employeeID int64, dto task.TaskDTO) (task.TaskDTO, error) {
	s.logger.Debug("add task requested", zap.Int64("employee_id", employeeID))

	if _, err := s.repo.FindByID(ctx, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return task.TaskDTO{}, apperror.NotFound("Employee", "id", employeeID)
		}
		return task.TaskDTO{}, mapRepositoryError(err)
	}

	entity := dto.ToEntity()
	entity.ID = 0
	entity.EmployeeID = &employeeID

	if err := s.tasks.Create(ctx, &entity); err != nil {
		s.logger.Error("add task persist failed", zap.Error(err))
		return task.TaskDTO{}, mapRepositoryError(err)
	}

	s.logger.Info("add task success",
		zap.Int64("employee_id", employeeID),
		zap.Int64("task_id", entity.ID),
	)

	return task.FromEntity(entity), nil
}

func (s *service) GetTasks(ctx context.Context, employeeID int64, page, pageSize int) ([]task.TaskDTO, int64, error) {
	if _, err := s.repo.FindByID(ctx, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperror.NotFound("Employee", "id", employeeID)
		}
		return nil, 0, mapRepositoryError(err)
	}

	tasks, total, err := s.tasks.FindPageByEmployee(ctx, employeeID, page, pageSize)
	if err != nil {
		s.logger.Error("get tasks page failed", zap.Error(err))
		return nil, 0, mapRepositoryError(err)
	}

	return task.FromEntities(tasks), total, nil
}

// GetTasksByStatus filters the employee's full task list by
// case-insensitive status equality in memory and paginates the filtered
// slice manually.
func (s *service) GetTasksByStatus(ctx context.Context, employeeID int64, status string, page, pageSize int) ([]task.TaskDTO, int64, error) {
	s.logger.Debug("get tasks by status requested",
		zap.Int64("employee_id", employeeID),
		zap.String("status", status),
	)

	empl, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperror.NotFound("Employee", "id", employeeID)
		}
		return nil, 0, mapRepositoryError(err)
	}

	filtered := make([]task.Task, 0, len(empl.Tasks))
	for _, t := range empl.Tasks {
		if strings.EqualFold(t.Status, status) {
			filtered = append(filtered, t)
		}
	}

	start := min(page*pageSize, len(filtered))
	end := min((page+1)*pageSize, len(filtered))

	return task.FromEntities(filtered[start:end]), int64(len(filtered)), nil
}

func (s *service) GetTasksWithoutIDs(ctx context.Context, employeeID int64, page, pageSize int) ([]task.TaskDTO, int64, error) {
	empl, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperror.NotFound("Employee", "id", employeeID)
		}
		return nil, 0, mapRepositoryError(err)
	}

	start := min(page*pageSize, len(empl.Tasks))
	end := min((page+1)*pageSize, len(empl.Tasks))

	dtos := task.FromEntities(empl.Tasks[start:end])
	for i := range dtos {
		dtos[i].ID = 0
	}
	return dtos, int64(len(empl.Tasks)), nil
}

func (s *service) UpdateTasks(ctx context.Context, employeeID int64, dtos []task.TaskDTO) (EmployeeDTO, error) {
	s.logger.Debug("update employee tasks requested",
		zap.Int64("employee_id", employeeID),
		zap.Int("incoming", len(dtos)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee tasks begin tx failed", zap.Error(err))
		return EmployeeDTO{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qtxTasks := s.tasks.WithTx(tx)

	empl, err := qtx.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeDTO{}, apperror.NotFound("Employee", "id", employeeID)
		}
		return EmployeeDTO{}, mapRepositoryError(err)
	}

	if err := s.applyTaskReconciliation(ctx, qtxTasks, employeeID, empl.Tasks, dtos); err != nil {
		return EmployeeDTO{}, err
	}

	reloaded, err := qtxTasks.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("update employee tasks reload failed", zap.Error(err))
		return EmployeeDTO{}, mapRepositoryError(err)
	}
	empl.Tasks = reloaded

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee tasks commit failed", zap.Error(err))
		return EmployeeDTO{}, err
	}

	s.logger.Info("update employee tasks success",
		zap.Int64("employee_id", employeeID),
		zap.Int("tasks", len(reloaded)),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetDocument(ctx context.Context, employeeID int64) (*Document, error) {
	s.logger.Debug("get document requested", zap.Int64("employee_id", employeeID))

	empl, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Employee", "id", employeeID)
		}
		return nil, mapRepositoryError(err)
	}

	if len(empl.UploadDocument) == 0 {
		return nil, employeeerrors.ErrDocumentNotFound
	}

	return &Document{
		Content:  empl.UploadDocument,
		FileName: empl.FileName,
		FileType: empl.FileType,
	}, nil
}

func (s *service) applyTaskReconciliation(
	ctx context.Context,
	taskRepo task.Repository,
	employeeID int64,
	existing []task.Task,
	incoming []task.TaskDTO,
) error {
	rec := reconcileTasks(employeeID, existing, incoming)

	for i := range rec.Updates {
		if err := taskRepo.Save(ctx, &rec.Updates[i]); err != nil {
			s.logger.Error("reconcile task update failed",
				zap.Int64("task_id", rec.Updates[i].ID),
				zap.Error(err),
			)
			return mapRepositoryError(err)
		}
	}

	for i := range rec.Creates {
		if err := taskRepo.Create(ctx, &rec.Creates[i]); err != nil {
			s.logger.Error("reconcile task create failed", zap.Error(err))
			return mapRepositoryError(err)
		}
	}

	return nil
}

// enqueueSkillSync writes the skill batch to the outbox inside the open
// transaction so employee row and sync request commit atomically. No-op
// when no outbox is wired or the skill set is empty.
func (s *service) enqueueSkillSync(ctx context.Context, tx *sql.Tx, rid string, employeeID int64, skills []string) error {
	if s.outbox == nil || len(skills) == 0 {
		return nil
	}

	payloads := make([]events.SkillPayload, 0, len(skills))
	for _, name := range skills {
		payloads = append(payloads, events.SkillPayload{
			EmployeeID: employeeID,
			SkillName:  name,
		})
	}

	event := events.SkillSyncRequestedEvent{
		EventType:  "skill_sync_requested",
		RequestID:  rid,
		EmployeeID: employeeID,
		Skills:     payloads,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal skill_sync event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "employee",
		AggregateID:   strconv.FormatInt(employeeID, 10),
		EventType:     event.EventType,
		Topic:         events.SkillSyncTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("skill sync outbox persist failed",
			zap.Int64("employee_id", employeeID),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// syncSkillsDirect is the synchronous fallback used when no outbox is
// wired: a best-effort call to the skills service after commit.
func (s *service) syncSkillsDirect(ctx context.Context, employeeID int64, skills []string) error {
	if s.outbox != nil || len(skills) == 0 || s.skillClient == nil {
		return nil
	}

	payloads := make([]events.SkillPayload, 0, len(skills))
	for _, name := range skills {
		payloads = append(payloads, events.SkillPayload{
			EmployeeID: employeeID,
			SkillName:  name,
		})
	}

	if err := s.skillClient.CreateSkills(ctx, payloads); err != nil {
		s.logger.Error("skill association call failed",
			zap.Int64("employee_id", employeeID),
			zap.Error(err),
		)
		return apperror.Wrap(err,
			apperror.CodeSkillSyncFailed,
			"An error occurred while associating skills with employee",
			employeeerrors.ErrSkillSyncFailed.HTTPStatus,
		)
	}

	return nil
}
