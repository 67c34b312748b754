package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"go-ems/internal/employee"
	employeeerrors "go-ems/internal/employee/errors"
	employeeMock "go-ems/internal/employee/mock"
	"go-ems/internal/events"
	"go-ems/internal/messaging/kafka"
	kafkaMock "go-ems/internal/messaging/kafka/mock"
	"go-ems/internal/shared/apperror"
	"go-ems/internal/task"
	taskMock "go-ems/internal/task/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service employee.Service
	repo    *employeeMock.MockRepository
	tasks   *taskMock.MockRepository
	outbox  *kafkaMock.MockOutboxRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	repo := employeeMock.NewMockRepository(ctrl)
	taskRepo := taskMock.NewMockRepository(ctrl)
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)

	svc := employee.NewServiceWithOutbox(db, repo, taskRepo, nil, outboxRepo)

	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		tasks:   taskRepo,
		outbox:  outboxRepo,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestEmployeeService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("success - outbox carries the skill batch", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		dto := employee.EmployeeDTO{
			Name:        "Jane Smith",
			Designation: "Engineer",
			Email:       "jane@example.com",
			Department:  "R&D",
			HireDate:    "2026-01-15",
		}

		expectTx(t, deps.sqlMock, true)

		deps.repo.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.repo)

		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, "Jane Smith", e.Name)
				assert.Equal(t, "jane@example.com", e.Email)
				if assert.NotNil(t, e.HireDate) {
					assert.Equal(t, "2026-01-15", e.HireDate.Format(task.DateLayout))
				}
				e.ID = 7
				return nil
			})

		deps.outbox.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.outbox)

		deps.outbox.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, ev kafka.OutboxEvent) error {
				assert.Equal(t, events.SkillSyncTopic, ev.Topic)
				assert.Equal(t, "skill_sync_requested", ev.EventType)
				assert.Equal(t, "7", ev.AggregateID)
				assert.Equal(t, kafka.OutboxStatusPending, ev.Status)

				var event events.SkillSyncRequestedEvent
				assert.NoError(t, json.Unmarshal(ev.Payload, &event))
				assert.Equal(t, int64(7), event.EmployeeID)
				if assert.Len(t, event.Skills, 2) {
					assert.Equal(t, "Go", event.Skills[0].SkillName)
					assert.Equal(t, "Kafka", event.Skills[1].SkillName)
					assert.Equal(t, int64(7), event.Skills[0].EmployeeID)
				}
				return nil
			})

		created, err := deps.service.Add(ctx, dto, []string{"Go", "Kafka"}, nil)

		assert.NoError(t, err)
		assert.Equal(t, int64(7), created.ID)
		assert.Equal(t, "2026-01-15", created.HireDate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid hire date rejected before any write", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Add(ctx, employee.EmployeeDTO{
			Name:     "Bad Date",
			HireDate: "15-01-2026",
		}, nil, nil)

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidHireDate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("document stored alongside the row", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, []byte("pdf-bytes"), e.UploadDocument)
				assert.Equal(t, "cv.pdf", e.FileName)
				assert.Equal(t, "application/pdf", e.FileType)
				e.ID = 1
				return nil
			})

		_, err := deps.service.Add(ctx, employee.EmployeeDTO{Name: "Doc"}, nil, &employee.Document{
			Content:  []byte("pdf-bytes"),
			FileName: "cv.pdf",
			FileType: "application/pdf",
		})

		assert.NoError(t, err)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("merges incoming tasks without touching the rest", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		eid := int64(7)
		existing := &employee.Employee{
			ID:    eid,
			Name:  "Old Name",
			Email: "old@example.com",
			Tasks: []task.Task{
				{ID: 1, Descriptions: "first", Status: "PENDING", EmployeeID: &eid},
				{ID: 2, Descriptions: "second", Status: "DONE", EmployeeID: &eid},
			},
		}

		expectTx(t, deps.sqlMock, true)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.tasks.EXPECT().WithTx(gomock.Any()).Return(deps.tasks)

		deps.repo.EXPECT().
			FindByID(ctx, eid).
			Return(existing, nil)

		// Task 1 is mentioned and updated in place; task 2 is untouched.
		deps.tasks.EXPECT().
			Save(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, tk *task.Task) error {
				assert.Equal(t, int64(1), tk.ID)
				assert.Equal(t, "first revised", tk.Descriptions)
				return nil
			})

		// The unmatched dto becomes a new task parented to the employee.
		deps.tasks.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, tk *task.Task) error {
				assert.Zero(t, tk.ID)
				assert.Equal(t, "brand new", tk.Descriptions)
				if assert.NotNil(t, tk.EmployeeID) {
					assert.Equal(t, eid, *tk.EmployeeID)
				}
				tk.ID = 3
				return nil
			})

		deps.repo.EXPECT().
			Save(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, "New Name", e.Name)
				assert.Equal(t, "new@example.com", e.Email)
				assert.Nil(t, e.Tasks)
				return nil
			})

		deps.tasks.EXPECT().
			FindAllByEmployee(ctx, eid).
			Return([]task.Task{
				{ID: 1, Descriptions: "first revised", Status: "IN_PROGRESS", EmployeeID: &eid},
				{ID: 2, Descriptions: "second", Status: "DONE", EmployeeID: &eid},
				{ID: 3, Descriptions: "brand new", Status: "PENDING", EmployeeID: &eid},
			}, nil)

		updated, err := deps.service.Update(ctx, eid, employee.EmployeeDTO{
			Name:  "New Name",
			Email: "new@example.com",
			Tasks: []task.TaskDTO{
				{ID: 1, Descriptions: "first revised", Status: "IN_PROGRESS"},
				{Descriptions: "brand new", Status: "PENDING"},
			},
		}, nil, nil)

		assert.NoError(t, err)
		assert.Len(t, updated.Tasks, 3)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown employee rolls back with a 404", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.tasks.EXPECT().WithTx(gomock.Any()).Return(deps.tasks)
		deps.repo.EXPECT().
			FindByID(ctx, int64(42)).
			Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Update(ctx, 42, employee.EmployeeDTO{Name: "X"}, nil, nil)

		var appErr *apperror.AppError
		if assert.ErrorAs(t, err, &appErr) {
			assert.Equal(t, "Employee not found with id : '42'", appErr.Message)
			assert.Equal(t, 404, appErr.HTTPStatus)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("tasks removed before the employee, one transaction", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		eid := int64(9)

		expectTx(t, deps.sqlMock, true)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.tasks.EXPECT().WithTx(gomock.Any()).Return(deps.tasks)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)

		gomock.InOrder(
			deps.repo.EXPECT().
				FindByID(ctx, eid).
				Return(&employee.Employee{ID: eid, Name: "Gone"}, nil),
			deps.tasks.EXPECT().
				DeleteAllByEmployee(ctx, eid).
				Return(nil),
			deps.repo.EXPECT().
				Delete(ctx, eid).
				Return(nil),
			deps.outbox.EXPECT().
				Create(ctx, gomock.Any()).
				DoAndReturn(func(ctx context.Context, ev kafka.OutboxEvent) error {
					assert.Equal(t, events.EmployeeLifecycleTopic, ev.Topic)
					assert.Equal(t, "employee_deleted", ev.EventType)

					var event events.EmployeeDeletedEvent
					assert.NoError(t, json.Unmarshal(ev.Payload, &event))
					assert.Equal(t, eid, event.EmployeeID)
					return nil
				}),
		)

		err := deps.service.Delete(ctx, eid)

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown employee deletes nothing", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByID(ctx, int64(42)).
			Return(nil, gorm.ErrRecordNotFound)

		err := deps.service.Delete(ctx, 42)

		var appErr *apperror.AppError
		if assert.ErrorAs(t, err, &appErr) {
			assert.Equal(t, "Employee not found with id : '42'", appErr.Message)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_GetTasksByStatus(t *testing.T) {
	ctx := context.Background()
	eid := int64(5)

	employeeWithTasks := &employee.Employee{
		ID: eid,
		Tasks: []task.Task{
			{ID: 1, Descriptions: "a", Status: "done", EmployeeID: &eid},
			{ID: 2, Descriptions: "b", Status: "PENDING", EmployeeID: &eid},
			{ID: 3, Descriptions: "c", Status: "DONE", EmployeeID: &eid},
		},
	}

	t.Run("matches are case-insensitive", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().
			FindByID(ctx, eid).
			Return(employeeWithTasks, nil)

		tasks, total, err := deps.service.GetTasksByStatus(ctx, eid, "Done", 0, 10)

		assert.NoError(t, err)
		assert.Equal(t, int64(2), total)
		if assert.Len(t, tasks, 2) {
			assert.Equal(t, int64(1), tasks[0].ID)
			assert.Equal(t, int64(3), tasks[1].ID)
		}
	})

	t.Run("page past the end is empty, total preserved", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().
			FindByID(ctx, eid).
			Return(employeeWithTasks, nil)

		tasks, total, err := deps.service.GetTasksByStatus(ctx, eid, "done", 5, 10)

		assert.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Empty(t, tasks)
	})

	t.Run("unknown employee is a 404", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().
			FindByID(ctx, int64(99)).
			Return(nil, gorm.ErrRecordNotFound)

		_, _, err := deps.service.GetTasksByStatus(ctx, 99, "done", 0, 10)

		var appErr *apperror.AppError
		if assert.ErrorAs(t, err, &appErr) {
			assert.Equal(t, "Employee not found with id : '99'", appErr.Message)
		}
	})
}

func TestEmployeeService_GetDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the stored blob with its metadata", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().
			FindByID(ctx, int64(1)).
			Return(&employee.Employee{
				ID:             1,
				UploadDocument: []byte("content"),
				FileName:       "cv.pdf",
				FileType:       "application/pdf",
			}, nil)

		doc, err := deps.service.GetDocument(ctx, 1)

		assert.NoError(t, err)
		assert.Equal(t, []byte("content"), doc.Content)
		assert.Equal(t, "cv.pdf", doc.FileName)
	})

	t.Run("no uploaded document is a 404", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().
			FindByID(ctx, int64(2)).
			Return(&employee.Employee{ID: 2}, nil)

		_, err := deps.service.GetDocument(ctx, 2)

		assert.ErrorIs(t, err, employeeerrors.ErrDocumentNotFound)
	})
}

func TestEmployeeService_AddTask(t *testing.T) {
	ctx := context.Background()

	t.Run("task is parented to the employee", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		eid := int64(4)
		deps.repo.EXPECT().
			FindByID(ctx, eid).
			Return(&employee.Employee{ID: eid}, nil)

		deps.tasks.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, tk *task.Task) error {
				if assert.NotNil(t, tk.EmployeeID) {
					assert.Equal(t, eid, *tk.EmployeeID)
				}
				tk.ID = 11
				return nil
			})

		created, err := deps.service.AddTask(ctx, eid, task.TaskDTO{
			Descriptions: "new work",
			Status:       "PENDING",
			DueDate:      "2026-05-01",
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(11), created.ID)
		assert.Equal(t, "2026-05-01", created.DueDate)
	})

	t.Run("unknown employee is a 404", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().
			FindByID(ctx, int64(404)).
			Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.AddTask(ctx, 404, task.TaskDTO{Descriptions: "x"})

		var appErr *apperror.AppError
		if assert.ErrorAs(t, err, &appErr) {
			assert.Equal(t, "Employee not found with id : '404'", appErr.Message)
		}
	})
}

func TestEmployeeService_SkillSyncFallback(t *testing.T) {
	// Without an outbox the service calls the skills API after commit and
	// surfaces a 500 when the call fails, without rolling back the row.
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	defer db.Close()

	repo := employeeMock.NewMockRepository(ctrl)
	taskRepo := taskMock.NewMockRepository(ctrl)
	client := &stubSkillClient{err: errors.New("connection refused")}

	svc := employee.NewService(db, repo, taskRepo, client)

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()

	repo.EXPECT().WithTx(gomock.Any()).Return(repo)
	repo.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
			e.ID = 3
			return nil
		})

	_, err := svc.Add(ctx, employee.EmployeeDTO{Name: "Sync"}, []string{"Go"}, nil)

	var appErr *apperror.AppError
	if assert.ErrorAs(t, err, &appErr) {
		assert.Equal(t, apperror.CodeSkillSyncFailed, appErr.Code)
		assert.Equal(t, 500, appErr.HTTPStatus)
	}
	assert.Equal(t, int64(3), client.lastEmployeeID)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

type stubSkillClient struct {
	err            error
	lastEmployeeID int64
}

func (s *stubSkillClient) CreateSkills(ctx context.Context, skills []events.SkillPayload) error {
	if len(skills) > 0 {
		s.lastEmployeeID = skills[0].EmployeeID
	}
	return s.err
}
