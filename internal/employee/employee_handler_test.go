package employee_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-ems/internal/employee"
	employeeerrors "go-ems/internal/employee/errors"
	"go-ems/internal/middleware"
	"go-ems/internal/shared/apperror"
	"go-ems/internal/task"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

type fakeEmployeeService struct {
	AddFn                func(ctx context.Context, dto employee.EmployeeDTO, skills []string, doc *employee.Document) (employee.EmployeeDTO, error)
	GetByIDFn            func(ctx context.Context, id int64) (employee.EmployeeDTO, error)
	GetPageFn            func(ctx context.Context, page, pageSize int) ([]employee.EmployeeDTO, int64, error)
	GetPageWithoutTasksFn func(ctx context.Context, page, pageSize int) ([]employee.EmployeeDTOWithoutTasks, int64, error)
	UpdateFn             func(ctx context.Context, id int64, dto employee.EmployeeDTO, skills []string, doc *employee.Document) (employee.EmployeeDTO, error)
	DeleteFn             func(ctx context.Context, id int64) error
	AddTaskFn            func(ctx context.Context, employeeID int64, dto task.TaskDTO) (task.TaskDTO, error)
	GetTasksFn           func(ctx context.Context, employeeID int64, page, pageSize int) ([]task.TaskDTO, int64, error)
	GetTasksByStatusFn   func(ctx context.Context, employeeID int64, status string, page, pageSize int) ([]task.TaskDTO, int64, error)
	GetTasksWithoutIDsFn func(ctx context.Context, employeeID int64, page, pageSize int) ([]task.TaskDTO, int64, error)
	UpdateTasksFn        func(ctx context.Context, employeeID int64, dtos []task.TaskDTO) (employee.EmployeeDTO, error)
	GetDocumentFn        func(ctx context.Context, employeeID int64) (*employee.Document, error)
}

func (f *fakeEmployeeService) Add(ctx context.Context, dto employee.EmployeeDTO, skills []string, doc *employee.Document) (employee.EmployeeDTO, error) {
	return f.AddFn(ctx, dto, skills, doc)
}
func (f *fakeEmployeeService) GetByID(ctx context.Context, id int64) (employee.EmployeeDTO, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeEmployeeService) GetPage(ctx context.Context, page, pageSize int) ([]employee.EmployeeDTO, int64, error) {
	return f.GetPageFn(ctx, page, pageSize)
}
func (f *fakeEmployeeService) GetPageWithoutTasks(ctx context.Context, page, pageSize int) ([]employee.EmployeeDTOWithoutTasks, int64, error) {
	return f.GetPageWithoutTasksFn(ctx, page, pageSize)
}
func (f *fakeEmployeeService) Update(ctx context.Context, id int64, dto employee.EmployeeDTO, skills []string, doc *employee.Document) (employee.EmployeeDTO, error) {
	return f.UpdateFn(ctx, id, dto, skills, doc)
}
func (f *fakeEmployeeService) Delete(ctx context.Context, id int64) error {
	return f.DeleteFn(ctx, id)
}
func (f *fakeEmployeeService) AddTask(ctx context.Context, employeeID int64, dto task.TaskDTO) (task.TaskDTO, error) {
	return f.AddTaskFn(ctx, employeeID, dto)
}
func (f *fakeEmployeeService) GetTasks(ctx context.Context, employeeID int64, page, pageSize int) ([]task.TaskDTO, int64, error) {
	return f.GetTasksFn(ctx, employeeID, page, pageSize)
}
func (f *fakeEmployeeService) GetTasksByStatus(ctx context.Context, employeeID int64, status string, page, pageSize int) ([]task.TaskDTO, int64, error) {
	return f.GetTasksByStatusFn(ctx, employeeID, status, page, pageSize)
}
func (f *fakeEmployeeService) GetTasksWithoutIDs(ctx context.Context, employeeID int64, page, pageSize int) ([]task.TaskDTO, int64, error) {
	return f.GetTasksWithoutIDsFn(ctx, employeeID, page, pageSize)
}
func (f *fakeEmployeeService) UpdateTasks(ctx context.Context, employeeID int64, dtos []task.TaskDTO) (employee.EmployeeDTO, error) {
	return f.UpdateTasksFn(ctx, employeeID, dtos)
}
func (f *fakeEmployeeService) GetDocument(ctx context.Context, employeeID int64) (*employee.Document, error) {
	return f.GetDocumentFn(ctx, employeeID)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestEmployeeHandler_Create(t *testing.T) {
	t.Run("multipart form is decoded into dto, skills and file", func(t *testing.T) {
		svc := &fakeEmployeeService{
			AddFn: func(ctx context.Context, dto employee.EmployeeDTO, skills []string, doc *employee.Document) (employee.EmployeeDTO, error) {
				assert.Equal(t, "John Doe", dto.Name)
				assert.Equal(t, "Engineer", dto.Designation)
				assert.Equal(t, "2026-01-01", dto.HireDate)
				assert.Equal(t, []string{"Go", "Kafka"}, skills)
				if assert.Len(t, dto.Tasks, 1) {
					assert.Equal(t, "write docs", dto.Tasks[0].Descriptions)
				}
				if assert.NotNil(t, doc) {
					assert.Equal(t, "cv.pdf", doc.FileName)
					assert.Equal(t, []byte("pdf-content"), doc.Content)
				}
				dto.ID = 7
				return dto, nil
			},
		}

		r := setupRouter()
		h := employee.NewHandler(svc)
		r.POST("/employees", h.Create)

		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		_ = mw.WriteField("name", "John Doe")
		_ = mw.WriteField("designation", "Engineer")
		_ = mw.WriteField("email", "john@example.com")
		_ = mw.WriteField("department", "R&D")
		_ = mw.WriteField("hireDate", "2026-01-01")
		_ = mw.WriteField("skills", "Go, Kafka")
		_ = mw.WriteField("tasks", `[{"descriptions":"write docs","status":"PENDING"}]`)
		fw, _ := mw.CreateFormFile("file", "cv.pdf")
		_, _ = fw.Write([]byte("pdf-content"))
		mw.Close()

		req := httptest.NewRequest(http.MethodPost, "/employees", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":7`)
	})

	t.Run("service validation error maps to 400", func(t *testing.T) {
		svc := &fakeEmployeeService{
			AddFn: func(ctx context.Context, dto employee.EmployeeDTO, skills []string, doc *employee.Document) (employee.EmployeeDTO, error) {
				return employee.EmployeeDTO{}, employeeerrors.ErrInvalidHireDate
			},
		}

		r := setupRouter()
		h := employee.NewHandler(svc)
		r.POST("/employees", h.Create)

		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		_ = mw.WriteField("name", "Bad")
		_ = mw.WriteField("hireDate", "01-01-2026")
		mw.Close()

		req := httptest.NewRequest(http.MethodPost, "/employees", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid hireDate format")
	})
}

func TestEmployeeHandler_CreateIdempotency(t *testing.T) {
	newForm := func() (*bytes.Buffer, string) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		_ = mw.WriteField("name", "John Doe")
		_ = mw.WriteField("hireDate", "2026-01-01")
		mw.Close()
		return &body, mw.FormDataContentType()
	}

	t.Run("first request fills the replay cache and releases the lock", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()

		created := employee.EmployeeDTO{ID: 7, Name: "John Doe", HireDate: "2026-01-01"}
		svc := &fakeEmployeeService{
			AddFn: func(ctx context.Context, dto employee.EmployeeDTO, skills []string, doc *employee.Document) (employee.EmployeeDTO, error) {
				return created, nil
			},
		}

		cacheKey := "idemp:/employees:key-1"
		lockKey := cacheKey + ":lock"
		payload, _ := json.Marshal(created)

		redisMock.ExpectGet(cacheKey).RedisNil()
		redisMock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		redisMock.ExpectSet(cacheKey, payload, 24*time.Hour).SetVal("OK")
		redisMock.ExpectDel(lockKey).SetVal(1)

		r := setupRouter()
		h := employee.NewHandlerWithRedis(svc, rdb)
		r.POST("/employees", middleware.Idempotency(rdb), h.Create)

		body, contentType := newForm()
		req := httptest.NewRequest(http.MethodPost, "/employees", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Idempotency-Key", "key-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":7`)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("a retry with the same key replays the cached response", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()

		// AddFn stays nil: a second insert would panic the test.
		svc := &fakeEmployeeService{}

		cached, _ := json.Marshal(employee.EmployeeDTO{ID: 7, Name: "John Doe"})
		redisMock.ExpectGet("idemp:/employees:key-1").SetVal(string(cached))

		r := setupRouter()
		h := employee.NewHandlerWithRedis(svc, rdb)
		r.POST("/employees", middleware.Idempotency(rdb), h.Create)

		body, contentType := newForm()
		req := httptest.NewRequest(http.MethodPost, "/employees", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Idempotency-Key", "key-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":7`)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("failed create releases the lock without caching", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()

		svc := &fakeEmployeeService{
			AddFn: func(ctx context.Context, dto employee.EmployeeDTO, skills []string, doc *employee.Document) (employee.EmployeeDTO, error) {
				return employee.EmployeeDTO{}, employeeerrors.ErrInvalidHireDate
			},
		}

		cacheKey := "idemp:/employees:key-2"
		lockKey := cacheKey + ":lock"

		redisMock.ExpectGet(cacheKey).RedisNil()
		redisMock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		redisMock.ExpectDel(lockKey).SetVal(1)

		r := setupRouter()
		h := employee.NewHandlerWithRedis(svc, rdb)
		r.POST("/employees", middleware.Idempotency(rdb), h.Create)

		body, contentType := newForm()
		req := httptest.NewRequest(http.MethodPost, "/employees", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Idempotency-Key", "key-2")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})
}

func TestEmployeeHandler_GetByID(t *testing.T) {
	t.Run("missing employee surfaces the not-found message", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GetByIDFn: func(ctx context.Context, id int64) (employee.EmployeeDTO, error) {
				return employee.EmployeeDTO{}, apperror.NotFound("Employee", "id", id)
			},
		}

		r := setupRouter()
		h := employee.NewHandler(svc)
		r.GET("/employees/:id", h.GetByID)

		req := httptest.NewRequest(http.MethodGet, "/employees/42", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Employee not found with id : '42'")
	})

	t.Run("non-numeric id is a 400", func(t *testing.T) {
		svc := &fakeEmployeeService{}

		r := setupRouter()
		h := employee.NewHandler(svc)
		r.GET("/employees/:id", h.GetByID)

		req := httptest.NewRequest(http.MethodGet, "/employees/abc", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEmployeeHandler_Delete(t *testing.T) {
	svc := &fakeEmployeeService{
		DeleteFn: func(ctx context.Context, id int64) error {
			assert.Equal(t, int64(3), id)
			return nil
		},
	}

	r := setupRouter()
	h := employee.NewHandler(svc)
	r.DELETE("/employees/:id", h.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/employees/3", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Employee deleted successfully", w.Body.String())
}

func TestEmployeeHandler_GetDocument(t *testing.T) {
	t.Run("download carries the original filename", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GetDocumentFn: func(ctx context.Context, employeeID int64) (*employee.Document, error) {
				return &employee.Document{
					Content:  []byte("pdf-content"),
					FileName: "cv.pdf",
					FileType: "application/pdf",
				}, nil
			},
		}

		r := setupRouter()
		h := employee.NewHandler(svc)
		r.GET("/employees/document/:id", h.GetDocument)

		req := httptest.NewRequest(http.MethodGet, "/employees/document/1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="cv.pdf"`)
		assert.Equal(t, "pdf-content", w.Body.String())
	})

	t.Run("no uploaded document is a 404", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GetDocumentFn: func(ctx context.Context, employeeID int64) (*employee.Document, error) {
				return nil, employeeerrors.ErrDocumentNotFound
			},
		}

		r := setupRouter()
		h := employee.NewHandler(svc)
		r.GET("/employees/document/:id", h.GetDocument)

		req := httptest.NewRequest(http.MethodGet, "/employees/document/1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEmployeeHandler_UpdateTasks(t *testing.T) {
	svc := &fakeEmployeeService{
		UpdateTasksFn: func(ctx context.Context, employeeID int64, dtos []task.TaskDTO) (employee.EmployeeDTO, error) {
			assert.Equal(t, int64(7), employeeID)
			if assert.Len(t, dtos, 2) {
				assert.Equal(t, int64(1), dtos[0].ID)
				assert.Zero(t, dtos[1].ID)
			}
			return employee.EmployeeDTO{ID: employeeID}, nil
		},
	}

	r := setupRouter()
	h := employee.NewHandler(svc)
	r.PUT("/employees/:id/tasks", h.UpdateTasks)

	body := `[{"id":1,"descriptions":"updated","status":"DONE"},{"descriptions":"fresh","status":"PENDING"}]`
	req := httptest.NewRequest(http.MethodPut, "/employees/7/tasks", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
