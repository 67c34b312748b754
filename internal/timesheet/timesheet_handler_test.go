package timesheet_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-ems/internal/shared/apperror"
	"go-ems/internal/timesheet"
	timesheeterrors "go-ems/internal/timesheet/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeTimesheetService struct {
	CreateFn                func(ctx context.Context, employeeID int64, dto timesheet.TimesheetDTO) (timesheet.TimesheetDTO, error)
	GetByIDFn               func(ctx context.Context, id int64) (timesheet.TimesheetDTO, error)
	GetPageFn               func(ctx context.Context, page, pageSize int) ([]timesheet.TimesheetDTO, int64, error)
	UpdateFn                func(ctx context.Context, id int64, dto timesheet.TimesheetDTO) (timesheet.TimesheetDTO, error)
	DeleteFn                func(ctx context.Context, id int64) error
	GetByCreatedDateRangeFn func(ctx context.Context, fromDate, toDate string, page, pageSize int) ([]timesheet.TimesheetDTO, int64, error)
	GetAllByEmployeeFn      func(ctx context.Context, employeeID int64) ([]timesheet.TimesheetDTO, error)
}

func (f *fakeTimesheetService) Create(ctx context.Context, employeeID int64, dto timesheet.TimesheetDTO) (timesheet.TimesheetDTO, error) {
	return f.CreateFn(ctx, employeeID, dto)
}
func (f *fakeTimesheetService) GetByID(ctx context.Context, id int64) (timesheet.TimesheetDTO, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeTimesheetService) GetPage(ctx context.Context, page, pageSize int) ([]timesheet.TimesheetDTO, int64, error) {
	return f.GetPageFn(ctx, page, pageSize)
}
func (f *fakeTimesheetService) Update(ctx context.Context, id int64, dto timesheet.TimesheetDTO) (timesheet.TimesheetDTO, error) {
	return f.UpdateFn(ctx, id, dto)
}
func (f *fakeTimesheetService) Delete(ctx context.Context, id int64) error {
	return f.DeleteFn(ctx, id)
}
func (f *fakeTimesheetService) GetByCreatedDateRange(ctx context.Context, fromDate, toDate string, page, pageSize int) ([]timesheet.TimesheetDTO, int64, error) {
	return f.GetByCreatedDateRangeFn(ctx, fromDate, toDate, page, pageSize)
}
func (f *fakeTimesheetService) GetAllByEmployee(ctx context.Context, employeeID int64) ([]timesheet.TimesheetDTO, error) {
	return f.GetAllByEmployeeFn(ctx, employeeID)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestTimesheetHandler_Create(t *testing.T) {
	svc := &fakeTimesheetService{
		CreateFn: func(ctx context.Context, employeeID int64, dto timesheet.TimesheetDTO) (timesheet.TimesheetDTO, error) {
			assert.Equal(t, int64(5), employeeID)
			assert.Equal(t, []int64{1, 2}, dto.TaskIDs)
			dto.ID = 30
			return dto, nil
		},
	}

	r := setupRouter()
	h := timesheet.NewHandler(svc)
	r.POST("/api/timesheets/:id", h.Create)

	body := `{"description":"weekly","hours":40,"workStatus":"SUBMITTED","createdBy":"jane","taskIds":[1,2]}`
	req := httptest.NewRequest(http.MethodPost, "/api/timesheets/5", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":30`)
}

func TestTimesheetHandler_GetByDateRange(t *testing.T) {
	t.Run("malformed date is a 400 with a fixed message", func(t *testing.T) {
		svc := &fakeTimesheetService{
			GetByCreatedDateRangeFn: func(ctx context.Context, fromDate, toDate string, page, pageSize int) ([]timesheet.TimesheetDTO, int64, error) {
				return nil, 0, timesheeterrors.ErrInvalidDateFormat
			},
		}

		r := setupRouter()
		h := timesheet.NewHandler(svc)
		r.GET("/api/timesheets/from/:fromDate/to/:toDate", h.GetByDateRange)

		req := httptest.NewRequest(http.MethodGet, "/api/timesheets/from/01-02-2026/to/2026-02-28", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid date format, expected yyyy-MM-dd")
	})

	t.Run("path and page params reach the service, body is a page", func(t *testing.T) {
		svc := &fakeTimesheetService{
			GetByCreatedDateRangeFn: func(ctx context.Context, fromDate, toDate string, page, pageSize int) ([]timesheet.TimesheetDTO, int64, error) {
				assert.Equal(t, "2026-02-01", fromDate)
				assert.Equal(t, "2026-02-28", toDate)
				assert.Equal(t, 1, page)
				assert.Equal(t, 5, pageSize)
				return []timesheet.TimesheetDTO{{ID: 1}}, 6, nil
			},
		}

		r := setupRouter()
		h := timesheet.NewHandler(svc)
		r.GET("/api/timesheets/from/:fromDate/to/:toDate", h.GetByDateRange)

		req := httptest.NewRequest(http.MethodGet, "/api/timesheets/from/2026-02-01/to/2026-02-28?page=1&pageSize=5", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"content":[{"id":1`)
		assert.Contains(t, w.Body.String(), `"totalElements":6`)
		assert.Contains(t, w.Body.String(), `"totalPages":2`)
	})

	t.Run("empty range is an empty page, not a bare array", func(t *testing.T) {
		svc := &fakeTimesheetService{
			GetByCreatedDateRangeFn: func(ctx context.Context, fromDate, toDate string, page, pageSize int) ([]timesheet.TimesheetDTO, int64, error) {
				return []timesheet.TimesheetDTO{}, 0, nil
			},
		}

		r := setupRouter()
		h := timesheet.NewHandler(svc)
		r.GET("/api/timesheets/from/:fromDate/to/:toDate", h.GetByDateRange)

		req := httptest.NewRequest(http.MethodGet, "/api/timesheets/from/2026-02-01/to/2026-02-28", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"content":[]`)
		assert.Contains(t, w.Body.String(), `"totalElements":0`)
	})
}

func TestTimesheetHandler_Delete(t *testing.T) {
	svc := &fakeTimesheetService{
		DeleteFn: func(ctx context.Context, id int64) error {
			assert.Equal(t, int64(30), id)
			return nil
		},
	}

	r := setupRouter()
	h := timesheet.NewHandler(svc)
	r.DELETE("/api/timesheets/:id", h.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/api/timesheets/30", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestTimesheetHandler_GetByID(t *testing.T) {
	svc := &fakeTimesheetService{
		GetByIDFn: func(ctx context.Context, id int64) (timesheet.TimesheetDTO, error) {
			return timesheet.TimesheetDTO{}, apperror.NotFound("Timesheet", "id", id)
		},
	}

	r := setupRouter()
	h := timesheet.NewHandler(svc)
	r.GET("/api/timesheets/:id", h.GetByID)

	req := httptest.NewRequest(http.MethodGet, "/api/timesheets/77", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Timesheet not found with id : '77'")
}
