package employee

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	employeeerrors "go-ems/internal/employee/errors"
	"go-ems/internal/shared/apperror"
	"go-ems/internal/shared/response"
	"go-ems/internal/task"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	h := NewHandler(service, logger...)
	h.rdb = rdb
	return h
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("employee request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		httpErr := apperror.ToHTTP(employeeerrors.ErrInvalidEmployeeID)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return 0, false
	}
	return id, true
}

func parsePageParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "0"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return page, pageSize
}

// bindMultipart reads the employee multipart form: scalar fields, a
// comma-separated "skills" field, an optional "tasks" JSON field, and an
// optional "file" part.
func (h *Handler) bindMultipart(c *gin.Context) (EmployeeDTO, []string, *Document, error) {
	dto := EmployeeDTO{
		Name:        c.PostForm("name"),
		Designation: c.PostForm("designation"),
		Email:       c.PostForm("email"),
		Department:  c.PostForm("department"),
		HireDate:    c.PostForm("hireDate"),
	}

	var skills []string
	if raw := c.PostForm("skills"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
	}

	if raw := c.PostForm("tasks"); raw != "" {
		var tasks []task.TaskDTO
		if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
			return EmployeeDTO{}, nil, nil, fmt.Errorf("invalid tasks payload: %w", err)
		}
		dto.Tasks = tasks
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		// No file part is fine; the document columns stay empty.
		return dto, skills, nil, nil
	}

	f, err := fileHeader.Open()
	if err != nil {
		return EmployeeDTO{}, nil, nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return EmployeeDTO{}, nil, nil, err
	}

	doc := &Document{
		Content:  content,
		FileName: fileHeader.Filename,
		FileType: fileHeader.Header.Get("Content-Type"),
	}
	return dto, skills, doc, nil
}

func (h *Handler) Create(c *gin.Context) {
	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	dto, skills, doc, err := h.bindMultipart(c)
	if err != nil {
		h.logger.Warn("http create employee bad form", zap.Error(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, err.Error(), nil)
		return
	}

	created, err := h.service.Add(c.Request.Context(), dto, skills, doc)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(created); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
			}
		}
	}

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	dto, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto)
}

func (h *Handler) List(c *gin.Context) {
	page, pageSize := parsePageParams(c)

	employees, total, err := h.service.GetPage(c.Request.Context(), page, pageSize)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPage(employees, page, pageSize, total))
}

func (h *Handler) ListWithoutTasks(c *gin.Context) {
	page, pageSize := parsePageParams(c)

	employees, total, err := h.service.GetPageWithoutTasks(c.Request.Context(), page, pageSize)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPage(employees, page, pageSize, total))
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	dto, skills, doc, err := h.bindMultipart(c)
	if err != nil {
		h.logger.Warn("http update employee bad form", zap.Error(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, err.Error(), nil)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, dto, skills, doc)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.String(http.StatusOK, "Employee deleted successfully")
}

func (h *Handler) AddTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var dto task.TaskDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		h.logger.Warn("http add task validation failed", zap.Error(err))
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	created, err := h.service.AddTask(c.Request.Context(), id, dto)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetTasks(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	page, pageSize := parsePageParams(c)

	tasks, total, err := h.service.GetTasks(c.Request.Context(), id, page, pageSize)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPage(tasks, page, pageSize, total))
}

func (h *Handler) GetTasksByStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	page, pageSize := parsePageParams(c)

	tasks, total, err := h.service.GetTasksByStatus(c.Request.Context(), id, c.Param("status"), page, pageSize)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPage(tasks, page, pageSize, total))
}

func (h *Handler) GetTasksWithoutIDs(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	page, pageSize := parsePageParams(c)

	tasks, total, err := h.service.GetTasksWithoutIDs(c.Request.Context(), id, page, pageSize)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPage(tasks, page, pageSize, total))
}

func (h *Handler) UpdateTasks(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var dtos []task.TaskDTO
	if err := c.ShouldBindJSON(&dtos); err != nil {
		h.logger.Warn("http update tasks validation failed", zap.Error(err))
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	updated, err := h.service.UpdateTasks(c.Request.Context(), id, dtos)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) GetDocument(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetDocument(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	contentType := doc.FileType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Data(http.StatusOK, contentType, doc.Content)
}
