package skill

import (
	"net/http"
	"strconv"

	"go-ems/internal/shared/apperror"
	"go-ems/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("skill.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("skill.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("skill request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) CreateSkills(c *gin.Context) {
	var dtos []SkillDTO
	if err := c.ShouldBindJSON(&dtos); err != nil {
		h.logger.Warn("http create skills validation failed", zap.Error(err))
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	created, err := h.service.CreateSkills(c.Request.Context(), dtos)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetAll(c *gin.Context) {
	skills, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, skills)
}

func (h *Handler) GetByEmployee(c *gin.Context) {
	employeeID, err := strconv.ParseInt(c.Param("employeeId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid employee ID", nil)
		return
	}

	skills, svcErr := h.service.GetByEmployee(c.Request.Context(), employeeID)
	if svcErr != nil {
		h.writeServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, skills)
}

func (h *Handler) UpdateSkills(c *gin.Context) {
	var dtos []SkillDTO
	if err := c.ShouldBindJSON(&dtos); err != nil {
		h.logger.Warn("http update skills validation failed", zap.Error(err))
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	updated, err := h.service.UpdateSkills(c.Request.Context(), dtos)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteSkill(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("skillId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid skill ID", nil)
		return
	}

	if err := h.service.DeleteSkill(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Skill deleted successfully"})
}
