package response

import (
	"github.com/gin-gonic/gin"
)

// Page is the wire shape for paginated listings.
type Page struct {
	Content       any   `json:"content"`
	Page          int   `json:"page"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

func NewPage(content any, page, pageSize int, total int64) Page {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	return Page{
		Content:       content,
		Page:          page,
		PageSize:      pageSize,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}

func Error(c *gin.Context, status int, errorCode string, message string, details interface{}) {
	c.JSON(status, gin.H{
		"error": map[string]interface{}{
			"code":    errorCode,
			"message": message,
			"details": details,
		},
	})
}
