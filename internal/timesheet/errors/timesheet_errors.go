package timesheeterrors

import (
	"go-ems/internal/shared/apperror"
	"net/http"
)

var (
	ErrInvalidTimesheetID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid timesheet ID",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected yyyy-MM-dd",
		http.StatusBadRequest,
	)
)
