package employeeerrors

import (
	"go-ems/internal/shared/apperror"
	"net/http"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidHireDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid hireDate format, expected yyyy-MM-dd",
		http.StatusBadRequest,
	)
	ErrDocumentNotFound = apperror.New(
		apperror.CodeNotFound,
		"No document uploaded for this employee",
		http.StatusNotFound,
	)
	ErrSkillSyncFailed = apperror.New(
		apperror.CodeSkillSyncFailed,
		"An error occurred while associating skills with employee",
		http.StatusInternalServerError,
	)
)
