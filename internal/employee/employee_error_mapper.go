package employee

import (
	"errors"
	"net/http"

	"go-ems/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// mapRepositoryError translates store-level failures that are not handled
// at the call site. Record-not-found is mapped where the id is known.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return apperror.New(
				apperror.CodeConflict,
				"Employee violates a uniqueness constraint",
				http.StatusConflict,
			)
		}
	}

	return err
}
