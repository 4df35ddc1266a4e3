package httpserver

import (
	"errors"
	"net/http"

	projecterrors "carbono/contexts/account-core/project-service/domain/errors"
	projecthttp "carbono/contexts/account-core/project-service/transport/http"
)

func writeProjectError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, projecthttp.ErrorResponse{Code: code, Message: message})
}

func writeProjectDomainError(w http.ResponseWriter, err error) {
	table := projecterrors.TableOf(err)
	switch {
	case errors.Is(err, projecterrors.ErrProjectNotFound),
		errors.Is(err, projecterrors.ErrProfileNotFound):
		writeProjectTableError(w, http.StatusNotFound, "not_found", err, table)
	case errors.Is(err, projecterrors.ErrForbidden):
		writeProjectTableError(w, http.StatusForbidden, "forbidden", err, table)
	case errors.Is(err, projecterrors.ErrMissingFields),
		errors.Is(err, projecterrors.ErrNameTooLong),
		errors.Is(err, projecterrors.ErrCodeTooLong),
		errors.Is(err, projecterrors.ErrEmailTooLong),
		errors.Is(err, projecterrors.ErrNoFieldsToUpdate),
		errors.Is(err, projecterrors.ErrUnknownTier):
		writeProjectTableError(w, http.StatusBadRequest, "invalid_request", err, table)
	case errors.Is(err, projecterrors.ErrCodeConflict),
		errors.Is(err, projecterrors.ErrCodeExhausted):
		writeProjectTableError(w, http.StatusBadRequest, "conflict", err, table)
	default:
		writeProjectTableError(w, http.StatusInternalServerError, "internal_error", errors.New("internal server error"), table)
	}
}

func writeProjectTableError(w http.ResponseWriter, status int, code string, err error, table string) {
	writeJSON(w, status, projecthttp.ErrorResponse{
		Code:    code,
		Message: err.Error(),
		Table:   table,
	})
}
