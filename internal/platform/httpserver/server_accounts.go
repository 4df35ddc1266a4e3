package httpserver

import (
	"errors"
	"net/http"

	accounterrors "carbono/contexts/account-core/account-service/domain/errors"
	accounthttp "carbono/contexts/account-core/account-service/transport/http"
)

func writeAccountError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, accounthttp.ErrorResponse{Code: code, Message: message})
}

func writeAccountDomainError(w http.ResponseWriter, err error) {
	table := accounterrors.TableOf(err)
	switch {
	case errors.Is(err, accounterrors.ErrProfileNotFound),
		errors.Is(err, accounterrors.ErrUserNotFound):
		writeAccountTableError(w, http.StatusNotFound, "not_found", err, table)
	case errors.Is(err, accounterrors.ErrMissingFields),
		errors.Is(err, accounterrors.ErrNameTooLong),
		errors.Is(err, accounterrors.ErrEmailTooLong),
		errors.Is(err, accounterrors.ErrPasswordTooLong),
		errors.Is(err, accounterrors.ErrCodeTooLong):
		writeAccountTableError(w, http.StatusBadRequest, "invalid_request", err, table)
	case errors.Is(err, accounterrors.ErrEmailConflict),
		errors.Is(err, accounterrors.ErrCodeConflict),
		errors.Is(err, accounterrors.ErrCodeExhausted):
		writeAccountTableError(w, http.StatusBadRequest, "conflict", err, table)
	case errors.Is(err, accounterrors.ErrInvalidCredentials):
		writeAccountTableError(w, http.StatusUnauthorized, "invalid_credentials", err, table)
	default:
		writeAccountTableError(w, http.StatusInternalServerError, "internal_error", errors.New("internal server error"), table)
	}
}

func writeAccountTableError(w http.ResponseWriter, status int, code string, err error, table string) {
	writeJSON(w, status, accounthttp.ErrorResponse{
		Code:    code,
		Message: err.Error(),
		Table:   table,
	})
}
