package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/losol/eventuras-sub004/internal/domain"
)

const (
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidArgument    = "invalid_argument"
	codeNotAccessible      = "not_accessible"
	codeInvalidOperation   = "invalid_operation"
	codeConstraintViolated = "constraint_violation"
	codeForbidden          = "forbidden"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps domain sentinels to HTTP responses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRegistrationNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrVariantNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrVariantRequired),
		errors.Is(err, domain.ErrVariantNotAllowed),
		errors.Is(err, domain.ErrEventTitleRequired),
		errors.Is(err, domain.ErrProductNameRequired),
		errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidArgument, err.Error())
	case errors.Is(err, domain.ErrNotAccessible):
		writeError(w, http.StatusForbidden, codeNotAccessible, err.Error())
	case errors.Is(err, domain.ErrOrderNotEditable):
		writeError(w, http.StatusConflict, codeInvalidOperation, err.Error())
	case errors.Is(err, domain.ErrMinimumQuantityNotMet),
		errors.Is(err, domain.ErrNegativeEntitlement),
		errors.Is(err, domain.ErrProductNotOnEvent):
		writeError(w, http.StatusConflict, codeConstraintViolated, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
