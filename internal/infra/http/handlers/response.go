package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/usecase"
)

type ErrorResponse struct {
	Error   string                    `json:"error"`
	Message string                    `json:"message"`
	Fields  []usecase.ValidationError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeUseCaseError maps use case errors onto HTTP statuses. Anything that
// ends up as a 5xx is logged and sent to Sentry.
func writeUseCaseError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var (
		de *usecase.DomainError
		te *usecase.TechnicalError
	)

	switch {
	case errors.Is(err, entity.ErrLeadNotFound):
		writeErrorResponse(w, http.StatusNotFound, "LEAD_NOT_FOUND", err.Error())
	case errors.Is(err, entity.ErrInteractionNotFound):
		writeErrorResponse(w, http.StatusNotFound, "INTERACTION_NOT_FOUND", err.Error())
	case errors.As(err, &de):
		status := http.StatusBadRequest
		if de.Code == usecase.CodeValidation || de.Code == usecase.CodeInvalidChannel {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, ErrorResponse{Error: de.Code, Message: de.Message, Fields: de.Fields})
	case errors.As(err, &te) && (te.Code == usecase.CodeModel || te.Code == usecase.CodeDispatch):
		reportError(r, logger, err)
		writeErrorResponse(w, http.StatusBadGateway, te.Code, te.Message)
	default:
		reportError(r, logger, err)
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func reportError(r *http.Request, logger *zap.Logger, err error) {
	logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetRequest(r)
		sentry.CaptureException(err)
	})
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeJSON decodes an optional request body. An empty body leaves v as is.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
