package handlers

import (
	"net/http"

	"github.com/xavierca1/leadflow/internal/usecase"
)

// ValidationHandler checks an add-lead form without storing anything.
type ValidationHandler struct{}

func NewValidationHandler() *ValidationHandler {
	return &ValidationHandler{}
}

func (h *ValidationHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateLeadInput
	if err := decodeJSON(r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON")
		return
	}

	if errs := usecase.ValidateCreateLeadInput(input); len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   usecase.CodeValidation,
			Message: "lead is not valid",
			Fields:  errs,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
