package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/usecase"
)

type LeadHandler struct {
	CreateUC       *usecase.CreateLeadUseCase
	ListUC         *usecase.ListLeadsUseCase
	GetUC          *usecase.GetLeadUseCase
	DeleteUC       *usecase.DeleteLeadUseCase
	ClearUC        *usecase.ClearAllDataUseCase
	InteractionsUC *usecase.ListInteractionsUseCase
	AddNoteUC      *usecase.AddNoteUseCase
	ExportUC       *usecase.ExportLeadsCSVUseCase
	Logger         *zap.Logger
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateLeadInput
	if err := decodeJSON(r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON: "+err.Error())
		return
	}

	lead, err := h.CreateUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.ListUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "lead id must be a positive integer")
		return
	}

	out, err := h.GetUC.Execute(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "lead id must be a positive integer")
		return
	}

	if err := h.DeleteUC.Execute(r.Context(), id); err != nil {
		writeUseCaseError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LeadHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.ClearUC.Execute(r.Context()); err != nil {
		writeUseCaseError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LeadHandler) Interactions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "lead id must be a positive integer")
		return
	}

	history, err := h.InteractionsUC.Execute(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *LeadHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "lead id must be a positive integer")
		return
	}

	var input usecase.AddNoteInput
	if err := decodeJSON(r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON: "+err.Error())
		return
	}
	input.LeadID = id

	note, err := h.AddNoteUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// Export streams leads.csv. The CSV is built in memory first so a store error
// can still produce a JSON error response.
func (h *LeadHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if _, err := h.ExportUC.Execute(r.Context(), &buf); err != nil {
		writeUseCaseError(w, r, h.Logger, err)
		return
	}

	filename := fmt.Sprintf("leads-%s.csv", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
