package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/usecase"
)

type WorkflowHandler struct {
	QualifyUC  *usecase.QualifyLeadUseCase
	OutreachUC *usecase.GenerateOutreachUseCase
	SendUC     *usecase.SendOutreachUseCase
	Logger     *zap.Logger
}

// Qualify returns the parsed model result. A parse failure is still a 200: the
// body is the {"error", "raw"} sentinel that was also logged on the lead.
func (h *WorkflowHandler) Qualify(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "lead id must be a positive integer")
		return
	}

	out, err := h.QualifyUC.Execute(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *WorkflowHandler) Outreach(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "lead id must be a positive integer")
		return
	}

	var input usecase.GenerateOutreachInput
	if err := decodeJSON(r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON: "+err.Error())
		return
	}
	input.LeadID = id

	out, err := h.OutreachUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *WorkflowHandler) Send(w http.ResponseWriter, r *http.Request) {
	leadID, ok := pathID(r, "id")
	if !ok {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "lead id must be a positive integer")
		return
	}
	interactionID, ok := pathID(r, "interactionId")
	if !ok {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "interaction id must be a positive integer")
		return
	}

	out, err := h.SendUC.Execute(r.Context(), usecase.SendOutreachInput{LeadID: leadID, InteractionID: interactionID})
	if err != nil {
		writeUseCaseError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusAccepted, out)
}
