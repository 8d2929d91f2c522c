package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/eval"
)

type EvalHandler struct {
	Workflow *eval.LeadWorkflow
	Logger   *zap.Logger
}

func NewEvalHandler(wf *eval.LeadWorkflow, logger *zap.Logger) *EvalHandler {
	return &EvalHandler{Workflow: wf, Logger: logger}
}

// Run evaluates the posted suite, or the built-in samples when the body is
// empty or lists no samples.
func (h *EvalHandler) Run(w http.ResponseWriter, r *http.Request) {
	suite := eval.DefaultSuite()
	var posted eval.Suite
	if err := decodeJSON(r, &posted); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON: "+err.Error())
		return
	}

	if len(posted.Samples) > 0 {
		suite.Samples = posted.Samples
	}
	if posted.Channel != "" {
		suite.Channel = posted.Channel
	}
	if posted.Tone != "" {
		suite.Tone = posted.Tone
	}
	if posted.ValueProp != "" {
		suite.ValueProp = posted.ValueProp
	}

	writeJSON(w, http.StatusOK, h.Workflow.Run(r.Context(), suite))
}
