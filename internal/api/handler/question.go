package handler

import (
	"net/http"

	"github.com/mcoot/quizrace/internal/api/response"
	"github.com/mcoot/quizrace/internal/services/lifecycle"
)

// QuestionHandler handles the current-question snapshot endpoint
type QuestionHandler struct {
	lifecycleService *lifecycle.Service
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(lifecycleService *lifecycle.Service) *QuestionHandler {
	return &QuestionHandler{
		lifecycleService: lifecycleService,
	}
}

// Get handles GET /question. Reading the snapshot may create or retire
// questions as a side effect; that is the lifecycle's lazy transition
// model, not an anomaly of this handler.
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.lifecycleService.Snapshot(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.QuestionFromSnapshot(snapshot))
}
