package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/quizrace/internal/api/request"
	"github.com/mcoot/quizrace/internal/api/response"
	"github.com/mcoot/quizrace/internal/model"
	"github.com/mcoot/quizrace/internal/services/claim"
)

// AnswerHandler handles answer submissions
type AnswerHandler struct {
	claimService *claim.Service
}

// NewAnswerHandler creates a new answer handler
func NewAnswerHandler(claimService *claim.Service) *AnswerHandler {
	return &AnswerHandler{
		claimService: claimService,
	}
}

// Submit handles POST /answer
func (h *AnswerHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("playerId is required"))
		return
	}
	if req.QuestionID == "" {
		WriteError(w, NewInvalidRequestError("questionId is required"))
		return
	}
	if !req.Answer.Valid {
		WriteError(w, NewInvalidRequestError("answer must be a number"))
		return
	}

	result, err := h.claimService.SubmitAnswer(
		r.Context(),
		model.PlayerID(req.PlayerID),
		model.QuestionID(req.QuestionID),
		req.Answer.Value,
	)
	if err != nil {
		WriteError(w, err)
		return
	}

	if result.Outcome == claim.OutcomeQuestionNotFound {
		WriteError(w, NewNotFoundError("Question not found"))
		return
	}

	response.JSON(w, http.StatusOK, response.Answer{
		Correct: result.Correct(),
		Won:     result.Won(),
		Message: result.Message(),
	})
}
