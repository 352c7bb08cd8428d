package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"studyforge/application/commands"
	"studyforge/application/commands/bus"
	"studyforge/application/queries"
	querybus "studyforge/application/queries/bus"
	"studyforge/pkg/common"
	pkgerrors "studyforge/pkg/errors"
	"studyforge/pkg/utils"
)

// SessionHandler handles study session endpoints
type SessionHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// NextQuestion handles GET /session/next
func (h *SessionHandler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetNextQuestionQuery{At: time.Now()})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// CheckAnswerRequest is the answer check request body
type CheckAnswerRequest struct {
	ItemID string  `json:"item_id" validate:"required,min=1,max=64"`
	Answer float64 `json:"answer"`
}

// CheckAnswer handles POST /session/answer
func (h *SessionHandler) CheckAnswer(w http.ResponseWriter, r *http.Request) {
	var req CheckAnswerRequest
	if err := common.ParseJSONBody(r, &req, maxRequestBytes); err != nil {
		common.RespondAppError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.CheckAnswerQuery{ItemID: req.ItemID, Answer: req.Answer})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// RecordReviewRequest is the review request body
type RecordReviewRequest struct {
	ItemID string `json:"item_id" validate:"required,min=1,max=64"`
	Grade  string `json:"grade" validate:"required"`
}

// RecordReview handles POST /session/review
func (h *SessionHandler) RecordReview(w http.ResponseWriter, r *http.Request) {
	var req RecordReviewRequest
	if err := common.ParseJSONBody(r, &req, maxRequestBytes); err != nil {
		common.RespondAppError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, err)
		return
	}

	now := time.Now()
	cmd := commands.RecordReviewCommand{ItemID: req.ItemID, Grade: req.Grade, At: now}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}

	// Read the updated item back through the query side
	result, err := h.queryBus.Ask(r.Context(), queries.GetItemQuery{ItemID: req.ItemID, At: now})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// Status handles GET /session/status
func (h *SessionHandler) Status(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetSessionStatusQuery{At: time.Now()})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
