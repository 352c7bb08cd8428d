package handlers

import (
	"context"

	"studyforge/application/queries"
	"studyforge/application/services"
)

// GetNextQuestionHandler selects and generates the next question
type GetNextQuestionHandler struct {
	service *services.StudyService
}

// NewGetNextQuestionHandler creates the handler
func NewGetNextQuestionHandler(service *services.StudyService) *GetNextQuestionHandler {
	return &GetNextQuestionHandler{service: service}
}

// Handle returns a services.NextQuestion
func (h *GetNextQuestionHandler) Handle(ctx context.Context, query queries.GetNextQuestionQuery) (services.NextQuestion, error) {
	return h.service.NextQuestion(ctx, query.At)
}

// GetItemHandler reports one item's state
type GetItemHandler struct {
	service *services.StudyService
}

// NewGetItemHandler creates the handler
func NewGetItemHandler(service *services.StudyService) *GetItemHandler {
	return &GetItemHandler{service: service}
}

// Handle returns a services.ItemStatus
func (h *GetItemHandler) Handle(ctx context.Context, query queries.GetItemQuery) (services.ItemStatus, error) {
	return h.service.Item(query.ItemID, query.At)
}

// ListItemsHandler reports the state of every tracked item
type ListItemsHandler struct {
	service *services.StudyService
}

// NewListItemsHandler creates the handler
func NewListItemsHandler(service *services.StudyService) *ListItemsHandler {
	return &ListItemsHandler{service: service}
}

// Handle returns a slice of services.ItemStatus
func (h *ListItemsHandler) Handle(ctx context.Context, query queries.ListItemsQuery) ([]services.ItemStatus, error) {
	return h.service.Status(query.At).Items, nil
}

// CheckAnswerHandler verifies an answer against the pending problem
type CheckAnswerHandler struct {
	service *services.StudyService
}

// NewCheckAnswerHandler creates the handler
func NewCheckAnswerHandler(service *services.StudyService) *CheckAnswerHandler {
	return &CheckAnswerHandler{service: service}
}

// Handle returns a services.AnswerCheck
func (h *CheckAnswerHandler) Handle(ctx context.Context, query queries.CheckAnswerQuery) (services.AnswerCheck, error) {
	correct, expected, err := h.service.CheckAnswer(query.ItemID, query.Answer)
	if err != nil {
		return services.AnswerCheck{}, err
	}
	return services.AnswerCheck{
		ItemID:   query.ItemID,
		Correct:  correct,
		Expected: expected,
	}, nil
}

// GetSessionStatusHandler reports session completion
type GetSessionStatusHandler struct {
	service *services.StudyService
}

// NewGetSessionStatusHandler creates the handler
func NewGetSessionStatusHandler(service *services.StudyService) *GetSessionStatusHandler {
	return &GetSessionStatusHandler{service: service}
}

// Handle returns a services.SessionStatus
func (h *GetSessionStatusHandler) Handle(ctx context.Context, query queries.GetSessionStatusQuery) (services.SessionStatus, error) {
	return h.service.Status(query.At), nil
}
