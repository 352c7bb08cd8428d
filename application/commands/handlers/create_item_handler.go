package handlers

import (
	"context"
	"fmt"

	"studyforge/application/commands"
	"studyforge/application/services"
)

// CreateItemHandler routes the create-item command to the study service
type CreateItemHandler struct {
	service *services.StudyService
}

// NewCreateItemHandler creates the handler
func NewCreateItemHandler(service *services.StudyService) *CreateItemHandler {
	return &CreateItemHandler{service: service}
}

// Handle introduces the item
func (h *CreateItemHandler) Handle(ctx context.Context, cmd commands.CreateItemCommand) error {
	if _, err := h.service.CreateItem(ctx, cmd.Category, cmd.At); err != nil {
		return fmt.Errorf("create item %s: %w", cmd.Category, err)
	}
	return nil
}
