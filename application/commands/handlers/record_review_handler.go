package handlers

import (
	"context"
	"fmt"

	"studyforge/application/commands"
	"studyforge/application/services"

	"go.uber.org/zap"
)

// RecordReviewHandler routes the record-review command to the study service
type RecordReviewHandler struct {
	service *services.StudyService
	logger  *zap.Logger
}

// NewRecordReviewHandler creates the handler
func NewRecordReviewHandler(service *services.StudyService, logger *zap.Logger) *RecordReviewHandler {
	return &RecordReviewHandler{service: service, logger: logger}
}

// Handle applies the review
func (h *RecordReviewHandler) Handle(ctx context.Context, cmd commands.RecordReviewCommand) error {
	outcome, err := h.service.RecordReview(ctx, cmd.ItemID, cmd.Grade, cmd.At)
	if err != nil {
		return fmt.Errorf("record review for %s: %w", cmd.ItemID, err)
	}

	if outcome.SessionComplete {
		h.logger.Info("All items reached the mastery threshold",
			zap.String("itemID", cmd.ItemID),
		)
	}
	return nil
}
