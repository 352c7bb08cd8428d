package commands

import (
	"time"

	"studyforge/pkg/utils"
)

// RecordReviewCommand applies a grade to an item at a given time
type RecordReviewCommand struct {
	ItemID string    `validate:"required,min=1,max=64"`
	// Grade is classified by srs.ParseGrade so an unknown name surfaces as
	// an invalid-grade error, not a generic validation failure.
	Grade  string    `validate:"required"`
	At     time.Time `validate:"required"`
}

// Validate implements bus.Command
func (c RecordReviewCommand) Validate() error {
	return utils.ValidateStruct(c)
}
