package queries

import (
	"time"

	"studyforge/pkg/utils"
)

// GetNextQuestionQuery asks for the next item to present, with its problem
type GetNextQuestionQuery struct {
	At time.Time `validate:"required"`
}

// Validate implements bus.Query
func (q GetNextQuestionQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// GetItemQuery asks for the reporting view of one item
type GetItemQuery struct {
	ItemID string    `validate:"required,min=1,max=64"`
	At     time.Time `validate:"required"`
}

// Validate implements bus.Query
func (q GetItemQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// ListItemsQuery asks for the reporting view of every tracked item
type ListItemsQuery struct {
	At time.Time `validate:"required"`
}

// Validate implements bus.Query
func (q ListItemsQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// CheckAnswerQuery asks whether an answer matches the pending problem for
// an item
type CheckAnswerQuery struct {
	ItemID string  `validate:"required,min=1,max=64"`
	Answer float64 `validate:"-"`
}

// Validate implements bus.Query
func (q CheckAnswerQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// GetSessionStatusQuery asks whether the session is complete and how far
// each item is from mastery
type GetSessionStatusQuery struct {
	At time.Time `validate:"required"`
}

// Validate implements bus.Query
func (q GetSessionStatusQuery) Validate() error {
	return utils.ValidateStruct(q)
}
