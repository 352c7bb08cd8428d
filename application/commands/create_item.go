package commands

import (
	"time"

	"studyforge/pkg/utils"
)

// CreateItemCommand introduces a new learning item for a category tag
type CreateItemCommand struct {
	Category string    `validate:"required,min=1,max=64"`
	At       time.Time `validate:"required"`
}

// Validate implements bus.Command
func (c CreateItemCommand) Validate() error {
	return utils.ValidateStruct(c)
}
