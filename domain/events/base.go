package events

import (
	"time"

	"studyforge/domain/core/valueobjects"
	"studyforge/domain/srs"

	"github.com/google/uuid"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetEventID() string
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetEventID() string      { return e.EventID }
func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func newBaseEvent(aggregateID, eventType string, timestamp time.Time, version int) BaseEvent {
	return BaseEvent{
		EventID:     uuid.New().String(),
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   timestamp,
		Version:     version,
	}
}

// Item events

// ItemCreated is raised when a learning item is introduced into the pool
type ItemCreated struct {
	BaseEvent
	ItemID     valueobjects.ItemID `json:"item_id"`
	Stability  float64             `json:"stability"`
	Difficulty float64             `json:"difficulty"`
}

// NewItemCreated creates an ItemCreated event
func NewItemCreated(itemID valueobjects.ItemID, stability, difficulty float64, timestamp time.Time) ItemCreated {
	return ItemCreated{
		BaseEvent:  newBaseEvent(itemID.String(), "item.created", timestamp, 1),
		ItemID:     itemID,
		Stability:  stability,
		Difficulty: difficulty,
	}
}

// ReviewRecorded is raised when a completed review updates an item's memory state
type ReviewRecorded struct {
	BaseEvent
	ItemID        valueobjects.ItemID `json:"item_id"`
	Grade         string              `json:"grade"`
	OldStability  float64             `json:"old_stability"`
	NewStability  float64             `json:"new_stability"`
	OldDifficulty float64             `json:"old_difficulty"`
	NewDifficulty float64             `json:"new_difficulty"`
	NextReview    time.Time           `json:"next_review"`
}

// NewReviewRecorded creates a ReviewRecorded event
func NewReviewRecorded(
	itemID valueobjects.ItemID,
	grade srs.Grade,
	oldStability, newStability float64,
	oldDifficulty, newDifficulty float64,
	nextReview time.Time,
	timestamp time.Time,
	version int,
) ReviewRecorded {
	return ReviewRecorded{
		BaseEvent:     newBaseEvent(itemID.String(), "item.review_recorded", timestamp, version),
		ItemID:        itemID,
		Grade:         grade.String(),
		OldStability:  oldStability,
		NewStability:  newStability,
		OldDifficulty: oldDifficulty,
		NewDifficulty: newDifficulty,
		NextReview:    nextReview,
	}
}

// ItemMastered is raised when an item's stability crosses the mastery threshold
type ItemMastered struct {
	BaseEvent
	ItemID    valueobjects.ItemID `json:"item_id"`
	Stability float64             `json:"stability"`
	Threshold float64             `json:"threshold"`
}

// NewItemMastered creates an ItemMastered event
func NewItemMastered(itemID valueobjects.ItemID, stability, threshold float64, timestamp time.Time) ItemMastered {
	return ItemMastered{
		BaseEvent: newBaseEvent(itemID.String(), "item.mastered", timestamp, 1),
		ItemID:    itemID,
		Stability: stability,
		Threshold: threshold,
	}
}
