package entities

import (
	"math"
	"time"

	"studyforge/domain/core/valueobjects"
	"studyforge/domain/events"
	"studyforge/domain/srs"
	pkgerrors "studyforge/pkg/errors"
)

// ItemStatus represents the scheduling state of a learning item
type ItemStatus string

const (
	// StatusNew marks an item that has never been graded
	StatusNew ItemStatus = "new"
	// StatusDue marks an item waiting for its next review
	StatusDue ItemStatus = "due"
	// StatusUnderReview marks the item currently presented to the learner
	StatusUnderReview ItemStatus = "under_review"
	// StatusMastered marks an item whose stability reached the session threshold
	StatusMastered ItemStatus = "mastered"
)

const (
	// SeedStability is the stability a freshly introduced item starts with.
	// Near-zero so the first review happens immediately.
	SeedStability = 0.0001
	// SeedDifficulty is the midpoint default for new items.
	SeedDifficulty = 5.0
)

// Item is the entity representing one learning unit: a category tag owning
// exactly one memory state and a due time. Mutation happens only through a
// completed review or a scheduler state transition.
type Item struct {
	id           valueobjects.ItemID
	stability    float64
	difficulty   float64
	lastReviewed time.Time
	nextReview   time.Time
	status       ItemStatus
	version      int

	// Domain events that occurred during this entity's lifetime
	events []events.DomainEvent
}

// Record is the persisted shape of an item: the serialization contract shared
// with the storage collaborators. Timestamps are RFC3339 on the wire.
type Record struct {
	ID           string    `json:"id"`
	Stability    float64   `json:"stability"`
	Difficulty   float64   `json:"difficulty"`
	LastReviewed time.Time `json:"last_reviewed"`
	NextReview   time.Time `json:"next_review"`
}

// NewItem introduces a fresh learning item with seed memory state. The item
// is immediately reviewable: next review equals the creation time.
func NewItem(id valueobjects.ItemID, now time.Time) (*Item, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("item ID cannot be empty")
	}

	item := &Item{
		id:           id,
		stability:    SeedStability,
		difficulty:   SeedDifficulty,
		lastReviewed: now,
		nextReview:   now,
		status:       StatusNew,
		version:      1,
		events:       []events.DomainEvent{},
	}

	item.addEvent(events.NewItemCreated(id, SeedStability, SeedDifficulty, now))

	return item, nil
}

// ReconstructItem rebuilds an item from a persisted record. Restored items
// carry no pending events.
func ReconstructItem(rec Record) (*Item, error) {
	id, err := valueobjects.NewItemID(rec.ID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid item record: " + err.Error())
	}
	if err := checkMemoryState(rec.Stability, rec.Difficulty); err != nil {
		return nil, err
	}
	if rec.NextReview.Before(rec.LastReviewed) {
		return nil, pkgerrors.NewDomainError("next review precedes last review")
	}

	return &Item{
		id:           id,
		stability:    rec.Stability,
		difficulty:   rec.Difficulty,
		lastReviewed: rec.LastReviewed,
		nextReview:   rec.NextReview,
		status:       StatusDue,
		version:      1,
		events:       []events.DomainEvent{},
	}, nil
}

// ID returns the item's identifier
func (i *Item) ID() valueobjects.ItemID {
	return i.id
}

// Stability returns the current memory stability in days
func (i *Item) Stability() float64 {
	return i.stability
}

// Difficulty returns the current difficulty in [1, 10]
func (i *Item) Difficulty() float64 {
	return i.difficulty
}

// LastReviewed returns the timestamp of the most recent grading event
func (i *Item) LastReviewed() time.Time {
	return i.lastReviewed
}

// NextReview returns the item's due time
func (i *Item) NextReview() time.Time {
	return i.nextReview
}

// Status returns the item's scheduling state
func (i *Item) Status() ItemStatus {
	return i.status
}

// Version returns the entity version, bumped on every completed review
func (i *Item) Version() int {
	return i.version
}

// IsMastered reports whether the item reached the terminal state
func (i *Item) IsMastered() bool {
	return i.status == StatusMastered
}

// IsDueAt reports whether the item is due at the given time
func (i *Item) IsDueAt(now time.Time) bool {
	return !i.nextReview.After(now)
}

// ElapsedDays returns fractional days since the last grading event,
// floored at zero for clock skew.
func (i *Item) ElapsedDays(now time.Time) float64 {
	return math.Max(0, now.Sub(i.lastReviewed).Hours()/24)
}

// MarkUnderReview transitions the item into the presented state
func (i *Item) MarkUnderReview() error {
	if i.status == StatusMastered {
		return pkgerrors.NewConflictError("cannot present a mastered item")
	}
	i.status = StatusUnderReview
	return nil
}

// ApplyReview records the outcome of a completed review: the new memory state
// and due time computed by the memory model. The entity enforces its own
// invariants (S > 0, D within bounds, next review not before the review).
func (i *Item) ApplyReview(grade srs.Grade, stability, difficulty float64, reviewedAt, nextReview time.Time) error {
	if !grade.IsValid() {
		return pkgerrors.NewInvalidGradeError(grade.String())
	}
	if err := checkMemoryState(stability, difficulty); err != nil {
		return err
	}
	if nextReview.Before(reviewedAt) {
		return pkgerrors.NewDomainError("next review precedes review time")
	}

	oldStability := i.stability
	oldDifficulty := i.difficulty

	i.stability = stability
	i.difficulty = difficulty
	i.lastReviewed = reviewedAt
	i.nextReview = nextReview
	i.status = StatusDue
	i.version++

	i.addEvent(events.NewReviewRecorded(
		i.id, grade,
		oldStability, stability,
		oldDifficulty, difficulty,
		nextReview, reviewedAt, i.version,
	))

	return nil
}

// MarkMastered moves the item into the terminal state
func (i *Item) MarkMastered(threshold float64, now time.Time) {
	if i.status == StatusMastered {
		return
	}
	i.status = StatusMastered
	i.addEvent(events.NewItemMastered(i.id, i.stability, threshold, now))
}

// ToRecord returns the persisted shape of the item
func (i *Item) ToRecord() Record {
	return Record{
		ID:           i.id.String(),
		Stability:    i.stability,
		Difficulty:   i.difficulty,
		LastReviewed: i.lastReviewed,
		NextReview:   i.nextReview,
	}
}

// GetUncommittedEvents returns all uncommitted domain events
func (i *Item) GetUncommittedEvents() []events.DomainEvent {
	return i.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (i *Item) MarkEventsAsCommitted() {
	i.events = []events.DomainEvent{}
}

// addEvent adds a domain event to the uncommitted list
func (i *Item) addEvent(event events.DomainEvent) {
	i.events = append(i.events, event)
}

// checkMemoryState guards the stability/difficulty invariants
func checkMemoryState(stability, difficulty float64) error {
	if stability <= 0 || math.IsNaN(stability) || math.IsInf(stability, 0) {
		return pkgerrors.NewDomainErrorf("stability must be positive, got %g", stability)
	}
	if difficulty < 1 || difficulty > 10 || math.IsNaN(difficulty) {
		return pkgerrors.NewDomainErrorf("difficulty must lie in [1, 10], got %g", difficulty)
	}
	return nil
}
