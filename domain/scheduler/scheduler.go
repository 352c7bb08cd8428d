// Package scheduler owns the pool of learning items for a study session and
// decides which item to present next. It composes the srs memory model: grade
// feedback flows through the model, the scheduler stores the resulting state
// and due time.
package scheduler

import (
	"sort"
	"time"

	"studyforge/domain/core/entities"
	"studyforge/domain/core/valueobjects"
	"studyforge/domain/srs"
	pkgerrors "studyforge/pkg/errors"
)

// MinMasteryDays floors the mastery threshold for very short sessions.
const MinMasteryDays = 0.1

// ReviewResult is the outcome of a recorded review
type ReviewResult struct {
	// Record is the item's updated memory state.
	Record entities.Record
	// Retrievability is the recall estimate at review time, before the update.
	Retrievability float64
	// PredictedRecall is the reporting-only success estimate for the next review.
	PredictedRecall float64
	// Mastered reports whether this review pushed the item over the threshold.
	Mastered bool
}

// Scheduler selects due items, applies grade feedback through the memory
// model and recomputes due times. It is synchronous and assumes exactly one
// outstanding review at a time; callers needing concurrent access serialize
// outside.
type Scheduler struct {
	model            *srs.Model
	items            map[string]*entities.Item
	masteryThreshold float64
}

// MasteryThresholdDays converts a requested study-session length into the
// stability, in days, at which an item counts as learned for the session.
func MasteryThresholdDays(sessionLength time.Duration) float64 {
	days := sessionLength.Hours() / 24
	if days < MinMasteryDays {
		return MinMasteryDays
	}
	return days
}

// NewScheduler creates a scheduler with an empty item pool.
func NewScheduler(model *srs.Model, sessionLength time.Duration) (*Scheduler, error) {
	if model == nil {
		return nil, pkgerrors.NewValidationError("memory model is required")
	}
	return &Scheduler{
		model:            model,
		items:            make(map[string]*entities.Item),
		masteryThreshold: MasteryThresholdDays(sessionLength),
	}, nil
}

// MasteryThreshold returns the session's mastery threshold in days
func (s *Scheduler) MasteryThreshold() float64 {
	return s.masteryThreshold
}

// Add places an item into the pool
func (s *Scheduler) Add(item *entities.Item) error {
	if item == nil {
		return pkgerrors.NewValidationError("item cannot be nil")
	}
	key := item.ID().String()
	if _, exists := s.items[key]; exists {
		return pkgerrors.NewConflictError("item " + key + " already tracked")
	}
	if item.Stability() >= s.masteryThreshold {
		item.MarkMastered(s.masteryThreshold, item.LastReviewed())
	}
	s.items[key] = item
	return nil
}

// Item looks up a tracked item by identifier
func (s *Scheduler) Item(id valueobjects.ItemID) (*entities.Item, error) {
	item, exists := s.items[id.String()]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("item " + id.String())
	}
	return item, nil
}

// Items returns all tracked items ordered by identifier
func (s *Scheduler) Items() []*entities.Item {
	out := make([]*entities.Item, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a].ID().Less(out[b].ID())
	})
	return out
}

// Len returns the number of tracked items
func (s *Scheduler) Len() int {
	return len(s.items)
}

// SelectNext picks the item to present at the given time. Strictly due items
// win; when nothing is due, the pool degrades gracefully to all non-mastered
// items. Ties break on earliest due time, then on identifier, so repeated
// calls without an intervening review return the same item.
func (s *Scheduler) SelectNext(now time.Time) (valueobjects.ItemID, error) {
	var candidates []*entities.Item
	for _, item := range s.items {
		if !item.IsMastered() && item.IsDueAt(now) {
			candidates = append(candidates, item)
		}
	}
	if len(candidates) == 0 {
		for _, item := range s.items {
			if !item.IsMastered() {
				candidates = append(candidates, item)
			}
		}
	}
	if len(candidates) == 0 {
		return valueobjects.ItemID{}, pkgerrors.NewNotFoundError("reviewable item")
	}

	sort.Slice(candidates, func(a, b int) bool {
		if !candidates[a].NextReview().Equal(candidates[b].NextReview()) {
			return candidates[a].NextReview().Before(candidates[b].NextReview())
		}
		return candidates[a].ID().Less(candidates[b].ID())
	})

	selected := candidates[0]
	if err := selected.MarkUnderReview(); err != nil {
		return valueobjects.ItemID{}, err
	}
	return selected.ID(), nil
}

// RecordReview applies grade feedback to the identified item: retrievability
// at review time drives the stability and difficulty updates, and the new
// stability, as a fractional-day offset, becomes the next due time.
func (s *Scheduler) RecordReview(id valueobjects.ItemID, grade srs.Grade, now time.Time) (ReviewResult, error) {
	if !grade.IsValid() {
		return ReviewResult{}, pkgerrors.NewInvalidGradeError(grade.String())
	}

	item, err := s.Item(id)
	if err != nil {
		return ReviewResult{}, err
	}

	elapsed := item.ElapsedDays(now)
	retrievability, err := s.model.Retrievability(elapsed, item.Stability())
	if err != nil {
		return ReviewResult{}, err
	}

	stability, err := s.model.UpdateStability(item.Stability(), item.Difficulty(), retrievability, grade)
	if err != nil {
		return ReviewResult{}, err
	}
	difficulty, err := s.model.UpdateDifficulty(item.Difficulty(), grade)
	if err != nil {
		return ReviewResult{}, err
	}

	nextReview := now.Add(daysToDuration(stability))
	if err := item.ApplyReview(grade, stability, difficulty, now, nextReview); err != nil {
		return ReviewResult{}, err
	}

	mastered := stability >= s.masteryThreshold
	if mastered {
		item.MarkMastered(s.masteryThreshold, now)
	}

	predicted, err := s.model.PredictRecall(stability, difficulty, retrievability)
	if err != nil {
		return ReviewResult{}, err
	}

	return ReviewResult{
		Record:          item.ToRecord(),
		Retrievability:  retrievability,
		PredictedRecall: predicted,
		Mastered:        mastered,
	}, nil
}

// IsSessionComplete reports whether every tracked item's stability reached
// the mastery threshold.
func (s *Scheduler) IsSessionComplete() bool {
	for _, item := range s.items {
		if item.Stability() < s.masteryThreshold {
			return false
		}
	}
	return true
}

// daysToDuration converts fractional days into a Duration. Stability is a
// real number of days; sub-day precision keeps short sessions able to
// re-trigger items within one run.
func daysToDuration(days float64) time.Duration {
	return time.Duration(days * 24 * float64(time.Hour))
}
