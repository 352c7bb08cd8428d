package services

import (
	"context"
	"sync"
	"time"

	"studyforge/application/ports"
	"studyforge/domain/core/entities"
	"studyforge/domain/core/valueobjects"
	"studyforge/domain/questions"
	"studyforge/domain/scheduler"
	"studyforge/domain/srs"
	pkgerrors "studyforge/pkg/errors"
	"studyforge/pkg/observability"

	"go.uber.org/zap"
)

// NextQuestion is the prompt handed to the learner. The expected answer stays
// server-side; callers verify through CheckAnswer.
type NextQuestion struct {
	ItemID        string   `json:"item_id"`
	Category      string   `json:"category"`
	Question      string   `json:"question"`
	SolutionSteps []string `json:"solution_steps"`
}

// ItemStatus is the reporting view of one tracked item
type ItemStatus struct {
	ItemID          string    `json:"item_id"`
	Stability       float64   `json:"stability"`
	Difficulty      float64   `json:"difficulty"`
	LastReviewed    time.Time `json:"last_reviewed"`
	NextReview      time.Time `json:"next_review"`
	Status          string    `json:"status"`
	Retrievability  float64   `json:"retrievability"`
	PredictedRecall float64   `json:"predicted_recall"`
}

// SessionStatus is the reporting view of the whole session
type SessionStatus struct {
	Complete         bool         `json:"complete"`
	MasteryThreshold float64      `json:"mastery_threshold_days"`
	Items            []ItemStatus `json:"items"`
}

// AnswerCheck reports an answer verification against the pending problem
type AnswerCheck struct {
	ItemID   string  `json:"item_id"`
	Correct  bool    `json:"correct"`
	Expected float64 `json:"expected"`
}

// ReviewOutcome is returned after a grade is recorded
type ReviewOutcome struct {
	ItemID          string    `json:"item_id"`
	Grade           string    `json:"grade"`
	Stability       float64   `json:"stability"`
	Difficulty      float64   `json:"difficulty"`
	NextReview      time.Time `json:"next_review"`
	Retrievability  float64   `json:"retrievability"`
	PredictedRecall float64   `json:"predicted_recall"`
	Mastered        bool      `json:"mastered"`
	SessionComplete bool      `json:"session_complete"`
}

// StudyService orchestrates a study session: it owns the scheduler's item
// pool, pairs selections with generated questions, routes grades through the
// scheduler and persists the updated state. The mutex serializes reviews;
// the scheduler itself assumes one outstanding review at a time.
type StudyService struct {
	mu        sync.Mutex
	sched     *scheduler.Scheduler
	model     *srs.Model
	repo      ports.ItemRepository
	publisher ports.EventPublisher
	generator *questions.Generator
	metrics   *observability.Metrics
	logger    *zap.Logger

	// pending maps item id to the last generated problem, so an answer can
	// be checked against the question that was actually asked.
	pending map[string]questions.Problem
}

// NewStudyService wires a service around an empty scheduler pool
func NewStudyService(
	model *srs.Model,
	sessionLength time.Duration,
	repo ports.ItemRepository,
	publisher ports.EventPublisher,
	generator *questions.Generator,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*StudyService, error) {
	sched, err := scheduler.NewScheduler(model, sessionLength)
	if err != nil {
		return nil, err
	}
	return &StudyService{
		sched:     sched,
		model:     model,
		repo:      repo,
		publisher: publisher,
		generator: generator,
		metrics:   metrics,
		logger:    logger,
		pending:   make(map[string]questions.Problem),
	}, nil
}

// Start loads persisted items and seeds fresh ones for any requested
// category that has no record yet, exactly as the original session start
// restores or introduces items.
func (s *StudyService) Start(ctx context.Context, categories []string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	persisted, err := s.repo.FindAll(ctx)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to load persisted items")
	}

	known := make(map[string]*entities.Item, len(persisted))
	for _, item := range persisted {
		known[item.ID().String()] = item
	}

	for _, category := range categories {
		id, err := valueobjects.NewItemID(category)
		if err != nil {
			return pkgerrors.NewValidationError("invalid category: " + err.Error())
		}

		item, exists := known[id.String()]
		if !exists {
			item, err = entities.NewItem(id, now)
			if err != nil {
				return err
			}
			if err := s.repo.Save(ctx, item); err != nil {
				return err
			}
			s.publishEvents(ctx, item)
		}

		if err := s.sched.Add(item); err != nil {
			return err
		}
	}

	s.logger.Info("Study session started",
		zap.Int("items", s.sched.Len()),
		zap.Float64("masteryThresholdDays", s.sched.MasteryThreshold()),
	)

	return nil
}

// CreateItem introduces a new category into the pool mid-session
func (s *StudyService) CreateItem(ctx context.Context, category string, now time.Time) (entities.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := valueobjects.NewItemID(category)
	if err != nil {
		return entities.Record{}, pkgerrors.NewValidationError(err.Error())
	}

	item, err := entities.NewItem(id, now)
	if err != nil {
		return entities.Record{}, err
	}
	if err := s.sched.Add(item); err != nil {
		return entities.Record{}, err
	}
	if err := s.repo.Save(ctx, item); err != nil {
		return entities.Record{}, err
	}
	s.publishEvents(ctx, item)

	return item.ToRecord(), nil
}

// NextQuestion selects the item to present and generates its problem
func (s *StudyService) NextQuestion(ctx context.Context, now time.Time) (NextQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.sched.SelectNext(now)
	if err != nil {
		return NextQuestion{}, err
	}

	problem, err := s.generator.Generate(id.String())
	if err != nil {
		return NextQuestion{}, err
	}
	s.pending[id.String()] = problem

	return NextQuestion{
		ItemID:        id.String(),
		Category:      problem.Category,
		Question:      problem.Question,
		SolutionSteps: problem.SolutionSteps,
	}, nil
}

// CheckAnswer verifies an answer against the pending problem for the item.
// It returns whether the answer was within tolerance and the expected value.
func (s *StudyService) CheckAnswer(itemID string, answer float64) (bool, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	problem, exists := s.pending[itemID]
	if !exists {
		return false, 0, pkgerrors.NewNotFoundError("pending question for item " + itemID)
	}
	return problem.IsCorrect(answer), problem.Answer, nil
}

// RecordReview applies the grade to the item and persists the result
func (s *StudyService) RecordReview(ctx context.Context, itemID, gradeName string, now time.Time) (ReviewOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	grade, err := srs.ParseGrade(gradeName)
	if err != nil {
		return ReviewOutcome{}, err
	}
	id, err := valueobjects.NewItemID(itemID)
	if err != nil {
		return ReviewOutcome{}, pkgerrors.NewValidationError(err.Error())
	}

	result, err := s.sched.RecordReview(id, grade, now)
	if err != nil {
		return ReviewOutcome{}, err
	}

	item, err := s.sched.Item(id)
	if err != nil {
		return ReviewOutcome{}, err
	}
	if err := s.repo.Save(ctx, item); err != nil {
		return ReviewOutcome{}, err
	}
	s.publishEvents(ctx, item)
	s.metrics.ReviewRecorded(ctx, grade.String(), result.Record.Stability)
	delete(s.pending, itemID)

	complete := s.sched.IsSessionComplete()
	if complete {
		s.metrics.SessionCompleted(ctx)
	}

	s.logger.Info("Review recorded",
		zap.String("itemID", itemID),
		zap.String("grade", grade.String()),
		zap.Float64("stability", result.Record.Stability),
		zap.Float64("difficulty", result.Record.Difficulty),
		zap.Time("nextReview", result.Record.NextReview),
		zap.Bool("mastered", result.Mastered),
	)

	return ReviewOutcome{
		ItemID:          itemID,
		Grade:           grade.String(),
		Stability:       result.Record.Stability,
		Difficulty:      result.Record.Difficulty,
		NextReview:      result.Record.NextReview,
		Retrievability:  result.Retrievability,
		PredictedRecall: result.PredictedRecall,
		Mastered:        result.Mastered,
		SessionComplete: complete,
	}, nil
}

// Item returns the reporting view of a single tracked item
func (s *StudyService) Item(itemID string, now time.Time) (ItemStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := valueobjects.NewItemID(itemID)
	if err != nil {
		return ItemStatus{}, pkgerrors.NewValidationError(err.Error())
	}
	item, err := s.sched.Item(id)
	if err != nil {
		return ItemStatus{}, err
	}
	return s.itemStatus(item, now), nil
}

// Status reports the state of the whole session
func (s *StudyService) Status(now time.Time) SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.sched.Items()
	statuses := make([]ItemStatus, 0, len(items))
	for _, item := range items {
		statuses = append(statuses, s.itemStatus(item, now))
	}

	return SessionStatus{
		Complete:         s.sched.IsSessionComplete(),
		MasteryThreshold: s.sched.MasteryThreshold(),
		Items:            statuses,
	}
}

// IsSessionComplete reports whether every item reached the mastery threshold
func (s *StudyService) IsSessionComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched.IsSessionComplete()
}

// itemStatus builds the reporting view; recall estimates are best-effort
// and omitted when the model rejects the inputs.
func (s *StudyService) itemStatus(item *entities.Item, now time.Time) ItemStatus {
	status := ItemStatus{
		ItemID:       item.ID().String(),
		Stability:    item.Stability(),
		Difficulty:   item.Difficulty(),
		LastReviewed: item.LastReviewed(),
		NextReview:   item.NextReview(),
		Status:       string(item.Status()),
	}

	r, err := s.model.Retrievability(item.ElapsedDays(now), item.Stability())
	if err != nil {
		return status
	}
	status.Retrievability = r

	if p, err := s.model.PredictRecall(item.Stability(), item.Difficulty(), r); err == nil {
		status.PredictedRecall = p
	}
	return status
}

// publishEvents drains the item's uncommitted events to the publisher.
// Publishing is after-the-fact notification; failures are logged and do not
// roll back the review.
func (s *StudyService) publishEvents(ctx context.Context, item *entities.Item) {
	evts := item.GetUncommittedEvents()
	if len(evts) == 0 {
		return
	}
	if err := s.publisher.PublishBatch(ctx, evts); err != nil {
		s.logger.Warn("Failed to publish domain events",
			zap.String("itemID", item.ID().String()),
			zap.Int("count", len(evts)),
			zap.Error(err),
		)
	}
	item.MarkEventsAsCommitted()
}
