package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyforge/domain/core/entities"
	"studyforge/domain/core/valueobjects"
	"studyforge/domain/srs"
	pkgerrors "studyforge/pkg/errors"
)

func newTestScheduler(t *testing.T, sessionLength time.Duration) *Scheduler {
	t.Helper()
	model, err := srs.NewModel(srs.DefaultParameters())
	require.NoError(t, err)
	sched, err := NewScheduler(model, sessionLength)
	require.NoError(t, err)
	return sched
}

func mustItemID(t *testing.T, tag string) valueobjects.ItemID {
	t.Helper()
	id, err := valueobjects.NewItemID(tag)
	require.NoError(t, err)
	return id
}

func addFreshItem(t *testing.T, sched *Scheduler, tag string, now time.Time) *entities.Item {
	t.Helper()
	item, err := entities.NewItem(mustItemID(t, tag), now)
	require.NoError(t, err)
	require.NoError(t, sched.Add(item))
	return item
}

func TestMasteryThresholdDays(t *testing.T) {
	// Short sessions floor at a tenth of a day.
	assert.Equal(t, 0.1, MasteryThresholdDays(25*time.Minute))
	assert.Equal(t, 0.1, MasteryThresholdDays(time.Second))

	// Longer sessions convert directly to days.
	assert.InDelta(t, 2.0, MasteryThresholdDays(48*time.Hour), 1e-12)
}

func TestNewSchedulerRequiresModel(t *testing.T) {
	_, err := NewScheduler(nil, 25*time.Minute)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestAddRejectsDuplicates(t *testing.T) {
	sched := newTestScheduler(t, 25*time.Minute)
	now := time.Now()

	addFreshItem(t, sched, "kinematics", now)

	dup, err := entities.NewItem(mustItemID(t, "kinematics"), now)
	require.NoError(t, err)
	err = sched.Add(dup)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Equal(t, 1, sched.Len())
}

func TestAddMarksAlreadyStableItemsMastered(t *testing.T) {
	sched := newTestScheduler(t, 25*time.Minute)
	now := time.Now()

	item, err := entities.ReconstructItem(entities.Record{
		ID:           "dynamics",
		Stability:    5.0, // far above the 0.1 day threshold
		Difficulty:   4.0,
		LastReviewed: now.Add(-time.Hour),
		NextReview:   now.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, sched.Add(item))

	assert.True(t, item.IsMastered())
	assert.True(t, sched.IsSessionComplete())
}

func TestSelectNextPrefersDueItems(t *testing.T) {
	sched := newTestScheduler(t, 25*time.Minute)
	now := time.Now()

	// "energy" is due now, "dynamics" only tomorrow.
	addFreshItem(t, sched, "energy", now)
	later, err := entities.ReconstructItem(entities.Record{
		ID:           "dynamics",
		Stability:    0.05,
		Difficulty:   5.0,
		LastReviewed: now,
		NextReview:   now.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, sched.Add(later))

	id, err := sched.SelectNext(now)
	require.NoError(t, err)
	assert.Equal(t, "energy", id.String())
}

func TestSelectNextDegradesToNonMastered(t *testing.T) {
	sched := newTestScheduler(t, 25*time.Minute)
	now := time.Now()

	// Nothing is due yet, but the pool must still produce a candidate.
	item, err := entities.ReconstructItem(entities.Record{
		ID:           "kinematics",
		Stability:    0.05,
		Difficulty:   5.0,
		LastReviewed: now,
		NextReview:   now.Add(time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, sched.Add(item))

	id, err := sched.SelectNext(now)
	require.NoError(t, err)
	assert.Equal(t, "kinematics", id.String())
}

func TestSelectNextTieBreaksOnIdentifier(t *testing.T) {
	sched := newTestScheduler(t, 25*time.Minute)
	now := time.Now()

	// All three share the same due time.
	addFreshItem(t, sched, "kinematics", now)
	addFreshItem(t, sched, "dynamics", now)
	addFreshItem(t, sched, "energy", now)

	id, err := sched.SelectNext(now)
	require.NoError(t, err)
	assert.Equal(t, "dynamics", id.String())

	// Without an intervening review the selection is stable.
	id, err = sched.SelectNext(now)
	require.NoError(t, err)
	assert.Equal(t, "dynamics", id.String())
}

func TestSelectNextEmptyPool(t *testing.T) {
	sched := newTestScheduler(t, 25*time.Minute)

	_, err := sched.SelectNext(time.Now())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestSelectNextSkipsMasteredItems(t *testing.T) {
	sched := newTestScheduler(t, 25*time.Minute)
	now := time.Now()

	item := addFreshItem(t, sched, "energy", now)
	item.MarkMastered(0.1, now)

	_, err := sched.SelectNext(now)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestRecordReviewUnknownItem(t *testing.T) {
	sched := newTestScheduler(t, 25*time.Minute)

	_, err := sched.RecordReview(mustItemID(t, "unknown"), srs.Good, time.Now())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestRecordReviewRejectsInvalidGrade(t *testing.T) {
	sched := newTestScheduler(t, 25*time.Minute)
	now := time.Now()
	addFreshItem(t, sched, "energy", now)

	_, err := sched.RecordReview(mustItemID(t, "energy"), srs.Grade(0), now)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsInvalidGrade(err))
}

func TestRecordReviewUpdatesStateAndDueTime(t *testing.T) {
	sched := newTestScheduler(t, 25*time.Minute)
	start := time.Now()

	item := addFreshItem(t, sched, "kinematics", start)
	reviewedAt := start.Add(24 * time.Hour)

	result, err := sched.RecordReview(item.ID(), srs.Hard, reviewedAt)
	require.NoError(t, err)

	// The seed state reviewed a day later: retrievability collapses and the
	// growth factor explodes, jumping stability far past the threshold.
	assert.InDelta(t, 1.0/10001.0, result.Retrievability, 1e-12)
	assert.Greater(t, result.Record.Stability, 1.0)
	assert.InDelta(t, 4.78, result.Record.Difficulty, 1e-9)
	assert.True(t, result.Mastered)

	wantDue := reviewedAt.Add(time.Duration(result.Record.Stability * 24 * float64(time.Hour)))
	assert.WithinDuration(t, wantDue, result.Record.NextReview, time.Millisecond)

	assert.True(t, item.IsMastered())
	assert.Equal(t, 2, item.Version())
}

func TestRecordReviewLapseKeepsItemInRotation(t *testing.T) {
	sched := newTestScheduler(t, 48*time.Hour)
	now := time.Now()

	item, err := entities.ReconstructItem(entities.Record{
		ID:           "dynamics",
		Stability:    1.0,
		Difficulty:   4.0,
		LastReviewed: now.Add(-12 * time.Hour),
		NextReview:   now,
	})
	require.NoError(t, err)
	require.NoError(t, sched.Add(item))

	result, err := sched.RecordReview(item.ID(), srs.Again, now)
	require.NoError(t, err)

	// min(1, 1 * 4^-1 * 1) = 0.25: a lapse never increases stability.
	assert.InDelta(t, 0.25, result.Record.Stability, 1e-12)
	assert.False(t, result.Mastered)
	assert.False(t, sched.IsSessionComplete())

	// The shortened stability produces a nearer due time, sub-day precision.
	assert.WithinDuration(t, now.Add(6*time.Hour), result.Record.NextReview, time.Second)
}

func TestSessionCompletionOverThreeItems(t *testing.T) {
	sched := newTestScheduler(t, 25*time.Minute)
	start := time.Now()

	for _, tag := range []string{"kinematics", "dynamics", "energy"} {
		addFreshItem(t, sched, tag, start)
	}
	assert.False(t, sched.IsSessionComplete())

	// Review every item once a minute apart; fresh seeds grow past the
	// 0.1 day threshold on any successful grade.
	now := start
	for i := 0; i < 3; i++ {
		now = now.Add(time.Minute)
		id, err := sched.SelectNext(now)
		require.NoError(t, err)

		result, err := sched.RecordReview(id, srs.Good, now)
		require.NoError(t, err)
		assert.True(t, result.Mastered, "item %s", id)
	}

	assert.True(t, sched.IsSessionComplete())

	_, err := sched.SelectNext(now)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestItemsSortedByIdentifier(t *testing.T) {
	sched := newTestScheduler(t, 25*time.Minute)
	now := time.Now()

	addFreshItem(t, sched, "kinematics", now)
	addFreshItem(t, sched, "circular_motion", now)
	addFreshItem(t, sched, "energy", now)

	items := sched.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "circular_motion", items[0].ID().String())
	assert.Equal(t, "energy", items[1].ID().String())
	assert.Equal(t, "kinematics", items[2].ID().String())
}
