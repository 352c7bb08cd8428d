package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyforge/domain/core/valueobjects"
	"studyforge/domain/srs"
	pkgerrors "studyforge/pkg/errors"
)

func mustItemID(t *testing.T, tag string) valueobjects.ItemID {
	t.Helper()
	id, err := valueobjects.NewItemID(tag)
	require.NoError(t, err)
	return id
}

func TestNewItemSeedsState(t *testing.T) {
	now := time.Now()
	item, err := NewItem(mustItemID(t, "kinematics"), now)
	require.NoError(t, err)

	assert.Equal(t, SeedStability, item.Stability())
	assert.Equal(t, SeedDifficulty, item.Difficulty())
	assert.Equal(t, StatusNew, item.Status())
	assert.Equal(t, 1, item.Version())
	assert.True(t, item.IsDueAt(now), "a fresh item is immediately reviewable")

	evts := item.GetUncommittedEvents()
	require.Len(t, evts, 1)
	assert.Equal(t, "item.created", evts[0].GetEventType())
}

func TestNewItemRequiresID(t *testing.T) {
	_, err := NewItem(valueobjects.ItemID{}, time.Now())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestReconstructItem(t *testing.T) {
	now := time.Now()
	rec := Record{
		ID:           "energy",
		Stability:    2.5,
		Difficulty:   4.0,
		LastReviewed: now.Add(-time.Hour),
		NextReview:   now.Add(time.Hour),
	}

	item, err := ReconstructItem(rec)
	require.NoError(t, err)
	assert.Equal(t, "energy", item.ID().String())
	assert.Equal(t, 2.5, item.Stability())
	assert.Equal(t, StatusDue, item.Status())
	assert.Empty(t, item.GetUncommittedEvents(), "restored items carry no pending events")
}

func TestReconstructItemRejectsCorruptRecords(t *testing.T) {
	now := time.Now()

	_, err := ReconstructItem(Record{ID: "", Stability: 1, Difficulty: 5, LastReviewed: now, NextReview: now})
	assert.Error(t, err)

	_, err = ReconstructItem(Record{ID: "energy", Stability: 0, Difficulty: 5, LastReviewed: now, NextReview: now})
	assert.Error(t, err)

	_, err = ReconstructItem(Record{ID: "energy", Stability: 1, Difficulty: 12, LastReviewed: now, NextReview: now})
	assert.Error(t, err)

	_, err = ReconstructItem(Record{ID: "energy", Stability: 1, Difficulty: 5, LastReviewed: now, NextReview: now.Add(-time.Hour)})
	assert.Error(t, err)
}

func TestElapsedDays(t *testing.T) {
	now := time.Now()
	item, err := NewItem(mustItemID(t, "dynamics"), now)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, item.ElapsedDays(now.Add(24*time.Hour)), 1e-9)
	assert.InDelta(t, 0.5, item.ElapsedDays(now.Add(12*time.Hour)), 1e-9)

	// Clock skew floors at zero instead of going negative.
	assert.Equal(t, 0.0, item.ElapsedDays(now.Add(-time.Minute)))
}

func TestApplyReviewTransitions(t *testing.T) {
	now := time.Now()
	item, err := NewItem(mustItemID(t, "kinematics"), now)
	require.NoError(t, err)
	item.MarkEventsAsCommitted()

	require.NoError(t, item.MarkUnderReview())
	assert.Equal(t, StatusUnderReview, item.Status())

	reviewedAt := now.Add(time.Minute)
	nextReview := reviewedAt.Add(6 * time.Hour)
	require.NoError(t, item.ApplyReview(srs.Good, 0.25, 4.6, reviewedAt, nextReview))

	assert.Equal(t, 0.25, item.Stability())
	assert.Equal(t, 4.6, item.Difficulty())
	assert.Equal(t, reviewedAt, item.LastReviewed())
	assert.Equal(t, nextReview, item.NextReview())
	assert.Equal(t, StatusDue, item.Status())
	assert.Equal(t, 2, item.Version())

	evts := item.GetUncommittedEvents()
	require.Len(t, evts, 1)
	assert.Equal(t, "item.review_recorded", evts[0].GetEventType())

	item.MarkEventsAsCommitted()
	assert.Empty(t, item.GetUncommittedEvents())
}

func TestApplyReviewRejectsBadState(t *testing.T) {
	now := time.Now()
	item, err := NewItem(mustItemID(t, "energy"), now)
	require.NoError(t, err)

	err = item.ApplyReview(srs.Grade(0), 1, 5, now, now)
	assert.True(t, pkgerrors.IsInvalidGrade(err))

	err = item.ApplyReview(srs.Good, 0, 5, now, now)
	assert.True(t, pkgerrors.IsDomain(err))

	err = item.ApplyReview(srs.Good, 1, 11, now, now)
	assert.True(t, pkgerrors.IsDomain(err))

	err = item.ApplyReview(srs.Good, 1, 5, now, now.Add(-time.Second))
	assert.True(t, pkgerrors.IsDomain(err))

	// Failed reviews leave the entity untouched.
	assert.Equal(t, SeedStability, item.Stability())
	assert.Equal(t, 1, item.Version())
}

func TestMarkMasteredIsTerminal(t *testing.T) {
	now := time.Now()
	item, err := NewItem(mustItemID(t, "dynamics"), now)
	require.NoError(t, err)
	item.MarkEventsAsCommitted()

	item.MarkMastered(0.1, now)
	assert.True(t, item.IsMastered())
	require.Len(t, item.GetUncommittedEvents(), 1)

	// Idempotent: no duplicate event on a second call.
	item.MarkMastered(0.1, now)
	assert.Len(t, item.GetUncommittedEvents(), 1)

	err = item.MarkUnderReview()
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
}

func TestToRecordRoundTrip(t *testing.T) {
	now := time.Now()
	item, err := NewItem(mustItemID(t, "circular_motion"), now)
	require.NoError(t, err)

	rec := item.ToRecord()
	assert.Equal(t, "circular_motion", rec.ID)
	assert.Equal(t, SeedStability, rec.Stability)

	restored, err := ReconstructItem(rec)
	require.NoError(t, err)
	assert.Equal(t, item.Stability(), restored.Stability())
	assert.Equal(t, item.Difficulty(), restored.Difficulty())
	assert.True(t, item.ID().Equals(restored.ID()))
}
