package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"studyforge/domain/core/entities"
	"studyforge/domain/core/valueobjects"
	"studyforge/domain/srs"
	pkgerrors "studyforge/pkg/errors"
)

func newTestRepository(t *testing.T) *ItemRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.json")
	return NewItemRepository(path, zap.NewNop())
}

func newTestItem(t *testing.T, tag string) *entities.Item {
	t.Helper()
	id, err := valueobjects.NewItemID(tag)
	require.NoError(t, err)
	item, err := entities.NewItem(id, time.Now())
	require.NoError(t, err)
	return item
}

func TestFindAllMissingFile(t *testing.T) {
	repo := newTestRepository(t)

	items, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSaveAndFindByID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	item := newTestItem(t, "kinematics")
	require.NoError(t, repo.Save(ctx, item))

	loaded, err := repo.FindByID(ctx, item.ID())
	require.NoError(t, err)
	assert.True(t, item.ID().Equals(loaded.ID()))
	assert.Equal(t, item.Stability(), loaded.Stability())
	assert.Equal(t, item.Difficulty(), loaded.Difficulty())
}

func TestFindByIDNotFound(t *testing.T) {
	repo := newTestRepository(t)

	id, err := valueobjects.NewItemID("unknown")
	require.NoError(t, err)
	_, err = repo.FindByID(context.Background(), id)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestSavePreservesOtherItems(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestItem(t, "kinematics")))
	require.NoError(t, repo.Save(ctx, newTestItem(t, "dynamics")))

	// Updating one item must not drop the other.
	updated := newTestItem(t, "kinematics")
	require.NoError(t, updated.ApplyReview(srs.Good, 0.5, 4.6, time.Now(), time.Now().Add(12*time.Hour)))
	require.NoError(t, repo.Save(ctx, updated))

	items, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Records sort by identifier on disk.
	assert.Equal(t, "dynamics", items[0].ID().String())
	assert.Equal(t, "kinematics", items[1].ID().String())
	assert.Equal(t, 0.5, items[1].Stability())
}

func TestSaveAllReplacesDocument(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestItem(t, "energy")))

	pool := []*entities.Item{
		newTestItem(t, "kinematics"),
		newTestItem(t, "dynamics"),
	}
	require.NoError(t, repo.SaveAll(ctx, pool))

	items, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "dynamics", items[0].ID().String())
	assert.Equal(t, "kinematics", items[1].ID().String())
}

func TestFindAllSkipsCorruptRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	repo := NewItemRepository(path, zap.NewNop())

	now := time.Now().UTC()
	records := []entities.Record{
		{ID: "kinematics", Stability: 1.5, Difficulty: 5, LastReviewed: now, NextReview: now},
		{ID: "broken", Stability: -1, Difficulty: 5, LastReviewed: now, NextReview: now},
	}
	data, err := json.Marshal(records)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	items, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "kinematics", items[0].ID().String())
}

func TestReadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	repo := NewItemRepository(path, zap.NewNop())
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := repo.FindAll(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeDatabase))
}

func TestEmptyFileReadsAsEmptyPool(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	repo := NewItemRepository(path, zap.NewNop())
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	items, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}
