// Package jsonfile persists item records as a single JSON document on disk,
// the format the original study sessions saved between runs.
package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"studyforge/application/ports"
	"studyforge/domain/core/entities"
	"studyforge/domain/core/valueobjects"
	pkgerrors "studyforge/pkg/errors"

	"go.uber.org/zap"
)

// ItemRepository implements ports.ItemRepository on a JSON file
type ItemRepository struct {
	path   string
	logger *zap.Logger
}

// NewItemRepository creates a repository backed by the given file path.
// A missing file reads as an empty pool.
func NewItemRepository(path string, logger *zap.Logger) *ItemRepository {
	return &ItemRepository{path: path, logger: logger}
}

var _ ports.ItemRepository = (*ItemRepository)(nil)

// FindByID loads a single item
func (r *ItemRepository) FindByID(ctx context.Context, id valueobjects.ItemID) (*entities.Item, error) {
	records, err := r.read()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID == id.String() {
			return entities.ReconstructItem(rec)
		}
	}
	return nil, pkgerrors.NewNotFoundError("item " + id.String())
}

// FindAll loads every persisted item
func (r *ItemRepository) FindAll(ctx context.Context) ([]*entities.Item, error) {
	records, err := r.read()
	if err != nil {
		return nil, err
	}

	items := make([]*entities.Item, 0, len(records))
	for _, rec := range records {
		item, err := entities.ReconstructItem(rec)
		if err != nil {
			// A corrupt record is skipped, not fatal; the session can
			// proceed with the remaining pool.
			r.logger.Warn("Skipping corrupt item record",
				zap.String("id", rec.ID),
				zap.Error(err),
			)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Save persists one item, preserving the others
func (r *ItemRepository) Save(ctx context.Context, item *entities.Item) error {
	records, err := r.read()
	if err != nil {
		return err
	}

	rec := item.ToRecord()
	replaced := false
	for i := range records {
		if records[i].ID == rec.ID {
			records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, rec)
	}

	return r.write(records)
}

// SaveAll persists the full pool in one write
func (r *ItemRepository) SaveAll(ctx context.Context, items []*entities.Item) error {
	records := make([]entities.Record, 0, len(items))
	for _, item := range items {
		records = append(records, item.ToRecord())
	}
	return r.write(records)
}

// read loads the record list from disk
func (r *ItemRepository) read() ([]entities.Record, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, pkgerrors.NewDatabaseError("read", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var records []entities.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, pkgerrors.NewDatabaseError("decode", err)
	}
	return records, nil
}

// write replaces the on-disk document atomically via a temp-file rename
func (r *ItemRepository) write(records []entities.Record) error {
	sort.Slice(records, func(a, b int) bool { return records[a].ID < records[b].ID })

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return pkgerrors.NewDatabaseError("encode", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".studyforge-*")
	if err != nil {
		return pkgerrors.NewDatabaseError("write", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return pkgerrors.NewDatabaseError("write", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return pkgerrors.NewDatabaseError("write", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return pkgerrors.NewDatabaseError("write", err)
	}
	return nil
}
