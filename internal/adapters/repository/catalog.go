package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/okian/laurel/internal/domain/model"
)

// Catalog reads and seeds the persisted achievement catalog.
type Catalog struct {
	db *gorm.DB
}

// NewCatalog creates a catalog store over the given database.
func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

// ActiveDefinitions returns all catalog rows, oldest first. Rows are
// reference data; evaluation never mutates them.
func (c *Catalog) ActiveDefinitions(ctx context.Context) ([]model.Achievement, error) {
	var definitions []model.Achievement
	err := c.db.WithContext(ctx).Order("id ASC").Find(&definitions).Error
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return definitions, nil
}

// Seed inserts catalog rows that are not present yet, keyed by code.
// Existing rows are left untouched, so titles edited in storage survive
// restarts.
func (c *Catalog) Seed(ctx context.Context, definitions []model.Achievement) error {
	if len(definitions) == 0 {
		return nil
	}

	err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(&definitions).Error
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	return nil
}
