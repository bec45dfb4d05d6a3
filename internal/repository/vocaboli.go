package repository

import (
	"context"
	"fmt"

	"github.com/vocaboli/api/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// upsertColumns are overwritten when a row with the same parola exists.
var upsertColumns = []string{"definizione", "pos", "espressione", "sinonimi", "contrari", "note"}

type VocaboliRepository struct {
	db *gorm.DB
}

func NewVocaboliRepository(db *gorm.DB) *VocaboliRepository {
	return &VocaboliRepository{db: db}
}

// ListAll returns every entry ordered by word.
func (r *VocaboliRepository) ListAll(ctx context.Context) ([]model.Vocabolo, error) {
	var rows []model.Vocabolo
	if err := r.db.WithContext(ctx).Order("parola ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list vocaboli: %w", err)
	}
	return rows, nil
}

// UpsertBatch writes all rows in a single transaction. A row whose parola
// already exists has every other column replaced. Any failure rolls back the
// whole batch and no count is returned.
func (r *VocaboliRepository) UpsertBatch(ctx context.Context, rows []model.Vocabolo) (int, error) {
	count := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			result := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "parola"}},
				DoUpdates: clause.AssignmentColumns(upsertColumns),
			}).Create(&rows[i])
			if result.Error != nil {
				return fmt.Errorf("upsert %q: %w", rows[i].Parola, result.Error)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Count returns the number of stored entries.
func (r *VocaboliRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Vocabolo{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count vocaboli: %w", err)
	}
	return n, nil
}
