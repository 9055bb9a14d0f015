package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/natacion/clubmanager/internal/metrics"
	"github.com/natacion/clubmanager/internal/models"
)

// RecordResult fills in the time and position of a placeholder result.
func RecordResult(gdb *gorm.DB, resultID uint, seconds float64, position int) (*models.Result, error) {
	if seconds < 0 {
		return nil, rejectf("A result time cannot be negative (got %.2f).", seconds)
	}
	if position < 0 {
		return nil, rejectf("A result position cannot be negative (got %d).", position)
	}

	var res models.Result
	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&res, resultID).Error; err != nil {
			return fmt.Errorf("load result %d: %w", resultID, err)
		}
		res.Time = seconds
		res.Position = position
		return tx.Model(&res).Select("Time", "Position").Updates(&res).Error
	})
	if err != nil {
		return nil, err
	}
	InvalidateClassification()
	metrics.RecordResult()
	return &res, nil
}
