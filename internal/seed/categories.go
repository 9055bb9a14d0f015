package seed

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/natacion/clubmanager/internal/models"
)

// StandardCategories are the federation age bands.
var StandardCategories = []models.Category{
	{Name: "Benjamín", YearsMin: 6, YearsMax: 10},
	{Name: "Alevín", YearsMin: 11, YearsMax: 12},
	{Name: "Infantil", YearsMin: 13, YearsMax: 14},
	{Name: "Junior", YearsMin: 15, YearsMax: 18},
	{Name: "Senior", YearsMin: 19, YearsMax: 99},
}

// Categories makes sure every standard category exists and returns them in
// standard order. Existing rows keep their stored age range.
func Categories(gdb *gorm.DB) ([]models.Category, error) {
	out := make([]models.Category, 0, len(StandardCategories))
	err := gdb.Transaction(func(tx *gorm.DB) error {
		for _, c := range StandardCategories {
			var cat models.Category
			if err := tx.Where(models.Category{Name: c.Name}).
				Attrs(models.Category{YearsMin: c.YearsMin, YearsMax: c.YearsMax}).
				FirstOrCreate(&cat).Error; err != nil {
				return fmt.Errorf("category %s: %w", c.Name, err)
			}
			out = append(out, cat)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
