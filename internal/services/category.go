package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/natacion/clubmanager/internal/models"
)

// ComputeAge is currentYear-birthYear, or 0 when the birth year is unknown.
func ComputeAge(birthYear, currentYear int) int {
	if birthYear == 0 {
		return 0
	}
	return currentYear - birthYear
}

// ResolveCategory returns the first category whose range holds age.
// Overlapping ranges resolve to the earliest one in cats.
func ResolveCategory(age int, cats []models.Category) *models.Category {
	for i := range cats {
		if cats[i].Contains(age) {
			c := cats[i]
			return &c
		}
	}
	return nil
}

// ValidateCategory rejects nameless categories and inverted age ranges.
func ValidateCategory(c models.Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return rejectf("A category needs a name.")
	}
	if c.YearsMin > c.YearsMax {
		return rejectf("Category %q: minimum age %d is above maximum age %d.", c.Name, c.YearsMin, c.YearsMax)
	}
	return nil
}

func CreateCategory(gdb *gorm.DB, c *models.Category) error {
	if err := ValidateCategory(*c); err != nil {
		return err
	}
	return gdb.Create(c).Error
}

// SetBirthYear stores the birth year and refreshes the derived age and category.
func SetBirthYear(gdb *gorm.DB, swimmerID uint, year int, today time.Time) (*models.Swimmer, error) {
	var sw models.Swimmer
	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sw, swimmerID).Error; err != nil {
			return fmt.Errorf("load swimmer %d: %w", swimmerID, err)
		}
		return SetBirthYearTx(tx, &sw, year, today)
	})
	if err != nil {
		return nil, err
	}
	return &sw, nil
}

// SetBirthYearTx is SetBirthYear for a swimmer already loaded inside tx.
func SetBirthYearTx(tx *gorm.DB, sw *models.Swimmer, year int, today time.Time) error {
	var cats []models.Category
	if err := tx.Order("id asc").Find(&cats).Error; err != nil {
		return err
	}
	ApplyBirthYear(sw, year, today.Year(), cats)
	return tx.Model(sw).Select("YearOfBirth", "Age", "CategoryID").Updates(sw).Error
}

// ApplyBirthYear sets YearOfBirth, Age and CategoryID on sw without touching the store.
func ApplyBirthYear(sw *models.Swimmer, year, currentYear int, cats []models.Category) {
	sw.YearOfBirth = year
	sw.Age = ComputeAge(year, currentYear)
	sw.Category = nil
	sw.CategoryID = nil
	if c := ResolveCategory(sw.Age, cats); c != nil {
		id := c.ID
		sw.CategoryID = &id
	}
}
