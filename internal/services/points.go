package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/natacion/clubmanager/internal/models"
)

// BestTimePoints scores a best time as max(0, 100-time).
func BestTimePoints(t float64) float64 {
	return max(0, 100-t)
}

// TotalPoints sums BestTimePoints over every best time of every swimmer.
func TotalPoints(swimmers []models.Swimmer) float64 {
	points := 0.0
	for _, sw := range swimmers {
		for _, bt := range sw.BestTimes {
			points += BestTimePoints(bt.Time)
		}
	}
	return points
}

func ComputeTotalPoints(gdb *gorm.DB, clubID uint) (float64, error) {
	if err := gdb.Select("id").First(&models.Club{}, clubID).Error; err != nil {
		return 0, fmt.Errorf("load club %d: %w", clubID, err)
	}
	var swimmers []models.Swimmer
	if err := gdb.Omit("Photo").Preload("BestTimes").
		Where("club_id = ?", clubID).
		Find(&swimmers).Error; err != nil {
		return 0, err
	}
	return TotalPoints(swimmers), nil
}

type ClubScore struct {
	ClubID uint    `json:"club_id"`
	Name   string  `json:"name"`
	Points float64 `json:"points"`
}

// ClubScores computes the points of every club, ordered by name.
func ClubScores(gdb *gorm.DB) ([]ClubScore, error) {
	var clubs []models.Club
	if err := gdb.Omit("Logo").
		Preload("Swimmers", func(db *gorm.DB) *gorm.DB { return db.Omit("Photo") }).
		Preload("Swimmers.BestTimes").
		Order("name asc").
		Find(&clubs).Error; err != nil {
		return nil, err
	}
	out := make([]ClubScore, 0, len(clubs))
	for _, c := range clubs {
		out = append(out, ClubScore{ClubID: c.ID, Name: c.Name, Points: TotalPoints(c.Swimmers)})
	}
	return out, nil
}
