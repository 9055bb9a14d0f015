package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/natacion/clubmanager/internal/metrics"
	"github.com/natacion/clubmanager/internal/models"
)

// CreateSession validates the schedule rules and stores s in one TX.
func CreateSession(gdb *gorm.DB, s *models.Session) error {
	normalizeSessionDate(s)
	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(s).Error; err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		return CheckSessionTx(tx, s)
	})
	if err != nil {
		s.ID = 0
	}
	if IsValidation(err) {
		metrics.RecordRejection("schedule_session")
	}
	return err
}

// RescheduleSession moves a session to a new date-time (nil clears it).
func RescheduleSession(gdb *gorm.DB, sessionID uint, date *time.Time) (*models.Session, error) {
	var s models.Session
	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&s, sessionID).Error; err != nil {
			return fmt.Errorf("load session %d: %w", sessionID, err)
		}
		s.Date = date
		normalizeSessionDate(&s)
		if err := tx.Model(&s).Select("Date").Updates(&s).Error; err != nil {
			return err
		}
		return CheckSessionTx(tx, &s)
	})
	if err != nil {
		if IsValidation(err) {
			metrics.RecordRejection("schedule_session")
		}
		return nil, err
	}
	return &s, nil
}

// CheckSessionTx enforces that a session neither starts before its championship
// nor shares its exact date-time with another session of the same championship.
func CheckSessionTx(tx *gorm.DB, s *models.Session) error {
	if s.Date == nil || s.ChampionshipID == nil {
		return nil
	}
	var champ models.Championship
	if err := tx.First(&champ, *s.ChampionshipID).Error; err != nil {
		return fmt.Errorf("load championship %d: %w", *s.ChampionshipID, err)
	}
	if champ.StartDate != nil && DateOnly(*s.Date).Before(DateOnly(*champ.StartDate)) {
		return rejectf("The session must not start before championship %q begins (%s).",
			champ.Name, champ.StartDate.Format("2006-01-02"))
	}

	var n int64
	if err := tx.Model(&models.Session{}).
		Where("championship_id = ? AND id <> ? AND date = ?", *s.ChampionshipID, s.ID, *s.Date).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return rejectf("Championship %q already has a session at %s.",
			champ.Name, s.Date.Format("2006-01-02 15:04"))
	}
	return nil
}

// Session date-times are stored in UTC at minute precision so equality holds
// across input zones and seconds.
func normalizeSessionDate(s *models.Session) {
	if s.Date != nil {
		u := s.Date.UTC().Truncate(time.Minute)
		s.Date = &u
	}
}
