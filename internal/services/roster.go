package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/natacion/clubmanager/internal/metrics"
	"github.com/natacion/clubmanager/internal/models"
)

// AddSwimmerToChampionship puts a swimmer with a current fee on the championship roster.
// Adding someone already on the roster is a no-op; added reports whether a row was written.
func AddSwimmerToChampionship(gdb *gorm.DB, championshipID, swimmerID uint, today time.Time) (added bool, err error) {
	err = gdb.Transaction(func(tx *gorm.DB) error {
		added, err = AddSwimmerToChampionshipTx(tx, championshipID, swimmerID, today)
		return err
	})
	return added, observe("add_swimmer_to_championship", "championship", added, err)
}

// AddSwimmerToChampionshipTx does the same as AddSwimmerToChampionship inside an existing TX.
func AddSwimmerToChampionshipTx(tx *gorm.DB, championshipID, swimmerID uint, today time.Time) (bool, error) {
	if err := tx.Select("id").First(&models.Championship{}, championshipID).Error; err != nil {
		return false, fmt.Errorf("load championship %d: %w", championshipID, err)
	}
	var sw models.Swimmer
	if err := tx.First(&sw, swimmerID).Error; err != nil {
		return false, fmt.Errorf("load swimmer %d: %w", swimmerID, err)
	}
	if !sw.IsSwimmer {
		return false, rejectf("%s is not a swimmer.", sw.Name)
	}
	if !paymentCurrent(sw, today) {
		return false, rejectf("%s does not have a current membership payment.", sw.Name)
	}
	return ensureRosterEntry(tx, championshipID, sw.ID)
}

// AddAllValidSwimmers walks every swimmer of every club linked to the championship
// and adds the ones with a current fee. It returns how many were newly added.
func AddAllValidSwimmers(gdb *gorm.DB, championshipID uint, today time.Time) (count int, err error) {
	err = gdb.Transaction(func(tx *gorm.DB) error {
		count, err = AddAllValidSwimmersTx(tx, championshipID, today)
		return err
	})
	if err == nil {
		metrics.RecordEnrollment("championship", count)
	}
	return count, err
}

// AddAllValidSwimmersTx does the same as AddAllValidSwimmers inside an existing TX.
func AddAllValidSwimmersTx(tx *gorm.DB, championshipID uint, today time.Time) (int, error) {
	var champ models.Championship
	if err := tx.Preload("Clubs", func(db *gorm.DB) *gorm.DB {
		return db.Order("clubs.id asc")
	}).First(&champ, championshipID).Error; err != nil {
		return 0, fmt.Errorf("load championship %d: %w", championshipID, err)
	}

	count := 0
	for _, club := range champ.Clubs {
		var swimmers []models.Swimmer
		if err := tx.Where("club_id = ?", club.ID).Order("id asc").Find(&swimmers).Error; err != nil {
			return 0, err
		}
		for _, sw := range swimmers {
			if !sw.IsSwimmer || !paymentCurrent(sw, today) {
				continue
			}
			added, err := ensureRosterEntry(tx, championshipID, sw.ID)
			if err != nil {
				return 0, err
			}
			if added {
				count++
			}
		}
	}
	return count, nil
}

// Roster lists the championship's swimmers in the order they were added.
func Roster(tx *gorm.DB, championshipID uint) ([]models.Swimmer, error) {
	var entries []models.ChampionshipSwimmer
	if err := tx.Preload("Swimmer").
		Where("championship_id = ?", championshipID).
		Order("id asc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	out := make([]models.Swimmer, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Swimmer)
	}
	return out, nil
}

func ensureRosterEntry(tx *gorm.DB, championshipID, swimmerID uint) (bool, error) {
	var n int64
	if err := tx.Model(&models.ChampionshipSwimmer{}).
		Where("championship_id = ? AND swimmer_id = ?", championshipID, swimmerID).
		Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	entry := models.ChampionshipSwimmer{ChampionshipID: championshipID, SwimmerID: swimmerID}
	if err := tx.Create(&entry).Error; err != nil {
		return false, fmt.Errorf("add roster entry: %w", err)
	}
	return true, nil
}

// RegisterSwimmerForTest adds a swimmer with a valid payment to the test's registration list.
func RegisterSwimmerForTest(gdb *gorm.DB, testID, swimmerID uint, today time.Time) (added bool, err error) {
	err = gdb.Transaction(func(tx *gorm.DB) error {
		added, err = RegisterSwimmerForTestTx(tx, testID, swimmerID, today)
		if err != nil {
			return err
		}
		return CheckTestRegistrationsTx(tx, testID, today)
	})
	return added, observe("register_swimmer_for_test", "test", added, err)
}

// RegisterSwimmerForTestTx does the same as RegisterSwimmerForTest inside an existing TX,
// without re-checking the rest of the list.
func RegisterSwimmerForTestTx(tx *gorm.DB, testID, swimmerID uint, today time.Time) (bool, error) {
	if err := tx.Select("id").First(&models.Test{}, testID).Error; err != nil {
		return false, fmt.Errorf("load test %d: %w", testID, err)
	}
	var sw models.Swimmer
	if err := tx.First(&sw, swimmerID).Error; err != nil {
		return false, fmt.Errorf("load swimmer %d: %w", swimmerID, err)
	}
	if !sw.IsSwimmer || !IsPaymentValid(sw.LastPaymentDate, today) {
		return false, rejectf("%s cannot be registered: membership payment is not current.", sw.Name)
	}
	return ensureRegistration(tx, testID, sw.ID)
}

// CheckTestRegistrations re-validates the whole registration list of a test:
// every registered swimmer must still have a valid payment.
func CheckTestRegistrations(gdb *gorm.DB, testID uint, today time.Time) error {
	return CheckTestRegistrationsTx(gdb, testID, today)
}

func CheckTestRegistrationsTx(tx *gorm.DB, testID uint, today time.Time) error {
	swimmers, err := RegisteredSwimmers(tx, testID)
	if err != nil {
		return err
	}
	for _, sw := range swimmers {
		if sw.IsSwimmer && !IsPaymentValid(sw.LastPaymentDate, today) {
			return rejectf("%s cannot stay registered because the membership payment has expired.", sw.Name)
		}
	}
	return nil
}

// RegisteredSwimmers lists a test's swimmers in registration order.
func RegisteredSwimmers(tx *gorm.DB, testID uint) ([]models.Swimmer, error) {
	var regs []models.TestRegistration
	if err := tx.Preload("Swimmer").
		Where("test_id = ?", testID).
		Order("id asc").
		Find(&regs).Error; err != nil {
		return nil, err
	}
	out := make([]models.Swimmer, 0, len(regs))
	for _, r := range regs {
		out = append(out, r.Swimmer)
	}
	return out, nil
}

func ensureRegistration(tx *gorm.DB, testID, swimmerID uint) (bool, error) {
	var n int64
	if err := tx.Model(&models.TestRegistration{}).
		Where("test_id = ? AND swimmer_id = ?", testID, swimmerID).
		Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	reg := models.TestRegistration{TestID: testID, SwimmerID: swimmerID}
	if err := tx.Create(&reg).Error; err != nil {
		return false, fmt.Errorf("add registration: %w", err)
	}
	return true, nil
}

// observe records the outcome of a single-swimmer enrollment and passes err through.
func observe(operation, scope string, added bool, err error) error {
	switch {
	case err != nil && IsValidation(err):
		metrics.RecordRejection(operation)
	case err == nil && added:
		metrics.RecordEnrollment(scope, 1)
	}
	return err
}
