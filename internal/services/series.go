package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/natacion/clubmanager/internal/events"
	"github.com/natacion/clubmanager/internal/metrics"
	"github.com/natacion/clubmanager/internal/models"
)

// DefaultSeriesSize is used when a test has no series size.
const DefaultSeriesSize = 8

// SerieName is the 1-indexed display name of the n-th heat.
func SerieName(n int) string {
	return fmt.Sprintf("Sèrie %d", n)
}

// ChunkSwimmers splits swimmers, in order, into consecutive groups of size
// (DefaultSeriesSize when size <= 0). The last group holds the remainder.
func ChunkSwimmers(swimmers []models.Swimmer, size int) [][]models.Swimmer {
	if size <= 0 {
		size = DefaultSeriesSize
	}
	var out [][]models.Swimmer
	for i := 0; i < len(swimmers); i += size {
		end := min(i+size, len(swimmers))
		out = append(out, swimmers[i:end])
	}
	return out
}

// GenerateSeries throws away the test's series and results and rebuilds them
// from the registration list: one serie per chunk, one empty result per swimmer.
func GenerateSeries(gdb *gorm.DB, testID uint) ([]models.Serie, error) {
	var series []models.Serie
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var err error
		series, err = GenerateSeriesTx(tx, testID)
		return err
	})
	return series, afterSeries("generate_series", testID, series, err)
}

// GenerateSeriesTx does the same as GenerateSeries inside an existing TX.
func GenerateSeriesTx(tx *gorm.DB, testID uint) ([]models.Serie, error) {
	var test models.Test
	if err := tx.First(&test, testID).Error; err != nil {
		return nil, fmt.Errorf("load test %d: %w", testID, err)
	}
	swimmers, err := RegisteredSwimmers(tx, testID)
	if err != nil {
		return nil, err
	}
	if len(swimmers) == 0 {
		return nil, rejectf("No swimmers are registered for test %q.", test.Description)
	}

	if err := tx.Where("test_id = ?", testID).Delete(&models.Result{}).Error; err != nil {
		return nil, fmt.Errorf("delete results: %w", err)
	}
	if err := tx.Where("test_id = ?", testID).Delete(&models.Serie{}).Error; err != nil {
		return nil, fmt.Errorf("delete series: %w", err)
	}

	chunks := ChunkSwimmers(swimmers, test.SeriesSize)
	series := make([]models.Serie, 0, len(chunks))
	for i, chunk := range chunks {
		serie := models.Serie{TestID: testID, Name: SerieName(i + 1)}
		if err := tx.Create(&serie).Error; err != nil {
			return nil, fmt.Errorf("create serie: %w", err)
		}
		results := make([]models.Result, 0, len(chunk))
		for _, sw := range chunk {
			results = append(results, models.Result{
				TestID:    testID,
				SerieID:   serie.ID,
				SwimmerID: sw.ID,
				Time:      0.0,
				Position:  0,
			})
		}
		if err := tx.Omit("Swimmer").Create(&results).Error; err != nil {
			return nil, fmt.Errorf("create results: %w", err)
		}
		serie.Results = results
		series = append(series, serie)
	}
	return series, nil
}

// GenerateSeriesWithAutoEnrollment registers every roster swimmer of the owning
// championship whose payment is valid, then rebuilds the series.
// The test must belong to a session that belongs to a championship.
func GenerateSeriesWithAutoEnrollment(gdb *gorm.DB, testID uint, today time.Time) (series []models.Serie, added int, err error) {
	err = gdb.Transaction(func(tx *gorm.DB) error {
		series, added, err = GenerateSeriesWithAutoEnrollmentTx(tx, testID, today)
		return err
	})
	if err == nil {
		metrics.RecordEnrollment("test", added)
	}
	return series, added, afterSeries("generate_series_with_enrollment", testID, series, err)
}

func GenerateSeriesWithAutoEnrollmentTx(tx *gorm.DB, testID uint, today time.Time) ([]models.Serie, int, error) {
	var test models.Test
	if err := tx.Preload("Session").First(&test, testID).Error; err != nil {
		return nil, 0, fmt.Errorf("load test %d: %w", testID, err)
	}
	if test.Session == nil || test.Session.ChampionshipID == nil {
		return nil, 0, rejectf("Test %q is not scheduled in a championship session.", test.Description)
	}

	roster, err := Roster(tx, *test.Session.ChampionshipID)
	if err != nil {
		return nil, 0, err
	}
	added := 0
	for _, sw := range roster {
		if !IsPaymentValid(sw.LastPaymentDate, today) {
			continue
		}
		ok, err := ensureRegistration(tx, testID, sw.ID)
		if err != nil {
			return nil, 0, err
		}
		if ok {
			added++
		}
	}
	if err := CheckTestRegistrationsTx(tx, testID, today); err != nil {
		return nil, 0, err
	}

	series, err := GenerateSeriesTx(tx, testID)
	if err != nil {
		return nil, 0, err
	}
	return series, added, nil
}

func afterSeries(operation string, testID uint, series []models.Serie, err error) error {
	if err != nil {
		if IsValidation(err) {
			metrics.RecordRejection(operation)
		}
		return err
	}
	InvalidateClassification()
	metrics.RecordSeriesGenerated(len(series))
	if events.OnSeriesGenerated != nil {
		events.OnSeriesGenerated(testID, len(series))
	}
	return nil
}
