package services

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/natacion/clubmanager/internal/db"
	"github.com/natacion/clubmanager/internal/models"
)

var today = time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

// openTestDB returns an isolated in-file SQLite database in a temp directory.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on"
	gdb, err := db.Open(dsn, logger.Silent)
	require.NoError(t, err, "open test db")
	InvalidateClassification()
	return gdb
}

func daysAgo(n int) *time.Time {
	d := today.AddDate(0, 0, -n)
	return &d
}

func daysAhead(n int) *time.Time {
	d := today.AddDate(0, 0, n)
	return &d
}

// paidSwimmer has paid daysSincePayment ago with the usual one-year window.
func paidSwimmer(t *testing.T, gdb *gorm.DB, name string, clubID *uint, daysSincePayment int) models.Swimmer {
	t.Helper()
	sw := models.Swimmer{
		Name:              name,
		IsSwimmer:         true,
		ClubID:            clubID,
		LastPaymentDate:   daysAgo(daysSincePayment),
		PaymentValidUntil: daysAhead(PaymentValidityDays - daysSincePayment),
	}
	require.NoError(t, gdb.Create(&sw).Error)
	return sw
}

func unpaidSwimmer(t *testing.T, gdb *gorm.DB, name string, clubID *uint) models.Swimmer {
	t.Helper()
	sw := models.Swimmer{Name: name, IsSwimmer: true, ClubID: clubID}
	require.NoError(t, gdb.Create(&sw).Error)
	return sw
}

func newClub(t *testing.T, gdb *gorm.DB, name string) models.Club {
	t.Helper()
	c := models.Club{Name: name, Town: "Xàtiva"}
	require.NoError(t, gdb.Create(&c).Error)
	return c
}

func newChampionship(t *testing.T, gdb *gorm.DB, start *time.Time, clubs ...models.Club) models.Championship {
	t.Helper()
	ch := models.Championship{Name: "Autumn Open", StartDate: start, Clubs: clubs}
	require.NoError(t, gdb.Create(&ch).Error)
	return ch
}

func newTest(t *testing.T, gdb *gorm.DB, sessionID *uint, size int) models.Test {
	t.Helper()
	ts := models.Test{Description: "50m freestyle", SessionID: sessionID, SeriesSize: size}
	require.NoError(t, gdb.Create(&ts).Error)
	return ts
}

func registerAll(t *testing.T, gdb *gorm.DB, testID uint, swimmers []models.Swimmer) {
	t.Helper()
	for _, sw := range swimmers {
		require.NoError(t, gdb.Create(&models.TestRegistration{TestID: testID, SwimmerID: sw.ID}).Error)
	}
}

func manySwimmers(t *testing.T, gdb *gorm.DB, n int) []models.Swimmer {
	t.Helper()
	out := make([]models.Swimmer, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, paidSwimmer(t, gdb, fmt.Sprintf("Swimmer %02d", i+1), nil, 10))
	}
	return out
}
