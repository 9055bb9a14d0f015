package handlers

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/natacion/clubmanager/internal/db"
	"github.com/natacion/clubmanager/internal/models"
	"github.com/natacion/clubmanager/internal/notify"
	"github.com/natacion/clubmanager/internal/services"
)

var madrid = mustLoad("Europe/Madrid")

// now is a Monday morning in Madrid.
var now = time.Date(2026, 10, 19, 9, 15, 0, 0, madrid)

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(filepath.Join(t.TempDir(), "api.db")+"?_foreign_keys=on", logger.Silent)
	require.NoError(t, err)
	services.InvalidateClassification()
	return gdb
}

func newTestAPI(t *testing.T) (*API, *notify.Recorder, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	rec := &notify.Recorder{}
	api := (&API{
		DB:     openTestDB(t),
		Log:    log,
		Notify: rec,
		Loc:    madrid,
		Now:    func() time.Time { return now },
	}).withDefaults()
	return api, rec, hook
}

// call mounts h on pattern and serves one request against path.
func call(t *testing.T, h http.HandlerFunc, method, pattern, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Method(method, pattern, h)
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func day(offset int) *time.Time {
	d := services.DateOnly(now).AddDate(0, 0, offset)
	return &d
}

func mkSwimmer(t *testing.T, gdb *gorm.DB, name string, club *models.Club, paidUntil *time.Time) models.Swimmer {
	t.Helper()
	sw := models.Swimmer{Name: name, IsSwimmer: true, PaymentValidUntil: paidUntil}
	if paidUntil != nil {
		last := paidUntil.AddDate(0, 0, -services.PaymentValidityDays)
		sw.LastPaymentDate = &last
	}
	if club != nil {
		sw.ClubID = &club.ID
	}
	require.NoError(t, gdb.Create(&sw).Error)
	return sw
}
