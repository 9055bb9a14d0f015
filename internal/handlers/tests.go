package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/natacion/clubmanager/internal/models"
	"github.com/natacion/clubmanager/internal/services"
)

type testRequest struct {
	SessionID   *uint  `json:"session_id"`
	Description string `json:"description" validate:"required"`
	SeriesSize  int    `json:"series_size" validate:"gte=0"`
	StyleID     *uint  `json:"style_id"`
	CategoryID  *uint  `json:"category_id"`
}

// POST /admin/tests
func (a *API) CreateTest(w http.ResponseWriter, r *http.Request) {
	var req testRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	t := models.Test{
		SessionID:   req.SessionID,
		Description: req.Description,
		SeriesSize:  req.SeriesSize,
		StyleID:     req.StyleID,
		CategoryID:  req.CategoryID,
	}
	if t.SeriesSize == 0 {
		t.SeriesSize = services.DefaultSeriesSize
	}
	if err := a.DB.Create(&t).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// GET /admin/tests/{id}
func (a *API) GetTest(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	byID := func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }
	var t models.Test
	if err := a.DB.Preload("Style").Preload("Category").
		Preload("Series", byID).Preload("Series.Results", byID).
		First(&t, id).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type registerRequest struct {
	SwimmerID uint `json:"swimmer_id" validate:"required"`
}

// POST /admin/tests/{id}/registrations
func (a *API) RegisterSwimmerForTest(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req registerRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	added, err := services.RegisterSwimmerForTest(a.DB, id, req.SwimmerID, a.today())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]bool{"added": added})
}

// GET /admin/tests/{id}/registrations
func (a *API) TestRegistrations(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.DB.Select("id").First(&models.Test{}, id).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	swimmers, err := services.RegisteredSwimmers(a.DB, id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, swimmers)
}

// GET /admin/tests/{id}/check re-runs the registration invariant.
func (a *API) CheckTestRegistrations(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := services.CheckTestRegistrations(a.DB, id, a.today()); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// POST /admin/tests/{id}/series[?auto_enroll=1]
func (a *API) GenerateSeries(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var (
		series []models.Serie
		added  int
	)
	if r.URL.Query().Get("auto_enroll") == "1" {
		series, added, err = services.GenerateSeriesWithAutoEnrollment(a.DB, id, a.today())
	} else {
		series, err = services.GenerateSeries(a.DB, id)
	}
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var t models.Test
	if err := a.DB.Select("id", "description").First(&t, id).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	n := a.publish(r.Context(), notice("series_generated", len(series), t.Description))
	writeJSON(w, http.StatusCreated, map[string]any{
		"series":       series,
		"added":        added,
		"notification": n,
	})
}

type resultRequest struct {
	Time     float64 `json:"time"`
	Position int     `json:"position"`
}

// PUT /admin/results/{id}
func (a *API) RecordResult(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req resultRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	res, err := services.RecordResult(a.DB, id, req.Time, req.Position)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
