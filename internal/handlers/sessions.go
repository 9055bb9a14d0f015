package handlers

import (
	"net/http"
	"time"

	"github.com/natacion/clubmanager/internal/models"
	"github.com/natacion/clubmanager/internal/services"
)

type sessionRequest struct {
	ChampionshipID *uint  `json:"championship_id"`
	Date           string `json:"date"`
}

type sessionView struct {
	models.Session
	When string `json:"when"`
}

// GET /admin/championships/{id}/sessions
func (a *API) ListSessions(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var sessions []models.Session
	if err := a.DB.Where("championship_id = ?", id).Order("date asc, id asc").Find(&sessions).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	out := make([]sessionView, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionView{Session: s, When: fmtDateTime(s.Date, a.Loc)})
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /admin/sessions
func (a *API) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	s := models.Session{ChampionshipID: req.ChampionshipID}
	if req.Date != "" {
		d, err := parseSessionDate(req.Date, a.Now(), a.Loc)
		if err != nil {
			a.writeError(w, r, badRequestf("%v", err))
			return
		}
		s.Date = &d
	}
	if err := services.CreateSession(a.DB, &s); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionView{Session: s, When: fmtDateTime(s.Date, a.Loc)})
}

// PUT /admin/sessions/{id} moves a session; an empty date clears it.
func (a *API) RescheduleSession(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req sessionRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	var date *time.Time
	if req.Date != "" {
		d, err := parseSessionDate(req.Date, a.Now(), a.Loc)
		if err != nil {
			a.writeError(w, r, badRequestf("%v", err))
			return
		}
		date = &d
	}
	s, err := services.RescheduleSession(a.DB, id, date)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView{Session: *s, When: fmtDateTime(s.Date, a.Loc)})
}
