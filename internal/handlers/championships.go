package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/natacion/clubmanager/internal/export"
	"github.com/natacion/clubmanager/internal/models"
	"github.com/natacion/clubmanager/internal/services"
)

type championshipRequest struct {
	Name      string `json:"name" validate:"required"`
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	ClubIDs   []uint `json:"club_ids"`
}

// GET /admin/championships
func (a *API) ListChampionships(w http.ResponseWriter, r *http.Request) {
	var champs []models.Championship
	if err := a.DB.Order("start_date desc, id desc").Find(&champs).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, champs)
}

// POST /admin/championships
func (a *API) CreateChampionship(w http.ResponseWriter, r *http.Request) {
	var req championshipRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	champ := models.Championship{
		Name:      strings.TrimSpace(req.Name),
		StartDate: parseISODate(req.StartDate),
		EndDate:   parseISODate(req.EndDate),
	}
	if champ.StartDate != nil && champ.EndDate != nil && champ.EndDate.Before(*champ.StartDate) {
		a.writeError(w, r, badRequestf("end_date is before start_date"))
		return
	}
	err := a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&champ).Error; err != nil {
			return err
		}
		return linkClubs(tx, &champ, req.ClubIDs)
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, champ)
}

// GET /admin/championships/{id}
func (a *API) GetChampionship(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var champ models.Championship
	if err := a.DB.Preload("Clubs", func(db *gorm.DB) *gorm.DB {
		return db.Omit("Logo").Order("clubs.id asc")
	}).Preload("Sessions", func(db *gorm.DB) *gorm.DB {
		return db.Order("date asc, id asc")
	}).First(&champ, id).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	minutes, err := services.ComputeTotalDuration(a.DB, id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"championship": champ, "total_duration": minutes})
}

type clubLinkRequest struct {
	ClubIDs []uint `json:"club_ids" validate:"required"`
}

// PUT /admin/championships/{id}/clubs replaces the linked clubs.
func (a *API) SetChampionshipClubs(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req clubLinkRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	var champ models.Championship
	err = a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&champ, id).Error; err != nil {
			return err
		}
		return linkClubs(tx, &champ, req.ClubIDs)
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, champ)
}

func linkClubs(tx *gorm.DB, champ *models.Championship, ids []uint) error {
	var clubs []models.Club
	if len(ids) > 0 {
		if err := tx.Omit("Logo").Where("id IN ?", ids).Order("id asc").Find(&clubs).Error; err != nil {
			return err
		}
		if len(clubs) != len(ids) {
			return badRequestf("unknown club in %v", ids)
		}
	}
	champ.Clubs = clubs
	return tx.Model(champ).Association("Clubs").Replace(clubs)
}

// GET /admin/championships/{id}/roster
func (a *API) ChampionshipRoster(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	roster, err := a.loadRoster(id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	out := make([]swimmerView, 0, len(roster))
	for _, sw := range roster {
		out = append(out, a.swimmerView(sw))
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /admin/championships/{id}/roster.csv
func (a *API) ChampionshipRosterCSV(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	roster, err := a.loadRoster(id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	filename := fmt.Sprintf("roster-%d-%s.csv", id, a.today().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	if err := export.RosterCSV(w, roster, a.today()); err != nil {
		a.Log.WithError(err).Error("write roster csv")
	}
}

func (a *API) loadRoster(championshipID uint) ([]models.Swimmer, error) {
	if err := a.DB.Select("id").First(&models.Championship{}, championshipID).Error; err != nil {
		return nil, err
	}
	var entries []models.ChampionshipSwimmer
	err := a.DB.Where("championship_id = ?", championshipID).
		Preload("Swimmer", func(db *gorm.DB) *gorm.DB { return db.Omit("Photo") }).
		Preload("Swimmer.Club", func(db *gorm.DB) *gorm.DB { return db.Omit("Logo") }).
		Preload("Swimmer.Category").
		Order("id asc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	out := make([]models.Swimmer, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Swimmer)
	}
	return out, nil
}

type addSwimmerRequest struct {
	SwimmerID uint `json:"swimmer_id" validate:"required"`
}

// POST /admin/championships/{id}/swimmers
func (a *API) AddSwimmerToChampionship(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req addSwimmerRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	added, err := services.AddSwimmerToChampionship(a.DB, id, req.SwimmerID, a.today())
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

// POST /admin/championships/{id}/swimmers/add-valid
func (a *API) AddAllValidSwimmers(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var champ models.Championship
	if err := a.DB.Select("id", "name").First(&champ, id).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	count, err := services.AddAllValidSwimmers(a.DB, id, a.today())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.Log.WithField("championship_id", id).WithField("added", count).Info("valid swimmers added")

	n := notice("swimmers_added", count, champ.Name)
	if count == 0 {
		n = notice("no_swimmers_added", champ.Name)
	}
	a.publish(r.Context(), n)
	writeJSON(w, http.StatusOK, map[string]any{"added": count, "notification": n})
}

// GET /admin/championships/{id}/classification
func (a *API) Classification(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	c, err := services.CachedClassification(a.DB, id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// GET /admin/championships/{id}/classification.xlsx
func (a *API) ClassificationXLSX(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	champ, err := services.LoadChampionshipTree(a.DB, id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	data, err := export.ClassificationXLSX(champ.Name, services.TotalDuration(champ), services.Classify(champ))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=classification-%d.xlsx", id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// GET /admin/championships/{id}/duration
func (a *API) TotalDuration(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	minutes, err := services.ComputeTotalDuration(a.DB, id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"championship_id": id, "minutes": minutes})
}

func parseISODate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
