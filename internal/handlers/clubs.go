package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/natacion/clubmanager/internal/export"
	"github.com/natacion/clubmanager/internal/models"
	"github.com/natacion/clubmanager/internal/services"
)

type clubRequest struct {
	Name string `json:"name" validate:"required"`
	Town string `json:"town"`
}

// GET /admin/clubs
func (a *API) ListClubs(w http.ResponseWriter, r *http.Request) {
	var clubs []models.Club
	if err := a.DB.Omit("Logo").Order("name asc").Find(&clubs).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, clubs)
}

// POST /admin/clubs
func (a *API) CreateClub(w http.ResponseWriter, r *http.Request) {
	var req clubRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	club := models.Club{Name: strings.TrimSpace(req.Name), Town: req.Town}
	if err := a.DB.Create(&club).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, club)
}

// GET /admin/clubs/{id}
func (a *API) GetClub(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var club models.Club
	if err := a.DB.Omit("Logo").First(&club, id).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, club)
}

// PUT /admin/clubs/{id}
func (a *API) UpdateClub(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req clubRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	var club models.Club
	if err := a.DB.Omit("Logo").First(&club, id).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	club.Name, club.Town = strings.TrimSpace(req.Name), req.Town
	if err := a.DB.Model(&club).Select("Name", "Town").Updates(&club).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, club)
}

// PUT /admin/clubs/{id}/logo takes the raw PNG or JPEG bytes as body.
func (a *API) UploadClubLogo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	img, err := readImage(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	res := a.DB.Model(&models.Club{}).Where("id = ?", id).Update("logo", img)
	if res.Error != nil {
		a.writeError(w, r, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /admin/clubs/{id}/logo
func (a *API) ClubLogo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var club models.Club
	if err := a.DB.Select("id", "logo").First(&club, id).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	writeImage(w, r, club.Logo)
}

// GET /admin/clubs/{id}/points
func (a *API) ClubPoints(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	points, err := services.ComputeTotalPoints(a.DB, id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"club_id": id, "points": points})
}

// GET /admin/clubs/points
func (a *API) AllClubPoints(w http.ResponseWriter, r *http.Request) {
	scores, err := services.ClubScores(a.DB)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

// GET /admin/clubs/points.png
func (a *API) ClubPointsChart(w http.ResponseWriter, r *http.Request) {
	scores, err := services.ClubScores(a.DB)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	png, err := export.PointsChart(scores)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

const maxImageBytes = 5 << 20

func readImage(r *http.Request) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, badRequestf("empty image")
	}
	if len(b) > maxImageBytes {
		return nil, badRequestf("image larger than %d bytes", maxImageBytes)
	}
	switch http.DetectContentType(b) {
	case "image/png", "image/jpeg":
		return b, nil
	default:
		return nil, badRequestf("only PNG and JPEG images are accepted")
	}
}

func writeImage(w http.ResponseWriter, r *http.Request, b []byte) {
	if len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(b))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
