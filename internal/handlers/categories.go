package handlers

import (
	"net/http"

	"github.com/natacion/clubmanager/internal/models"
	"github.com/natacion/clubmanager/internal/services"
)

type categoryRequest struct {
	Name     string `json:"name" validate:"required"`
	YearsMin int    `json:"years_min" validate:"gte=0"`
	YearsMax int    `json:"years_max" validate:"gte=0"`
}

// GET /admin/categories
func (a *API) ListCategories(w http.ResponseWriter, r *http.Request) {
	var cats []models.Category
	if err := a.DB.Order("id asc").Find(&cats).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// POST /admin/categories
func (a *API) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	c := models.Category{Name: req.Name, YearsMin: req.YearsMin, YearsMax: req.YearsMax}
	if err := services.CreateCategory(a.DB, &c); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// PUT /admin/categories/{id}
func (a *API) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req categoryRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	var c models.Category
	if err := a.DB.First(&c, id).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	c.Name, c.YearsMin, c.YearsMax = req.Name, req.YearsMin, req.YearsMax
	if err := services.ValidateCategory(c); err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.DB.Model(&c).Select("Name", "YearsMin", "YearsMax").Updates(&c).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type styleRequest struct {
	Name string `json:"name" validate:"required"`
}

// GET /admin/styles
func (a *API) ListStyles(w http.ResponseWriter, r *http.Request) {
	var styles []models.Style
	if err := a.DB.Order("id asc").Find(&styles).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, styles)
}

// POST /admin/styles
func (a *API) CreateStyle(w http.ResponseWriter, r *http.Request) {
	var req styleRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	s := models.Style{Name: req.Name}
	if err := a.DB.Create(&s).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}
