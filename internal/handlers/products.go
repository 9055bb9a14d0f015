package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/natacion/clubmanager/internal/models"
)

type productRequest struct {
	Name      string          `json:"name" validate:"required"`
	ListPrice decimal.Decimal `json:"list_price"`
}

// GET /admin/products
func (a *API) ListProducts(w http.ResponseWriter, r *http.Request) {
	var products []models.Product
	if err := a.DB.Order("name asc").Find(&products).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// POST /admin/products
func (a *API) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	if req.ListPrice.IsNegative() {
		a.writeError(w, r, badRequestf("list_price cannot be negative"))
		return
	}
	p := models.Product{Name: req.Name, ListPrice: req.ListPrice}
	if err := a.DB.Create(&p).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}
