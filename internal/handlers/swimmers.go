package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/natacion/clubmanager/internal/models"
	"github.com/natacion/clubmanager/internal/services"
)

type swimmerRequest struct {
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone"`
	YearOfBirth *int   `json:"year_of_birth" validate:"omitempty,gte=1900,lte=2100"`
	IsSwimmer   bool   `json:"is_swimmer"`
	ClubID      *uint  `json:"club_id"`
}

type swimmerView struct {
	models.Swimmer
	Payment services.PaymentStatus `json:"payment"`
}

// GET /admin/swimmers?club_id=&valid=1
func (a *API) ListSwimmers(w http.ResponseWriter, r *http.Request) {
	clubID, err := queryUint(r, "club_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	q := a.DB.Omit("Photo").Order("name asc")
	if clubID != nil {
		q = q.Where("club_id = ?", *clubID)
	}
	if r.URL.Query().Get("valid") == "1" {
		q = q.Where("is_swimmer = ? AND payment_valid_until >= ?", true, a.today())
	}
	var swimmers []models.Swimmer
	if err := q.Find(&swimmers).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, swimmers)
}

// POST /admin/swimmers
func (a *API) CreateSwimmer(w http.ResponseWriter, r *http.Request) {
	var req swimmerRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	sw := models.Swimmer{
		Name:          strings.TrimSpace(req.Name),
		Phone:         services.NormPhone(req.Phone),
		IsSwimmer:     req.IsSwimmer,
		ClubID:        req.ClubID,
		PaymentAmount: a.DefaultFee,
	}
	err := a.DB.Transaction(func(tx *gorm.DB) error {
		var cats []models.Category
		if err := tx.Order("id asc").Find(&cats).Error; err != nil {
			return err
		}
		year := 0
		if req.YearOfBirth != nil {
			year = *req.YearOfBirth
		}
		services.ApplyBirthYear(&sw, year, a.today().Year(), cats)
		return tx.Create(&sw).Error
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a.swimmerView(sw))
}

// GET /admin/swimmers/{id}
func (a *API) GetSwimmer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var sw models.Swimmer
	if err := a.DB.Omit("Photo").Preload("Club", func(db *gorm.DB) *gorm.DB {
		return db.Omit("Logo")
	}).Preload("Category").Preload("BestTimes.Style").First(&sw, id).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a.swimmerView(sw))
}

// PUT /admin/swimmers/{id} updates the plain fields; the birth year goes
// through SetBirthYear so age and category follow it.
func (a *API) UpdateSwimmer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req swimmerRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	var sw models.Swimmer
	err = a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Photo").First(&sw, id).Error; err != nil {
			return err
		}
		sw.Name = strings.TrimSpace(req.Name)
		sw.Phone = services.NormPhone(req.Phone)
		sw.IsSwimmer = req.IsSwimmer
		sw.ClubID = req.ClubID
		if err := tx.Model(&sw).Select("Name", "Phone", "IsSwimmer", "ClubID").Updates(&sw).Error; err != nil {
			return err
		}
		// An omitted year_of_birth keeps the stored one.
		if req.YearOfBirth == nil || *req.YearOfBirth == sw.YearOfBirth {
			return nil
		}
		return services.SetBirthYearTx(tx, &sw, *req.YearOfBirth, a.today())
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a.swimmerView(sw))
}

type birthYearRequest struct {
	YearOfBirth int `json:"year_of_birth" validate:"omitempty,gte=1900,lte=2100"`
}

// PUT /admin/swimmers/{id}/birth-year
func (a *API) SetBirthYear(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req birthYearRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	sw, err := services.SetBirthYear(a.DB, id, req.YearOfBirth, a.today())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a.swimmerView(*sw))
}

// POST /admin/swimmers/{id}/payments
func (a *API) RegisterPayment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	order, err := services.RegisterPayment(a.DB, a.Biller, id, a.today())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var sw models.Swimmer
	if err := a.DB.Omit("Photo").First(&sw, id).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	n := a.publish(r.Context(), notice("payment_registered", sw.Name, sw.PaymentValidUntil.Format("2006-01-02")))
	writeJSON(w, http.StatusCreated, map[string]any{
		"order":        order,
		"payment":      services.StatusOf(sw, a.today()),
		"notification": n,
	})
}

type bestTimeRequest struct {
	StyleID *uint   `json:"style_id"`
	Time    float64 `json:"time" validate:"gt=0"`
}

// POST /admin/swimmers/{id}/best-times
func (a *API) AddBestTime(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req bestTimeRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	var sw models.Swimmer
	if err := a.DB.Select("id", "club_id").First(&sw, id).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	bt := models.BestTime{SwimmerID: &sw.ID, ClubID: sw.ClubID, StyleID: req.StyleID, Time: req.Time}
	if err := a.DB.Create(&bt).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, bt)
}

// PUT /admin/swimmers/{id}/photo takes the raw PNG or JPEG bytes as body.
func (a *API) UploadSwimmerPhoto(w http.ResponseWriter, r *http.Request) {
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
	res := a.DB.Model(&models.Swimmer{}).Where("id = ?", id).Update("photo", img)
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

// GET /admin/swimmers/{id}/photo
func (a *API) SwimmerPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var sw models.Swimmer
	if err := a.DB.Select("id", "photo").First(&sw, id).Error; err != nil {
		a.writeError(w, r, err)
		return
	}
	writeImage(w, r, sw.Photo)
}

func (a *API) swimmerView(sw models.Swimmer) swimmerView {
	return swimmerView{Swimmer: sw, Payment: services.StatusOf(sw, a.today())}
}
