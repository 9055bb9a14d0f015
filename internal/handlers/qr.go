package handlers

import (
	"fmt"
	"net/http"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/natacion/clubmanager/internal/models"
)

// GET /admin/swimmers/{id}/qr.png encodes the swimmer's membership card:
// id, name and the payment valid-until date.
func (a *API) SwimmerQR(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var sw models.Swimmer
	if err := a.DB.Select("id", "name", "payment_valid_until").First(&sw, id).Error; err != nil {
		a.writeError(w, r, err)
		return
	}

	png, err := qrcode.Encode(membershipPayload(sw), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "failed to generate qr", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func membershipPayload(sw models.Swimmer) string {
	until := "none"
	if sw.PaymentValidUntil != nil {
		until = sw.PaymentValidUntil.Format("2006-01-02")
	}
	return fmt.Sprintf("NATACION:%d;%s;%s", sw.ID, sw.Name, until)
}
