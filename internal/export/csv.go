package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/natacion/clubmanager/internal/models"
	"github.com/natacion/clubmanager/internal/services"
)

var rosterHeader = []string{"Position", "Swimmer ID", "Name", "Club", "Category", "Birth year", "Payment valid until", "Payment valid"}

// RosterCSV writes the roster in roster order. Club and Category must be preloaded.
func RosterCSV(w io.Writer, roster []models.Swimmer, today time.Time) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rosterHeader); err != nil {
		return err
	}
	for i, sw := range roster {
		club, cat, until := "", "", ""
		if sw.Club != nil {
			club = sw.Club.Name
		}
		if sw.Category != nil {
			cat = sw.Category.Name
		}
		if sw.PaymentValidUntil != nil {
			until = sw.PaymentValidUntil.Format("2006-01-02")
		}
		birth := ""
		if sw.YearOfBirth != 0 {
			birth = strconv.Itoa(sw.YearOfBirth)
		}
		rec := []string{
			strconv.Itoa(i + 1),
			strconv.FormatUint(uint64(sw.ID), 10),
			sw.Name,
			club,
			cat,
			birth,
			until,
			strconv.FormatBool(services.IsPaymentValid(sw.LastPaymentDate, today)),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
