package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/natacion/clubmanager/internal/events"
	"github.com/natacion/clubmanager/internal/metrics"
	"github.com/natacion/clubmanager/internal/models"
)

// IsPaymentValid: a payment is current for 365 days after it was made, both ends included.
func IsPaymentValid(lastPayment *time.Time, today time.Time) bool {
	if lastPayment == nil {
		return false
	}
	expires := DateOnly(*lastPayment).AddDate(0, 0, PaymentValidityDays)
	return !expires.Before(DateOnly(today))
}

// PaymentProgress returns how far (0..100) today is into the validity window.
// A zero-length window is 100 once validUntil is reached and 0 before it.
func PaymentProgress(lastPayment, validUntil *time.Time, today time.Time) float64 {
	if lastPayment == nil || validUntil == nil {
		return 0
	}
	total := daysBetween(*lastPayment, *validUntil)
	if total <= 0 {
		if !DateOnly(today).Before(DateOnly(*validUntil)) {
			return 100
		}
		return 0
	}
	passed := daysBetween(*lastPayment, today)
	p := float64(passed) / float64(total) * 100
	return min(100.0, max(0.0, p))
}

// paymentCurrent is the roster rule: valid-until set and not before today.
func paymentCurrent(sw models.Swimmer, today time.Time) bool {
	return sw.PaymentValidUntil != nil && !DateOnly(*sw.PaymentValidUntil).Before(DateOnly(today))
}

// PaymentStatus is the read model of a swimmer's membership fee.
type PaymentStatus struct {
	SwimmerID  uint       `json:"swimmer_id"`
	LastPaid   *time.Time `json:"last_payment_date"`
	ValidUntil *time.Time `json:"payment_valid_until"`
	Valid      bool       `json:"is_payment_valid"`
	Progress   float64    `json:"payment_progress"`
	Amount     string     `json:"payment_amount"`
}

func StatusOf(sw models.Swimmer, today time.Time) PaymentStatus {
	return PaymentStatus{
		SwimmerID:  sw.ID,
		LastPaid:   sw.LastPaymentDate,
		ValidUntil: sw.PaymentValidUntil,
		Valid:      IsPaymentValid(sw.LastPaymentDate, today),
		Progress:   PaymentProgress(sw.LastPaymentDate, sw.PaymentValidUntil, today),
		Amount:     sw.PaymentAmount.StringFixed(2),
	}
}

// RegisterPayment records today's yearly payment and bills it through b.
// A missing fee product rolls the whole operation back.
func RegisterPayment(gdb *gorm.DB, b Biller, swimmerID uint, today time.Time) (*models.SaleOrder, error) {
	var sw models.Swimmer
	var order *models.SaleOrder
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = RegisterPaymentTx(tx, b, swimmerID, today, &sw)
		return err
	})
	if err != nil {
		if IsValidation(err) {
			metrics.RecordRejection("register_payment")
		}
		return nil, err
	}
	metrics.RecordPayment()
	if events.OnPaymentRegistered != nil {
		events.OnPaymentRegistered(sw, *order)
	}
	return order, nil
}

// RegisterPaymentTx does the same as RegisterPayment inside an existing TX.
// The updated swimmer is copied into out when out is not nil.
func RegisterPaymentTx(tx *gorm.DB, b Biller, swimmerID uint, today time.Time, out *models.Swimmer) (*models.SaleOrder, error) {
	var sw models.Swimmer
	if err := tx.First(&sw, swimmerID).Error; err != nil {
		return nil, fmt.Errorf("load swimmer %d: %w", swimmerID, err)
	}

	paid := DateOnly(today)
	until := paid.AddDate(0, 0, PaymentValidityDays)
	sw.LastPaymentDate = &paid
	sw.PaymentValidUntil = &until
	if err := tx.Model(&sw).Select("LastPaymentDate", "PaymentValidUntil").Updates(&sw).Error; err != nil {
		return nil, fmt.Errorf("save payment dates: %w", err)
	}

	order, err := b.CreateConfirmedSale(tx, &sw, "Yearly membership fee")
	if err != nil {
		return nil, err
	}
	if out != nil {
		*out = sw
	}
	return order, nil
}
