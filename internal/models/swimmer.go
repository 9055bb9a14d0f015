package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPaymentAmount is the yearly membership fee applied to new swimmers.
var DefaultPaymentAmount = decimal.NewFromInt(40)

type Swimmer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string `gorm:"not null;index" json:"name"`
	Phone       string `json:"phone"`
	Photo       []byte `json:"-"`
	YearOfBirth int    `json:"year_of_birth"`
	Age         int    `json:"age"` // refreshed together with YearOfBirth
	IsSwimmer   bool   `gorm:"default:false" json:"is_swimmer"`

	LastPaymentDate   *time.Time      `json:"last_payment_date"`
	PaymentValidUntil *time.Time      `gorm:"index" json:"payment_valid_until"`
	PaymentAmount     decimal.Decimal `gorm:"type:numeric;default:40" json:"payment_amount"`

	ClubID     *uint     `gorm:"index" json:"club_id"`
	Club       *Club     `json:"club,omitempty"`
	CategoryID *uint     `gorm:"index" json:"category_id"`
	Category   *Category `json:"category,omitempty"`

	BestTimes []BestTime `json:"best_times,omitempty"`
}
