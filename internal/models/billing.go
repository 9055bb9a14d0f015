package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name      string          `gorm:"uniqueIndex;not null" json:"name"`
	ListPrice decimal.Decimal `gorm:"type:numeric" json:"list_price"`
}

// Sale order states.
const (
	SaleStateDraft = "draft"
	SaleStateSale  = "sale"
)

type SaleOrder struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Reference   string     `gorm:"uniqueIndex" json:"reference"`
	Origin      string     `json:"origin"`
	State       string     `json:"state"` // draft | sale
	ConfirmedAt *time.Time `json:"confirmed_at"`

	SwimmerID uint            `gorm:"index" json:"swimmer_id"`
	Lines     []SaleOrderLine `json:"lines,omitempty"`
}

type SaleOrderLine struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	SaleOrderID uint            `gorm:"index" json:"sale_order_id"`
	ProductID   uint            `json:"product_id"`
	Quantity    int             `json:"quantity"`
	PriceUnit   decimal.Decimal `gorm:"type:numeric" json:"price_unit"`
}

// Subtotal is Quantity * PriceUnit.
func (l SaleOrderLine) Subtotal() decimal.Decimal {
	return l.PriceUnit.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
