package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/natacion/clubmanager/internal/models"
)

// DefaultFeeProduct is the catalog product billed for a yearly membership.
const DefaultFeeProduct = "Cuota Federado"

// Biller creates and confirms a sale for a swimmer.
type Biller interface {
	CreateConfirmedSale(tx *gorm.DB, sw *models.Swimmer, origin string) (*models.SaleOrder, error)
}

// OrderBilling bills ProductName at its list price, one unit per sale.
type OrderBilling struct {
	ProductName string
	Now         func() time.Time
}

func NewOrderBilling(productName string) *OrderBilling {
	if productName == "" {
		productName = DefaultFeeProduct
	}
	return &OrderBilling{ProductName: productName, Now: time.Now}
}

func (b *OrderBilling) CreateConfirmedSale(tx *gorm.DB, sw *models.Swimmer, origin string) (*models.SaleOrder, error) {
	var product models.Product
	if err := tx.Where("name = ?", b.ProductName).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rejectf("Create a product named %q before registering payments.", b.ProductName)
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	order := models.SaleOrder{
		Reference: "SO-" + uuid.NewString(),
		Origin:    origin,
		State:     models.SaleStateDraft,
		SwimmerID: sw.ID,
		Lines: []models.SaleOrderLine{{
			ProductID: product.ID,
			Quantity:  1,
			PriceUnit: product.ListPrice,
		}},
	}
	if err := tx.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("create sale order: %w", err)
	}
	if err := b.confirm(tx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (b *OrderBilling) confirm(tx *gorm.DB, order *models.SaleOrder) error {
	now := b.Now()
	order.State = models.SaleStateSale
	order.ConfirmedAt = &now
	if err := tx.Model(order).Select("State", "ConfirmedAt").Updates(order).Error; err != nil {
		return fmt.Errorf("confirm sale order: %w", err)
	}
	return nil
}
