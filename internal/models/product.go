package models

import (
	"strings"
	"time"

	"invoptimizer/internal/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	SKU          string          `json:"sku" db:"sku"`
	Description  *string         `json:"description,omitempty" db:"description"`
	CategoryID   *uuid.UUID      `json:"category_id,omitempty" db:"category_id"`
	UnitCost     decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	SellingPrice decimal.Decimal `json:"selling_price" db:"selling_price"`
	ImageURL     *string         `json:"image_url,omitempty" db:"image_url"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// Validate checks the fields a product must carry before it is stored.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewFieldValidation("name", "product name is required")
	}
	if strings.TrimSpace(p.SKU) == "" {
		return apperror.NewFieldValidation("sku", "product sku is required")
	}
	if p.UnitCost.IsNegative() {
		return apperror.NewFieldValidation("unit_cost", "unit cost cannot be negative")
	}
	if p.SellingPrice.IsNegative() {
		return apperror.NewFieldValidation("selling_price", "selling price cannot be negative")
	}
	return nil
}
