package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryBatch is one purchased or registered lot of a product.
type InventoryBatch struct {
	ID       string
	Name     string
	Brand    string
	Category string
	// Unit is the unit the quantities are stored in.
	Unit Unit
	// ReferenceUnit is the unit UnitPrice is quoted in. Empty means Unit.
	ReferenceUnit   Unit
	InitialQuantity decimal.Decimal
	CurrentQuantity decimal.Decimal
	// Optional price fields; nil means the record did not carry the value.
	UnitPrice          *decimal.Decimal
	TotalValue         *decimal.Decimal
	CachedAveragePrice *decimal.Decimal
	CreatedAt          time.Time
}

// PriceUnit returns the unit the batch price is quoted in.
func (b InventoryBatch) PriceUnit() Unit {
	if b.ReferenceUnit != "" {
		return b.ReferenceUnit
	}
	return b.Unit
}

// ProductGroup clusters batches judged to be the same logical product.
type ProductGroup struct {
	Name                 string           `json:"name"`
	Batches              []InventoryBatch `json:"batches"`
	WeightedAveragePrice decimal.Decimal  `json:"weighted_average_price"`
	ReferenceUnit        Unit             `json:"reference_unit"`
	TotalStock           Measurement      `json:"total_stock"`
	// TotalValue and PricedQuantity are the numerator and denominator of the weighted average.
	TotalValue     decimal.Decimal `json:"total_value"`
	PricedQuantity decimal.Decimal `json:"priced_quantity"`
}
