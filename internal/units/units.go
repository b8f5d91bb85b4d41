// Package units converts mass and volume quantities to canonical bases and
// picks human-friendly display units.
package units

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/farmcost/internal/domain/models"
)

// factors maps a convertible unit to its multiplier into the family's canonical base.
var factors = map[models.Unit]decimal.Decimal{
	models.UnitTon:  decimal.NewFromInt(1_000_000_000),
	models.UnitSaca: decimal.NewFromInt(60_000_000),
	models.UnitKg:   decimal.NewFromInt(1_000_000),
	models.UnitG:    decimal.NewFromInt(1_000),
	models.UnitMg:   decimal.NewFromInt(1),
	models.UnitL:    decimal.NewFromInt(1_000),
	models.UnitML:   decimal.NewFromInt(1),
}

// sacaTolerance is how far (in sacas) a mass may sit from a whole number of sacas
// and still be displayed in sacas.
var sacaTolerance = decimal.RequireFromString("0.01")

var displayOrder = map[models.Family][]models.Unit{
	models.FamilyMass:   {models.UnitTon, models.UnitSaca, models.UnitKg, models.UnitG, models.UnitMg},
	models.FamilyVolume: {models.UnitL, models.UnitML},
}

// Factor returns the multiplier of u into its canonical base and whether u is convertible.
func Factor(u models.Unit) (decimal.Decimal, bool) {
	f, ok := factors[u]
	return f, ok
}

// ToCanonical expresses quantity in the canonical base of the unit's family.
// Non-convertible units are returned unchanged.
func ToCanonical(quantity decimal.Decimal, unit models.Unit) models.Measurement {
	f, ok := factors[unit]
	if !ok {
		return models.Measurement{Quantity: quantity, Unit: unit}
	}
	return models.Measurement{Quantity: quantity.Mul(f), Unit: unit.Family().Canonical()}
}

// FromCanonical converts a canonical quantity into target. When target is not in
// the same family as canonicalUnit the quantity is returned unchanged.
func FromCanonical(quantity decimal.Decimal, canonicalUnit, target models.Unit) decimal.Decimal {
	from, okFrom := factors[canonicalUnit]
	to, okTo := factors[target]
	if !okFrom || !okTo || canonicalUnit.Family() != target.Family() {
		return quantity
	}
	return quantity.Mul(from).Div(to)
}

// Convert moves quantity from one unit to another within a family; across
// families it is a no-op.
func Convert(quantity decimal.Decimal, from, to models.Unit) decimal.Decimal {
	if from == to || from.Family() != to.Family() || from.Family() == models.FamilyOther {
		return quantity
	}
	m := ToCanonical(quantity, from)
	return FromCanonical(m.Quantity, m.Unit, to)
}

// BestDisplayUnit picks the largest unit of the family that keeps the value at
// or above one. Sacas are only used for whole numbers of sacas (within
// sacaTolerance), otherwise mass falls through to kg.
func BestDisplayUnit(canonicalQuantity decimal.Decimal, family models.Family) models.Measurement {
	order, ok := displayOrder[family]
	if !ok {
		return models.Measurement{Quantity: canonicalQuantity}
	}

	one := decimal.NewFromInt(1)
	for _, u := range order {
		value := canonicalQuantity.Div(factors[u])
		if u == models.UnitSaca {
			rounded := value.Round(0)
			if rounded.GreaterThanOrEqual(one) && value.Sub(rounded).Abs().LessThanOrEqual(sacaTolerance) {
				return models.Measurement{Quantity: rounded, Unit: u}
			}
			continue
		}
		if value.GreaterThanOrEqual(one) {
			return models.Measurement{Quantity: value, Unit: u}
		}
	}

	return models.Measurement{Quantity: canonicalQuantity, Unit: family.Canonical()}
}
