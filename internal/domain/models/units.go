package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Family partitions units into groups that can be converted between each other.
type Family int

const (
	FamilyOther Family = iota
	FamilyMass
	FamilyVolume
)

// String method for Family enum
func (f Family) String() string {
	switch f {
	case FamilyMass:
		return "mass"
	case FamilyVolume:
		return "volume"
	default:
		return "other"
	}
}

// Unit is a tag from the closed set of measurement units known to the dashboard.
type Unit string

const (
	UnitTon    Unit = "ton"
	UnitSaca   Unit = "saca"
	UnitKg     Unit = "kg"
	UnitG      Unit = "g"
	UnitMg     Unit = "mg"
	UnitL      Unit = "L"
	UnitML     Unit = "mL"
	UnitBox    Unit = "box"
	UnitPiece  Unit = "unit"
	UnitGallon Unit = "gallon"
)

// Family reports which conversion family the unit belongs to. Unknown tags are FamilyOther.
func (u Unit) Family() Family {
	switch u {
	case UnitTon, UnitSaca, UnitKg, UnitG, UnitMg:
		return FamilyMass
	case UnitL, UnitML:
		return FamilyVolume
	default:
		return FamilyOther
	}
}

// Canonical returns the canonical base unit of a family, or "" for FamilyOther.
func (f Family) Canonical() Unit {
	switch f {
	case FamilyMass:
		return UnitMg
	case FamilyVolume:
		return UnitML
	default:
		return ""
	}
}

var unitAliases = map[string]Unit{
	"t":         UnitTon,
	"ton":       UnitTon,
	"tonelada":  UnitTon,
	"toneladas": UnitTon,
	"sc":        UnitSaca,
	"saca":      UnitSaca,
	"sacas":     UnitSaca,
	"kg":        UnitKg,
	"quilo":     UnitKg,
	"quilos":    UnitKg,
	"g":         UnitG,
	"grama":     UnitG,
	"gramas":    UnitG,
	"mg":        UnitMg,
	"l":         UnitL,
	"lt":        UnitL,
	"litro":     UnitL,
	"litros":    UnitL,
	"ml":        UnitML,
	"cx":        UnitBox,
	"caixa":     UnitBox,
	"box":       UnitBox,
	"un":        UnitPiece,
	"und":       UnitPiece,
	"unidade":   UnitPiece,
	"unit":      UnitPiece,
	"gal":       UnitGallon,
	"galao":     UnitGallon,
	"galão":     UnitGallon,
	"gallon":    UnitGallon,
}

// ParseUnit maps a free-text unit label coming from the data store to a Unit.
// Unrecognized labels are kept verbatim and fall into FamilyOther.
func ParseUnit(raw string) Unit {
	key := strings.ToLower(strings.TrimSpace(raw))
	if u, ok := unitAliases[key]; ok {
		return u
	}
	return Unit(strings.TrimSpace(raw))
}

// Measurement pairs a quantity with its unit.
type Measurement struct {
	Quantity decimal.Decimal `json:"quantity"`
	Unit     Unit            `json:"unit"`
}
