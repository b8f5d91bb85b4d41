package units

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/farmcost/internal/domain/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestToCanonical(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		unit     models.Unit
		want     models.Measurement
	}{
		{"ton to mg", "2", models.UnitTon, models.Measurement{Quantity: dec("2000000000"), Unit: models.UnitMg}},
		{"saca to mg", "1", models.UnitSaca, models.Measurement{Quantity: dec("60000000"), Unit: models.UnitMg}},
		{"kg to mg", "1.5", models.UnitKg, models.Measurement{Quantity: dec("1500000"), Unit: models.UnitMg}},
		{"litre to ml", "20", models.UnitL, models.Measurement{Quantity: dec("20000"), Unit: models.UnitML}},
		{"box passes through", "3", models.UnitBox, models.Measurement{Quantity: dec("3"), Unit: models.UnitBox}},
		{"gallon passes through", "5", models.UnitGallon, models.Measurement{Quantity: dec("5"), Unit: models.UnitGallon}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToCanonical(dec(tt.quantity), tt.unit)
			assert.Equal(t, tt.want.Unit, got.Unit)
			assert.True(t, tt.want.Quantity.Equal(got.Quantity), "want %s got %s", tt.want.Quantity, got.Quantity)
		})
	}
}

func TestMassRoundTrip(t *testing.T) {
	for _, u := range []models.Unit{models.UnitTon, models.UnitSaca, models.UnitKg, models.UnitG, models.UnitMg} {
		for _, q := range []string{"0.001", "1", "37.25", "1234.5678"} {
			m := ToCanonical(dec(q), u)
			back := FromCanonical(m.Quantity, models.UnitMg, u)
			assert.InDelta(t, dec(q).InexactFloat64(), back.InexactFloat64(), 1e-9, "unit %s quantity %s", u, q)
		}
	}
}

func TestFromCanonical_CrossFamilyIsNoop(t *testing.T) {
	got := FromCanonical(dec("5000"), models.UnitMg, models.UnitL)
	assert.True(t, dec("5000").Equal(got))

	got = FromCanonical(dec("5000"), models.UnitML, models.UnitBox)
	assert.True(t, dec("5000").Equal(got))
}

func TestConvert(t *testing.T) {
	assert.True(t, dec("2").Equal(Convert(dec("120"), models.UnitKg, models.UnitSaca)))
	assert.True(t, dec("1.5").Equal(Convert(dec("1500"), models.UnitML, models.UnitL)))
	assert.True(t, dec("7").Equal(Convert(dec("7"), models.UnitKg, models.UnitL)))
	assert.True(t, dec("7").Equal(Convert(dec("7"), models.UnitBox, models.UnitPiece)))
}

func TestBestDisplayUnit(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		family   models.Family
		want     models.Measurement
	}{
		{"exact saca", "60000000", models.FamilyMass, models.Measurement{Quantity: dec("1"), Unit: models.UnitSaca}},
		{"saca within one percent", "59700000", models.FamilyMass, models.Measurement{Quantity: dec("1"), Unit: models.UnitSaca}},
		{"saca off by more than one percent", "59000000", models.FamilyMass, models.Measurement{Quantity: dec("59"), Unit: models.UnitKg}},
		{"several sacas", "120000000", models.FamilyMass, models.Measurement{Quantity: dec("2"), Unit: models.UnitSaca}},
		{"half saca falls to kg", "150000000", models.FamilyMass, models.Measurement{Quantity: dec("150"), Unit: models.UnitKg}},
		{"tons win over sacas", "3000000000", models.FamilyMass, models.Measurement{Quantity: dec("3"), Unit: models.UnitTon}},
		{"grams", "2500", models.FamilyMass, models.Measurement{Quantity: dec("2.5"), Unit: models.UnitG}},
		{"milligrams", "500", models.FamilyMass, models.Measurement{Quantity: dec("500"), Unit: models.UnitMg}},
		{"zero mass", "0", models.FamilyMass, models.Measurement{Quantity: dec("0"), Unit: models.UnitMg}},
		{"litres", "2500", models.FamilyVolume, models.Measurement{Quantity: dec("2.5"), Unit: models.UnitL}},
		{"millilitres", "250", models.FamilyVolume, models.Measurement{Quantity: dec("250"), Unit: models.UnitML}},
		{"other family untouched", "12", models.FamilyOther, models.Measurement{Quantity: dec("12")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BestDisplayUnit(dec(tt.quantity), tt.family)
			assert.Equal(t, tt.want.Unit, got.Unit)
			assert.True(t, tt.want.Quantity.Equal(got.Quantity), "want %s got %s", tt.want.Quantity, got.Quantity)
		})
	}
}
