package grouping

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmcost/internal/domain/models"
)

var day0 = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func batch(name string, unit models.Unit, initial, current string, age int) models.InventoryBatch {
	return models.InventoryBatch{
		ID:              name + "-" + initial,
		Name:            name,
		Unit:            unit,
		InitialQuantity: dec(initial),
		CurrentQuantity: dec(current),
		CreatedAt:       day0.AddDate(0, 0, age),
	}
}

func TestGroup_ExactNamesFormOneGroup(t *testing.T) {
	// Given
	batches := []models.InventoryBatch{
		batch("NPK 20-20-20", models.UnitKg, "10", "10", 0),
		batch("NPK 20-20-20", models.UnitKg, "5", "5", 1),
	}

	// When
	groups := NewEngine(nil, nil).Group(batches)

	// Then
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Batches, 2)
	assert.Equal(t, "NPK 20-20-20", groups[0].Name)
}

func TestGroup_FuzzyNamesAndSeparateProducts(t *testing.T) {
	batches := []models.InventoryBatch{
		batch("Ureia", models.UnitKg, "100", "40", 0),
		batch("Glifosato", models.UnitL, "20", "20", 1),
		batch("Uréia", models.UnitKg, "50", "50", 2),
		batch("Glifozato", models.UnitL, "10", "0", 3),
		batch("", models.UnitKg, "1", "1", 4),
	}

	groups := NewEngine(nil, nil).Group(batches)

	require.Len(t, groups, 2)
	assert.Equal(t, "Ureia", groups[0].Name)
	assert.Len(t, groups[0].Batches, 2)
	assert.Equal(t, "Glifosato", groups[1].Name)
	assert.Len(t, groups[1].Batches, 2)
}

func TestGroup_DoesNotMutateInput(t *testing.T) {
	batches := []models.InventoryBatch{
		batch("Boro", models.UnitKg, "1", "1", 5),
		batch("Boro", models.UnitKg, "1", "1", 0),
	}
	before := append([]models.InventoryBatch(nil), batches...)

	_ = NewEngine(nil, nil).Group(batches)

	assert.Equal(t, before, batches)
}

func TestGreedyClusterer_FirstMatchingGroupWins(t *testing.T) {
	// "ab" is similar to both "a" and "b"; it must join the group created first.
	sharesLetter := func(a, b string) bool { return strings.ContainsAny(a, b) }
	c := GreedyClusterer{Similar: sharesLetter}

	got := c.Cluster([]models.InventoryBatch{{Name: "a"}, {Name: "b"}, {Name: "ab"}})

	require.Len(t, got, 2)
	assert.Len(t, got[0], 2)
	assert.Equal(t, "ab", got[0][1].Name)

	got = c.Cluster([]models.InventoryBatch{{Name: "b"}, {Name: "a"}, {Name: "ab"}})

	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0][0].Name)
	assert.Equal(t, "ab", got[0][1].Name)
}

func TestSummarize_WeightedAverage(t *testing.T) {
	a := batch("Ureia", models.UnitKg, "100", "100", 0)
	a.TotalValue = ptr("500")
	b := batch("Ureia", models.UnitKg, "50", "50", 1)
	b.TotalValue = ptr("300")

	g := Summarize([]models.InventoryBatch{a, b})

	assert.Equal(t, models.UnitKg, g.ReferenceUnit)
	assert.InDelta(t, 800.0/150.0, g.WeightedAveragePrice.InexactFloat64(), 1e-9)
	assert.True(t, dec("800").Equal(g.TotalValue))
	assert.True(t, dec("150").Equal(g.PricedQuantity))
}

func TestSummarize_PriceFallbackChain(t *testing.T) {
	// cached average price wins over unit price when no total value is recorded
	cached := batch("Boro", models.UnitKg, "10", "0", 0)
	cached.CachedAveragePrice = ptr("4")
	cached.UnitPrice = ptr("100")

	quoted := batch("Boro", models.UnitKg, "10", "0", 1)
	quoted.UnitPrice = ptr("6")

	unpriced := batch("Boro", models.UnitKg, "10", "0", 2)

	g := Summarize([]models.InventoryBatch{cached, quoted, unpriced})

	// (40 + 60 + 0) / 30
	assert.True(t, dec("100").Equal(g.TotalValue))
	assert.True(t, dec("30").Equal(g.PricedQuantity))
}

func TestSummarize_ReferenceUnitFromOldestBatch(t *testing.T) {
	newer := batch("Café", models.UnitKg, "120", "120", 3)
	newer.UnitPrice = ptr("20")
	older := batch("Café", models.UnitKg, "60", "60", 0)
	older.ReferenceUnit = models.UnitSaca
	older.UnitPrice = ptr("1500")

	g := Summarize([]models.InventoryBatch{newer, older})

	require.Equal(t, models.UnitSaca, g.ReferenceUnit)
	assert.Equal(t, older.ID, g.Batches[0].ID)
	// older: 1 saca for 1500, newer: 120 kg at 20/kg = 2400 over 2 sacas
	assert.True(t, dec("3900").Equal(g.TotalValue))
	assert.True(t, dec("3").Equal(g.PricedQuantity))
	assert.True(t, dec("1300").Equal(g.WeightedAveragePrice))
	// 180 kg is exactly 3 sacas
	assert.Equal(t, models.UnitSaca, g.TotalStock.Unit)
	assert.True(t, dec("3").Equal(g.TotalStock.Quantity))
}

func TestSummarize_CachedAveragePriceUsesGroupReferenceUnit(t *testing.T) {
	// Given
	older := batch("Café", models.UnitKg, "60", "60", 0)
	older.ReferenceUnit = models.UnitSaca
	older.TotalValue = ptr("1500")
	newer := batch("Café", models.UnitKg, "120", "120", 2)
	newer.CachedAveragePrice = ptr("1500")

	// When
	g := Summarize([]models.InventoryBatch{older, newer})

	// Then
	require.Equal(t, models.UnitSaca, g.ReferenceUnit)
	// 1500 + 1500 x 2 sacas over 3 sacas
	assert.True(t, dec("4500").Equal(g.TotalValue), g.TotalValue.String())
	assert.True(t, dec("3").Equal(g.PricedQuantity))
	assert.True(t, dec("1500").Equal(g.WeightedAveragePrice), g.WeightedAveragePrice.String())
}

func TestSummarize_NonPositiveInitialQuantityOnlyCountsInStock(t *testing.T) {
	priced := batch("Calcário", models.UnitTon, "2", "1", 0)
	priced.TotalValue = ptr("400")
	adjustment := batch("Calcário", models.UnitTon, "0", "1.5", 1)
	adjustment.TotalValue = ptr("999")

	g := Summarize([]models.InventoryBatch{priced, adjustment})

	assert.True(t, dec("200").Equal(g.WeightedAveragePrice))
	assert.Equal(t, models.UnitTon, g.TotalStock.Unit)
	assert.True(t, dec("2.5").Equal(g.TotalStock.Quantity))
}

func TestSummarize_ZeroDenominator(t *testing.T) {
	g := Summarize([]models.InventoryBatch{batch("Boro", models.UnitKg, "0", "3", 0)})

	assert.True(t, g.WeightedAveragePrice.IsZero())
	assert.Equal(t, models.UnitKg, g.TotalStock.Unit)
	assert.True(t, dec("3").Equal(g.TotalStock.Quantity))
}

func TestSummarize_VolumeAndOtherFamilies(t *testing.T) {
	vol := Summarize([]models.InventoryBatch{
		batch("Herbicida", models.UnitL, "5", "1.5", 0),
		batch("Herbicida", models.UnitML, "500", "500", 1),
	})
	assert.Equal(t, models.UnitL, vol.TotalStock.Unit)
	assert.True(t, dec("2").Equal(vol.TotalStock.Quantity))

	boxes := Summarize([]models.InventoryBatch{
		batch("Luvas", models.UnitBox, "3", "2", 0),
		batch("Luvas", models.UnitBox, "4", "4", 1),
	})
	assert.Equal(t, models.UnitBox, boxes.TotalStock.Unit)
	assert.True(t, dec("6").Equal(boxes.TotalStock.Quantity))
}

func TestSummarize_MostFrequentName(t *testing.T) {
	g := Summarize([]models.InventoryBatch{
		batch("Glifozato", models.UnitL, "1", "1", 0),
		batch("Glifosato", models.UnitL, "1", "1", 1),
		batch("Glifosato", models.UnitL, "1", "1", 2),
	})
	assert.Equal(t, "Glifosato", g.Name)
}
