// Package grouping clusters inventory batches into products and computes
// per-product weighted-average prices and stock totals.
package grouping

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmcost/internal/domain/models"
	"github.com/mamadbah2/farmcost/internal/units"
)

// Engine turns a batch snapshot into product groups.
type Engine struct {
	clusterer Clusterer
	logger    *zap.Logger
}

// NewEngine wires a grouping engine. A nil clusterer defaults to GreedyClusterer.
func NewEngine(clusterer Clusterer, logger *zap.Logger) *Engine {
	if clusterer == nil {
		clusterer = GreedyClusterer{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{clusterer: clusterer, logger: logger}
}

// Group clusters the batches and summarizes every cluster. Source batches are not modified.
func (e *Engine) Group(batches []models.InventoryBatch) []models.ProductGroup {
	clusters := e.clusterer.Cluster(batches)

	groups := make([]models.ProductGroup, 0, len(clusters))
	clustered := 0
	for _, c := range clusters {
		clustered += len(c)
		groups = append(groups, Summarize(c))
	}

	if skipped := len(batches) - clustered; skipped > 0 {
		e.logger.Debug("batches without name skipped", zap.Int("count", skipped))
	}
	return groups
}

// Summarize computes the derived fields of one cluster of batches.
func Summarize(cluster []models.InventoryBatch) models.ProductGroup {
	if len(cluster) == 0 {
		return models.ProductGroup{}
	}

	sorted := append([]models.InventoryBatch(nil), cluster...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	oldest := sorted[0]

	group := models.ProductGroup{
		Name:          canonicalName(cluster),
		Batches:       sorted,
		ReferenceUnit: oldest.PriceUnit(),
	}

	group.TotalValue, group.PricedQuantity = priceTotals(sorted, group.ReferenceUnit)
	if !group.PricedQuantity.IsZero() {
		group.WeightedAveragePrice = group.TotalValue.Div(group.PricedQuantity)
	}

	group.TotalStock = stock(sorted, oldest.Unit)
	return group
}

// priceTotals accumulates Σ total value and Σ initial quantity in the reference unit
// over batches with a positive initial quantity.
func priceTotals(batches []models.InventoryBatch, referenceUnit models.Unit) (decimal.Decimal, decimal.Decimal) {
	totalValue := decimal.Zero
	totalQty := decimal.Zero
	for _, b := range batches {
		if !b.InitialQuantity.IsPositive() {
			continue
		}
		totalValue = totalValue.Add(batchValue(b, referenceUnit))
		totalQty = totalQty.Add(units.Convert(b.InitialQuantity, b.Unit, referenceUnit))
	}
	return totalValue, totalQty
}

// batchValue prefers the recorded total value, then the cached average price,
// then the quoted unit price. The cached average is a group price per reference
// unit; the unit price is quoted in the batch's own price unit.
func batchValue(b models.InventoryBatch, referenceUnit models.Unit) decimal.Decimal {
	switch {
	case b.TotalValue != nil:
		return *b.TotalValue
	case b.CachedAveragePrice != nil:
		return b.CachedAveragePrice.Mul(units.Convert(b.InitialQuantity, b.Unit, referenceUnit))
	case b.UnitPrice != nil:
		return b.UnitPrice.Mul(units.Convert(b.InitialQuantity, b.Unit, b.PriceUnit()))
	default:
		return decimal.Zero
	}
}

func stock(batches []models.InventoryBatch, storageUnit models.Unit) models.Measurement {
	family := storageUnit.Family()

	sum := decimal.Zero
	for _, b := range batches {
		if !b.CurrentQuantity.IsPositive() {
			continue
		}
		if family != models.FamilyOther && b.Unit.Family() == family {
			sum = sum.Add(units.ToCanonical(b.CurrentQuantity, b.Unit).Quantity)
			continue
		}
		sum = sum.Add(b.CurrentQuantity)
	}

	if family == models.FamilyOther {
		return models.Measurement{Quantity: sum, Unit: storageUnit}
	}
	return units.BestDisplayUnit(sum, family)
}

// canonicalName is the most frequent name in the cluster; ties go to the name seen first.
func canonicalName(cluster []models.InventoryBatch) string {
	counts := make(map[string]int)
	var order []string
	for _, b := range cluster {
		name := strings.TrimSpace(b.Name)
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}

	best := ""
	bestCount := 0
	for _, name := range order {
		if counts[name] > bestCount {
			best, bestCount = name, counts[name]
		}
	}
	return best
}
