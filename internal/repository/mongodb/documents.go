package mongodb

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/farmcost/internal/domain/models"
)

type batchDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID         string             `bson:"owner_id"`
	Name            string             `bson:"name"`
	Brand           string             `bson:"brand,omitempty"`
	Category        string             `bson:"category,omitempty"`
	Unit            string             `bson:"unit"`
	ReferenceUnit   string             `bson:"reference_unit,omitempty"`
	InitialQuantity interface{}        `bson:"initial_quantity"`
	CurrentQuantity interface{}        `bson:"current_quantity"`
	UnitPrice       interface{}        `bson:"unit_price,omitempty"`
	TotalValue      interface{}        `bson:"total_value,omitempty"`
	AveragePrice    interface{}        `bson:"average_price,omitempty"`
	CreatedAt       time.Time          `bson:"created_at"`
}

type plotDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID   string             `bson:"owner_id"`
	Name      string             `bson:"name"`
	AreaHa    interface{}        `bson:"area_ha"`
	Active    bool               `bson:"active"`
	IsDefault bool               `bson:"is_default"`
}

type transactionDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID     string             `bson:"owner_id"`
	Type        string             `bson:"type"`
	Status      string             `bson:"status"`
	Value       interface{}        `bson:"value"`
	Category    string             `bson:"category,omitempty"`
	Description string             `bson:"description,omitempty"`
	LinkedArea  string             `bson:"linked_area,omitempty"`
	ScheduledAt *time.Time         `bson:"scheduled_at,omitempty"`
	PaidAt      *time.Time         `bson:"paid_at,omitempty"`
}

type plotCostDocument struct {
	PlotID         string                          `bson:"plot_id"`
	PlotName       string                          `bson:"plot_name"`
	AreaHa         primitive.Decimal128            `bson:"area_ha"`
	Buckets        map[string]primitive.Decimal128 `bson:"buckets"`
	Total          primitive.Decimal128            `bson:"total"`
	CostPerHectare primitive.Decimal128            `bson:"cost_per_hectare"`
}

type costReportDocument struct {
	ID                string                          `bson:"_id"`
	OwnerID           string                          `bson:"owner_id"`
	GeneratedAt       time.Time                       `bson:"generated_at"`
	PeriodStart       time.Time                       `bson:"period_start,omitempty"`
	PeriodEnd         time.Time                       `bson:"period_end,omitempty"`
	Filter            string                          `bson:"filter,omitempty"`
	TotalArea         primitive.Decimal128            `bson:"total_area"`
	Plots             []plotCostDocument              `bson:"plots"`
	Totals            map[string]primitive.Decimal128 `bson:"totals"`
	GrandTotal        primitive.Decimal128            `bson:"grand_total"`
	UnclassifiedCount int                             `bson:"unclassified_count"`
	UnclassifiedTotal primitive.Decimal128            `bson:"unclassified_total"`
	ParseErrorCount   int                             `bson:"parse_error_count"`
}

func (d batchDocument) toModel() models.InventoryBatch {
	initial, _ := decimalFromAny(d.InitialQuantity)
	current, _ := decimalFromAny(d.CurrentQuantity)
	return models.InventoryBatch{
		ID:                 d.ID.Hex(),
		Name:               d.Name,
		Brand:              d.Brand,
		Category:           d.Category,
		Unit:               models.ParseUnit(d.Unit),
		ReferenceUnit:      models.ParseUnit(d.ReferenceUnit),
		InitialQuantity:    initial,
		CurrentQuantity:    current,
		UnitPrice:          optionalDecimal(d.UnitPrice),
		TotalValue:         optionalDecimal(d.TotalValue),
		CachedAveragePrice: optionalDecimal(d.AveragePrice),
		CreatedAt:          d.CreatedAt,
	}
}

func (d plotDocument) toModel() models.Plot {
	area, _ := decimalFromAny(d.AreaHa)
	return models.Plot{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		AreaHa:    area,
		Active:    d.Active,
		IsDefault: d.IsDefault,
	}
}

func (d transactionDocument) toModel() models.FinancialTransaction {
	value, ok := decimalFromAny(d.Value)
	tx := models.FinancialTransaction{
		ID:          d.ID.Hex(),
		Type:        models.ParseTransactionType(d.Type),
		Status:      models.ParseTransactionStatus(d.Status),
		Value:       value,
		Malformed:   !ok,
		Category:    d.Category,
		Description: d.Description,
		LinkedArea:  d.LinkedArea,
	}
	if d.ScheduledAt != nil {
		tx.ScheduledAt = *d.ScheduledAt
	}
	if d.PaidAt != nil {
		tx.PaidAt = *d.PaidAt
	}
	return tx
}

func newCostReportDocument(r models.CostReport) costReportDocument {
	doc := costReportDocument{
		ID:                r.ID,
		OwnerID:           r.OwnerID,
		GeneratedAt:       r.GeneratedAt,
		PeriodStart:       r.Period.Start,
		PeriodEnd:         r.Period.End,
		Filter:            string(r.Filter),
		TotalArea:         toDecimal128(r.TotalArea),
		Plots:             make([]plotCostDocument, 0, len(r.Plots)),
		Totals:            bucketMap(r.Totals),
		GrandTotal:        toDecimal128(r.GrandTotal),
		UnclassifiedCount: r.Diagnostics.UnclassifiedCount,
		UnclassifiedTotal: toDecimal128(r.Diagnostics.UnclassifiedTotal),
		ParseErrorCount:   r.Diagnostics.ParseErrorCount,
	}
	for _, p := range r.Plots {
		doc.Plots = append(doc.Plots, plotCostDocument{
			PlotID:         p.PlotID,
			PlotName:       p.PlotName,
			AreaHa:         toDecimal128(p.AreaHa),
			Buckets:        bucketMap(p.Buckets),
			Total:          toDecimal128(p.Total),
			CostPerHectare: toDecimal128(p.CostPerHectare),
		})
	}
	return doc
}

func bucketMap(in map[models.CostBucket]decimal.Decimal) map[string]primitive.Decimal128 {
	out := make(map[string]primitive.Decimal128, len(in))
	for b, v := range in {
		out[string(b)] = toDecimal128(v)
	}
	return out
}

// toDecimal128 rounds to 10 places so the value fits the 34 digit significand.
func toDecimal128(d decimal.Decimal) primitive.Decimal128 {
	v, err := primitive.ParseDecimal128(d.Round(10).String())
	if err != nil {
		return primitive.NewDecimal128(0, 0)
	}
	return v
}

// decimalFromAny converts a stored BSON number or plain decimal string. Missing
// values and locale-formatted strings yield zero and false.
func decimalFromAny(v interface{}) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, false
	case float64:
		return decimal.NewFromFloat(n), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case primitive.Decimal128:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		d, err := decimal.NewFromString(fmt.Sprint(n))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
}

func optionalDecimal(v interface{}) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d, _ := decimalFromAny(v)
	return &d
}
