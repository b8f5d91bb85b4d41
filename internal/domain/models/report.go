package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlotCostReport is one row of the plot cost report.
type PlotCostReport struct {
	PlotID         string                         `json:"plot_id"`
	PlotName       string                         `json:"plot_name"`
	AreaHa         decimal.Decimal                `json:"area_ha"`
	Buckets        map[CostBucket]decimal.Decimal `json:"buckets"`
	Total          decimal.Decimal                `json:"total"`
	CostPerHectare decimal.Decimal                `json:"cost_per_hectare"`
}

// Diagnostics surfaces the records the allocation dropped or spread by area.
type Diagnostics struct {
	UnclassifiedCount int                            `json:"unclassified_count"`
	UnclassifiedTotal decimal.Decimal                `json:"unclassified_total"`
	ParseErrorCount   int                            `json:"parse_error_count"`
	LinkedTotal       decimal.Decimal                `json:"linked_total"`
	UnlinkedTotals    map[CostBucket]decimal.Decimal `json:"unlinked_totals"`
}

// CostReport is the complete output of one allocation run.
type CostReport struct {
	ID          string                         `json:"id"`
	OwnerID     string                         `json:"owner_id"`
	GeneratedAt time.Time                      `json:"generated_at"`
	Period      DateRange                      `json:"period"`
	Filter      CostBucket                     `json:"filter,omitempty"`
	TotalArea   decimal.Decimal                `json:"total_area"`
	Plots       []PlotCostReport               `json:"plots"`
	Totals      map[CostBucket]decimal.Decimal `json:"totals"`
	GrandTotal  decimal.Decimal                `json:"grand_total"`
	Diagnostics Diagnostics                    `json:"diagnostics"`
}
