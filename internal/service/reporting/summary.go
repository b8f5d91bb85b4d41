package reporting

import (
	"context"
	"fmt"
	"strings"

	"github.com/mamadbah2/farmcost/internal/domain/models"
)

// CostSummary renders the plot cost report as a chat message.
func (s *Service) CostSummary(ctx context.Context, ownerID string, period models.DateRange, filter models.CostBucket) (string, error) {
	report, err := s.PlotCosts(ctx, ownerID, period, filter)
	if err != nil {
		return "", err
	}
	return FormatCostReport(report), nil
}

// StockSummary renders the grouped inventory as a chat message.
func (s *Service) StockSummary(ctx context.Context, ownerID string) (string, error) {
	groups, err := s.ProductGroups(ctx, ownerID)
	if err != nil {
		return "", err
	}
	return FormatProductGroups(groups), nil
}

// FormatCostReport writes one line per plot followed by bucket totals and dropped records.
func FormatCostReport(r *models.CostReport) string {
	var b strings.Builder

	scope := "all costs"
	if r.Filter != "" {
		scope = string(r.Filter)
	}
	fmt.Fprintf(&b, "Plot costs %s (%s)\n", formatPeriod(r.Period), scope)

	if len(r.Plots) == 0 {
		b.WriteString("No eligible plots with area registered.")
		return b.String()
	}

	perHectare := "0.00"
	if r.TotalArea.IsPositive() {
		perHectare = r.GrandTotal.Div(r.TotalArea).StringFixed(2)
	}
	fmt.Fprintf(&b, "Total %s over %s ha (%s/ha)\n", r.GrandTotal.StringFixed(2), r.TotalArea.StringFixed(2), perHectare)

	for _, p := range r.Plots {
		fmt.Fprintf(&b, "- %s (%s ha): %s, %s/ha\n", p.PlotName, p.AreaHa.StringFixed(2), p.Total.StringFixed(2), p.CostPerHectare.StringFixed(2))
	}

	parts := make([]string, 0, len(models.Buckets))
	for _, bucket := range models.Buckets {
		if v := r.Totals[bucket]; !v.IsZero() {
			parts = append(parts, fmt.Sprintf("%s %s", bucket, v.StringFixed(2)))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(&b, "By bucket: %s\n", strings.Join(parts, ", "))
	}

	d := r.Diagnostics
	if d.UnclassifiedCount > 0 {
		fmt.Fprintf(&b, "Unclassified: %d transactions, %s left out.\n", d.UnclassifiedCount, d.UnclassifiedTotal.StringFixed(2))
	}
	if d.ParseErrorCount > 0 {
		fmt.Fprintf(&b, "Unreadable values: %d transactions counted as 0.\n", d.ParseErrorCount)
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatProductGroups writes one line per product with stock and average price.
func FormatProductGroups(groups []models.ProductGroup) string {
	if len(groups) == 0 {
		return "Stock: no products registered."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Stock: %d products\n", len(groups))
	for _, g := range groups {
		fmt.Fprintf(&b, "- %s: %s", g.Name, formatMeasurement(g.TotalStock))
		if g.WeightedAveragePrice.IsPositive() {
			fmt.Fprintf(&b, ", avg %s/%s", g.WeightedAveragePrice.StringFixed(2), g.ReferenceUnit)
		}
		if len(g.Batches) > 1 {
			fmt.Fprintf(&b, " (%d batches)", len(g.Batches))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatMeasurement(m models.Measurement) string {
	qty := m.Quantity.Round(2).String()
	if m.Unit == "" {
		return qty
	}
	return qty + " " + string(m.Unit)
}

func formatPeriod(r models.DateRange) string {
	switch {
	case r.Start.IsZero() && r.End.IsZero():
		return "all time"
	case r.Start.IsZero():
		return "until " + r.End.Format(dateLayout)
	case r.End.IsZero():
		return "since " + r.Start.Format(dateLayout)
	default:
		return r.Start.Format(dateLayout) + " to " + r.End.Format(dateLayout)
	}
}
