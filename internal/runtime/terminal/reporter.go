package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/farmcost/internal/domain/models"
)

const costTemplate = `Plot cost report {{.ID}}
Period: {{period .Period}}{{if .Filter}} | bucket: {{.Filter}}{{end}}
Total area: {{fixed .TotalArea}} ha | total cost: {{fixed .GrandTotal}}
{{range $row := .Plots}}
=== {{$row.PlotName}} ({{fixed $row.AreaHa}} ha) ===
{{- range $b := buckets}}
{{printf "%-15s" (print $b)}} {{fixed (index $row.Buckets $b)}}
{{- end}}
{{printf "%-15s" "total"}} {{fixed .Total}}
{{printf "%-15s" "per hectare"}} {{fixed .CostPerHectare}}
{{end}}
Unclassified: {{.Diagnostics.UnclassifiedCount}} ({{fixed .Diagnostics.UnclassifiedTotal}}) | unreadable values: {{.Diagnostics.ParseErrorCount}}
`

const productsTemplate = `{{len .}} products
{{range .}}
- {{.Name}}: {{fixed .TotalStock.Quantity}}{{if .TotalStock.Unit}} {{.TotalStock.Unit}}{{end}} | avg {{fixed .WeightedAveragePrice}}{{if .ReferenceUnit}}/{{.ReferenceUnit}}{{end}} | {{len .Batches}} batches
{{- end}}
`

// Reporter writes reports to the console as formatted text.
type Reporter struct {
	writer   io.Writer
	costs    *template.Template
	products *template.Template
}

// NewReporter parses the report templates. A nil writer means stdout.
func NewReporter(writer io.Writer) (*Reporter, error) {
	if writer == nil {
		writer = os.Stdout
	}

	funcs := template.FuncMap{
		"fixed":   func(d decimal.Decimal) string { return d.StringFixed(2) },
		"buckets": func() []models.CostBucket { return models.Buckets },
		"period":  formatPeriod,
	}

	costs, err := template.New("costs").Funcs(funcs).Parse(costTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cost template: %w", err)
	}
	products, err := template.New("products").Funcs(funcs).Parse(productsTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse products template: %w", err)
	}

	return &Reporter{writer: writer, costs: costs, products: products}, nil
}

// CostReport prints one block per plot.
func (r *Reporter) CostReport(report *models.CostReport) error {
	return r.costs.Execute(r.writer, report)
}

// ProductGroups prints one line per product.
func (r *Reporter) ProductGroups(groups []models.ProductGroup) error {
	return r.products.Execute(r.writer, groups)
}

func formatPeriod(p models.DateRange) string {
	start, end := "beginning", "now"
	if !p.Start.IsZero() {
		start = p.Start.Format("2006-01-02")
	}
	if !p.End.IsZero() {
		end = p.End.Format("2006-01-02")
	}
	return start + " to " + end
}
