// Package allocation distributes farm costs over plots by classification,
// explicit plot linkage and area share.
package allocation

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmcost/internal/domain/models"
	"github.com/mamadbah2/farmcost/internal/service/classifier"
)

// Classifier assigns a cost bucket to a transaction.
type Classifier interface {
	Classify(tx models.FinancialTransaction) classifier.Result
}

// Request carries the snapshot and filters of one allocation run.
type Request struct {
	Transactions []models.FinancialTransaction
	Plots        []models.Plot
	// StockMovementTotal is the absolute value of outgoing inventory movements in the period.
	StockMovementTotal decimal.Decimal
	Period             models.DateRange
	// Filter restricts the report to one bucket. Empty means all buckets.
	Filter models.CostBucket
}

// Engine runs cost allocations. It holds no state between runs.
type Engine struct {
	classifier Classifier
	logger     *zap.Logger
}

// NewEngine wires an allocation engine.
func NewEngine(c Classifier, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{classifier: c, logger: logger}
}

type sheet struct {
	rows      []models.PlotCostReport
	byInput   map[int]int
	totalArea decimal.Decimal
}

func newSheet(plots []models.Plot) *sheet {
	s := &sheet{byInput: make(map[int]int), totalArea: decimal.Zero}
	for i, p := range plots {
		if !p.Eligible() {
			continue
		}
		buckets := make(map[models.CostBucket]decimal.Decimal, len(models.Buckets))
		for _, b := range models.Buckets {
			buckets[b] = decimal.Zero
		}
		s.byInput[i] = len(s.rows)
		s.rows = append(s.rows, models.PlotCostReport{
			PlotID:   p.ID,
			PlotName: p.Name,
			AreaHa:   p.AreaHa,
			Buckets:  buckets,
		})
		s.totalArea = s.totalArea.Add(p.AreaHa)
	}
	return s
}

// spread adds amount × area/totalArea to every row. It is a no-op when totalArea is zero.
func (s *sheet) spread(bucket models.CostBucket, amount decimal.Decimal) {
	if s.totalArea.IsZero() || amount.IsZero() {
		return
	}
	for i := range s.rows {
		share := amount.Mul(s.rows[i].AreaHa).Div(s.totalArea)
		s.rows[i].Buckets[bucket] = s.rows[i].Buckets[bucket].Add(share)
	}
}

// Allocate produces the per-plot cost report for the request.
func (e *Engine) Allocate(req Request) models.CostReport {
	s := newSheet(req.Plots)

	diag := models.Diagnostics{
		UnclassifiedTotal: decimal.Zero,
		LinkedTotal:       decimal.Zero,
		UnlinkedTotals:    make(map[models.CostBucket]decimal.Decimal),
	}

	if req.Filter == "" || req.Filter == models.BucketInputs {
		s.spread(models.BucketInputs, req.StockMovementTotal)
	}

	for _, tx := range req.Transactions {
		if tx.Type != models.TransactionExpense || tx.Status != models.StatusPaid {
			continue
		}
		if !req.Period.Contains(tx.EffectiveDate()) {
			continue
		}

		result := e.classifier.Classify(tx)
		switch result.Outcome {
		case classifier.OutcomeParseError:
			diag.ParseErrorCount++
			e.logger.Debug("transaction with unparseable value dropped", zap.String("id", tx.ID), zap.String("description", tx.Description))
			continue
		case classifier.OutcomeUnclassified:
			diag.UnclassifiedCount++
			diag.UnclassifiedTotal = diag.UnclassifiedTotal.Add(tx.Value.Abs())
			e.logger.Debug("unclassified transaction dropped", zap.String("id", tx.ID), zap.String("category", tx.Category), zap.String("description", tx.Description))
			continue
		}

		if result.Bucket == models.BucketInputs {
			e.logger.Debug("inputs transaction ignored", zap.String("id", tx.ID))
			continue
		}
		if req.Filter != "" && req.Filter != result.Bucket {
			continue
		}

		amount := tx.Value.Abs()
		if row, ok := s.byInput[resolveIndex(tx.LinkedArea, req.Plots)]; ok {
			s.rows[row].Buckets[result.Bucket] = s.rows[row].Buckets[result.Bucket].Add(amount)
			diag.LinkedTotal = diag.LinkedTotal.Add(amount)
			continue
		}

		pool, ok := diag.UnlinkedTotals[result.Bucket]
		if !ok {
			pool = decimal.Zero
		}
		diag.UnlinkedTotals[result.Bucket] = pool.Add(amount)
	}

	for _, b := range models.Buckets {
		if pool, ok := diag.UnlinkedTotals[b]; ok {
			s.spread(b, pool)
		}
	}

	return finish(s, req, diag)
}

func finish(s *sheet, req Request, diag models.Diagnostics) models.CostReport {
	report := models.CostReport{
		Period:      req.Period,
		Filter:      req.Filter,
		TotalArea:   s.totalArea,
		Plots:       s.rows,
		Totals:      make(map[models.CostBucket]decimal.Decimal, len(models.Buckets)),
		GrandTotal:  decimal.Zero,
		Diagnostics: diag,
	}
	for _, b := range models.Buckets {
		report.Totals[b] = decimal.Zero
	}

	for i := range report.Plots {
		row := &report.Plots[i]
		total := decimal.Zero
		for _, b := range models.Buckets {
			total = total.Add(row.Buckets[b])
			report.Totals[b] = report.Totals[b].Add(row.Buckets[b])
		}
		row.Total = total
		row.CostPerHectare = decimal.Zero
		if row.AreaHa.IsPositive() {
			row.CostPerHectare = total.Div(row.AreaHa)
		}
		report.GrandTotal = report.GrandTotal.Add(total)
	}
	return report
}
