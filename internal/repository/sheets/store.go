package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmcost/internal/domain/models"
)

const (
	dateLayout = "2006-01-02"

	batchesRange      = "Estoque!A:L"
	plotsRange        = "Talhoes!A:E"
	transactionsRange = "Transacoes!A:I"
	movementsRange    = "Movimentacoes!A:D"
	reportsRange      = "Relatorios!A:H"
)

// Store reads farm records from a spreadsheet laid out one tab per record type.
// The first row of every tab is a header. A spreadsheet holds a single farm, so
// owner IDs are ignored.
type Store struct {
	repo   Repository
	logger *zap.Logger
}

// NewStore wraps a sheet repository.
func NewStore(repo Repository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{repo: repo, logger: logger}
}

// ListBatches reads Estoque: id, name, brand, category, unit, reference unit,
// initial qty, current qty, unit price, total value, average price, created at.
func (s *Store) ListBatches(ctx context.Context, _ string) ([]models.InventoryBatch, error) {
	rows, err := s.rows(ctx, batchesRange)
	if err != nil {
		return nil, err
	}

	batches := make([]models.InventoryBatch, 0, len(rows))
	for i, row := range rows {
		if cell(row, 1) == "" {
			s.logger.Debug("skip batch row without name", zap.Int("row", i+2))
			continue
		}
		initial, ok := parseDecimal(cell(row, 6))
		if !ok {
			s.logger.Debug("batch initial quantity coerced to zero", zap.Int("row", i+2), zap.String("value", cell(row, 6)))
		}
		current, ok := parseDecimal(cell(row, 7))
		if !ok {
			s.logger.Debug("batch current quantity coerced to zero", zap.Int("row", i+2), zap.String("value", cell(row, 7)))
		}
		batches = append(batches, models.InventoryBatch{
			ID:                 cell(row, 0),
			Name:               cell(row, 1),
			Brand:              cell(row, 2),
			Category:           cell(row, 3),
			Unit:               models.ParseUnit(cell(row, 4)),
			ReferenceUnit:      models.ParseUnit(cell(row, 5)),
			InitialQuantity:    initial,
			CurrentQuantity:    current,
			UnitPrice:          optionalDecimal(cell(row, 8)),
			TotalValue:         optionalDecimal(cell(row, 9)),
			CachedAveragePrice: optionalDecimal(cell(row, 10)),
			CreatedAt:          parseDate(cell(row, 11)),
		})
	}
	return batches, nil
}

// ListEligiblePlots reads Talhoes: id, name, area ha, active, default. Only
// active, non-default plots with a positive area are returned.
func (s *Store) ListEligiblePlots(ctx context.Context, _ string) ([]models.Plot, error) {
	rows, err := s.rows(ctx, plotsRange)
	if err != nil {
		return nil, err
	}

	plots := make([]models.Plot, 0, len(rows))
	for i, row := range rows {
		area, ok := parseDecimal(cell(row, 2))
		if !ok {
			s.logger.Debug("plot area coerced to zero", zap.Int("row", i+2), zap.String("value", cell(row, 2)))
		}
		plot := models.Plot{
			ID:        cell(row, 0),
			Name:      cell(row, 1),
			AreaHa:    area,
			Active:    parseBool(cell(row, 3), true),
			IsDefault: parseBool(cell(row, 4), false),
		}
		if !plot.Eligible() {
			continue
		}
		plots = append(plots, plot)
	}
	return plots, nil
}

// ListTransactions reads Transacoes: id, type, status, value, category,
// description, linked area, scheduled at, paid at. Rows outside period are
// dropped. Unparseable values become zero and are flagged Malformed.
func (s *Store) ListTransactions(ctx context.Context, _ string, period models.DateRange) ([]models.FinancialTransaction, error) {
	rows, err := s.rows(ctx, transactionsRange)
	if err != nil {
		return nil, err
	}

	txs := make([]models.FinancialTransaction, 0, len(rows))
	for _, row := range rows {
		value, ok := parseDecimal(cell(row, 3))
		tx := models.FinancialTransaction{
			ID:          cell(row, 0),
			Type:        models.ParseTransactionType(cell(row, 1)),
			Status:      models.ParseTransactionStatus(cell(row, 2)),
			Value:       value,
			Malformed:   !ok,
			Category:    cell(row, 4),
			Description: cell(row, 5),
			LinkedArea:  cell(row, 6),
			ScheduledAt: parseDate(cell(row, 7)),
			PaidAt:      parseDate(cell(row, 8)),
		}
		if !period.Contains(tx.EffectiveDate()) {
			continue
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// SumOutgoingMovementValue reads Movimentacoes: date, batch id, direction, value
// and sums the absolute value of outgoing rows inside period.
func (s *Store) SumOutgoingMovementValue(ctx context.Context, _ string, period models.DateRange) (decimal.Decimal, error) {
	rows, err := s.rows(ctx, movementsRange)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for i, row := range rows {
		if !isOutgoing(cell(row, 2)) {
			continue
		}
		if !period.Contains(parseDate(cell(row, 0))) {
			continue
		}
		value, ok := parseDecimal(cell(row, 3))
		if !ok {
			s.logger.Debug("movement value coerced to zero", zap.Int("row", i+2), zap.String("value", cell(row, 3)))
		}
		total = total.Add(value.Abs())
	}
	return total, nil
}

// SaveCostReport appends a one-line summary of the report to Relatorios.
func (s *Store) SaveCostReport(ctx context.Context, report models.CostReport) error {
	row := []interface{}{
		report.ID,
		report.OwnerID,
		report.GeneratedAt.Format(time.RFC3339),
		formatDate(report.Period.Start),
		formatDate(report.Period.End),
		string(report.Filter),
		report.TotalArea.String(),
		report.GrandTotal.StringFixed(2),
	}
	if err := s.repo.AppendRow(ctx, reportsRange, row); err != nil {
		return fmt.Errorf("save cost report: %w", err)
	}
	return nil
}

func (s *Store) rows(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	rows, err := s.repo.ReadRange(ctx, sheetRange)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", sheetRange, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}

func cell(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[i]))
}

// parseDecimal accepts plain decimals only ("1234.56"). Anything else yields zero and false.
func parseDecimal(raw string) (decimal.Decimal, bool) {
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func optionalDecimal(raw string) *decimal.Decimal {
	if raw == "" {
		return nil
	}
	d, _ := parseDecimal(raw)
	return &d
}

func parseDate(raw string) time.Time {
	if len(raw) > 10 {
		raw = raw[:10]
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseBool(raw string, fallback bool) bool {
	switch strings.ToLower(raw) {
	case "true", "sim", "yes", "1", "x":
		return true
	case "false", "nao", "não", "no", "0":
		return false
	default:
		return fallback
	}
}

func isOutgoing(raw string) bool {
	switch strings.ToLower(raw) {
	case "out", "saida", "saída", "consumo", "aplicacao", "aplicação":
		return true
	default:
		return false
	}
}
