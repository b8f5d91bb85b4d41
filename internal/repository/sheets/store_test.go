package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmcost/internal/domain/models"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) AppendRow(ctx context.Context, sheetRange string, values []interface{}) error {
	args := m.Called(ctx, sheetRange, values)
	return args.Error(0)
}

func (m *mockRepository) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	args := m.Called(ctx, sheetRange)
	rows, _ := args.Get(0).([][]interface{})
	return rows, args.Error(1)
}

var january = models.DateRange{
	Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC),
}

func TestStore_ListBatches(t *testing.T) {
	// Given
	repo := new(mockRepository)
	repo.On("ReadRange", mock.Anything, batchesRange).Return([][]interface{}{
		{"id", "nome", "marca", "categoria", "unidade", "ref", "inicial", "atual", "preco", "total", "media", "criado"},
		{"b1", "Ureia", "Yara", "Fertilizante", "sacas", "", "10", "4.5", "150", "1500", "", "2025-01-10"},
		{"b2", "", "", "", "kg", "", "1", "1"},
		{"b3", "Glifosato", "", "Defensivo", "L", "", "1.234,5"},
	}, nil)
	store := NewStore(repo, nil)

	// When
	batches, err := store.ListBatches(context.Background(), "owner")

	// Then
	require.NoError(t, err)
	require.Len(t, batches, 2)

	ureia := batches[0]
	assert.Equal(t, "Ureia", ureia.Name)
	assert.Equal(t, models.UnitSaca, ureia.Unit)
	assert.True(t, decimal.NewFromInt(10).Equal(ureia.InitialQuantity))
	assert.True(t, decimal.RequireFromString("4.5").Equal(ureia.CurrentQuantity))
	require.NotNil(t, ureia.TotalValue)
	assert.True(t, decimal.NewFromInt(1500).Equal(*ureia.TotalValue))
	assert.Nil(t, ureia.CachedAveragePrice)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), ureia.CreatedAt)

	glifosato := batches[1]
	assert.True(t, glifosato.InitialQuantity.IsZero())
	assert.Nil(t, glifosato.UnitPrice)
	repo.AssertExpectations(t)
}

func TestStore_ListEligiblePlots(t *testing.T) {
	repo := new(mockRepository)
	repo.On("ReadRange", mock.Anything, plotsRange).Return([][]interface{}{
		{"id", "nome", "area", "ativo", "padrao"},
		{"p1", "Talhão 1", "12.5", "sim", "nao"},
		{"p2", "Sede", "3", "sim", "sim"},
		{"p3", "Antigo", "8", "nao", ""},
		{"p4", "Sem área", "", "", ""},
		{"p5", "Talhão 2", "20"},
	}, nil)
	store := NewStore(repo, nil)

	plots, err := store.ListEligiblePlots(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, plots, 2)
	assert.Equal(t, "p1", plots[0].ID)
	assert.Equal(t, "p5", plots[1].ID)
	assert.True(t, plots[1].Active)
}

func TestStore_ListTransactions(t *testing.T) {
	repo := new(mockRepository)
	repo.On("ReadRange", mock.Anything, transactionsRange).Return([][]interface{}{
		{"id", "tipo", "status", "valor", "categoria", "descricao", "area", "agendado", "pago"},
		{"t1", "despesa", "pago", "-250.40", "Frete", "frete soja", "Talhão 1", "2025-01-02", "2025-01-05T10:00:00Z"},
		{"t2", "despesa", "pago", "1.234,56", "Energia", "", "", "2025-01-03", ""},
		{"t3", "despesa", "pendente", "10", "Frete", "", "", "2025-02-03", ""},
	}, nil)
	store := NewStore(repo, nil)

	txs, err := store.ListTransactions(context.Background(), "", january)

	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, models.TransactionExpense, txs[0].Type)
	assert.Equal(t, models.StatusPaid, txs[0].Status)
	assert.True(t, decimal.RequireFromString("-250.40").Equal(txs[0].Value))
	assert.False(t, txs[0].Malformed)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), txs[0].PaidAt)

	assert.True(t, txs[1].Malformed)
	assert.True(t, txs[1].Value.IsZero())
}

func TestStore_SumOutgoingMovementValue(t *testing.T) {
	repo := new(mockRepository)
	repo.On("ReadRange", mock.Anything, movementsRange).Return([][]interface{}{
		{"data", "lote", "tipo", "valor"},
		{"2025-01-04", "b1", "saida", "-120.50"},
		{"2025-01-09", "b1", "Saída", "79.50"},
		{"2025-01-09", "b2", "entrada", "1000"},
		{"2024-12-31", "b1", "saida", "55"},
	}, nil)
	store := NewStore(repo, nil)

	total, err := store.SumOutgoingMovementValue(context.Background(), "", january)

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(200).Equal(total), total.String())
}

func TestStore_ReadError(t *testing.T) {
	repo := new(mockRepository)
	repo.On("ReadRange", mock.Anything, plotsRange).Return(nil, errors.New("quota exceeded"))
	store := NewStore(repo, nil)

	_, err := store.ListEligiblePlots(context.Background(), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestStore_SaveCostReport(t *testing.T) {
	repo := new(mockRepository)
	report := models.CostReport{
		ID:          "r1",
		OwnerID:     "owner",
		GeneratedAt: time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC),
		Period:      january,
		TotalArea:   decimal.NewFromInt(40),
		GrandTotal:  decimal.RequireFromString("690"),
	}
	expected := []interface{}{"r1", "owner", "2025-02-01T08:00:00Z", "2025-01-01", "2025-01-31", "", "40", "690.00"}
	repo.On("AppendRow", mock.Anything, reportsRange, expected).Return(nil)
	store := NewStore(repo, nil)

	require.NoError(t, store.SaveCostReport(context.Background(), report))
	repo.AssertExpectations(t)
}
