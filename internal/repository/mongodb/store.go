package mongodb

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmcost/internal/config"
	"github.com/mamadbah2/farmcost/internal/domain/models"
)

const (
	batchesCollection      = "inventory_batches"
	plotsCollection        = "plots"
	transactionsCollection = "transactions"
	movementsCollection    = "stock_movements"
	reportsCollection      = "cost_reports"
)

type movementDocument struct {
	Direction string      `bson:"direction"`
	Value     interface{} `bson:"value"`
}

// Store reads farm records from MongoDB and keeps cost report snapshots.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// NewStore connects to MongoDB and verifies the connection.
func NewStore(ctx context.Context, cfg config.MongoDBConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{
		client: client,
		db:     client.Database(cfg.DBName),
		logger: logger,
	}, nil
}

// ListBatches returns the owner's inventory batches, oldest first.
func (s *Store) ListBatches(ctx context.Context, ownerID string) ([]models.InventoryBatch, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.db.Collection(batchesCollection).Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find batches: %w", err)
	}

	var docs []batchDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode batches: %w", err)
	}

	batches := make([]models.InventoryBatch, 0, len(docs))
	for _, d := range docs {
		batches = append(batches, d.toModel())
	}
	return batches, nil
}

// ListEligiblePlots returns active, non-default plots. Plots whose stored area
// does not parse to a positive number are dropped.
func (s *Store) ListEligiblePlots(ctx context.Context, ownerID string) ([]models.Plot, error) {
	filter := bson.M{
		"owner_id":   ownerID,
		"active":     true,
		"is_default": bson.M{"$ne": true},
	}
	cursor, err := s.db.Collection(plotsCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find plots: %w", err)
	}

	var docs []plotDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode plots: %w", err)
	}

	plots := make([]models.Plot, 0, len(docs))
	for _, d := range docs {
		p := d.toModel()
		if !p.Eligible() {
			s.logger.Debug("skip plot without area", zap.String("plot", p.Name))
			continue
		}
		plots = append(plots, p)
	}
	return plots, nil
}

// ListTransactions returns the owner's transactions whose paid date, or
// scheduled date when unpaid, falls in period.
func (s *Store) ListTransactions(ctx context.Context, ownerID string, period models.DateRange) ([]models.FinancialTransaction, error) {
	filter := bson.M{
		"owner_id": ownerID,
		"$or": bson.A{
			bson.M{"paid_at": rangeFilter(period)},
			bson.M{"paid_at": nil, "scheduled_at": rangeFilter(period)},
		},
	}
	cursor, err := s.db.Collection(transactionsCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}

	var docs []transactionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}

	txs := make([]models.FinancialTransaction, 0, len(docs))
	for _, d := range docs {
		tx := d.toModel()
		if tx.Malformed {
			s.logger.Debug("transaction value coerced to zero", zap.String("id", tx.ID), zap.Any("value", d.Value))
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// SumOutgoingMovementValue totals the absolute value of outgoing stock movements in period.
func (s *Store) SumOutgoingMovementValue(ctx context.Context, ownerID string, period models.DateRange) (decimal.Decimal, error) {
	filter := bson.M{
		"owner_id":  ownerID,
		"direction": "out",
		"date":      rangeFilter(period),
	}
	opts := options.Find().SetProjection(bson.M{"direction": 1, "value": 1})
	cursor, err := s.db.Collection(movementsCollection).Find(ctx, filter, opts)
	if err != nil {
		return decimal.Zero, fmt.Errorf("find stock movements: %w", err)
	}

	var docs []movementDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return decimal.Zero, fmt.Errorf("decode stock movements: %w", err)
	}

	total := decimal.Zero
	for _, d := range docs {
		v, ok := decimalFromAny(d.Value)
		if !ok {
			s.logger.Debug("movement value coerced to zero", zap.Any("value", d.Value))
		}
		total = total.Add(v.Abs())
	}
	return total, nil
}

// SaveCostReport stores a snapshot of a generated cost report.
func (s *Store) SaveCostReport(ctx context.Context, report models.CostReport) error {
	if _, err := s.db.Collection(reportsCollection).InsertOne(ctx, newCostReportDocument(report)); err != nil {
		return fmt.Errorf("failed to insert cost report: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// rangeFilter builds a date condition. Open bounds are omitted; a fully open range matches any set date.
func rangeFilter(r models.DateRange) bson.M {
	cond := bson.M{}
	if !r.Start.IsZero() {
		cond["$gte"] = r.Start.UTC()
	}
	if !r.End.IsZero() {
		cond["$lte"] = r.End.UTC()
	}
	if len(cond) == 0 {
		cond["$type"] = "date"
	}
	return cond
}
