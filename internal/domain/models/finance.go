package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnknownBucket is returned when a cost bucket label cannot be parsed.
var ErrUnknownBucket = errors.New("unknown cost bucket")

// CostBucket enumerates the macro cost groups used by the plot cost report.
type CostBucket string

const (
	BucketInputs         CostBucket = "inputs"
	BucketOperational    CostBucket = "operational"
	BucketLogistics      CostBucket = "logistics"
	BucketAdministrative CostBucket = "administrative"
	BucketOther          CostBucket = "other"
)

// Buckets lists every bucket in report order.
var Buckets = []CostBucket{
	BucketInputs,
	BucketOperational,
	BucketLogistics,
	BucketAdministrative,
	BucketOther,
}

var bucketAliases = map[string]CostBucket{
	"inputs":         BucketInputs,
	"insumos":        BucketInputs,
	"operational":    BucketOperational,
	"operacional":    BucketOperational,
	"logistics":      BucketLogistics,
	"logistica":      BucketLogistics,
	"logística":      BucketLogistics,
	"administrative": BucketAdministrative,
	"administrativo": BucketAdministrative,
	"other":          BucketOther,
	"outros":         BucketOther,
}

// ParseBucket resolves a bucket label (English or Portuguese). Empty input yields "" and no error.
func ParseBucket(raw string) (CostBucket, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return "", nil
	}
	if b, ok := bucketAliases[key]; ok {
		return b, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownBucket, raw)
}

// TransactionType distinguishes money going out from money coming in.
type TransactionType string

const (
	TransactionExpense TransactionType = "expense"
	TransactionIncome  TransactionType = "income"
)

// TransactionStatus is the settlement state of a transaction.
type TransactionStatus string

const (
	StatusPending TransactionStatus = "pending"
	StatusPaid    TransactionStatus = "paid"
)

// FinancialTransaction is a read-only input row from the finance module.
type FinancialTransaction struct {
	ID          string
	Value       decimal.Decimal
	Category    string
	Description string
	LinkedArea  string
	Type        TransactionType
	Status      TransactionStatus
	ScheduledAt time.Time
	PaidAt      time.Time
	// Malformed is set by the fetch layer when Value could not be parsed and was coerced to zero.
	Malformed bool
}

// EffectiveDate is the paid date, falling back to the scheduled date.
func (t FinancialTransaction) EffectiveDate() time.Time {
	if !t.PaidAt.IsZero() {
		return t.PaidAt
	}
	return t.ScheduledAt
}

// ParseTransactionType maps a stored label to a TransactionType. Unknown labels yield "".
func ParseTransactionType(raw string) TransactionType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "expense", "despesa", "saida", "saída", "debit":
		return TransactionExpense
	case "income", "receita", "entrada", "credit":
		return TransactionIncome
	default:
		return ""
	}
}

// ParseTransactionStatus maps a stored label to a TransactionStatus. Anything not paid is pending.
func ParseTransactionStatus(raw string) TransactionStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "paid", "pago", "paga", "quitado", "liquidado":
		return StatusPaid
	default:
		return StatusPending
	}
}
