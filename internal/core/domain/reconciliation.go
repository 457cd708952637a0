package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceObservation is the latest running-balance reading carried by an
// import batch. The reconciler only applies it when its date is at least as
// recent as the account's newest transaction outside the batch, so an older
// backfilled statement can never clobber a balance established by newer data.
type BalanceObservation struct {
	Date    time.Time
	Balance decimal.Decimal
}

// CategoryAssignment is one categorisation result to apply to a transaction.
type CategoryAssignment struct {
	TransactionID string
	CategoryID    string
	Confidence    float64
	MerchantName  string
}
