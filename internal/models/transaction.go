package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a ledger entry row.
type Transaction struct {
	TransactionID    string           `db:"transaction_id"`
	AccountID        string           `db:"account_id"`
	Date             time.Time        `db:"date"`
	Description      string           `db:"description"`
	Amount           decimal.Decimal  `db:"amount"`
	IdentityHash     string           `db:"identity_hash"` // Unique per account
	BalanceAfter     *decimal.Decimal `db:"balance_after"` // Nullable
	CategoryID       string           `db:"category_id"`   // Nullable
	Subcategory      string           `db:"subcategory"`
	MerchantName     string           `db:"merchant_name"`
	IsRecurring      bool             `db:"is_recurring"`
	RecurringGroupID string           `db:"recurring_group_id"` // Nullable
	Notes            string           `db:"notes"`
	AIConfidence     *float64         `db:"ai_confidence"` // Nullable
	ImportID         string           `db:"import_id"`     // Nullable
	AuditFields
}
