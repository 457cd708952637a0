package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single ledger entry belonging to exactly one account.
// Transactions are created only by the statement ingestion pipeline and are
// never deleted by it; categorisation and recurring detection mutate them later.
type Transaction struct {
	TransactionID    string           `json:"transactionID"` // Primary Key (UUID)
	AccountID        string           `json:"accountID"`     // FK -> Account.accountID (Not Null)
	Date             time.Time        `json:"date"`          // Statement date, may carry a time component
	Description      string           `json:"description"`   // Normalized single-line description
	Amount           decimal.Decimal  `json:"amount"`        // Signed: negative = money out, positive = money in
	BalanceAfter     *decimal.Decimal `json:"balanceAfter"`  // Running balance after this entry, when the dialect carries one
	CategoryID       string           `json:"categoryID"`    // Nullable FK, set by categorisation
	Subcategory      string           `json:"subcategory"`
	MerchantName     string           `json:"merchantName"`
	IsRecurring      bool             `json:"isRecurring"`
	RecurringGroupID string           `json:"recurringGroupID"` // Nullable FK -> RecurringGroup
	Notes            string           `json:"notes"`
	AIConfidence     *float64         `json:"aiConfidence"` // Nil when the category was set by the user
	ImportID         string           `json:"importID"`     // Originating import batch
	AuditFields
}

// IdentityHash computes the stable duplicate-detection digest for a transaction,
// scoped to an account. Two entries with the same account, calendar date,
// amount and case/whitespace-normalized description are considered the same
// transaction. The digest must stay identical across runs, so only normalize
// with deterministic operations.
func IdentityHash(accountID string, date time.Time, amount decimal.Decimal, description string) string {
	key := fmt.Sprintf("%s|%s|%s|%s",
		accountID,
		date.Format("2006-01-02"),
		normalizeAmount(amount),
		strings.ToLower(strings.TrimSpace(description)),
	)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// normalizeAmount strips insignificant trailing zeros so "45.50" and "45.5000"
// hash the same.
func normalizeAmount(amount decimal.Decimal) string {
	s := amount.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	if s == "-0" || s == "" {
		s = "0"
	}
	return s
}

// MerchantKey returns the normalized key used to cluster transactions for
// recurring-payment detection: the merchant name when present, otherwise the
// description, lowercased and trimmed.
func (t Transaction) MerchantKey() string {
	name := t.MerchantName
	if name == "" {
		name = t.Description
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// DisplayMerchant returns the un-normalized merchant label used when naming a
// recurring group.
func (t Transaction) DisplayMerchant() string {
	if t.MerchantName != "" {
		return t.MerchantName
	}
	return t.Description
}
