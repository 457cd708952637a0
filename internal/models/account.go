package models

import (
	"github.com/shopspring/decimal"
)

// AccountType tags the kind of account a statement belongs to.
type AccountType string

// Account represents a bank account row.
type Account struct {
	AccountID      string          `db:"account_id"`
	UserID         string          `db:"user_id"`
	Name           string          `db:"name"`
	AccountType    AccountType     `db:"account_type"`
	Provider       string          `db:"provider"`
	CurrencyCode   string          `db:"currency_code"`
	CurrentBalance decimal.Decimal `db:"current_balance"`
	IsActive       bool            `db:"is_active"`
	AuditFields
}
