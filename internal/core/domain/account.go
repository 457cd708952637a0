package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType tags the kind of account a statement belongs to.
type AccountType string

const (
	Current    AccountType = "current"
	Savings    AccountType = "savings"
	CreditCard AccountType = "credit_card"
	Investment AccountType = "investment"
	Loan       AccountType = "loan"
	Mortgage   AccountType = "mortgage"
	Pension    AccountType = "pension"
)

// Account represents a bank account within the core domain.
// This is the primary representation used by services.
// Accounts are never deleted; they are archived via IsActive.
type Account struct {
	AccountID      string          `json:"accountID"`      // Primary Key (UUID)
	UserID         string          `json:"userID"`         // Owning user
	Name           string          `json:"name"`           // Display name, e.g. "Monzo Account"
	AccountType    AccountType     `json:"accountType"`    // current, credit_card, etc.
	Provider       string          `json:"provider"`       // Bank provider label, e.g. "HSBC"
	CurrencyCode   string          `json:"currencyCode"`   // ISO 4217, defaults to GBP
	CurrentBalance decimal.Decimal `json:"currentBalance"` // Latest reconciled running balance
	IsActive       bool            `json:"isActive"`       // Soft delete or status flag
	AuditFields                    // Embed CreatedAt, CreatedBy, etc.
}
