package dto

import (
	"time"

	"github.com/SscSPs/statement_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID      string          `json:"accountID"`
	Name           string          `json:"name"`
	AccountType    string          `json:"accountType"`
	Provider       string          `json:"provider"`
	CurrencyCode   string          `json:"currencyCode"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
	LastUpdatedAt  time.Time       `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.AccountID,
		Name:           acc.Name,
		AccountType:    string(acc.AccountType),
		Provider:       acc.Provider,
		CurrencyCode:   acc.CurrencyCode,
		CurrentBalance: acc.CurrentBalance,
		IsActive:       acc.IsActive,
		CreatedAt:      acc.CreatedAt,
		LastUpdatedAt:  acc.LastUpdatedAt,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, ToAccountResponse(&accounts[i]))
	}
	return out
}
