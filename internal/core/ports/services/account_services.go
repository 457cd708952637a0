package services

import (
	"context"

	"github.com/SscSPs/statement_ledger_app/internal/core/domain"
)

// AccountSvcFacade defines read operations for account data. Accounts are
// created by the ingestion pipeline's resolver, not through this service.
type AccountSvcFacade interface {
	// GetAccountByID retrieves a specific account scoped to a user.
	GetAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error)

	// ListAccounts retrieves all of a user's accounts.
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)
}
