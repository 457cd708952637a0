package repositories

import (
	"context"

	"github.com/SscSPs/statement_ledger_app/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindActiveAccountByProvider retrieves the user's single active account
	// for a bank provider. Returns apperrors.ErrNotFound when none exists.
	FindActiveAccountByProvider(ctx context.Context, userID string, provider string) (*domain.Account, error)

	// ListAccountsByUser retrieves all accounts belonging to a user.
	ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
