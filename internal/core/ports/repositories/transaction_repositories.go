package repositories

import (
	"context"

	"github.com/SscSPs/statement_ledger_app/internal/core/domain"
)

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// ListIdentityHashes loads the full duplicate-detection hash set for an
	// account in one query. Called once per ingestion, not per row.
	ListIdentityHashes(ctx context.Context, accountID string) (map[string]struct{}, error)

	// ListTransactionsByUser retrieves a user's full transaction history
	// across all their accounts, ordered by date.
	ListTransactionsByUser(ctx context.Context, userID string) ([]domain.Transaction, error)

	// FindTransactionsByIDs retrieves specific transactions scoped to a user.
	FindTransactionsByIDs(ctx context.Context, userID string, transactionIDs []string) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transaction data outside the
// ingestion pipeline (which persists rows through ImportWriter.SaveImportBatch).
type TransactionWriter interface {
	// ApplyCategorisation applies categorisation results to transactions.
	ApplyCategorisation(ctx context.Context, userID string, assignments []domain.CategoryAssignment) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
