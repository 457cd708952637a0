package repositories

import (
	"context"

	"github.com/SscSPs/statement_ledger_app/internal/core/domain"
)

// ImportReader defines read operations for import records
type ImportReader interface {
	// FindImportByID retrieves an import record scoped to a user.
	FindImportByID(ctx context.Context, userID string, importID string) (*domain.Import, error)

	// ListImportsByUser retrieves a user's import history, newest first.
	ListImportsByUser(ctx context.Context, userID string) ([]domain.Import, error)
}

// ImportWriter defines write operations for import records
type ImportWriter interface {
	// SaveImportBatch persists one ingestion attempt atomically: the import
	// record, its surviving transactions, and the guarded account-balance
	// update all commit in a single database transaction. On error nothing
	// is left visible.
	//
	// balance may be nil when the batch carried no running-balance
	// observation; the account balance is then left untouched.
	SaveImportBatch(ctx context.Context, imp domain.Import, transactions []domain.Transaction, balance *domain.BalanceObservation) error

	// SaveImport persists a standalone import record. Used to record failed
	// ingestion attempts after their batch was rolled back.
	SaveImport(ctx context.Context, imp domain.Import) error
}

// ImportRepositoryFacade combines all import-related repository interfaces
type ImportRepositoryFacade interface {
	ImportReader
	ImportWriter
}
