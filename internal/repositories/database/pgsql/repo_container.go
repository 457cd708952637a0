package pgsql

import (
	portsrepo "github.com/SscSPs/statement_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool)
	importRepo := newPgxImportRepository(dbPool)
	recurringRepo := newPgxRecurringRepository(dbPool)
	categoryRepo := newPgxCategoryRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
		ImportRepo:      importRepo,
		RecurringRepo:   recurringRepo,
		CategoryRepo:    categoryRepo,
	}
}
