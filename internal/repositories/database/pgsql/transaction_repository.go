package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/statement_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/statement_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/statement_ledger_app/internal/models"
	"github.com/SscSPs/statement_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func toDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:    m.TransactionID,
		AccountID:        m.AccountID,
		Date:             m.Date,
		Description:      m.Description,
		Amount:           m.Amount,
		BalanceAfter:     m.BalanceAfter,
		CategoryID:       m.CategoryID,
		Subcategory:      m.Subcategory,
		MerchantName:     m.MerchantName,
		IsRecurring:      m.IsRecurring,
		RecurringGroupID: m.RecurringGroupID,
		Notes:            m.Notes,
		AIConfidence:     m.AIConfidence,
		ImportID:         m.ImportID,
		AuditFields:      mapping.ToDomainAuditFields(m.AuditFields),
	}
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.AccountID,
		&m.Date,
		&m.Description,
		&m.Amount,
		&m.IdentityHash,
		&m.BalanceAfter,
		&m.CategoryID,
		&m.Subcategory,
		&m.MerchantName,
		&m.IsRecurring,
		&m.RecurringGroupID,
		&m.Notes,
		&m.AIConfidence,
		&m.ImportID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// ListIdentityHashes loads the duplicate-detection hash set for an account.
func (r *PgxTransactionRepository) ListIdentityHashes(ctx context.Context, accountID string) (map[string]struct{}, error) {
	query := `SELECT identity_hash FROM transactions WHERE account_id = $1;`

	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list identity hashes: %w", err)
	}
	defer rows.Close()

	hashes := make(map[string]struct{})
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, fmt.Errorf("failed to scan identity hash: %w", err)
		}
		hashes[hash] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read identity hashes: %w", err)
	}
	return hashes, nil
}

// ListTransactionsByUser retrieves a user's full history across all accounts.
func (r *PgxTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + qualifiedTransactionColumns() + `
		FROM transactions t
		JOIN accounts a ON a.account_id = t.account_id
		WHERE a.user_id = $1
		ORDER BY t.date, t.transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// FindTransactionsByIDs retrieves specific transactions scoped to a user.
func (r *PgxTransactionRepository) FindTransactionsByIDs(ctx context.Context, userID string, transactionIDs []string) ([]domain.Transaction, error) {
	if len(transactionIDs) == 0 {
		return []domain.Transaction{}, nil
	}

	query := `
		SELECT ` + qualifiedTransactionColumns() + `
		FROM transactions t
		JOIN accounts a ON a.account_id = t.account_id
		WHERE a.user_id = $1 AND t.transaction_id = ANY($2)
		ORDER BY t.date, t.transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, userID, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find transactions by IDs: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ApplyCategorisation writes categorisation results in one batch. The join
// against accounts keeps a user's update from touching another user's rows.
func (r *PgxTransactionRepository) ApplyCategorisation(ctx context.Context, userID string, assignments []domain.CategoryAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	query := `
		UPDATE transactions t
		SET category_id = NULLIF($3, ''),
		    merchant_name = COALESCE(NULLIF($4, ''), t.merchant_name),
		    ai_confidence = $5,
		    last_updated_at = $6
		FROM accounts a
		WHERE a.account_id = t.account_id
		  AND a.user_id = $1
		  AND t.transaction_id = $2;
	`
	now := time.Now()
	batch := &pgx.Batch{}
	for _, assignment := range assignments {
		batch.Queue(query,
			userID,
			assignment.TransactionID,
			assignment.CategoryID,
			assignment.MerchantName,
			assignment.Confidence,
			now,
		)
	}

	br := r.Pool.SendBatch(ctx, batch)
	defer br.Close()

	for range assignments {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to apply categorisation: %w", err)
		}
	}
	return nil
}

// Nullable FK columns are coalesced to empty strings so they scan straight
// into the model struct.
func qualifiedTransactionColumns() string {
	return `t.transaction_id, t.account_id, t.date, t.description, t.amount, t.identity_hash, t.balance_after, COALESCE(t.category_id, ''), t.subcategory, t.merchant_name, t.is_recurring, COALESCE(t.recurring_group_id, ''), t.notes, t.ai_confidence, t.import_id, t.created_at, t.created_by, t.last_updated_at, t.last_updated_by`
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	modelTxns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Transaction, error) {
		return scanTransaction(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}

	txns := make([]domain.Transaction, 0, len(modelTxns))
	for _, m := range modelTxns {
		txns = append(txns, toDomainTransaction(m))
	}
	return txns, nil
}
