package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/statement_ledger_app/internal/apperrors"
	"github.com/SscSPs/statement_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/statement_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/statement_ledger_app/internal/models"
	"github.com/SscSPs/statement_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxImportRepository struct {
	BaseRepository
}

// newPgxImportRepository creates a new repository for import records.
func newPgxImportRepository(pool *pgxpool.Pool) *PgxImportRepository {
	return &PgxImportRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxImportRepository implements portsrepo.ImportRepositoryFacade
var _ portsrepo.ImportRepositoryFacade = (*PgxImportRepository)(nil)

func toModelImport(d domain.Import) models.Import {
	return models.Import{
		ImportID:          d.ImportID,
		UserID:            d.UserID,
		AccountID:         d.AccountID,
		Filename:          d.Filename,
		FileType:          d.FileType,
		RowCount:          d.RowCount,
		DuplicatesSkipped: d.DuplicatesSkipped,
		DateRangeStart:    d.DateRangeStart,
		DateRangeEnd:      d.DateRangeEnd,
		Status:            string(d.Status),
		ErrorMessage:      d.ErrorMessage,
		AuditFields:       mapping.ToModelAuditFields(d.AuditFields),
	}
}

func toDomainImport(m models.Import) domain.Import {
	return domain.Import{
		ImportID:          m.ImportID,
		UserID:            m.UserID,
		AccountID:         m.AccountID,
		Filename:          m.Filename,
		FileType:          m.FileType,
		RowCount:          m.RowCount,
		DuplicatesSkipped: m.DuplicatesSkipped,
		DateRangeStart:    m.DateRangeStart,
		DateRangeEnd:      m.DateRangeEnd,
		Status:            domain.ImportStatus(m.Status),
		ErrorMessage:      m.ErrorMessage,
		AuditFields:       mapping.ToDomainAuditFields(m.AuditFields),
	}
}

const importColumns = `import_id, user_id, account_id, filename, file_type, row_count, duplicates_skipped, date_range_start, date_range_end, status, COALESCE(error_message, ''), created_at, created_by, last_updated_at, last_updated_by`

const insertImportQuery = `
	INSERT INTO imports (
		import_id, user_id, account_id, filename, file_type,
		row_count, duplicates_skipped, date_range_start, date_range_end,
		status, error_message,
		created_at, created_by, last_updated_at, last_updated_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12, $13, $14, $15);
`

const insertTransactionQuery = `
	INSERT INTO transactions (
		transaction_id, account_id, date, description, amount, identity_hash,
		balance_after, category_id, subcategory, merchant_name,
		is_recurring, recurring_group_id, notes, ai_confidence, import_id,
		created_at, created_by, last_updated_at, last_updated_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10, $11, NULLIF($12, ''), $13, $14, $15, $16, $17, $18, $19);
`

// The balance only moves when no transaction outside this batch is newer
// than the observation, so a backfilled old statement cannot clobber a
// balance established by more recent data.
const guardedBalanceUpdateQuery = `
	UPDATE accounts
	SET current_balance = $2, last_updated_at = $3, last_updated_by = $4
	WHERE account_id = $1
	  AND NOT EXISTS (
		SELECT 1 FROM transactions t
		WHERE t.account_id = $1
		  AND t.import_id <> $5
		  AND t.date > $6
	  );
`

func importExecArgs(m models.Import) []any {
	return []any{
		m.ImportID,
		m.UserID,
		m.AccountID,
		m.Filename,
		m.FileType,
		m.RowCount,
		m.DuplicatesSkipped,
		m.DateRangeStart,
		m.DateRangeEnd,
		m.Status,
		m.ErrorMessage,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

// SaveImportBatch persists one ingestion attempt atomically: the import
// record, its surviving transactions, and the guarded balance update commit
// in a single database transaction.
func (r *PgxImportRepository) SaveImportBatch(ctx context.Context, imp domain.Import, transactions []domain.Transaction, balance *domain.BalanceObservation) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := toModelImport(imp)
	if _, err := tx.Exec(ctx, insertImportQuery, importExecArgs(m)...); err != nil {
		return fmt.Errorf("failed to insert import %s: %w", m.ImportID, err)
	}

	if len(transactions) > 0 {
		batch := &pgx.Batch{}
		for i := range transactions {
			t := transactions[i]
			batch.Queue(insertTransactionQuery,
				t.TransactionID,
				t.AccountID,
				t.Date,
				t.Description,
				t.Amount,
				domain.IdentityHash(t.AccountID, t.Date, t.Amount, t.Description),
				t.BalanceAfter,
				t.CategoryID,
				t.Subcategory,
				t.MerchantName,
				t.IsRecurring,
				t.RecurringGroupID,
				t.Notes,
				t.AIConfidence,
				t.ImportID,
				t.CreatedAt,
				t.CreatedBy,
				t.LastUpdatedAt,
				t.LastUpdatedBy,
			)
		}

		br := tx.SendBatch(ctx, batch)
		for range transactions {
			if _, err := br.Exec(); err != nil {
				br.Close()
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == "23505" {
					// A concurrent upload won the race on this row.
					return fmt.Errorf("%w: transaction already ingested", apperrors.ErrDuplicate)
				}
				return fmt.Errorf("failed to insert transactions for import %s: %w", m.ImportID, err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to close transaction batch: %w", err)
		}
	}

	if balance != nil {
		_, err := tx.Exec(ctx, guardedBalanceUpdateQuery,
			m.AccountID,
			balance.Balance,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
			m.ImportID,
			balance.Date,
		)
		if err != nil {
			return fmt.Errorf("failed to update account balance: %w", err)
		}
	}

	return r.Commit(ctx, tx)
}

// SaveImport persists a standalone import record, used for error-status
// imports after their batch was rolled back.
func (r *PgxImportRepository) SaveImport(ctx context.Context, imp domain.Import) error {
	m := toModelImport(imp)
	if _, err := r.Pool.Exec(ctx, insertImportQuery, importExecArgs(m)...); err != nil {
		return fmt.Errorf("failed to save import %s: %w", m.ImportID, err)
	}
	return nil
}

// FindImportByID retrieves an import record scoped to a user.
func (r *PgxImportRepository) FindImportByID(ctx context.Context, userID string, importID string) (*domain.Import, error) {
	query := `SELECT ` + importColumns + ` FROM imports WHERE import_id = $1 AND user_id = $2;`

	m, err := scanImport(r.Pool.QueryRow(ctx, query, importID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("import %s: %w", importID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find import %s: %w", importID, err)
	}
	imp := toDomainImport(m)
	return &imp, nil
}

// ListImportsByUser retrieves a user's import history, newest first.
func (r *PgxImportRepository) ListImportsByUser(ctx context.Context, userID string) ([]domain.Import, error) {
	query := `SELECT ` + importColumns + ` FROM imports WHERE user_id = $1 ORDER BY created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}
	defer rows.Close()

	modelImports, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Import, error) {
		return scanImport(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan imports: %w", err)
	}

	imports := make([]domain.Import, 0, len(modelImports))
	for _, m := range modelImports {
		imports = append(imports, toDomainImport(m))
	}
	return imports, nil
}

func scanImport(row pgx.Row) (models.Import, error) {
	var m models.Import
	err := row.Scan(
		&m.ImportID,
		&m.UserID,
		&m.AccountID,
		&m.Filename,
		&m.FileType,
		&m.RowCount,
		&m.DuplicatesSkipped,
		&m.DateRangeStart,
		&m.DateRangeEnd,
		&m.Status,
		&m.ErrorMessage,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}
