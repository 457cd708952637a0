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

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// Helper to convert domain.Account to models.Account for DB storage
func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		UserID:         d.UserID,
		Name:           d.Name,
		AccountType:    models.AccountType(d.AccountType),
		Provider:       d.Provider,
		CurrencyCode:   d.CurrencyCode,
		CurrentBalance: d.CurrentBalance,
		IsActive:       d.IsActive,
		AuditFields:    mapping.ToModelAuditFields(d.AuditFields),
	}
}

// Helper to convert models.Account from DB to domain.Account
func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		UserID:         m.UserID,
		Name:           m.Name,
		AccountType:    domain.AccountType(m.AccountType),
		Provider:       m.Provider,
		CurrencyCode:   m.CurrencyCode,
		CurrentBalance: m.CurrentBalance,
		IsActive:       m.IsActive,
		AuditFields:    mapping.ToDomainAuditFields(m.AuditFields),
	}
}

const accountColumns = `account_id, user_id, name, account_type, provider, currency_code, current_balance, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.UserID,
		&m.Name,
		&m.AccountType,
		&m.Provider,
		&m.CurrencyCode,
		&m.CurrentBalance,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := toModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.UserID,
		m.Name,
		m.AccountType,
		m.Provider,
		m.CurrencyCode,
		m.CurrentBalance,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: account for provider %s already exists", apperrors.ErrDuplicate, m.Provider)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	acc := toDomainAccount(m)
	return &acc, nil
}

// FindActiveAccountByProvider retrieves the user's active account for a bank
// provider. The ingestion pipeline keeps at most one per (user, provider).
func (r *PgxAccountRepository) FindActiveAccountByProvider(ctx context.Context, userID string, provider string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1 AND provider = $2 AND is_active = TRUE
		ORDER BY created_at
		LIMIT 1;
	`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, userID, provider))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no active %s account: %w", provider, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find account for provider %s: %w", provider, err)
	}
	acc := toDomainAccount(m)
	return &acc, nil
}

// ListAccountsByUser retrieves all accounts belonging to a user.
func (r *PgxAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	modelAccounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Account, error) {
		return scanAccount(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan accounts: %w", err)
	}

	accounts := make([]domain.Account, 0, len(modelAccounts))
	for _, m := range modelAccounts {
		accounts = append(accounts, toDomainAccount(m))
	}
	return accounts, nil
}
