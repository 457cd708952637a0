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

type PgxRecurringRepository struct {
	BaseRepository
}

// newPgxRecurringRepository creates a new repository for recurring groups.
func newPgxRecurringRepository(pool *pgxpool.Pool) *PgxRecurringRepository {
	return &PgxRecurringRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxRecurringRepository implements portsrepo.RecurringRepositoryFacade
var _ portsrepo.RecurringRepositoryFacade = (*PgxRecurringRepository)(nil)

func toModelRecurringGroup(d domain.RecurringGroup) models.RecurringGroup {
	return models.RecurringGroup{
		GroupID:          d.GroupID,
		UserID:           d.UserID,
		Name:             d.Name,
		Type:             string(d.Type),
		Frequency:        string(d.Frequency),
		EstimatedAmount:  d.EstimatedAmount,
		Status:           string(d.Status),
		CategoryID:       d.CategoryID,
		MerchantName:     d.MerchantName,
		NextExpectedDate: d.NextExpectedDate,
		CancelURL:        d.CancelURL,
		CancelSteps:      d.CancelSteps,
		AuditFields:      mapping.ToModelAuditFields(d.AuditFields),
	}
}

func toDomainRecurringGroup(m models.RecurringGroup) domain.RecurringGroup {
	return domain.RecurringGroup{
		GroupID:          m.GroupID,
		UserID:           m.UserID,
		Name:             m.Name,
		Type:             domain.RecurringType(m.Type),
		Frequency:        domain.Frequency(m.Frequency),
		EstimatedAmount:  m.EstimatedAmount,
		Status:           domain.RecurringStatus(m.Status),
		CategoryID:       m.CategoryID,
		MerchantName:     m.MerchantName,
		NextExpectedDate: m.NextExpectedDate,
		CancelURL:        m.CancelURL,
		CancelSteps:      m.CancelSteps,
		AuditFields:      mapping.ToDomainAuditFields(m.AuditFields),
	}
}

const recurringColumns = `group_id, user_id, name, type, frequency, estimated_amount, status, COALESCE(category_id, ''), merchant_name, next_expected_date, cancel_url, cancel_steps, created_at, created_by, last_updated_at, last_updated_by`

func scanRecurringGroup(row pgx.Row) (models.RecurringGroup, error) {
	var m models.RecurringGroup
	err := row.Scan(
		&m.GroupID,
		&m.UserID,
		&m.Name,
		&m.Type,
		&m.Frequency,
		&m.EstimatedAmount,
		&m.Status,
		&m.CategoryID,
		&m.MerchantName,
		&m.NextExpectedDate,
		&m.CancelURL,
		&m.CancelSteps,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveGroupWithMembers persists a new group and flags its member transactions
// within one database transaction.
func (r *PgxRecurringRepository) SaveGroupWithMembers(ctx context.Context, group domain.RecurringGroup, memberTransactionIDs []string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := toModelRecurringGroup(group)
	insertQuery := `
		INSERT INTO recurring_groups (
			group_id, user_id, name, type, frequency, estimated_amount, status,
			category_id, merchant_name, next_expected_date, cancel_url, cancel_steps,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err = tx.Exec(ctx, insertQuery,
		m.GroupID,
		m.UserID,
		m.Name,
		m.Type,
		m.Frequency,
		m.EstimatedAmount,
		m.Status,
		m.CategoryID,
		m.MerchantName,
		m.NextExpectedDate,
		m.CancelURL,
		m.CancelSteps,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: recurring group for merchant %s already exists", apperrors.ErrDuplicate, m.MerchantName)
		}
		return fmt.Errorf("failed to insert recurring group %s: %w", m.GroupID, err)
	}

	memberQuery := `
		UPDATE transactions
		SET is_recurring = TRUE, recurring_group_id = $1, last_updated_at = $2, last_updated_by = $3
		WHERE transaction_id = ANY($4);
	`
	if _, err := tx.Exec(ctx, memberQuery, m.GroupID, m.LastUpdatedAt, m.LastUpdatedBy, memberTransactionIDs); err != nil {
		return fmt.Errorf("failed to flag members of group %s: %w", m.GroupID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateGroup updates an existing group's mutable fields.
func (r *PgxRecurringRepository) UpdateGroup(ctx context.Context, group domain.RecurringGroup) error {
	m := toModelRecurringGroup(group)
	query := `
		UPDATE recurring_groups
		SET name = $3, status = $4, category_id = NULLIF($5, ''),
		    estimated_amount = $6, next_expected_date = $7,
		    cancel_url = $8, cancel_steps = $9,
		    last_updated_at = $10, last_updated_by = $11
		WHERE group_id = $1 AND user_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.GroupID,
		m.UserID,
		m.Name,
		m.Status,
		m.CategoryID,
		m.EstimatedAmount,
		m.NextExpectedDate,
		m.CancelURL,
		m.CancelSteps,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update recurring group %s: %w", m.GroupID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recurring group %s: %w", m.GroupID, apperrors.ErrNotFound)
	}
	return nil
}

// FindGroupByID retrieves a group scoped to a user.
func (r *PgxRecurringRepository) FindGroupByID(ctx context.Context, userID string, groupID string) (*domain.RecurringGroup, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_groups WHERE group_id = $1 AND user_id = $2;`

	m, err := scanRecurringGroup(r.Pool.QueryRow(ctx, query, groupID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("recurring group %s: %w", groupID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find recurring group %s: %w", groupID, err)
	}
	group := toDomainRecurringGroup(m)
	return &group, nil
}

// FindGroupByMerchant retrieves the group for a (user, merchant name) pair.
func (r *PgxRecurringRepository) FindGroupByMerchant(ctx context.Context, userID string, merchantName string) (*domain.RecurringGroup, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_groups WHERE user_id = $1 AND merchant_name = $2;`

	m, err := scanRecurringGroup(r.Pool.QueryRow(ctx, query, userID, merchantName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no group for merchant %s: %w", merchantName, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find group for merchant %s: %w", merchantName, err)
	}
	group := toDomainRecurringGroup(m)
	return &group, nil
}

// ListGroupsByUser retrieves all of a user's recurring groups.
func (r *PgxRecurringRepository) ListGroupsByUser(ctx context.Context, userID string) ([]domain.RecurringGroup, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_groups WHERE user_id = $1 ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring groups: %w", err)
	}
	defer rows.Close()

	modelGroups, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.RecurringGroup, error) {
		return scanRecurringGroup(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan recurring groups: %w", err)
	}

	groups := make([]domain.RecurringGroup, 0, len(modelGroups))
	for _, m := range modelGroups {
		groups = append(groups, toDomainRecurringGroup(m))
	}
	return groups, nil
}
