package repositories

import (
	"context"

	"github.com/SscSPs/statement_ledger_app/internal/core/domain"
)

// RecurringReader defines read operations for recurring groups
type RecurringReader interface {
	// FindGroupByID retrieves a group scoped to a user.
	FindGroupByID(ctx context.Context, userID string, groupID string) (*domain.RecurringGroup, error)

	// FindGroupByMerchant retrieves the group detection created for a
	// (user, merchant name) pair. Returns apperrors.ErrNotFound when absent;
	// detection uses this to stay idempotent.
	FindGroupByMerchant(ctx context.Context, userID string, merchantName string) (*domain.RecurringGroup, error)

	// ListGroupsByUser retrieves all of a user's recurring groups by name.
	ListGroupsByUser(ctx context.Context, userID string) ([]domain.RecurringGroup, error)
}

// RecurringWriter defines write operations for recurring groups
type RecurringWriter interface {
	// SaveGroupWithMembers persists a newly detected group and flags its
	// member transactions as recurring within one database transaction.
	SaveGroupWithMembers(ctx context.Context, group domain.RecurringGroup, memberTransactionIDs []string) error

	// UpdateGroup updates an existing group's mutable fields.
	UpdateGroup(ctx context.Context, group domain.RecurringGroup) error
}

// RecurringRepositoryFacade combines all recurring-group repository interfaces
type RecurringRepositoryFacade interface {
	RecurringReader
	RecurringWriter
}
