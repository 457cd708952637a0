package services

import (
	"context"

	"github.com/SscSPs/statement_ledger_app/internal/core/domain"
	"github.com/SscSPs/statement_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
)

// RecurringDetectorSvc infers recurring-payment patterns from history.
type RecurringDetectorSvc interface {
	// DetectRecurring clusters the user's transactions by merchant and
	// materializes recurring groups for consistent patterns. When
	// transactionIDs is empty the user's full history is analysed.
	// Re-running detection never duplicates existing groups.
	DetectRecurring(ctx context.Context, userID string, transactionIDs []string) ([]domain.RecurringGroup, error)
}

// RecurringManagerSvc exposes user-facing recurring-group management.
type RecurringManagerSvc interface {
	ListGroups(ctx context.Context, userID string) ([]domain.RecurringGroup, error)
	GetGroupByID(ctx context.Context, userID string, groupID string) (*domain.RecurringGroup, error)
	UpdateGroup(ctx context.Context, userID string, groupID string, req dto.UpdateSubscriptionRequest) (*domain.RecurringGroup, error)

	// DismissGroup marks a group cancelled.
	DismissGroup(ctx context.Context, userID string, groupID string) (*domain.RecurringGroup, error)

	// MonthlyTotal sums active groups normalized to a monthly equivalent.
	MonthlyTotal(ctx context.Context, userID string) (decimal.Decimal, error)
}

// RecurringSvcFacade combines detection and management.
type RecurringSvcFacade interface {
	RecurringDetectorSvc
	RecurringManagerSvc
}
