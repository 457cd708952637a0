package services

import (
	"context"
	"errors"
)

// ErrAIUnavailable is returned by an AICompleter when the collaborator is
// unconfigured, rate limited out, or failed after retries. Callers must
// degrade gracefully; this error never propagates to users.
var ErrAIUnavailable = errors.New("ai collaborator unavailable")

// AICompleter is the narrow contract to the external model service. The core
// must function correctly, in degraded mode, when Complete always fails.
type AICompleter interface {
	Complete(ctx context.Context, prompt string, systemPrompt string) (string, error)
}

// EnrichmentSvcFacade covers the AI-backed enrichment paths. Both operations
// are best effort: on collaborator failure they leave fields unset and return
// nil so background jobs do not retry forever.
type EnrichmentSvcFacade interface {
	// CategoriseTransactions assigns categories and normalized merchant
	// names to the given transactions.
	CategoriseTransactions(ctx context.Context, userID string, transactionIDs []string) error

	// EnrichCancellations fills cancellation instructions on
	// subscription-type groups.
	EnrichCancellations(ctx context.Context, userID string, groupIDs []string) error
}
