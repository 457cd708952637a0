package services

import (
	portsrepo "github.com/SscSPs/statement_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/statement_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/statement_ledger_app/internal/jobs"
	"github.com/SscSPs/statement_ledger_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// completer and publisher may be nil; the affected services then run in
// degraded or synchronous-only mode.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	completer portssvc.AICompleter,
	publisher jobs.Publisher,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)

	container.Ingestion = NewIngestionService(
		repos.AccountRepo,
		repos.TransactionRepo,
		repos.ImportRepo,
		publisher,
		cfg.JobMaxAttempts,
	)

	container.Recurring = NewRecurringService(repos.RecurringRepo, repos.TransactionRepo)

	container.Enrichment = NewEnrichmentService(
		completer,
		repos.TransactionRepo,
		repos.RecurringRepo,
		repos.CategoryRepo,
		EnrichmentConfig{
			CategoriseBatchSize: cfg.CategoriseBatchSize,
			CancellationBatch:   cfg.CancellationBatch,
			CacheSize:           cfg.EnrichmentCacheSize,
			CacheTTL:            cfg.EnrichmentCacheTTL,
			MinCachedConfidence: cfg.MinCachedConfidence,
		},
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade    = (*accountService)(nil)
	_ portssvc.IngestionSvcFacade  = (*ingestionService)(nil)
	_ portssvc.RecurringSvcFacade  = (*recurringService)(nil)
	_ portssvc.EnrichmentSvcFacade = (*enrichmentService)(nil)
)
