package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/statement_ledger_app/internal/apperrors"
	"github.com/SscSPs/statement_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/statement_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/statement_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/statement_ledger_app/internal/jobs"
	"github.com/SscSPs/statement_ledger_app/internal/statements"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// providerProfile maps a statement dialect to the account it implies.
type providerProfile struct {
	provider    string
	accountType domain.AccountType
}

var providerProfiles = map[statements.Format]providerProfile{
	statements.FormatAmex:     {provider: "Amex", accountType: domain.CreditCard},
	statements.FormatHSBC:     {provider: "HSBC", accountType: domain.Current},
	statements.FormatMonzo:    {provider: "Monzo", accountType: domain.Current},
	statements.FormatStarling: {provider: "Starling", accountType: domain.Current},
}

// ingestionService runs the statement ingestion pipeline: dialect detection,
// parsing, account resolution, deduplication and atomic persistence, then
// fire-and-forget enrichment dispatch.
type ingestionService struct {
	BaseService
	accountRepo     portsrepo.AccountRepositoryFacade
	transactionRepo portsrepo.TransactionRepositoryFacade
	importRepo      portsrepo.ImportRepositoryFacade
	publisher       jobs.Publisher
	jobMaxAttempts  int
}

// NewIngestionService creates a new ingestion service. publisher may be nil;
// enrichment and detection jobs are then skipped entirely.
func NewIngestionService(
	accountRepo portsrepo.AccountRepositoryFacade,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	importRepo portsrepo.ImportRepositoryFacade,
	publisher jobs.Publisher,
	jobMaxAttempts int,
) portssvc.IngestionSvcFacade {
	if jobMaxAttempts <= 0 {
		jobMaxAttempts = 3
	}
	return &ingestionService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		importRepo:      importRepo,
		publisher:       publisher,
		jobMaxAttempts:  jobMaxAttempts,
	}
}

// ProcessStatement ingests one uploaded statement file for a user.
//
// Uploads rejected before account resolution (unknown dialect, zero parseable
// rows) leave no persistent state. A persistence failure rolls the batch back
// and records an error-status import so the attempt shows up in history.
func (s *ingestionService) ProcessStatement(ctx context.Context, userID string, filename string, content []byte) (*portssvc.IngestionResult, error) {
	decoded := statements.DecodeUpload(content)

	format := statements.DetectFormat(filename, decoded)
	if format == statements.FormatUnknown {
		s.LogInfo(ctx, "Rejected upload with unrecognized format", slog.String("filename", filename))
		return nil, apperrors.ErrUnrecognizedFormat
	}

	rows, err := statements.Parse(format, decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s statement: %w", format, err)
	}
	if len(rows) == 0 {
		s.LogInfo(ctx, "Rejected upload with no parseable rows",
			slog.String("filename", filename), slog.String("format", string(format)))
		return nil, apperrors.ErrEmptyStatement
	}

	account, err := s.resolveAccount(ctx, userID, format)
	if err != nil {
		return nil, err
	}

	// Snapshot of existing identity hashes, loaded once per upload. A row
	// committed by a concurrent upload after this point is caught by the
	// unique index inside SaveImportBatch instead.
	existing, err := s.transactionRepo.ListIdentityHashes(ctx, account.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load duplicate hashes: %w", err)
	}

	now := time.Now()
	importID := uuid.NewString()

	newTxns := make([]domain.Transaction, 0, len(rows))
	duplicates := 0
	seenInBatch := make(map[string]struct{}, len(rows))
	var rangeStart, rangeEnd *time.Time
	var balanceObs *domain.BalanceObservation

	for _, row := range rows {
		hash := domain.IdentityHash(account.AccountID, row.Date, row.Amount, row.Description)
		if _, dup := existing[hash]; dup {
			duplicates++
			continue
		}
		if _, dup := seenInBatch[hash]; dup {
			duplicates++
			continue
		}
		seenInBatch[hash] = struct{}{}

		// Latest running balance among accepted rows only. Duplicates were
		// reconciled when they first arrived; a re-upload of known rows must
		// not issue another balance write.
		if row.BalanceAfter != nil && (balanceObs == nil || !row.Date.Before(balanceObs.Date)) {
			balanceObs = &domain.BalanceObservation{Date: row.Date, Balance: *row.BalanceAfter}
		}

		rowDate := row.Date
		if rangeStart == nil || rowDate.Before(*rangeStart) {
			d := rowDate
			rangeStart = &d
		}
		if rangeEnd == nil || rowDate.After(*rangeEnd) {
			d := rowDate
			rangeEnd = &d
		}

		newTxns = append(newTxns, domain.Transaction{
			TransactionID: uuid.NewString(),
			AccountID:     account.AccountID,
			Date:          row.Date,
			Description:   row.Description,
			Amount:        row.Amount,
			BalanceAfter:  row.BalanceAfter,
			MerchantName:  row.MerchantName,
			ImportID:      importID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		})
	}

	imp := domain.Import{
		ImportID:          importID,
		UserID:            userID,
		AccountID:         account.AccountID,
		Filename:          filename,
		FileType:          "csv",
		RowCount:          len(newTxns),
		DuplicatesSkipped: duplicates,
		DateRangeStart:    rangeStart,
		DateRangeEnd:      rangeEnd,
		Status:            domain.ImportCompleted,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.importRepo.SaveImportBatch(ctx, imp, newTxns, balanceObs); err != nil {
		s.LogError(ctx, err, "Failed to persist import batch",
			slog.String("import_id", importID), slog.String("account_id", account.AccountID))
		s.recordFailedImport(ctx, imp, err)
		return nil, fmt.Errorf("failed to persist import batch: %w", err)
	}

	s.LogInfo(ctx, "Statement ingested",
		slog.String("import_id", importID),
		slog.String("account_id", account.AccountID),
		slog.String("format", string(format)),
		slog.Int("new_rows", len(newTxns)),
		slog.Int("duplicates_skipped", duplicates))

	newIDs := make([]string, 0, len(newTxns))
	for i := range newTxns {
		newIDs = append(newIDs, newTxns[i].TransactionID)
	}

	s.dispatchFollowups(ctx, userID, newIDs)

	return &portssvc.IngestionResult{Import: &imp, NewTransactionIDs: newIDs}, nil
}

// resolveAccount finds the user's active account for the detected provider,
// creating one on first sight of that provider.
func (s *ingestionService) resolveAccount(ctx context.Context, userID string, format statements.Format) (*domain.Account, error) {
	profile, ok := providerProfiles[format]
	if !ok {
		return nil, apperrors.ErrUnrecognizedFormat
	}

	account, err := s.accountRepo.FindActiveAccountByProvider(ctx, userID, profile.provider)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve account for provider %s: %w", profile.provider, err)
	}

	now := time.Now()
	created := domain.Account{
		AccountID:      uuid.NewString(),
		UserID:         userID,
		Name:           profile.provider + " Account",
		AccountType:    profile.accountType,
		Provider:       profile.provider,
		CurrencyCode:   "GBP",
		CurrentBalance: decimal.Zero,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.accountRepo.SaveAccount(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to create account for provider %s: %w", profile.provider, err)
	}

	s.LogInfo(ctx, "Created account for new provider",
		slog.String("account_id", created.AccountID), slog.String("provider", profile.provider))
	return &created, nil
}

// recordFailedImport writes an error-status import record after the batch was
// rolled back. Best effort; a failure here is logged and swallowed because
// the caller already carries the primary error.
func (s *ingestionService) recordFailedImport(ctx context.Context, imp domain.Import, cause error) {
	imp.Status = domain.ImportError
	imp.ErrorMessage = cause.Error()
	imp.RowCount = 0
	imp.DateRangeStart = nil
	imp.DateRangeEnd = nil
	if err := s.importRepo.SaveImport(ctx, imp); err != nil {
		s.LogError(ctx, err, "Failed to record error import", slog.String("import_id", imp.ImportID))
	}
}

// dispatchFollowups enqueues categorisation and recurring detection for the
// freshly imported rows. Enqueue failures are logged, never surfaced: the
// import already committed.
func (s *ingestionService) dispatchFollowups(ctx context.Context, userID string, newIDs []string) {
	if s.publisher == nil || len(newIDs) == 0 {
		return
	}

	now := time.Now()
	followups := []*jobs.Job{
		{
			JobID:          uuid.NewString(),
			Type:           jobs.TypeCategoriseTransactions,
			UserID:         userID,
			TransactionIDs: newIDs,
			Status:         jobs.StatusPending,
			CreatedAt:      now,
			MaxAttempts:    s.jobMaxAttempts,
		},
		{
			JobID:          uuid.NewString(),
			Type:           jobs.TypeDetectRecurring,
			UserID:         userID,
			TransactionIDs: newIDs,
			Status:         jobs.StatusPending,
			CreatedAt:      now,
			MaxAttempts:    s.jobMaxAttempts,
		},
	}
	for _, job := range followups {
		if err := s.publisher.Publish(ctx, job); err != nil {
			s.LogError(ctx, err, "Failed to enqueue followup job",
				slog.String("job_type", string(job.Type)), slog.String("user_id", userID))
		}
	}
}

// GetImportByID retrieves one import record scoped to the user.
func (s *ingestionService) GetImportByID(ctx context.Context, userID string, importID string) (*domain.Import, error) {
	imp, err := s.importRepo.FindImportByID(ctx, userID, importID)
	if err != nil {
		return nil, fmt.Errorf("failed to get import %s: %w", importID, err)
	}
	return imp, nil
}

// ListImports retrieves the user's import history, newest first.
func (s *ingestionService) ListImports(ctx context.Context, userID string) ([]domain.Import, error) {
	imports, err := s.importRepo.ListImportsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}
	if imports == nil {
		return []domain.Import{}, nil
	}
	return imports, nil
}
