package services

import (
	"context"

	"github.com/SscSPs/statement_ledger_app/internal/core/domain"
)

// IngestionResult summarizes one processed statement upload.
type IngestionResult struct {
	Import            *domain.Import
	NewTransactionIDs []string
}

// StatementIngestor runs the statement ingestion pipeline end to end.
type StatementIngestor interface {
	// ProcessStatement detects the dialect, parses the rows, resolves the
	// account, deduplicates, and persists the batch atomically. It returns
	// apperrors.ErrUnrecognizedFormat or apperrors.ErrEmptyStatement for
	// rejected uploads; those leave no persistent state behind.
	ProcessStatement(ctx context.Context, userID string, filename string, content []byte) (*IngestionResult, error)
}

// ImportReaderSvc exposes a user's import history.
type ImportReaderSvc interface {
	GetImportByID(ctx context.Context, userID string, importID string) (*domain.Import, error)
	ListImports(ctx context.Context, userID string) ([]domain.Import, error)
}

// IngestionSvcFacade combines statement processing and import history access.
type IngestionSvcFacade interface {
	StatementIngestor
	ImportReaderSvc
}
