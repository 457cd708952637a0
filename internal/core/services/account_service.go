package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/statement_ledger_app/internal/apperrors"
	"github.com/SscSPs/statement_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/statement_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/statement_ledger_app/internal/core/ports/services"
)

// accountService provides read access to accounts. Accounts are created by
// the ingestion pipeline when a statement from a new provider arrives, so
// there is no create path here.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

// GetAccountByID retrieves an account and verifies ownership.
func (s *accountService) GetAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", accountID, err)
	}
	if account.UserID != userID {
		// Do not reveal that the account exists for another user.
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// ListAccounts retrieves all accounts belonging to the user.
func (s *accountService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}
