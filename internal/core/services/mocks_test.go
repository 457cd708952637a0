package services_test

import (
	"context"

	"github.com/SscSPs/statement_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/statement_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/statement_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/statement_ledger_app/internal/jobs"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindActiveAccountByProvider(ctx context.Context, userID string, provider string) (*domain.Account, error) {
	args := m.Called(ctx, userID, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) ListIdentityHashes(ctx context.Context, accountID string) (map[string]struct{}, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionsByIDs(ctx context.Context, userID string, transactionIDs []string) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID, transactionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ApplyCategorisation(ctx context.Context, userID string, assignments []domain.CategoryAssignment) error {
	args := m.Called(ctx, userID, assignments)
	return args.Error(0)
}

// --- Mock ImportRepository ---
type MockImportRepository struct {
	mock.Mock
}

var _ portsrepo.ImportRepositoryFacade = (*MockImportRepository)(nil)

func (m *MockImportRepository) FindImportByID(ctx context.Context, userID string, importID string) (*domain.Import, error) {
	args := m.Called(ctx, userID, importID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Import), args.Error(1)
}

func (m *MockImportRepository) ListImportsByUser(ctx context.Context, userID string) ([]domain.Import, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Import), args.Error(1)
}

func (m *MockImportRepository) SaveImportBatch(ctx context.Context, imp domain.Import, transactions []domain.Transaction, balance *domain.BalanceObservation) error {
	args := m.Called(ctx, imp, transactions, balance)
	return args.Error(0)
}

func (m *MockImportRepository) SaveImport(ctx context.Context, imp domain.Import) error {
	args := m.Called(ctx, imp)
	return args.Error(0)
}

// --- Mock RecurringRepository ---
type MockRecurringRepository struct {
	mock.Mock
}

var _ portsrepo.RecurringRepositoryFacade = (*MockRecurringRepository)(nil)

func (m *MockRecurringRepository) FindGroupByID(ctx context.Context, userID string, groupID string) (*domain.RecurringGroup, error) {
	args := m.Called(ctx, userID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringGroup), args.Error(1)
}

func (m *MockRecurringRepository) FindGroupByMerchant(ctx context.Context, userID string, merchantName string) (*domain.RecurringGroup, error) {
	args := m.Called(ctx, userID, merchantName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringGroup), args.Error(1)
}

func (m *MockRecurringRepository) ListGroupsByUser(ctx context.Context, userID string) ([]domain.RecurringGroup, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringGroup), args.Error(1)
}

func (m *MockRecurringRepository) SaveGroupWithMembers(ctx context.Context, group domain.RecurringGroup, memberTransactionIDs []string) error {
	args := m.Called(ctx, group, memberTransactionIDs)
	return args.Error(0)
}

func (m *MockRecurringRepository) UpdateGroup(ctx context.Context, group domain.RecurringGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

// --- Mock CategoryRepository ---
type MockCategoryRepository struct {
	mock.Mock
}

var _ portsrepo.CategoryReader = (*MockCategoryRepository)(nil)

func (m *MockCategoryRepository) ListCategories(ctx context.Context, userID string) ([]portsrepo.Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.Category), args.Error(1)
}

// --- Mock AICompleter ---
type MockCompleter struct {
	mock.Mock
}

var _ portssvc.AICompleter = (*MockCompleter)(nil)

func (m *MockCompleter) Complete(ctx context.Context, prompt string, systemPrompt string) (string, error) {
	args := m.Called(ctx, prompt, systemPrompt)
	return args.String(0), args.Error(1)
}

// --- Mock job Publisher ---
type MockPublisher struct {
	mock.Mock
}

var _ jobs.Publisher = (*MockPublisher)(nil)

func (m *MockPublisher) Publish(ctx context.Context, job *jobs.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
