package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/statement_ledger_app/internal/apperrors"
	"github.com/SscSPs/statement_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/statement_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/statement_ledger_app/internal/core/services"
	"github.com/SscSPs/statement_ledger_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RecurringServiceTestSuite struct {
	suite.Suite
	mockRecurringRepo *MockRecurringRepository
	mockTxnRepo       *MockTransactionRepository
	service           portssvc.RecurringSvcFacade

	ctx    context.Context
	userID string
}

func (suite *RecurringServiceTestSuite) SetupTest() {
	suite.mockRecurringRepo = new(MockRecurringRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.service = services.NewRecurringService(suite.mockRecurringRepo, suite.mockTxnRepo)

	suite.ctx = context.Background()
	suite.userID = uuid.NewString()
}

// monthlySeries builds n payments for one merchant, one per month, with the
// given amounts cycling through the series.
func monthlySeries(merchant string, start time.Time, amounts ...float64) []domain.Transaction {
	txns := make([]domain.Transaction, 0, len(amounts))
	for i, amt := range amounts {
		txns = append(txns, domain.Transaction{
			TransactionID: uuid.NewString(),
			Date:          start.AddDate(0, i, 0),
			Description:   merchant,
			MerchantName:  merchant,
			Amount:        decimal.NewFromFloat(amt),
		})
	}
	return txns
}

func (suite *RecurringServiceTestSuite) TestDetectRecurring_MonthlySubscription() {
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	history := monthlySeries("Netflix", start, -9.99, -9.99, -9.99)

	suite.mockTxnRepo.On("ListTransactionsByUser", suite.ctx, suite.userID).
		Return(history, nil).Once()
	suite.mockRecurringRepo.On("FindGroupByMerchant", suite.ctx, suite.userID, "netflix").
		Return(nil, apperrors.ErrNotFound).Once()

	var savedMembers []string
	suite.mockRecurringRepo.On("SaveGroupWithMembers", suite.ctx, mock.MatchedBy(func(g domain.RecurringGroup) bool {
		return g.Type == domain.RecurringSubscription &&
			g.Frequency == domain.Monthly &&
			g.Status == domain.RecurringActive &&
			g.MerchantName == "netflix" &&
			g.EstimatedAmount.Equal(decimal.NewFromFloat(9.99))
	}), mock.Anything).Run(func(args mock.Arguments) {
		savedMembers = args.Get(2).([]string)
	}).Return(nil).Once()

	groups, err := suite.service.DetectRecurring(suite.ctx, suite.userID, nil)

	assert.NoError(suite.T(), err)
	if assert.Len(suite.T(), groups, 1) {
		lastPayment := start.AddDate(0, 2, 0)
		assert.Equal(suite.T(), lastPayment.AddDate(0, 0, 30), *groups[0].NextExpectedDate)
	}
	assert.Len(suite.T(), savedMembers, 3)
}

func (suite *RecurringServiceTestSuite) TestDetectRecurring_TooFewMembers() {
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	history := monthlySeries("Netflix", start, -9.99, -9.99)

	suite.mockTxnRepo.On("ListTransactionsByUser", suite.ctx, suite.userID).
		Return(history, nil).Once()

	groups, err := suite.service.DetectRecurring(suite.ctx, suite.userID, nil)

	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), groups)
	suite.mockRecurringRepo.AssertNotCalled(suite.T(), "SaveGroupWithMembers", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RecurringServiceTestSuite) TestDetectRecurring_InconsistentAmounts() {
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	// Grocery-style spending: same merchant, wildly different amounts.
	history := monthlySeries("Tesco", start, -45.67, -102.30, -12.05)

	suite.mockTxnRepo.On("ListTransactionsByUser", suite.ctx, suite.userID).
		Return(history, nil).Once()
	suite.mockRecurringRepo.On("FindGroupByMerchant", suite.ctx, suite.userID, "tesco").
		Return(nil, apperrors.ErrNotFound).Once()

	groups, err := suite.service.DetectRecurring(suite.ctx, suite.userID, nil)

	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), groups)
	suite.mockRecurringRepo.AssertNotCalled(suite.T(), "SaveGroupWithMembers", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RecurringServiceTestSuite) TestDetectRecurring_SmallAmountsUseAbsoluteTolerance() {
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	// 10% of the mean is pennies here; the 1.00 floor keeps these together.
	history := monthlySeries("App Store", start, -2.49, -2.99, -3.49)

	suite.mockTxnRepo.On("ListTransactionsByUser", suite.ctx, suite.userID).
		Return(history, nil).Once()
	suite.mockRecurringRepo.On("FindGroupByMerchant", suite.ctx, suite.userID, "app store").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRecurringRepo.On("SaveGroupWithMembers", suite.ctx, mock.Anything, mock.Anything).
		Return(nil).Once()

	groups, err := suite.service.DetectRecurring(suite.ctx, suite.userID, nil)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), groups, 1)
}

func (suite *RecurringServiceTestSuite) TestDetectRecurring_IdempotentOnRerun() {
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	history := monthlySeries("Netflix", start, -9.99, -9.99, -9.99)
	existing := &domain.RecurringGroup{GroupID: uuid.NewString(), MerchantName: "netflix"}

	suite.mockTxnRepo.On("ListTransactionsByUser", suite.ctx, suite.userID).
		Return(history, nil).Once()
	suite.mockRecurringRepo.On("FindGroupByMerchant", suite.ctx, suite.userID, "netflix").
		Return(existing, nil).Once()

	groups, err := suite.service.DetectRecurring(suite.ctx, suite.userID, nil)

	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), groups)
	suite.mockRecurringRepo.AssertNotCalled(suite.T(), "SaveGroupWithMembers", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RecurringServiceTestSuite) TestDetectRecurring_ClassifiesSalaryAndDirectDebit() {
	start := time.Date(2026, 1, 25, 0, 0, 0, 0, time.UTC)
	history := append(
		monthlySeries("ACME Payroll Salary", start, 2500.00, 2500.00, 2500.00),
		monthlySeries("Thames Water", start.AddDate(0, 0, 3), -32.50, -32.50, -32.50)...,
	)

	suite.mockTxnRepo.On("ListTransactionsByUser", suite.ctx, suite.userID).
		Return(history, nil).Once()
	suite.mockRecurringRepo.On("FindGroupByMerchant", suite.ctx, suite.userID, mock.Anything).
		Return(nil, apperrors.ErrNotFound).Twice()

	var types []domain.RecurringType
	suite.mockRecurringRepo.On("SaveGroupWithMembers", suite.ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			types = append(types, args.Get(1).(domain.RecurringGroup).Type)
		}).Return(nil).Twice()

	groups, err := suite.service.DetectRecurring(suite.ctx, suite.userID, nil)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), groups, 2)
	assert.Contains(suite.T(), types, domain.RecurringSalary)
	assert.Contains(suite.T(), types, domain.RecurringDirectDebit)
}

func (suite *RecurringServiceTestSuite) TestDetectRecurring_HintRestrictsToTouchedMerchants() {
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	netflix := monthlySeries("Netflix", start, -9.99, -9.99, -9.99)
	spotify := monthlySeries("Spotify", start.AddDate(0, 0, 2), -11.99, -11.99, -11.99)
	history := append(append([]domain.Transaction{}, netflix...), spotify...)
	hint := []string{netflix[2].TransactionID}

	suite.mockTxnRepo.On("ListTransactionsByUser", suite.ctx, suite.userID).
		Return(history, nil).Once()
	suite.mockTxnRepo.On("FindTransactionsByIDs", suite.ctx, suite.userID, hint).
		Return([]domain.Transaction{netflix[2]}, nil).Once()
	suite.mockRecurringRepo.On("FindGroupByMerchant", suite.ctx, suite.userID, "netflix").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRecurringRepo.On("SaveGroupWithMembers", suite.ctx, mock.Anything, mock.Anything).
		Return(nil).Once()

	groups, err := suite.service.DetectRecurring(suite.ctx, suite.userID, hint)

	assert.NoError(suite.T(), err)
	if assert.Len(suite.T(), groups, 1) {
		assert.Equal(suite.T(), "netflix", groups[0].MerchantName)
	}
	suite.mockRecurringRepo.AssertNotCalled(suite.T(), "FindGroupByMerchant", suite.ctx, suite.userID, "spotify")
}

func (suite *RecurringServiceTestSuite) TestDetectRecurring_WeeklyCadence() {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	txns := make([]domain.Transaction, 0, 4)
	for i := 0; i < 4; i++ {
		txns = append(txns, domain.Transaction{
			TransactionID: uuid.NewString(),
			Date:          start.AddDate(0, 0, i*7),
			Description:   "Gym Class",
			MerchantName:  "Gym Class",
			Amount:        decimal.NewFromFloat(-15.00),
		})
	}

	suite.mockTxnRepo.On("ListTransactionsByUser", suite.ctx, suite.userID).
		Return(txns, nil).Once()
	suite.mockRecurringRepo.On("FindGroupByMerchant", suite.ctx, suite.userID, "gym class").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRecurringRepo.On("SaveGroupWithMembers", suite.ctx, mock.MatchedBy(func(g domain.RecurringGroup) bool {
		return g.Frequency == domain.Weekly
	}), mock.Anything).Return(nil).Once()

	groups, err := suite.service.DetectRecurring(suite.ctx, suite.userID, nil)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), groups, 1)
	suite.mockRecurringRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestDetectRecurring_SameDayChargeBreaksCadence() {
	// Two charges on day one, then two monthly ones: gaps 0/30/30 average to
	// 20 days, which no cadence band covers.
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	dates := []time.Time{start, start, start.AddDate(0, 0, 30), start.AddDate(0, 0, 60)}
	history := make([]domain.Transaction, 0, len(dates))
	for _, d := range dates {
		history = append(history, domain.Transaction{
			TransactionID: uuid.NewString(),
			Date:          d,
			Description:   "GymX",
			MerchantName:  "GymX",
			Amount:        decimal.NewFromFloat(-25.00),
		})
	}

	suite.mockTxnRepo.On("ListTransactionsByUser", suite.ctx, suite.userID).
		Return(history, nil).Once()
	suite.mockRecurringRepo.On("FindGroupByMerchant", suite.ctx, suite.userID, "gymx").
		Return(nil, apperrors.ErrNotFound).Once()

	groups, err := suite.service.DetectRecurring(suite.ctx, suite.userID, nil)

	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), groups)
	suite.mockRecurringRepo.AssertNotCalled(suite.T(), "SaveGroupWithMembers", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RecurringServiceTestSuite) TestDetectRecurring_ZeroAmountsRejected() {
	// Card-verification pings: perfectly regular, worth nothing.
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	history := monthlySeries("Card Check", start, 0.00, 0.00, 0.00)

	suite.mockTxnRepo.On("ListTransactionsByUser", suite.ctx, suite.userID).
		Return(history, nil).Once()
	suite.mockRecurringRepo.On("FindGroupByMerchant", suite.ctx, suite.userID, "card check").
		Return(nil, apperrors.ErrNotFound).Once()

	groups, err := suite.service.DetectRecurring(suite.ctx, suite.userID, nil)

	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), groups)
	suite.mockRecurringRepo.AssertNotCalled(suite.T(), "SaveGroupWithMembers", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RecurringServiceTestSuite) TestDetectRecurring_NamesGroupFromEarliestMember() {
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	// Same merchant key, different casing over time; the earliest spelling
	// names the group.
	history := []domain.Transaction{
		{TransactionID: uuid.NewString(), Date: start, MerchantName: "NETFLIX", Amount: decimal.NewFromFloat(-9.99)},
		{TransactionID: uuid.NewString(), Date: start.AddDate(0, 1, 0), MerchantName: "Netflix", Amount: decimal.NewFromFloat(-9.99)},
		{TransactionID: uuid.NewString(), Date: start.AddDate(0, 2, 0), MerchantName: "Netflix", Amount: decimal.NewFromFloat(-9.99)},
	}

	suite.mockTxnRepo.On("ListTransactionsByUser", suite.ctx, suite.userID).
		Return(history, nil).Once()
	suite.mockRecurringRepo.On("FindGroupByMerchant", suite.ctx, suite.userID, "netflix").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRecurringRepo.On("SaveGroupWithMembers", suite.ctx, mock.Anything, mock.Anything).
		Return(nil).Once()

	groups, err := suite.service.DetectRecurring(suite.ctx, suite.userID, nil)

	assert.NoError(suite.T(), err)
	if assert.Len(suite.T(), groups, 1) {
		assert.Equal(suite.T(), "NETFLIX", groups[0].Name)
	}
}

func (suite *RecurringServiceTestSuite) TestDetectRecurring_FailedMerchantDoesNotSinkScan() {
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	netflix := monthlySeries("Netflix", start, -9.99, -9.99, -9.99)
	spotify := monthlySeries("Spotify", start.AddDate(0, 0, 2), -11.99, -11.99, -11.99)
	history := append(append([]domain.Transaction{}, netflix...), spotify...)

	suite.mockTxnRepo.On("ListTransactionsByUser", suite.ctx, suite.userID).
		Return(history, nil).Once()
	suite.mockRecurringRepo.On("FindGroupByMerchant", suite.ctx, suite.userID, mock.Anything).
		Return(nil, apperrors.ErrNotFound).Twice()
	suite.mockRecurringRepo.On("SaveGroupWithMembers", suite.ctx, mock.MatchedBy(func(g domain.RecurringGroup) bool {
		return g.MerchantName == "netflix"
	}), mock.Anything).Return(assert.AnError).Once()
	suite.mockRecurringRepo.On("SaveGroupWithMembers", suite.ctx, mock.MatchedBy(func(g domain.RecurringGroup) bool {
		return g.MerchantName == "spotify"
	}), mock.Anything).Return(nil).Once()

	groups, err := suite.service.DetectRecurring(suite.ctx, suite.userID, nil)

	assert.NoError(suite.T(), err)
	if assert.Len(suite.T(), groups, 1) {
		assert.Equal(suite.T(), "spotify", groups[0].MerchantName)
	}
	suite.mockRecurringRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestUpdateGroup_PartialUpdate() {
	groupID := uuid.NewString()
	group := &domain.RecurringGroup{
		GroupID:      groupID,
		UserID:       suite.userID,
		Name:         "Netflix",
		Status:       domain.RecurringActive,
		MerchantName: "netflix",
	}

	suite.mockRecurringRepo.On("FindGroupByID", suite.ctx, suite.userID, groupID).
		Return(group, nil).Once()
	suite.mockRecurringRepo.On("UpdateGroup", suite.ctx, mock.MatchedBy(func(g domain.RecurringGroup) bool {
		return g.Status == domain.RecurringPaused && g.Name == "Netflix"
	})).Return(nil).Once()

	paused := string(domain.RecurringPaused)
	updated, err := suite.service.UpdateGroup(suite.ctx, suite.userID, groupID, dto.UpdateSubscriptionRequest{Status: &paused})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.RecurringPaused, updated.Status)
	assert.Equal(suite.T(), "Netflix", updated.Name)
}

func (suite *RecurringServiceTestSuite) TestUpdateGroup_RejectsEmptyName() {
	groupID := uuid.NewString()
	group := &domain.RecurringGroup{GroupID: groupID, UserID: suite.userID, Name: "Netflix"}

	suite.mockRecurringRepo.On("FindGroupByID", suite.ctx, suite.userID, groupID).
		Return(group, nil).Once()

	empty := "  "
	_, err := suite.service.UpdateGroup(suite.ctx, suite.userID, groupID, dto.UpdateSubscriptionRequest{Name: &empty})

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockRecurringRepo.AssertNotCalled(suite.T(), "UpdateGroup", mock.Anything, mock.Anything)
}

func (suite *RecurringServiceTestSuite) TestDismissGroup() {
	groupID := uuid.NewString()
	group := &domain.RecurringGroup{GroupID: groupID, UserID: suite.userID, Status: domain.RecurringActive}

	suite.mockRecurringRepo.On("FindGroupByID", suite.ctx, suite.userID, groupID).
		Return(group, nil).Once()
	suite.mockRecurringRepo.On("UpdateGroup", suite.ctx, mock.MatchedBy(func(g domain.RecurringGroup) bool {
		return g.Status == domain.RecurringCancelled
	})).Return(nil).Once()

	dismissed, err := suite.service.DismissGroup(suite.ctx, suite.userID, groupID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.RecurringCancelled, dismissed.Status)
}

func (suite *RecurringServiceTestSuite) TestMonthlyTotal_SkipsInactiveGroups() {
	groups := []domain.RecurringGroup{
		{Status: domain.RecurringActive, Frequency: domain.Monthly, EstimatedAmount: decimal.NewFromFloat(9.99)},
		{Status: domain.RecurringActive, Frequency: domain.Annual, EstimatedAmount: decimal.NewFromInt(120)},
		{Status: domain.RecurringCancelled, Frequency: domain.Monthly, EstimatedAmount: decimal.NewFromInt(50)},
	}

	suite.mockRecurringRepo.On("ListGroupsByUser", suite.ctx, suite.userID).
		Return(groups, nil).Once()

	total, err := suite.service.MonthlyTotal(suite.ctx, suite.userID)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), total.Equal(decimal.NewFromFloat(19.99)),
		"9.99 + 120/12 should be 19.99, got %s", total)
}

func TestRecurringService(t *testing.T) {
	suite.Run(t, new(RecurringServiceTestSuite))
}
