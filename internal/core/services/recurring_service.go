package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/statement_ledger_app/internal/apperrors"
	"github.com/SscSPs/statement_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/statement_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/statement_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/statement_ledger_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// minClusterSize is the smallest merchant cluster worth classifying.
const minClusterSize = 3

// gapBand is an inclusive day-gap range mapped to a payment cadence.
type gapBand struct {
	min, max  float64
	frequency domain.Frequency
}

// Bands are checked in order; gaps falling between bands mean the cadence is
// too irregular to classify.
var gapBands = []gapBand{
	{min: 5, max: 9, frequency: domain.Weekly},
	{min: 25, max: 35, frequency: domain.Monthly},
	{min: 80, max: 100, frequency: domain.Quarterly},
	{min: 350, max: 380, frequency: domain.Annual},
}

var salaryKeywords = []string{"salary", "wages", "pay"}
var directDebitKeywords = []string{"council", "water", "electric", "gas"}

// recurringService detects recurring-payment patterns in transaction history
// and manages the resulting groups.
type recurringService struct {
	BaseService
	recurringRepo   portsrepo.RecurringRepositoryFacade
	transactionRepo portsrepo.TransactionRepositoryFacade
}

// NewRecurringService creates a new recurring detection and management service.
func NewRecurringService(
	recurringRepo portsrepo.RecurringRepositoryFacade,
	transactionRepo portsrepo.TransactionRepositoryFacade,
) portssvc.RecurringSvcFacade {
	return &recurringService{
		recurringRepo:   recurringRepo,
		transactionRepo: transactionRepo,
	}
}

// DetectRecurring clusters the user's history by merchant and materializes a
// group for every cluster showing a consistent amount and cadence. Merchants
// that already have a group are skipped, so re-running detection is
// idempotent. When transactionIDs is non-empty only the merchants touched by
// those transactions are re-analysed.
func (s *recurringService) DetectRecurring(ctx context.Context, userID string, transactionIDs []string) ([]domain.RecurringGroup, error) {
	history, err := s.transactionRepo.ListTransactionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction history: %w", err)
	}

	var merchantFilter map[string]struct{}
	if len(transactionIDs) > 0 {
		touched, err := s.transactionRepo.FindTransactionsByIDs(ctx, userID, transactionIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load detection hint transactions: %w", err)
		}
		merchantFilter = make(map[string]struct{}, len(touched))
		for i := range touched {
			merchantFilter[touched[i].MerchantKey()] = struct{}{}
		}
	}

	clusters := make(map[string][]domain.Transaction)
	for i := range history {
		key := history[i].MerchantKey()
		if key == "" {
			continue
		}
		if merchantFilter != nil {
			if _, ok := merchantFilter[key]; !ok {
				continue
			}
		}
		clusters[key] = append(clusters[key], history[i])
	}

	created := make([]domain.RecurringGroup, 0)
	now := time.Now()

	for merchantKey, members := range clusters {
		if len(members) < minClusterSize {
			continue
		}

		existing, err := s.recurringRepo.FindGroupByMerchant(ctx, userID, merchantKey)
		if err == nil && existing != nil {
			s.LogDebug(ctx, "Skipping merchant with existing group",
				slog.String("merchant", merchantKey), slog.String("group_id", existing.GroupID))
			continue
		}
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			// One broken merchant must not sink the rest of the scan.
			s.LogError(ctx, err, "Failed to check existing group, skipping merchant",
				slog.String("merchant", merchantKey))
			continue
		}

		sort.Slice(members, func(i, j int) bool { return members[i].Date.Before(members[j].Date) })

		mean, ok := consistentMeanAmount(members)
		if !ok {
			continue
		}

		frequency, ok := classifyCadence(members)
		if !ok {
			continue
		}

		lastDate := members[len(members)-1].Date
		nextDate := frequency.NextExpectedAfter(lastDate)

		group := domain.RecurringGroup{
			GroupID:          uuid.NewString(),
			UserID:           userID,
			Name:             members[0].DisplayMerchant(),
			Type:             classifyType(merchantKey),
			Frequency:        frequency,
			EstimatedAmount:  mean.Round(2),
			Status:           domain.RecurringActive,
			MerchantName:     merchantKey,
			NextExpectedDate: &nextDate,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}

		memberIDs := make([]string, 0, len(members))
		for i := range members {
			memberIDs = append(memberIDs, members[i].TransactionID)
		}

		if err := s.recurringRepo.SaveGroupWithMembers(ctx, group, memberIDs); err != nil {
			s.LogError(ctx, err, "Failed to save recurring group, skipping merchant",
				slog.String("merchant", merchantKey))
			continue
		}

		s.LogInfo(ctx, "Detected recurring group",
			slog.String("group_id", group.GroupID),
			slog.String("merchant", merchantKey),
			slog.String("frequency", string(frequency)),
			slog.Int("members", len(members)))
		created = append(created, group)
	}

	return created, nil
}

// consistentMeanAmount returns the mean absolute amount of the cluster when
// every member falls within the amount tolerance: the larger of 10% of the
// mean and 1.00. A cluster with mixed amounts is not a recurring payment,
// and neither is one averaging zero (card-verification pings).
func consistentMeanAmount(members []domain.Transaction) (decimal.Decimal, bool) {
	sum := decimal.Zero
	for i := range members {
		sum = sum.Add(members[i].Amount.Abs())
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(members))))
	if mean.IsZero() {
		return decimal.Zero, false
	}

	tolerance := mean.Mul(decimal.NewFromFloat(0.1))
	floor := decimal.NewFromInt(1)
	if tolerance.LessThan(floor) {
		tolerance = floor
	}

	for i := range members {
		if members[i].Amount.Abs().Sub(mean).Abs().GreaterThan(tolerance) {
			return decimal.Zero, false
		}
	}
	return mean, true
}

// classifyCadence maps the mean gap between consecutive payments to a
// frequency class, or reports the cadence too irregular to classify. Every
// consecutive gap counts, zero-day gaps included: same-day double charges
// drag the average down and rightly disqualify the cluster.
func classifyCadence(members []domain.Transaction) (domain.Frequency, bool) {
	totalDays := 0.0
	gaps := 0
	for i := 1; i < len(members); i++ {
		totalDays += members[i].Date.Sub(members[i-1].Date).Hours() / 24
		gaps++
	}
	if gaps == 0 {
		return "", false
	}

	meanGap := totalDays / float64(gaps)
	for _, band := range gapBands {
		if meanGap >= band.min && meanGap <= band.max {
			return band.frequency, true
		}
	}
	return "", false
}

// classifyType infers what kind of recurring payment a merchant key implies.
// Salary keywords win over utility keywords; everything else defaults to a
// subscription.
func classifyType(merchantKey string) domain.RecurringType {
	for _, kw := range salaryKeywords {
		if strings.Contains(merchantKey, kw) {
			return domain.RecurringSalary
		}
	}
	for _, kw := range directDebitKeywords {
		if strings.Contains(merchantKey, kw) {
			return domain.RecurringDirectDebit
		}
	}
	return domain.RecurringSubscription
}

// ListGroups retrieves all of the user's recurring groups.
func (s *recurringService) ListGroups(ctx context.Context, userID string) ([]domain.RecurringGroup, error) {
	groups, err := s.recurringRepo.ListGroupsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring groups: %w", err)
	}
	if groups == nil {
		return []domain.RecurringGroup{}, nil
	}
	return groups, nil
}

// GetGroupByID retrieves one recurring group scoped to the user.
func (s *recurringService) GetGroupByID(ctx context.Context, userID string, groupID string) (*domain.RecurringGroup, error) {
	group, err := s.recurringRepo.FindGroupByID(ctx, userID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recurring group %s: %w", groupID, err)
	}
	return group, nil
}

// UpdateGroup applies the user's edits to a group. Only fields present in the
// request change.
func (s *recurringService) UpdateGroup(ctx context.Context, userID string, groupID string, req dto.UpdateSubscriptionRequest) (*domain.RecurringGroup, error) {
	group, err := s.recurringRepo.FindGroupByID(ctx, userID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recurring group %s: %w", groupID, err)
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidation)
		}
		group.Name = *req.Name
	}
	if req.Status != nil {
		group.Status = domain.RecurringStatus(*req.Status)
	}
	if req.CategoryID != nil {
		group.CategoryID = *req.CategoryID
	}
	group.LastUpdatedAt = time.Now()
	group.LastUpdatedBy = userID

	if err := s.recurringRepo.UpdateGroup(ctx, *group); err != nil {
		return nil, fmt.Errorf("failed to update recurring group %s: %w", groupID, err)
	}
	return group, nil
}

// DismissGroup marks a group cancelled. The group and its member flags are
// kept so the history remains explainable.
func (s *recurringService) DismissGroup(ctx context.Context, userID string, groupID string) (*domain.RecurringGroup, error) {
	cancelled := string(domain.RecurringCancelled)
	return s.UpdateGroup(ctx, userID, groupID, dto.UpdateSubscriptionRequest{Status: &cancelled})
}

// MonthlyTotal sums the user's active groups normalized to a monthly
// equivalent, rounded to two decimal places.
func (s *recurringService) MonthlyTotal(ctx context.Context, userID string) (decimal.Decimal, error) {
	groups, err := s.recurringRepo.ListGroupsByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list recurring groups: %w", err)
	}

	total := decimal.Zero
	for i := range groups {
		if groups[i].Status != domain.RecurringActive {
			continue
		}
		total = total.Add(groups[i].MonthlyEquivalent())
	}
	return total.Round(2), nil
}
