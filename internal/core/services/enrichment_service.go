package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/statement_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/statement_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/statement_ledger_app/internal/core/ports/services"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shopspring/decimal"
)

const categoriseSystemPrompt = `You are a bank transaction categoriser. You receive a JSON array of transactions and a list of allowed category names. Respond with a JSON array only, no prose. Each element: {"transactionID": string, "category": string, "merchantName": string, "confidence": number between 0 and 1}. The category must be one of the allowed names. merchantName is the cleaned-up merchant behind the raw description.`

const cancellationSystemPrompt = `You help people cancel subscriptions. You receive a JSON array of subscription merchants. Respond with a JSON array only, no prose. Each element: {"merchantName": string, "cancelURL": string, "cancelSteps": string}. cancelSteps is a short numbered list in plain text. Use an empty string when you do not know.`

// categoryResult is a cached categorisation for one merchant key.
type categoryResult struct {
	CategoryID   string
	MerchantName string
	Confidence   float64
}

// cancelResult is a cached cancellation lookup for one merchant key.
type cancelResult struct {
	CancelURL   string
	CancelSteps string
}

// EnrichmentConfig carries the tuning knobs for the enrichment service.
type EnrichmentConfig struct {
	CategoriseBatchSize int
	CancellationBatch   int
	CacheSize           int
	CacheTTL            time.Duration
	MinCachedConfidence float64
}

// enrichmentService runs the AI-backed enrichment paths: transaction
// categorisation and subscription cancellation instructions. Both are best
// effort; when the collaborator is down the service applies whatever its
// caches already know and reports success.
type enrichmentService struct {
	BaseService
	completer       portssvc.AICompleter
	transactionRepo portsrepo.TransactionRepositoryFacade
	recurringRepo   portsrepo.RecurringRepositoryFacade
	categoryRepo    portsrepo.CategoryReader

	categoryCache *expirable.LRU[string, categoryResult]
	cancelCache   *expirable.LRU[string, cancelResult]
	cfg           EnrichmentConfig
}

// NewEnrichmentService creates a new enrichment service. completer may be
// nil; every call then runs in degraded mode.
func NewEnrichmentService(
	completer portssvc.AICompleter,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	recurringRepo portsrepo.RecurringRepositoryFacade,
	categoryRepo portsrepo.CategoryReader,
	cfg EnrichmentConfig,
) portssvc.EnrichmentSvcFacade {
	if cfg.CategoriseBatchSize <= 0 {
		cfg.CategoriseBatchSize = 30
	}
	if cfg.CancellationBatch <= 0 {
		cfg.CancellationBatch = 20
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 2048
	}
	if cfg.MinCachedConfidence <= 0 {
		cfg.MinCachedConfidence = 0.9
	}
	return &enrichmentService{
		completer:       completer,
		transactionRepo: transactionRepo,
		recurringRepo:   recurringRepo,
		categoryRepo:    categoryRepo,
		categoryCache:   expirable.NewLRU[string, categoryResult](cfg.CacheSize, nil, cfg.CacheTTL),
		cancelCache:     expirable.NewLRU[string, cancelResult](cfg.CacheSize, nil, cfg.CacheTTL),
		cfg:             cfg,
	}
}

// CategoriseTransactions assigns categories and normalized merchant names to
// the given transactions, serving repeat merchants from cache and batching
// the rest through the collaborator.
func (s *enrichmentService) CategoriseTransactions(ctx context.Context, userID string, transactionIDs []string) error {
	if len(transactionIDs) == 0 {
		return nil
	}

	txns, err := s.transactionRepo.FindTransactionsByIDs(ctx, userID, transactionIDs)
	if err != nil {
		return fmt.Errorf("failed to load transactions for categorisation: %w", err)
	}
	if len(txns) == 0 {
		return nil
	}

	categories, err := s.categoryRepo.ListCategories(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	categoryByName := make(map[string]string, len(categories))
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		categoryByName[strings.ToLower(c.Name)] = c.CategoryID
		names = append(names, c.Name)
	}

	assignments := make([]domain.CategoryAssignment, 0, len(txns))
	uncached := make([]domain.Transaction, 0, len(txns))
	for i := range txns {
		if hit, ok := s.categoryCache.Get(txns[i].MerchantKey()); ok {
			assignments = append(assignments, domain.CategoryAssignment{
				TransactionID: txns[i].TransactionID,
				CategoryID:    hit.CategoryID,
				Confidence:    hit.Confidence,
				MerchantName:  hit.MerchantName,
			})
			continue
		}
		uncached = append(uncached, txns[i])
	}

	degraded := false
	for start := 0; start < len(uncached) && !degraded; start += s.cfg.CategoriseBatchSize {
		end := min(start+s.cfg.CategoriseBatchSize, len(uncached))
		batch := uncached[start:end]

		results, err := s.categoriseBatch(ctx, batch, names)
		if err != nil {
			if errors.Is(err, portssvc.ErrAIUnavailable) {
				s.LogWarn(ctx, "Categorisation degraded, collaborator unavailable",
					slog.Int("skipped", len(uncached)-start))
				degraded = true
				continue
			}
			return err
		}

		for _, r := range results {
			categoryID := categoryByName[strings.ToLower(r.Category)]
			assignments = append(assignments, domain.CategoryAssignment{
				TransactionID: r.TransactionID,
				CategoryID:    categoryID,
				Confidence:    r.Confidence,
				MerchantName:  r.MerchantName,
			})
			if r.Confidence >= s.cfg.MinCachedConfidence {
				if key := merchantKeyForID(batch, r.TransactionID); key != "" {
					s.categoryCache.Add(key, categoryResult{
						CategoryID:   categoryID,
						MerchantName: r.MerchantName,
						Confidence:   r.Confidence,
					})
				}
			}
		}
	}

	if len(assignments) == 0 {
		return nil
	}
	if err := s.transactionRepo.ApplyCategorisation(ctx, userID, assignments); err != nil {
		return fmt.Errorf("failed to apply categorisation: %w", err)
	}

	s.LogInfo(ctx, "Categorised transactions",
		slog.Int("assigned", len(assignments)), slog.Bool("degraded", degraded))
	return nil
}

type categoriseReply struct {
	TransactionID string  `json:"transactionID"`
	Category      string  `json:"category"`
	MerchantName  string  `json:"merchantName"`
	Confidence    float64 `json:"confidence"`
}

func (s *enrichmentService) categoriseBatch(ctx context.Context, batch []domain.Transaction, categoryNames []string) ([]categoriseReply, error) {
	if s.completer == nil {
		return nil, portssvc.ErrAIUnavailable
	}

	type promptTxn struct {
		TransactionID string          `json:"transactionID"`
		Description   string          `json:"description"`
		Amount        decimal.Decimal `json:"amount"`
	}
	promptTxns := make([]promptTxn, 0, len(batch))
	for i := range batch {
		promptTxns = append(promptTxns, promptTxn{
			TransactionID: batch[i].TransactionID,
			Description:   batch[i].Description,
			Amount:        batch[i].Amount,
		})
	}
	payload, err := json.Marshal(map[string]any{
		"categories":   categoryNames,
		"transactions": promptTxns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build categorisation prompt: %w", err)
	}

	raw, err := s.completer.Complete(ctx, string(payload), categoriseSystemPrompt)
	if err != nil {
		return nil, err
	}

	var replies []categoriseReply
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &replies); err != nil {
		return nil, fmt.Errorf("%w: unparseable categorisation reply: %v", portssvc.ErrAIUnavailable, err)
	}
	return replies, nil
}

// EnrichCancellations fills cancellation instructions on subscription-type
// groups. Groups of other types and groups already enriched are skipped.
func (s *enrichmentService) EnrichCancellations(ctx context.Context, userID string, groupIDs []string) error {
	pending := make([]*domain.RecurringGroup, 0, len(groupIDs))
	for _, groupID := range groupIDs {
		group, err := s.recurringRepo.FindGroupByID(ctx, userID, groupID)
		if err != nil {
			s.LogWarn(ctx, "Skipping missing group during cancellation enrichment",
				slog.String("group_id", groupID), slog.String("error", err.Error()))
			continue
		}
		if group.Type != domain.RecurringSubscription || group.CancelSteps != "" {
			continue
		}
		if hit, ok := s.cancelCache.Get(group.MerchantName); ok {
			if err := s.applyCancellation(ctx, group, hit); err != nil {
				return err
			}
			continue
		}
		pending = append(pending, group)
	}

	for start := 0; start < len(pending); start += s.cfg.CancellationBatch {
		end := min(start+s.cfg.CancellationBatch, len(pending))
		batch := pending[start:end]

		results, err := s.cancellationBatch(ctx, batch)
		if err != nil {
			if errors.Is(err, portssvc.ErrAIUnavailable) {
				s.LogWarn(ctx, "Cancellation enrichment degraded, collaborator unavailable",
					slog.Int("skipped", len(pending)-start))
				return nil
			}
			return err
		}

		byMerchant := make(map[string]cancelResult, len(results))
		for _, r := range results {
			byMerchant[strings.ToLower(strings.TrimSpace(r.MerchantName))] = cancelResult{
				CancelURL:   r.CancelURL,
				CancelSteps: r.CancelSteps,
			}
		}
		for _, group := range batch {
			result, ok := byMerchant[group.MerchantName]
			if !ok || result.CancelSteps == "" {
				continue
			}
			s.cancelCache.Add(group.MerchantName, result)
			if err := s.applyCancellation(ctx, group, result); err != nil {
				return err
			}
		}
	}
	return nil
}

type cancellationReply struct {
	MerchantName string `json:"merchantName"`
	CancelURL    string `json:"cancelURL"`
	CancelSteps  string `json:"cancelSteps"`
}

func (s *enrichmentService) cancellationBatch(ctx context.Context, batch []*domain.RecurringGroup) ([]cancellationReply, error) {
	if s.completer == nil {
		return nil, portssvc.ErrAIUnavailable
	}

	merchants := make([]map[string]string, 0, len(batch))
	for _, group := range batch {
		merchants = append(merchants, map[string]string{
			"merchantName": group.MerchantName,
			"displayName":  group.Name,
		})
	}
	payload, err := json.Marshal(map[string]any{"subscriptions": merchants})
	if err != nil {
		return nil, fmt.Errorf("failed to build cancellation prompt: %w", err)
	}

	raw, err := s.completer.Complete(ctx, string(payload), cancellationSystemPrompt)
	if err != nil {
		return nil, err
	}

	var replies []cancellationReply
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &replies); err != nil {
		return nil, fmt.Errorf("%w: unparseable cancellation reply: %v", portssvc.ErrAIUnavailable, err)
	}
	return replies, nil
}

func (s *enrichmentService) applyCancellation(ctx context.Context, group *domain.RecurringGroup, result cancelResult) error {
	group.CancelURL = result.CancelURL
	group.CancelSteps = result.CancelSteps
	group.LastUpdatedAt = time.Now()
	if err := s.recurringRepo.UpdateGroup(ctx, *group); err != nil {
		return fmt.Errorf("failed to save cancellation details for group %s: %w", group.GroupID, err)
	}
	return nil
}

// merchantKeyForID finds the merchant key of the batch member the reply
// refers to. The collaborator echoes IDs back; an unknown ID is dropped.
func merchantKeyForID(batch []domain.Transaction, transactionID string) string {
	for i := range batch {
		if batch[i].TransactionID == transactionID {
			return batch[i].MerchantKey()
		}
	}
	return ""
}

// stripCodeFences removes a markdown code fence the model sometimes wraps
// JSON replies in.
func stripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
