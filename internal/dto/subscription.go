package dto

import (
	"time"

	"github.com/SscSPs/statement_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpdateSubscriptionRequest defines the data allowed for updating a recurring group.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateSubscriptionRequest struct {
	Name       *string `json:"name"`
	Status     *string `json:"status" binding:"omitempty,oneof=active paused cancelled uncertain"`
	CategoryID *string `json:"categoryID"`
}

// DetectRequest triggers recurring detection, optionally limited to a
// specific transaction set.
type DetectRequest struct {
	TransactionIDs []string `json:"transactionIDs"`
}

// SubscriptionResponse defines the data returned for a recurring group.
type SubscriptionResponse struct {
	GroupID          string          `json:"groupID"`
	Name             string          `json:"name"`
	Type             string          `json:"type"`
	Frequency        string          `json:"frequency"`
	EstimatedAmount  decimal.Decimal `json:"estimatedAmount"`
	Status           string          `json:"status"`
	CategoryID       string          `json:"categoryID,omitempty"`
	MerchantName     string          `json:"merchantName"`
	NextExpectedDate *time.Time      `json:"nextExpectedDate,omitempty"`
	CancelURL        string          `json:"cancelURL,omitempty"`
	CancelSteps      string          `json:"cancelSteps,omitempty"`
}

// MonthlyTotalResponse is the normalized monthly cost of active groups.
type MonthlyTotalResponse struct {
	MonthlyTotal decimal.Decimal `json:"monthlyTotal"`
}

// ToSubscriptionResponse converts a domain.RecurringGroup to SubscriptionResponse DTO
func ToSubscriptionResponse(g *domain.RecurringGroup) SubscriptionResponse {
	return SubscriptionResponse{
		GroupID:          g.GroupID,
		Name:             g.Name,
		Type:             string(g.Type),
		Frequency:        string(g.Frequency),
		EstimatedAmount:  g.EstimatedAmount,
		Status:           string(g.Status),
		CategoryID:       g.CategoryID,
		MerchantName:     g.MerchantName,
		NextExpectedDate: g.NextExpectedDate,
		CancelURL:        g.CancelURL,
		CancelSteps:      g.CancelSteps,
	}
}

// ToSubscriptionResponses converts a slice of recurring groups.
func ToSubscriptionResponses(groups []domain.RecurringGroup) []SubscriptionResponse {
	out := make([]SubscriptionResponse, 0, len(groups))
	for i := range groups {
		out = append(out, ToSubscriptionResponse(&groups[i]))
	}
	return out
}
