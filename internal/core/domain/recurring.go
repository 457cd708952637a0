package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringType classifies what kind of recurring payment a group represents.
type RecurringType string

const (
	RecurringSubscription  RecurringType = "subscription"
	RecurringDirectDebit   RecurringType = "direct_debit"
	RecurringStandingOrder RecurringType = "standing_order"
	RecurringSalary        RecurringType = "salary"
)

// Frequency is the inferred cadence of a recurring group.
type Frequency string

const (
	Weekly    Frequency = "weekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Annual    Frequency = "annual"
)

// RecurringStatus tracks the user-visible state of a recurring group.
type RecurringStatus string

const (
	RecurringActive    RecurringStatus = "active"
	RecurringPaused    RecurringStatus = "paused"
	RecurringCancelled RecurringStatus = "cancelled"
	RecurringUncertain RecurringStatus = "uncertain"
)

// RecurringGroup is a detected recurring-payment pattern for a user.
// At most one group exists per (user, merchant name); re-detection must not
// create duplicates. Cancellation metadata is filled by the enrichment
// collaborator, never by the detector itself.
type RecurringGroup struct {
	GroupID          string          `json:"groupID"` // Primary Key (UUID)
	UserID           string          `json:"userID"`
	Name             string          `json:"name"`
	Type             RecurringType   `json:"type"`
	Frequency        Frequency       `json:"frequency"`
	EstimatedAmount  decimal.Decimal `json:"estimatedAmount"` // Mean absolute member amount
	Status           RecurringStatus `json:"status"`
	CategoryID       string          `json:"categoryID"` // Nullable FK
	MerchantName     string          `json:"merchantName"`
	NextExpectedDate *time.Time      `json:"nextExpectedDate"`
	CancelURL        string          `json:"cancelURL"`
	CancelSteps      string          `json:"cancelSteps"`
	AuditFields
}

// nextDateOffsets is the fixed day offset applied per frequency class when
// predicting the next expected payment. This is a deliberate approximation:
// 30 days for monthly drifts against true calendar months over many cycles.
var nextDateOffsets = map[Frequency]int{
	Weekly:    7,
	Monthly:   30,
	Quarterly: 91,
	Annual:    365,
}

// NextExpectedAfter predicts the next payment date following lastDate.
func (f Frequency) NextExpectedAfter(lastDate time.Time) time.Time {
	days, ok := nextDateOffsets[f]
	if !ok {
		days = 30
	}
	return lastDate.AddDate(0, 0, days)
}

// MonthlyEquivalent normalizes the group's estimated amount to a monthly
// figure: weekly scales by 52/12, quarterly divides by 3, annual by 12.
func (g RecurringGroup) MonthlyEquivalent() decimal.Decimal {
	amount := g.EstimatedAmount
	switch g.Frequency {
	case Weekly:
		return amount.Mul(decimal.NewFromInt(52)).Div(decimal.NewFromInt(12))
	case Monthly:
		return amount
	case Quarterly:
		return amount.Div(decimal.NewFromInt(3))
	case Annual:
		return amount.Div(decimal.NewFromInt(12))
	}
	return decimal.Zero
}
