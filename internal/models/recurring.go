package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringGroup represents a detected recurring-payment pattern row.
type RecurringGroup struct {
	GroupID          string          `db:"group_id"`
	UserID           string          `db:"user_id"`
	Name             string          `db:"name"`
	Type             string          `db:"type"`
	Frequency        string          `db:"frequency"`
	EstimatedAmount  decimal.Decimal `db:"estimated_amount"`
	Status           string          `db:"status"`
	CategoryID       string          `db:"category_id"` // Nullable
	MerchantName     string          `db:"merchant_name"`
	NextExpectedDate *time.Time      `db:"next_expected_date"` // Nullable
	CancelURL        string          `db:"cancel_url"`         // Nullable
	CancelSteps      string          `db:"cancel_steps"`       // Nullable
	AuditFields
}
