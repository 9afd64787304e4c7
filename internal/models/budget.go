package models

import "github.com/shopspring/decimal"

// Budget represents a user's monthly spending ceiling.
// A user has at most one budget row; set/update use upsert semantics.
type Budget struct {
	Base
	UserID        string          `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	MonthlyBudget decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"monthly_budget"`
}
