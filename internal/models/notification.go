package models

// NotificationType represents the kind of budget alert
type NotificationType string

const (
	NotificationBudgetExceeded NotificationType = "budget_exceeded"
	NotificationLowBalance     NotificationType = "low_balance"
	NotificationLargeExpense   NotificationType = "large_expense"
)

// Notification represents a budget alert delivered to a user. Rows are
// created only by the alert evaluator and mutated only by mark-read
// operations.
type Notification struct {
	Base
	UserID  string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Type    NotificationType `gorm:"not null" json:"type"`
	Title   string           `gorm:"not null" json:"title"`
	Message string           `gorm:"not null" json:"message"`
	IsRead  bool             `gorm:"default:false" json:"is_read"`
}
