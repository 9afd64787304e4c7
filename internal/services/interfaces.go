package services

import (
	"time"

	"github.com/shopspring/decimal"

	"spentra/internal/models"
	"spentra/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	UpdateProfile(userID, firstName, lastName, email string) (*models.User, error)
	ChangePassword(userID, oldPassword, newPassword string) error
	ResetPassword(userID, newPassword string) error
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// OTPServicer defines the contract for the password-reset OTP flow.
type OTPServicer interface {
	RequestReset(email string) error
	VerifyOTP(email, code string) error
	ConsumeVerifiedOTP(email, code string) (*models.User, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name, description string) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID, name, description string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *string
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, categoryID *string, transactionType models.TransactionType, amount decimal.Decimal, description string) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, categoryID *string, transactionType *models.TransactionType, amount *decimal.Decimal, description *string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// BudgetAnalysis reports spending against the user's monthly budget.
type BudgetAnalysis struct {
	MonthlyBudget decimal.Decimal `json:"monthly_budget"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Remaining     decimal.Decimal `json:"remaining"`
	PercentUsed   decimal.Decimal `json:"percent_used"`
}

// BudgetServicer defines the contract for budget-related business logic.
// A user has at most one budget; SetBudget upserts it.
type BudgetServicer interface {
	SetBudget(userID string, monthlyBudget decimal.Decimal) (*models.Budget, error)
	GetBudget(userID string) (*models.Budget, error)
	GetBudgetAnalysis(userID string) (*BudgetAnalysis, error)
}

// NotificationServicer defines the contract for notification retrieval and
// read-state management. Creation happens only through the alert evaluator.
type NotificationServicer interface {
	GetUserNotifications(userID string, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error)
	UnreadCount(userID string) (int64, error)
	MarkRead(userID, notificationID string) error
	MarkAllRead(userID string) error
}

// AlertServicer evaluates budget alerts after an expense is recorded.
type AlertServicer interface {
	EvaluateBudgetAlerts(userID string, triggeringAmount decimal.Decimal) (bool, error)
}

// FinancialSummary aggregates a user's totals for the dashboard.
type FinancialSummary struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Balance       decimal.Decimal `json:"balance"`
}

// SummaryServicer defines the contract for dashboard aggregation.
type SummaryServicer interface {
	GetFinancialSummary(userID string) (*FinancialSummary, error)
}

// PaymentServicer defines the contract for payment-gateway operations.
type PaymentServicer interface {
	CreateStripePayment(userID string, amount decimal.Decimal, currency string) (*models.Payment, string, error)
	ConfirmStripePayment(userID, paymentID string) (*models.Payment, error)
	InitiateEsewaPayment(userID string, amount decimal.Decimal) (*models.Payment, string, map[string]string, error)
	VerifyEsewaPayment(transactionUUID string) (*models.Payment, error)
	GetUserPayments(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Payment], error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
