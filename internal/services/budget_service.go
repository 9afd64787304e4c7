package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "spentra/internal/errors"
	"spentra/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// SetBudget creates or replaces the user's monthly budget.
func (s *budgetService) SetBudget(userID string, monthlyBudget decimal.Decimal) (*models.Budget, error) {
	if !monthlyBudget.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly budget must be greater than zero")
	}

	var budget models.Budget
	err := s.db.Where("user_id = ?", userID).First(&budget).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		budget = models.Budget{
			UserID:        userID,
			MonthlyBudget: monthlyBudget,
		}
		if err := s.db.Create(&budget).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &budget, nil
	}

	budget.MonthlyBudget = monthlyBudget
	if err := s.db.Model(&budget).Update("monthly_budget", monthlyBudget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetBudget returns the user's budget, or ErrBudgetNotFound if none is set.
func (s *budgetService) GetBudget(userID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("user_id = ?", userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetBudgetAnalysis reports total expenses against the monthly budget.
// The expense total is recomputed from the transactions table on every
// call rather than kept as a running counter.
func (s *budgetService) GetBudgetAnalysis(userID string) (*BudgetAnalysis, error) {
	budget, err := s.GetBudget(userID)
	if err != nil {
		return nil, err
	}

	total, err := sumExpenses(s.db, userID)
	if err != nil {
		return nil, err
	}

	remaining := budget.MonthlyBudget.Sub(total)
	percentUsed := decimal.Zero
	if budget.MonthlyBudget.IsPositive() {
		percentUsed = total.Div(budget.MonthlyBudget).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return &BudgetAnalysis{
		MonthlyBudget: budget.MonthlyBudget,
		TotalExpenses: total,
		Remaining:     remaining,
		PercentUsed:   percentUsed,
	}, nil
}

// sumExpenses returns the sum of all expense-type transaction amounts for
// the user.
func sumExpenses(db *gorm.DB, userID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND type = ?", userID, models.TransactionTypeExpense).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}
