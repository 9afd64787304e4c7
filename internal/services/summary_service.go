package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "spentra/internal/errors"
	"spentra/internal/models"
)

// summaryService computes dashboard aggregates.
type summaryService struct {
	db *gorm.DB
}

// NewSummaryService creates a new SummaryServicer.
func NewSummaryService(db *gorm.DB) SummaryServicer {
	return &summaryService{db: db}
}

// GetFinancialSummary returns the user's income total, expense total, and
// the balance between them.
func (s *summaryService) GetFinancialSummary(userID string) (*FinancialSummary, error) {
	income, err := s.sumByType(userID, models.TransactionTypeIncome)
	if err != nil {
		return nil, err
	}
	expenses, err := s.sumByType(userID, models.TransactionTypeExpense)
	if err != nil {
		return nil, err
	}

	return &FinancialSummary{
		TotalIncome:   income,
		TotalExpenses: expenses,
		Balance:       income.Sub(expenses),
	}, nil
}

func (s *summaryService) sumByType(userID string, transactionType models.TransactionType) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND type = ?", userID, transactionType).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}
