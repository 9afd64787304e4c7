package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "spentra/internal/errors"
	"spentra/internal/logger"
	"spentra/internal/models"
	"spentra/internal/realtime"
)

var (
	lowBalanceRatio   = decimal.New(1, -1) // 0.1: alert when at most 10% of the budget is left
	largeExpenseRatio = decimal.New(2, -1) // 0.2: alert when one expense exceeds 20% of the budget
	oneHundred        = decimal.NewFromInt(100)
)

// alertService evaluates budget alerts after an expense transaction has
// been persisted. It is called explicitly by the transaction-create
// handler, never through a persistence hook.
type alertService struct {
	db        *gorm.DB
	publisher realtime.Publisher
}

// NewAlertService creates a new AlertServicer.
func NewAlertService(db *gorm.DB, publisher realtime.Publisher) AlertServicer {
	return &alertService{db: db, publisher: publisher}
}

// notificationPayload is the message pushed over the real-time channel.
type notificationPayload struct {
	Type    models.NotificationType `json:"type"`
	Title   string                  `json:"title"`
	Message string                  `json:"message"`
	ID      string                  `json:"id"`
}

// EvaluateBudgetAlerts runs the budget-threshold rule and the large-expense
// rule for the user who just recorded an expense of triggeringAmount.
// It returns whether any notification was created; callers use the flag for
// observability only.
//
// A user without a budget is a valid, silent state: both rules no-op.
// The expense total is recomputed from the transactions table on every
// evaluation. Concurrent expense inserts for the same user can race the
// sum-then-compare sequence and double- or miss-fire; that is an accepted
// limitation. Qualifying triggers are never deduplicated.
func (s *alertService) EvaluateBudgetAlerts(userID string, triggeringAmount decimal.Decimal) (bool, error) {
	var budget models.Budget
	if err := s.db.Where("user_id = ?", userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	emitted := false

	// Budget-threshold rule: exceeded wins over low-balance.
	total, err := sumExpenses(s.db, userID)
	if err != nil {
		return false, err
	}
	remaining := budget.MonthlyBudget.Sub(total)

	switch {
	case remaining.IsNegative():
		if err := s.emit(userID, models.NotificationBudgetExceeded,
			"Budget Exceeded",
			fmt.Sprintf("You have exceeded your monthly budget of %s. Total expenses are now %s.",
				budget.MonthlyBudget.StringFixed(2), total.StringFixed(2)),
		); err != nil {
			return emitted, err
		}
		emitted = true
	case remaining.LessThanOrEqual(budget.MonthlyBudget.Mul(lowBalanceRatio)):
		if err := s.emit(userID, models.NotificationLowBalance,
			"Low Balance Warning",
			fmt.Sprintf("Only %s of your monthly budget remains.", remaining.StringFixed(2)),
		); err != nil {
			return emitted, err
		}
		emitted = true
	}

	// Large-expense rule, evaluated independently of the threshold rule.
	if triggeringAmount.GreaterThan(budget.MonthlyBudget.Mul(largeExpenseRatio)) {
		percent := triggeringAmount.Div(budget.MonthlyBudget).Mul(oneHundred).IntPart()
		if err := s.emit(userID, models.NotificationLargeExpense,
			"Large Expense",
			fmt.Sprintf("You spent %s in a single transaction, which is %d%% of your monthly budget.",
				triggeringAmount.StringFixed(2), percent),
		); err != nil {
			return emitted, err
		}
		emitted = true
	}

	return emitted, nil
}

// emit inserts the notification record and forwards it to the user's
// real-time channel. The insert error propagates; the publish is
// fire-and-forget and can never fail the evaluation.
func (s *alertService) emit(userID string, notificationType models.NotificationType, title, message string) error {
	notification := &models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: message,
		IsRead:  false,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.publisher.Publish(realtime.NotificationTopic(userID), notificationPayload{
		Type:    notification.Type,
		Title:   notification.Title,
		Message: notification.Message,
		ID:      notification.ID,
	})

	logger.Get().Infow("budget alert emitted",
		"user_id", userID,
		"type", notificationType,
		"notification_id", notification.ID,
	)
	return nil
}
