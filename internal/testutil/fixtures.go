package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"spentra/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category for the user.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction of the given type and amount.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, txType models.TransactionType, amount string) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID: userID,
		Type:   txType,
		Amount: decimal.RequireFromString(amount),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a monthly budget for the user.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, monthlyBudget string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:        userID,
		MonthlyBudget: decimal.RequireFromString(monthlyBudget),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestNotification creates a notification of the given type.
func CreateTestNotification(t *testing.T, db *gorm.DB, userID string, notificationType models.NotificationType) *models.Notification {
	t.Helper()

	notification := &models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   fmt.Sprintf("Test Notification %d", nextID()),
		Message: "test message",
	}
	if err := db.Create(notification).Error; err != nil {
		t.Fatalf("failed to create test notification: %v", err)
	}
	return notification
}

// CreateTestPayment creates a pending payment record.
func CreateTestPayment(t *testing.T, db *gorm.DB, userID string, gateway models.PaymentGateway, amount string) *models.Payment {
	t.Helper()

	payment := &models.Payment{
		UserID:      userID,
		Gateway:     gateway,
		Amount:      decimal.RequireFromString(amount),
		Currency:    "USD",
		Status:      models.PaymentStatusPending,
		ProviderRef: fmt.Sprintf("ref-%d", nextID()),
	}
	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("failed to create test payment: %v", err)
	}
	return payment
}
